package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/quantumsec/phishguard/internal/dashboard/domain"
)

type predictionsRepo struct {
	db *sql.DB
}

func (r *predictionsRepo) CreatePrediction(ctx context.Context, p domain.Prediction) error {
	factors, err := marshalRiskFactors(p.RiskFactors)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO predictions (id, user_id, input_url, prediction, confidence, risk_factors, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.InputURL, p.Prediction, p.Confidence, factors, p.Timestamp,
	)
	return err
}

func (r *predictionsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Prediction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, input_url, prediction, confidence, risk_factors, timestamp
		FROM predictions
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := []domain.Prediction{}
	for rows.Next() {
		var p domain.Prediction
		var factors string
		if err := rows.Scan(&p.ID, &p.UserID, &p.InputURL, &p.Prediction,
			&p.Confidence, &factors, &p.Timestamp); err != nil {
			return nil, err
		}
		if p.RiskFactors, err = unmarshalRiskFactors(factors); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *predictionsRepo) ListWithOwners(ctx context.Context, limit int) ([]domain.PredictionWithOwner, error) {
	// Owner fields come from a join rather than a per-row follow-up fetch.
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.input_url, p.prediction, p.confidence, p.risk_factors, p.timestamp,
		       u.name, u.email
		FROM predictions p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.timestamp DESC, p.id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := []domain.PredictionWithOwner{}
	for rows.Next() {
		var p domain.PredictionWithOwner
		var factors string
		if err := rows.Scan(&p.ID, &p.UserID, &p.InputURL, &p.Prediction.Prediction,
			&p.Confidence, &factors, &p.Timestamp, &p.OwnerName, &p.OwnerEmail); err != nil {
			return nil, err
		}
		if p.RiskFactors, err = unmarshalRiskFactors(factors); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *predictionsRepo) CountPredictions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count)
	return count, err
}

func (r *predictionsRepo) CountByLabel(ctx context.Context, label string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM predictions WHERE prediction = ?`, label).Scan(&count)
	return count, err
}

// Risk factors are free-form strings, so they are stored as a JSON array
// rather than the delimiter-joined text used for constrained vocabularies.
func marshalRiskFactors(factors []string) (string, error) {
	if factors == nil {
		factors = []string{}
	}
	raw, err := json.Marshal(factors)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalRiskFactors(raw string) ([]string, error) {
	factors := []string{}
	if raw == "" {
		return factors, nil
	}
	if err := json.Unmarshal([]byte(raw), &factors); err != nil {
		return nil, err
	}
	return factors, nil
}
