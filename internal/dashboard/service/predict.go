package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/classifier"
	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/pkg/idx"
	"github.com/quantumsec/phishguard/pkg/slogx"
)

// HistoryLimit caps how many of a user's past predictions one call returns.
const HistoryLimit = 100

// Classifier is the slice of classifier.Client the prediction service needs.
type Classifier interface {
	Classify(ctx context.Context, url string) (classifier.Verdict, error)
}

type PredictionService struct {
	Store      store.Store
	Classifier Classifier
}

// Predict runs url through the classifier, normalizes the verdict, and
// persists exactly one prediction row for userID. Classifier failures
// propagate unwrapped so the transport layer can map them; nothing is
// persisted in that case.
func (s *PredictionService) Predict(ctx context.Context, userID, rawURL string) (domain.Prediction, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return domain.Prediction{}, &ValidationError{Message: "URL is required."}
	}

	verdict, err := s.Classifier.Classify(ctx, url)
	if err != nil {
		return domain.Prediction{}, err
	}

	riskFactors := verdict.RiskFactors
	if riskFactors == nil {
		riskFactors = []string{}
	}

	p := domain.Prediction{
		ID:          idx.New().String(),
		UserID:      userID,
		InputURL:    url,
		Prediction:  domain.NormalizeLabel(verdict.Label),
		Confidence:  domain.ClampConfidence(verdict.Confidence),
		RiskFactors: riskFactors,
		Timestamp:   time.Now().UTC(),
	}

	if err := s.Store.Predictions().CreatePrediction(ctx, p); err != nil {
		return domain.Prediction{}, err
	}

	slogx.FromContext(ctx).Info("prediction stored",
		slog.String("prediction_id", p.ID),
		slog.String("label", p.Prediction),
	)

	return p, nil
}

// History returns the user's most recent predictions, newest first, capped at
// HistoryLimit.
func (s *PredictionService) History(ctx context.Context, userID string) ([]domain.Prediction, error) {
	return s.Store.Predictions().ListByUser(ctx, userID, HistoryLimit)
}
