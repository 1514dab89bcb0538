package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/classifier"
	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/internal/dashboard/service"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/pkg/httpx"
	"github.com/quantumsec/phishguard/pkg/slogx"
)

// UserResponse is a user row without credential material.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionResponse is returned by register and login: the account plus a
// freshly signed bearer token.
type SessionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type PredictionResponse struct {
	ID          string    `json:"id"`
	InputURL    string    `json:"inputUrl"`
	Prediction  string    `json:"prediction"`
	Confidence  float64   `json:"confidence"`
	RiskFactors []string  `json:"riskFactors"`
	Timestamp   time.Time `json:"timestamp"`
}

// PredictionWithOwnerResponse augments a prediction with its owner, for the
// admin listings.
type PredictionWithOwnerResponse struct {
	PredictionResponse

	User OwnerResponse `json:"user"`
}

type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AnalyticsResponse struct {
	TotalUsers       int64                         `json:"totalUsers"`
	TotalPredictions int64                         `json:"totalPredictions"`
	PhishingCount    int64                         `json:"phishingCount"`
	LegitimateCount  int64                         `json:"legitimateCount"`
	RecentActivity   []PredictionWithOwnerResponse `json:"recentActivity"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func toPredictionResponse(p domain.Prediction) PredictionResponse {
	riskFactors := p.RiskFactors
	if riskFactors == nil {
		riskFactors = []string{}
	}
	return PredictionResponse{
		ID:          p.ID,
		InputURL:    p.InputURL,
		Prediction:  p.Prediction,
		Confidence:  p.Confidence,
		RiskFactors: riskFactors,
		Timestamp:   p.Timestamp,
	}
}

func toPredictionWithOwnerResponse(p domain.PredictionWithOwner) PredictionWithOwnerResponse {
	return PredictionWithOwnerResponse{
		PredictionResponse: toPredictionResponse(p.Prediction),
		User: OwnerResponse{
			ID:    p.UserID,
			Name:  p.OwnerName,
			Email: p.OwnerEmail,
		},
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps a service or classifier failure onto the wire. Every
// error body is {"message": string}; internals never leak.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	log := slogx.FromContext(ctx)

	var verr *service.ValidationError
	var upstream *classifier.Error

	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusBadRequest, "Email already registered.")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User not found.")
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		httpx.WriteError(w, status, upstream.Message)
	case errors.Is(err, classifier.ErrUnavailable):
		log.Error("classifier unreachable", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"Prediction failed. Ensure ML service is running.")
	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error.")
	}
}
