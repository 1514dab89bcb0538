package http

import (
	"net/http"

	"github.com/quantumsec/phishguard/internal/dashboard/service"
	"github.com/quantumsec/phishguard/pkg/httpx"
)

type PredictHandler struct {
	PredictionService *service.PredictionService
}

type predictRequest struct {
	URL string `json:"url"`
}

// HandlePredict godoc
//
//	@Summary		Classify a URL
//	@Description	Submits the URL to the classification service and records the verdict
//	@Description	under the authenticated user. The classifier's own error status is
//	@Description	forwarded when it rejects the input.
//	@Tags			Predictions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		predictRequest	true	"url"
//	@Success		200		{object}	PredictionResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"URL is required"
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		429		{object}	httpx.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	httpx.ErrorResponse	"Classifier unreachable or internal error"
//	@Router			/api/predict [post].
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Not authorized. No token.")
		return
	}

	var req predictRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	p, err := h.PredictionService.Predict(ctx, identity.UserID, req.URL)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPredictionResponse(p))
}

// HandleHistory godoc
//
//	@Summary		Recent predictions for the current user
//	@Description	Returns the authenticated user's predictions, newest first, capped at 100.
//	@Tags			Predictions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		PredictionResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/predict/history [get].
func (h *PredictHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Not authorized. No token.")
		return
	}

	history, err := h.PredictionService.History(ctx, identity.UserID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]PredictionResponse, 0, len(history))
	for _, p := range history {
		out = append(out, toPredictionResponse(p))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
