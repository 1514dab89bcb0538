package http

import (
	"net/http"
	"strconv"

	"github.com/quantumsec/phishguard/internal/dashboard/service"
	"github.com/quantumsec/phishguard/pkg/httpx"
)

type AdminHandler struct {
	AdminService *service.AdminService
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// HandleListUsers godoc
//
//	@Summary		List all accounts
//	@Description	Returns every user, newest first, without credential material. Admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		UserResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"Admin access required"
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/admin/users [get].
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.AdminService.ListUsers(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleListPredictions godoc
//
//	@Summary		List recent predictions across all users
//	@Description	Returns recent predictions with owner details, newest first. Admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Page size, default 100, max 500"
//	@Success		200		{array}		PredictionWithOwnerResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/admin/predictions [get].
func (h *AdminHandler) HandleListPredictions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Unparseable limits fall back to the default rather than erroring.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.AdminService.ListPredictions(ctx, limit)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]PredictionWithOwnerResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, toPredictionWithOwnerResponse(p))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAnalytics godoc
//
//	@Summary		Dashboard analytics
//	@Description	Aggregate counters plus the ten most recent predictions. Admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	AnalyticsResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/admin/analytics [get].
func (h *AdminHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	analytics, err := h.AdminService.GetAnalytics(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	recent := make([]PredictionWithOwnerResponse, 0, len(analytics.RecentActivity))
	for _, p := range analytics.RecentActivity {
		recent = append(recent, toPredictionWithOwnerResponse(p))
	}

	httpx.WriteJSON(w, http.StatusOK, AnalyticsResponse{
		TotalUsers:       analytics.TotalUsers,
		TotalPredictions: analytics.TotalPredictions,
		PhishingCount:    analytics.PhishingCount,
		LegitimateCount:  analytics.LegitimateCount,
		RecentActivity:   recent,
	})
}

// HandleSetRole godoc
//
//	@Summary		Change a user's role
//	@Description	Sets the target user's role to "user" or "admin" and returns the updated account.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"User id"
//	@Param			body	body		setRoleRequest	true	"role"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid role"
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse	"User not found"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/admin/users/{id} [patch].
func (h *AdminHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	updated, err := h.AdminService.SetUserRole(ctx, r.PathValue("id"), req.Role)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(updated))
}
