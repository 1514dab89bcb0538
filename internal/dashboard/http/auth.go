package http

import (
	"net/http"

	"github.com/quantumsec/phishguard/internal/dashboard/service"
	"github.com/quantumsec/phishguard/pkg/httpx"
	"github.com/quantumsec/phishguard/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister godoc
//
//	@Summary		Register a new account
//	@Description	Creates a user account and returns it with a signed session token.
//	@Description	New accounts always start with the "user" role.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		registerRequest	true	"name, email, password"
//	@Success		201		{object}	SessionResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Missing field or email already registered"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	u, token, err := h.AuthService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, SessionResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Token: token,
	})
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Verifies email and password and returns the account with a fresh session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"email, password"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Missing field"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid email or password"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	u, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Token: token,
	})
}

// HandleMe godoc
//
//	@Summary		Current account
//	@Description	Returns the authenticated user's profile without credential material.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Not authorized. No token.")
		return
	}

	u, err := h.AuthService.GetUserByID(ctx, identity.UserID)
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to load user", "user_id", identity.UserID, "err", err)
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
