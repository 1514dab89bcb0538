package http

import (
	"net/http"

	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/pkg/httpx"
	"github.com/quantumsec/phishguard/pkg/slogx"
)

// HealthResponse is the health probe payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Returns ok whenever the service is running. Database reachability is
//	@Description	probed and logged but never changes the response.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/api/health [get].
func HealthHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The probe contract is a bare liveness signal; a broken database
		// shows up in logs, not in the status code.
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("health check: database ping failed", "err", err)
		}
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
