package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/internal/dashboard/service"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/pkg/httpx"
	"github.com/quantumsec/phishguard/pkg/jwtx"
	"github.com/quantumsec/phishguard/pkg/slogx"

	_ "github.com/quantumsec/phishguard/api/dashboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier jwtx.Verifier
	logger   *slog.Logger
	store    store.Store

	AuthService       *service.AuthService
	PredictionService *service.PredictionService
	AdminService      *service.AdminService
}

func NewRouter(
	verifier jwtx.Verifier,
	allowedOrigin string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:      http.NewServeMux(),
		verifier: verifier,
		logger:   logger,
		store:    st,
	}

	// Set default middleware chain. CORS runs outermost so preflights are
	// answered before anything else sees the request.
	r.middlewares = []httpx.Middleware{
		httpx.CORS(allowedOrigin),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPredict()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			PhishGuard Dashboard API
//	@version		0.1.0
//	@description	Web dashboard gateway for the phishing URL classification service.
//	@description	Accounts authenticate with JWT bearer tokens; predictions are proxied
//	@description	to the external ML classifier and persisted per user.
//
//	@contact.name				QuantumSec Team
//	@contact.url				https://github.com/quantumsec/phishguard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// resolveIdentity maps a verified token subject to the live user row. Tokens
// whose user has disappeared authenticate as nothing.
func (r *Router) resolveIdentity() httpx.IdentityResolver {
	return func(ctx context.Context, userID string) (httpx.Identity, error) {
		u, err := r.AuthService.GetUserByID(ctx, userID)
		if err != nil {
			return httpx.Identity{}, err
		}
		return httpx.Identity{UserID: u.ID, Role: u.Role}, nil
	}
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /api/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /api/auth/login", http.HandlerFunc(h.HandleLogin))

	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier, r.resolveIdentity()),
		),
	)
}

func (r *Router) registerPredict() {
	h := &PredictHandler{PredictionService: r.PredictionService}

	// Rate limiting sits outside authentication so unauthenticated floods
	// burn quota without touching the verifier or the database.
	r.Mux.Handle("POST /api/predict",
		httpx.Chain(http.HandlerFunc(h.HandlePredict),
			httpx.RateLimitByIP(httpx.ScanLimit),
			httpx.AuthnMiddleware(r.verifier, r.resolveIdentity()),
		),
	)

	r.Mux.Handle("GET /api/predict/history",
		httpx.Chain(http.HandlerFunc(h.HandleHistory),
			httpx.AuthnMiddleware(r.verifier, r.resolveIdentity()),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier, r.resolveIdentity()),
			httpx.RequireRole(domain.RoleAdmin),
		)
	}

	r.Mux.Handle("GET /api/admin/users", secured(h.HandleListUsers))
	r.Mux.Handle("GET /api/admin/predictions", secured(h.HandleListPredictions))
	r.Mux.Handle("GET /api/admin/analytics", secured(h.HandleAnalytics))
	r.Mux.Handle("PATCH /api/admin/users/{id}", secured(h.HandleSetRole))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /api/health", HealthHandler(r.store))
}
