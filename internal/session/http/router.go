package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhaven/quill/internal/session/service"
	"github.com/quillhaven/quill/internal/session/store"
	"github.com/quillhaven/quill/pkg/httpx"
	"github.com/quillhaven/quill/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TokenService   *service.TokenService
	AccountService *service.AccountService
	Federated      service.FederatedVerifier
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerIdentity()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints take strict limits by IP (brute force prevention).
	loginHandler := &LoginHandler{Accounts: r.AccountService, Tokens: r.TokenService}
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	registerHandler := &RegisterHandler{Accounts: r.AccountService, Tokens: r.TokenService}
	r.Mux.Handle("POST /register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	federatedHandler := &FederatedLoginHandler{
		Accounts: r.AccountService,
		Tokens:   r.TokenService,
		Verifier: r.Federated,
	}
	r.Mux.Handle("POST /federated-login",
		httpx.Chain(federatedHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	refreshHandler := &RefreshHandler{Tokens: r.TokenService}
	r.Mux.Handle("POST /refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Logout is guarded: revocation needs a verified caller.
	logoutHandler := &LogoutHandler{Tokens: r.TokenService}
	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerIdentity() {
	meHandler := &MeHandler{Identities: r.store.Identities()}
	r.Mux.Handle("GET /me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIdentity(httpx.LenientLimit),
		),
	)

	adminHandler := &AdminIdentitiesHandler{Identities: r.store.Identities()}
	r.Mux.Handle("GET /admin/identities",
		httpx.Chain(adminHandler,
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RequireRole("administrator"),
			httpx.RateLimitByIdentity(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
