// Package http wires the authentication service endpoints onto a ServeMux
// with the shared middleware chain (request logging, CORS, rate limits).
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/internal/auth/store"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/jwtx"
	"github.com/ironwall/authd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	Service *service.Service
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	svc *service.Service,
	allowedOrigins []string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		Service:      svc,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(allowedOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccount()
	r.registerChat()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// registerAuth wires the unauthenticated registration and login flow. All
// four endpoints take the strict rate limit since each one either sends
// mail or burns CPU on password hashing.
func (r *Router) registerAuth() {
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(&RegisterHandler{Service: r.Service},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/verify-otp",
		httpx.Chain(&VerifyOTPHandler{Service: r.Service},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/resend-otp",
		httpx.Chain(&ResendOTPHandler{Service: r.Service},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(&LoginHandler{Service: r.Service},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

// registerAccount wires the bearer-protected profile endpoints.
func (r *Router) registerAccount() {
	profileHandler := &ProfileHandler{Service: r.Service}

	r.Mux.Handle("GET /v1/auth/profile",
		httpx.Chain(http.HandlerFunc(profileHandler.HandleGet),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("PUT /v1/auth/profile",
		httpx.Chain(http.HandlerFunc(profileHandler.HandlePut),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("PUT /v1/auth/password",
		httpx.Chain(&ChangePasswordHandler{Service: r.Service},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	avatarHandler := &AvatarHandler{Service: r.Service}

	r.Mux.Handle("POST /v1/auth/avatar",
		httpx.Chain(http.HandlerFunc(avatarHandler.HandleUpload),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/auth/avatar",
		httpx.Chain(http.HandlerFunc(avatarHandler.HandleDelete),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

// registerChat wires the assistant relay.
func (r *Router) registerChat() {
	r.Mux.Handle("POST /v1/chat/message",
		httpx.Chain(&ChatHandler{Service: r.Service},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

// registerSystem wires health endpoints. No rate limiting: these are hit
// by orchestrators.
func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
