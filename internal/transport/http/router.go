package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-verify-link/internal/config"
	jwtinfra "github.com/go-verify-link/internal/infrastructure/jwt"
	"github.com/go-verify-link/internal/transport/http/handler"
	appmiddleware "github.com/go-verify-link/internal/transport/http/middleware"
	"github.com/go-verify-link/internal/verify"
	"golang.org/x/time/rate"
)

// RoleAdmin gates the pairing lookup endpoints.
const RoleAdmin = "admin"

// Deps holds everything the router needs from main.
type Deps struct {
	VerifyService verify.Service
	PairingRepo   handler.PairingReader // nil when DynamoDB is not configured
	JWTProvider   *jwtinfra.Provider    // nil when key files are absent
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — session creation issues codes and
	// must not become a code-churning vector.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	verifyH := handler.NewVerificationHandler(deps.VerifyService, cfg.ProjectURL())
	pairingH := handler.NewPairingHandler(deps.PairingRepo)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(sensitiveRL.Limit).Post("/verifications", verifyH.Create)
			r.Get("/verifications/{requesterID}", verifyH.Get)
			r.Delete("/verifications/{requesterID}", verifyH.Cancel)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				if deps.JWTProvider != nil {
					r.Use(appmiddleware.RequireRole(RoleAdmin))
				}

				r.Get("/pairings/{requesterID}", pairingH.Get)
				r.Get("/pairings/by-handle/{handle}", pairingH.GetByHandle)
			})
		})
	})

	return r
}
