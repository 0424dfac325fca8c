package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/kevinaaaquil/dejapp/apperr"
	"github.com/kevinaaaquil/dejapp/logger"
	"github.com/kevinaaaquil/dejapp/metrics"
	"github.com/kevinaaaquil/dejapp/middleware"
	"github.com/kevinaaaquil/dejapp/utils"
)

type RouterConfig struct {
	Auth     *AuthHandler
	Docs     *DocumentsHandler
	Content  *ContentHandler
	Profiles *ProfilesHandler
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	CORSOrigins []string
	// AuthRateLimit caps sign-in/sign-up requests per IP per minute; 0 disables it.
	AuthRateLimit int
}

// recoverer turns a panic into the standard unexpected-error body.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("req_id", chimw.GetReqID(r.Context())))
					utils.WriteError(w, errUnexpected, apperr.Notification{Title: "Erro inesperado"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var errUnexpected = errors.New("unexpected error")

func NewRouter(cfg RouterConfig) http.Handler {
	navHandler := &NavHandler{Content: cfg.Content, Documents: cfg.Docs}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.StructuredLogger(cfg.Logger))
	r.Use(recoverer(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "welcome to dejapp."})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthRateLimit > 0 {
					r.Use(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute))
				}
				r.Post("/signup", cfg.Auth.SignUp)
				r.Post("/signin", cfg.Auth.SignIn)
			})
			r.Get("/confirm", cfg.Auth.Confirm)
			r.With(middleware.Auth(cfg.Auth.Sessions)).Post("/signout", cfg.Auth.SignOut)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Auth.Sessions))
			r.Get("/me", cfg.Auth.Me)

			r.Get("/documents", cfg.Docs.List)
			r.Post("/documents", cfg.Docs.Create)
			r.Patch("/documents/{id}", cfg.Docs.Update)
			r.Delete("/documents/{id}", cfg.Docs.Delete)

			r.Get("/nav", navHandler.Current)
			r.Post("/nav/open/{section}", navHandler.Open)
			r.Post("/nav/back", navHandler.Back)

			r.Get("/home", cfg.Content.Home)
			r.Get("/trainings", cfg.Content.Trainings)
			r.Get("/deliveries", cfg.Content.Deliveries)
			r.Get("/deliveries/{id}", cfg.Content.Delivery)

			r.With(middleware.RequireAdmin).Get("/admin/profiles", cfg.Profiles.List)
		})
	})
	return r
}
