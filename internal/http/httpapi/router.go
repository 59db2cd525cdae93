package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"adstudio/internal/http/handlers"
	"adstudio/internal/infra"
	"adstudio/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(logger),
		chimw.Recoverer,
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/prompts/preview", app.PromptPreview)
	r.Get("/v1/preview/{videoId}", app.Preview)

	r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).Post("/v1/ads", app.CreateAd)
	r.With(middleware.RequireBearer).Get("/v1/dashboard", app.Dashboard)

	return r
}
