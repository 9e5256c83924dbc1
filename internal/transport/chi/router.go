package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/metrics"
)

// RouterConfig holds the middleware settings of the API router.
type RouterConfig struct {
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logger    *zap.Logger
}

// NewRouter mounts the API on a chi router. /health and /metrics bypass the
// rate limiter.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(cfg.Logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(cfg.Logger))
	r.Use(CORS(cfg.CORS))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Group(func(api chi.Router) {
		api.Use(RateLimit(cfg.RateLimit))
		api.Get("/trending", s.Trending)
		api.Get("/recommend", s.Recommend)
		api.Get("/genres", s.Genres)
		api.Get("/by_genre", s.ByGenre)
	})
	return r
}
