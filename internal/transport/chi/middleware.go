package chi

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/animatch/internal/logger"
)

// CORSConfig configures cross-origin access for the browser frontend.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

// RateLimitConfig configures per-IP rate limiting. Requests <= 0 disables it.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// CORS returns a read-only CORS middleware for the API.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         int(cfg.MaxAge.Seconds()),
	})
}

// RateLimit returns a per-IP rate limiter answering 429 in JSON.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded")
		}),
	)
}

// JSONRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func JSONRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(ErrorResponse{
						Code:  codeInternalError,
						Error: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WideEvent emits a canonical log line per request and propagates X-Request-ID.
// It expects chi's RequestID middleware to run first.
func WideEvent(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
