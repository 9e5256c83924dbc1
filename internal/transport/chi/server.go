// Package chi serves the recommender's HTTP API on a chi router.
package chi

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/domain"
	"github.com/kailas-cloud/animatch/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server implements the recommender's HTTP handlers.
type Server struct {
	recommender   Recommender
	categories    Categories
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommender Recommender,
	categories Categories,
	healthChecker HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommender: recommender,
		categories:  categories,
		health:      healthChecker,
		logger:      logger,
	}
	// Not found is checked first: a recommend on an empty corpus wraps both
	// ErrEmptyCorpus and ErrItemNotFound and must surface as 404.
	s.errorHandlers = []errorHandler{
		notFoundHandler,
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusBadGateway, codeProviderUnavailable),
	}
	return s
}

type recommendParams struct {
	Title string `validate:"required,max=256"`
}

type categoryParams struct {
	Genre string `validate:"required,max=128"`
	Page  int    `validate:"omitempty,min=1"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Trending handles GET /trending.
func (s *Server) Trending(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, itemsToDTO(s.recommender.Trending(0)))
}

// Recommend handles GET /recommend?title=.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var params recommendParams
	if err := runtime.BindQueryParameter("form", true, false, "title", r.URL.Query(), &params.Title); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid title parameter.")
		return
	}
	if err := getValidator().Struct(&params); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Please provide an anime title.")
		return
	}

	rec, err := s.recommender.Recommend(r.Context(), params.Title)
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, RecommendResponse{
		SearchedAnime:   itemToDTO(&rec.Query),
		Recommendations: matchesToDTO(rec.Matches),
	})
}

// Genres handles GET /genres.
func (s *Server) Genres(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.categories.ListGenres())
}

// ByGenre handles GET /by_genre?genre=&page=.
func (s *Server) ByGenre(w http.ResponseWriter, r *http.Request) {
	var params categoryParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "genre", q, &params.Genre); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid genre parameter.")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &params.Page); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Page must be a positive integer.")
		return
	}
	if err := getValidator().Struct(&params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Page" {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Page must be a positive integer.")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "Please provide a genre.")
		return
	}

	page, err := s.categories.Query(r.Context(), params.Genre, max(params.Page, 1))
	if err != nil {
		s.handleDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryToDTO(&page))
}

// HealthCheck handles GET /health. A degraded service still answers
// from its corpus and reports 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == health.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:     string(report.Status),
		Checks:     checks,
		Items:      report.Items,
		Generation: report.Generation,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Error: message})
}

// notFoundHandler echoes the failed query back to the client.
func notFoundHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrItemNotFound) {
		return false
	}
	msg := domain.ErrItemNotFound.Error()
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		msg = fmt.Sprintf("No anime found for '%s'.", nf.Query)
	}
	writeError(w, http.StatusNotFound, codeNotFound, msg)
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(r *http.Request, w http.ResponseWriter, err error) {
	log := s.logger.With(zap.String("path", r.URL.Path))
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
