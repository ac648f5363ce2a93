// Package httpapi exposes the relevance engine over a small chi HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mibarrio/buscador/internal/domain"
	healthuc "github.com/mibarrio/buscador/internal/usecase/health"
)

// Engine runs the federated search.
type Engine interface {
	Search(ctx context.Context, term string) (domain.EngineResult, error)
}

// ViewDecider selects and hydrates the presentation for an engine result.
type ViewDecider interface {
	Decide(ctx context.Context, res *domain.EngineResult) (domain.ViewDecision, error)
}

// SemanticSearcher runs a raw semantic lookup for one target type.
type SemanticSearcher interface {
	Search(ctx context.Context, term string, target domain.Kind, params domain.SemanticParams) ([]domain.Candidate, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server hosts the search API handlers.
type Server struct {
	engine   Engine
	views    ViewDecider
	semantic SemanticSearcher
	health   HealthService
	semCfg   SemanticDefaults
	logger   *zap.Logger
}

// SemanticDefaults are the threshold and cap applied to the raw semantic
// endpoint.
type SemanticDefaults struct {
	Threshold float64
	Limit     int
}

// NewServer creates the API server.
func NewServer(
	engine Engine,
	views ViewDecider,
	semantic SemanticSearcher,
	health HealthService,
	semCfg SemanticDefaults,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:   engine,
		views:    views,
		semantic: semantic,
		health:   health,
		semCfg:   semCfg,
		logger:   logger,
	}
}

// Mount registers the API routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/semantic-search", s.handleSemanticSearch)
	r.Post("/api/semantic-search", s.handleSemanticSearch)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// handleSearch is the storefront's single search entry: engine result plus
// the presentation decision in one response.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")

	res, err := s.engine.Search(r.Context(), term)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	decision, err := s.views.Decide(r.Context(), &res)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(&res, &decision))
}

// handleSemanticSearch exposes the embedding+similarity lookup directly:
// target={business|category|product}, term=<text>.
func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		writeError(w, http.StatusBadRequest, "invalid_term", "term is required")
		return
	}

	target := domain.Kind(r.URL.Query().Get("target"))
	switch target {
	case domain.KindBusiness, domain.KindCategory, domain.KindProduct:
	default:
		writeError(w, http.StatusBadRequest, "invalid_target",
			"target must be one of business, category, product")
		return
	}

	found, err := s.semantic.Search(r.Context(), term, target, domain.SemanticParams{
		Threshold: s.semCfg.Threshold,
		Limit:     s.semCfg.Limit,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]candidateResponse, 0, len(found))
	for i := range found {
		results = append(results, candidateFrom(&found[i]))
	}
	writeJSON(w, http.StatusOK, semanticResponse{Results: results})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// handleDomainError maps sentinel errors to HTTP statuses. Unknown errors are
// logged and return a generic 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrInvalidTerm):
		writeError(w, http.StatusBadRequest, "invalid_term", domain.ErrInvalidTerm.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, "embedding_provider_error", domain.ErrEmbeddingProviderError.Error())
	case errors.Is(err, domain.ErrAllSourcesFailed):
		writeError(w, http.StatusBadGateway, "all_sources_failed", "search failed, try again")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
