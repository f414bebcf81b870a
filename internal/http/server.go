package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
	"github.com/denisok6893-rgb/property-recommender/internal/matching"
	"github.com/denisok6893-rgb/property-recommender/internal/validation"
)

const maxBodyBytes = 4 << 20

// CandidateCatalog is the editable candidate store behind /candidates.
type CandidateCatalog interface {
	List(ctx context.Context, p ListParams) ([]domain.Candidate, int, error)
	Get(ctx context.Context, id string) (domain.Candidate, bool, error)
	Create(ctx context.Context, c domain.Candidate) (domain.Candidate, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ListParams are the raw /candidates query filters.
type ListParams struct {
	Limit    int
	Offset   int
	Zone     string
	MinPrice string
	MaxPrice string
	Sort     string
}

type Server struct {
	engine  *matching.Engine
	source  matching.CandidateSource
	catalog CandidateCatalog
	weights domain.Weights
	logger  zerolog.Logger
}

// Options wires a Server. Source serves POST /recommend requests that carry
// no candidates; Catalog may be nil when candidates are read-only.
type Options struct {
	Engine         *matching.Engine
	Source         matching.CandidateSource
	Catalog        CandidateCatalog
	DefaultWeights domain.Weights
	Logger         zerolog.Logger
}

func NewServer(opts Options) *Server {
	w := opts.DefaultWeights
	if w.Sum() == 0 {
		w = domain.DefaultWeights()
	}
	return &Server{
		engine:  opts.Engine,
		source:  opts.Source,
		catalog: opts.Catalog,
		weights: w,
		logger:  opts.Logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	r.Post("/recommend", s.handleRecommend)
	r.Route("/candidates", func(r chi.Router) {
		r.Get("/", s.handleCandidatesList)
		r.Post("/", s.handleCandidatesCreate)
		r.Get("/{id}", s.handleCandidateGet)
		r.Delete("/{id}", s.handleCandidateDelete)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type RecommendRequest struct {
	Profile domain.PreferenceProfile `json:"profile"`
	Limit   int                      `json:"limit"`

	// Candidates, when present, are ranked instead of the configured source.
	Candidates []domain.Candidate `json:"candidates,omitempty"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			req.Limit = parsed
		}
	}
	if req.Profile.Weights.Sum() == 0 {
		req.Profile.Weights = s.weights
	}

	ctx := matching.ContextWithRequestID(r.Context(), middleware.GetReqID(r.Context()))

	var (
		result domain.RecommendationResult
		err    error
	)
	switch {
	case req.Candidates != nil:
		result, err = s.engine.Recommend(ctx, req.Candidates, req.Profile, req.Limit)
	case s.source != nil:
		result, err = s.engine.RecommendFromSource(ctx, s.source, req.Profile, req.Limit)
	default:
		writeError(w, http.StatusServiceUnavailable, "no_candidate_source", "request carries no candidates and no source is configured")
		return
	}

	if err != nil {
		s.writeRecommendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_profile",
			"field":   ve.Field,
			"message": ve.Message,
		})
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err.Error())
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		s.logger.Debug().Str("request_id", middleware.GetReqID(r.Context())).Msg("recommend canceled")
	default:
		s.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("recommend failed")
		writeError(w, http.StatusInternalServerError, "internal", "recommendation failed")
	}
}

// ---- Candidates API ----

type CandidatesListResponse struct {
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
	Total  int                `json:"total"`
	Items  []domain.Candidate `json:"items"`
}

func (s *Server) handleCandidatesList(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotImplemented, "catalog_disabled", "candidate catalog is not configured")
		return
	}

	limit, offset := parseLimitOffset(r, 20, 0)
	q := r.URL.Query()
	items, total, err := s.catalog.List(r.Context(), ListParams{
		Limit:    limit,
		Offset:   offset,
		Zone:     q.Get("zone"),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("list candidates")
		writeError(w, http.StatusInternalServerError, "internal", "list failed")
		return
	}
	if items == nil {
		items = []domain.Candidate{}
	}

	writeJSON(w, http.StatusOK, CandidatesListResponse{
		Limit:  limit,
		Offset: offset,
		Total:  total,
		Items:  items,
	})
}

func (s *Server) handleCandidateGet(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotImplemented, "catalog_disabled", "candidate catalog is not configured")
		return
	}
	c, ok, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error().Err(err).Msg("get candidate")
		writeError(w, http.StatusInternalServerError, "internal", "get failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCandidateDelete(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotImplemented, "catalog_disabled", "candidate catalog is not configured")
		return
	}
	ok, err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error().Err(err).Msg("delete candidate")
		writeError(w, http.StatusInternalServerError, "internal", "delete failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCandidatesCreate(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotImplemented, "catalog_disabled", "candidate catalog is not configured")
		return
	}

	var c domain.Candidate
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(c.Zone) == "" {
		writeError(w, http.StatusBadRequest, "invalid_candidate", "zone is required")
		return
	}
	if v, ok := c.Price.Amount.Get(); ok && v <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_candidate", "price.amount must be > 0")
		return
	}

	created, err := s.catalog.Create(r.Context(), c)
	if err != nil {
		s.logger.Error().Err(err).Msg("create candidate")
		writeError(w, http.StatusInternalServerError, "internal", "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func parseLimitOffset(r *http.Request, defLimit, defOffset int) (int, int) {
	q := r.URL.Query()

	limit := defLimit
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}

	return limit, offset
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	body := map[string]string{"error": code}
	if msg != "" {
		body["message"] = msg
	}
	writeJSON(w, status, body)
}
