// Package chi exposes the query service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/solrkit/solrkit/internal/domain"
	"github.com/solrkit/solrkit/internal/domain/criteria"
	queryuc "github.com/solrkit/solrkit/internal/usecase/query"
)

// errorCode is the machine-readable code carried in error responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeEmptyQuery       errorCode = "empty_query"
	codeQueryFailed      errorCode = "query_failed"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server handles the criteria-query HTTP API.
type Server struct {
	query         *queryuc.Service
	pinger        Pinger
	maxRows       int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxRows caps the rows a single
// request may ask for; zero disables the cap.
func NewServer(query *queryuc.Service, pinger Pinger, maxRows int, logger *zap.Logger) *Server {
	s := &Server{
		query:   query,
		pinger:  pinger,
		maxRows: maxRows,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrInvalidBatchSize, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrQueryFailed, http.StatusBadGateway, codeQueryFailed),
	}
	return s
}

// Routes registers the API on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/collections/{collection}/query", s.runQuery)
	r.Post("/v1/collections/{collection}/count", s.runCount)
	r.Get("/healthz", s.healthCheck)
	r.Get("/metrics", s.metrics)
	return r
}

// queryRequest is the JSON criteria form. Conditions are ordered lists, not
// maps, so the rendered expression is deterministic.
type queryRequest struct {
	Where       []conditionDTO `json:"where,omitempty"`
	Raw         string         `json:"raw,omitempty"`
	AnyOf       []groupDTO     `json:"any_of,omitempty"`
	Between     []spanDTO      `json:"between,omitempty"`
	LessThan    []conditionDTO `json:"less_than,omitempty"`
	GreaterThan []conditionDTO `json:"greater_than,omitempty"`
	AtMost      []conditionDTO `json:"at_most,omitempty"`
	AtLeast     []conditionDTO `json:"at_least,omitempty"`
	Sort        []sortDTO      `json:"sort,omitempty"`
	Rows        *int           `json:"rows,omitempty"`
	Start       *int           `json:"start,omitempty"`
	IncludeDocs bool           `json:"include_docs,omitempty"`
}

type conditionDTO struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type groupDTO []conditionDTO

type spanDTO struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

type sortDTO struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

type queryResponse struct {
	Selector string           `json:"selector"`
	Total    int              `json:"total"`
	IDs      []string         `json:"ids"`
	Docs     []map[string]any `json:"docs,omitempty"`
}

type countResponse struct {
	Selector string `json:"selector"`
	Count    int    `json:"count"`
}

// runQuery handles POST /v1/collections/{collection}/query.
func (s *Server) runQuery(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := s.buildQuery(collection, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	total, err := q.Total(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	ids, err := q.DocumentIDs(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := queryResponse{Selector: q.Selector(), Total: total, IDs: ids}

	if req.IncludeDocs {
		docs, err := q.Documents(r.Context())
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		resp.Docs = make([]map[string]any, len(docs))
		for i, d := range docs {
			resp.Docs[i] = d.Fields()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// runCount handles POST /v1/collections/{collection}/count. The count is
// always the unpaginated backend total.
func (s *Server) runCount(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := s.buildQuery(collection, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	count, err := q.Count(r.Context(), true)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Selector: q.Selector(), Count: count})
}

// healthCheck handles GET /healthz.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	status := "healthy"
	httpStatus := http.StatusOK

	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			checks["solr"] = "unhealthy"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["solr"] = "healthy"
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) buildQuery(collection string, req queryRequest) (*queryuc.Query, error) {
	if err := validateRequest(req, s.maxRows); err != nil {
		return nil, err
	}

	q := s.query.Scope(collection)

	if len(req.Where) > 0 {
		q = q.Where(conditionsFromDTO(req.Where)...)
	}
	if req.Raw != "" {
		q = q.WhereRaw(req.Raw)
	}
	for _, g := range req.AnyOf {
		q = q.Or(criteria.Group(conditionsFromDTO(g)))
	}
	if len(req.Between) > 0 {
		spans := make([]criteria.Span, len(req.Between))
		for i, sp := range req.Between {
			spans[i] = criteria.Span{Field: sp.Field, Lo: sp.From, Hi: sp.To}
		}
		q = q.Between(spans...)
	}
	if len(req.LessThan) > 0 {
		q = q.LessThan(conditionsFromDTO(req.LessThan)...)
	}
	if len(req.GreaterThan) > 0 {
		q = q.GreaterThan(conditionsFromDTO(req.GreaterThan)...)
	}
	if len(req.AtMost) > 0 {
		q = q.AtMost(conditionsFromDTO(req.AtMost)...)
	}
	if len(req.AtLeast) > 0 {
		q = q.AtLeast(conditionsFromDTO(req.AtLeast)...)
	}
	for _, sd := range req.Sort {
		dir := criteria.Asc
		if sd.Direction == "desc" || sd.Direction == "DESC" {
			dir = criteria.Desc
		}
		q = q.Sort(criteria.SortClause{Field: sd.Field, Direction: dir})
	}
	if req.Rows != nil {
		q = q.Limit(*req.Rows)
	}
	if req.Start != nil {
		q = q.Skip(*req.Start)
	}

	return q, nil
}

func validateRequest(req queryRequest, maxRows int) error {
	if req.Rows != nil {
		if *req.Rows < 0 {
			return errors.New("rows must not be negative")
		}
		if maxRows > 0 && *req.Rows > maxRows {
			return fmt.Errorf("rows must not exceed %d", maxRows)
		}
	}
	if req.Start != nil && *req.Start < 0 {
		return errors.New("start must not be negative")
	}
	for _, c := range req.Where {
		if c.Field == "" {
			return errors.New("where condition requires a field")
		}
	}
	for _, sp := range req.Between {
		if sp.Field == "" {
			return errors.New("between span requires a field")
		}
	}
	for _, sd := range req.Sort {
		if sd.Field == "" {
			return errors.New("sort clause requires a field")
		}
		switch sd.Direction {
		case "", "asc", "ASC", "desc", "DESC":
		default:
			return fmt.Errorf("sort direction must be asc or desc, got %q", sd.Direction)
		}
	}
	return nil
}

func conditionsFromDTO(cs []conditionDTO) []criteria.Condition {
	out := make([]criteria.Condition, len(cs))
	for i, c := range cs {
		out[i] = criteria.Condition{Field: c.Field, Value: c.Value}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrQueryFailed,
		domain.ErrInvalidBatchSize,
		domain.ErrRecordNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
