package server

import (
	"errors"
	"net/http"

	"github.com/jcnlabs/folio/internal/interfaces"
	"github.com/jcnlabs/folio/internal/models"
)

// holdingsRequest is the payload shared by the portfolio endpoints
type holdingsRequest struct {
	Holdings []models.Holding `json:"holdings"`
}

// symbolsRequest is the payload for the fundamentals endpoint
type symbolsRequest struct {
	Symbols []string `json:"symbols"`
}

// writeServiceError maps service errors to HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, interfaces.ErrInvalidInput) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.app.Logger.Error().
		Err(err).
		Str("path", r.URL.Path).
		Str("correlation_id", CorrelationIDFromContext(r.Context())).
		Msg("Request failed")
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

// handlePortfolioPerformance aggregates a holdings list into per-position
// performance metrics
func (s *Server) handlePortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req holdingsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.app.Performance.GetPortfolioPerformance(r.Context(), req.Holdings)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

// handlePortfolioAllocation builds the allocation pie datasets
func (s *Server) handlePortfolioAllocation(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req holdingsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.app.Allocation.GetPortfolioAllocation(r.Context(), req.Holdings)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

// handlePortfolioFundamentals retrieves the latest fundamental scores
func (s *Server) handlePortfolioFundamentals(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req symbolsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.app.Fundamentals.GetLatestScores(r.Context(), req.Symbols)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

// handlePortfolioBenchmarks compares portfolio performance to the benchmark
func (s *Server) handlePortfolioBenchmarks(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req holdingsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.app.Benchmark.CompareToBenchmark(r.Context(), req.Holdings)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}
