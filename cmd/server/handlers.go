package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/costworks/internal/costing"
	"github.com/Simplici0/costworks/internal/logger"
	"github.com/Simplici0/costworks/internal/metrics"
)

type server struct {
	engine  *costing.Engine
	db      *sql.DB
	metrics *metrics.Metrics
}

type breakdownResponse struct {
	costing.Breakdown
	Complete bool     `json:"complete"`
	Warnings []string `json:"warnings"`
}

type stockResponse struct {
	Items []costing.StockLevel `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		logger.FromContext(r.Context()).Error("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleBreakdownJSON(w http.ResponseWriter, r *http.Request) {
	breakdown, ok := s.computeBreakdown(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, breakdownResponse{
		Breakdown: breakdown,
		Complete:  breakdown.Complete(),
		Warnings:  breakdown.Warnings(),
	})
}

func (s *server) handleBreakdownText(w http.ResponseWriter, r *http.Request) {
	breakdown, ok := s.computeBreakdown(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := writeReport(w, breakdown); err != nil {
		logger.FromContext(r.Context()).Error("failed to write breakdown report", zap.Error(err))
	}
}

func (s *server) handleStock(w http.ResponseWriter, r *http.Request) {
	levels, err := s.engine.StockLevels(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to load stock levels", zap.Error(err))
		writeError(w, statusFor(err), "failed to load stock levels")
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{Items: levels})
}

// computeBreakdown parses the product id and runs the engine, writing the error response
// itself when it fails.
func (s *server) computeBreakdown(w http.ResponseWriter, r *http.Request) (costing.Breakdown, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return costing.Breakdown{}, false
	}

	breakdown, err := s.engine.ComputeBreakdown(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error("failed to compute breakdown", zap.Int64("product_id", id), zap.Error(err))
			writeError(w, status, "failed to compute breakdown")
			return costing.Breakdown{}, false
		}
		writeError(w, status, err.Error())
		return costing.Breakdown{}, false
	}

	return breakdown, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, costing.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, costing.ErrInvalidReference),
		errors.Is(err, costing.ErrInvalidRecipe),
		errors.Is(err, costing.ErrInvalidLot),
		errors.Is(err, costing.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
