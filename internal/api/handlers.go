package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/cricscore/internal/match"
	"github.com/roach88/cricscore/internal/stats"
	"github.com/roach88/cricscore/internal/store"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MatchSummary is one row of the history list.
type MatchSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TeamA     string    `json:"team_a"`
	TeamB     string    `json:"team_b"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

func summarize(rec match.Record) MatchSummary {
	return MatchSummary{
		ID:        rec.ID,
		Title:     rec.TeamA + " vs " + rec.TeamB,
		TeamA:     rec.TeamA,
		TeamB:     rec.TeamB,
		Result:    rec.Result,
		CreatedAt: rec.CreatedAt,
	}
}

// HealthCheck reports whether the store is reachable.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "database unhealthy")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.now().UTC(),
		"service":   "cricscore",
	})
}

// ListMatches returns the user's matches, newest first.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := chi.URLParam(r, "userID")
	records, err := h.store.ListMatches(ctx, userID)
	if err != nil {
		h.logger.Error("list matches failed", "user", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to retrieve matches")
		return
	}

	matches := make([]MatchSummary, len(records))
	for i, rec := range records {
		matches[i] = summarize(rec)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetMatch returns one saved match including its score data.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := chi.URLParam(r, "userID")
	matchID := chi.URLParam(r, "matchID")

	rec, err := h.store.ReadMatch(ctx, userID, matchID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "match not found")
		return
	}
	if err != nil {
		h.logger.Error("read match failed", "user", userID, "match", matchID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to retrieve match")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// GetStats returns the user's top performers across all saved matches.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := chi.URLParam(r, "userID")
	records, err := h.store.ListMatches(ctx, userID)
	if err != nil {
		h.logger.Error("list matches failed", "user", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to retrieve matches")
		return
	}

	summary := stats.Aggregate(records)
	respondJSON(w, http.StatusOK, map[string]any{
		"summary":    summary,
		"top_batter": summary.TopBatterText(),
		"top_bowler": summary.TopBowlerText(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
