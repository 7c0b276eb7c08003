package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/raushankrgupta/storedeck/models"
	"github.com/raushankrgupta/storedeck/pipeline"
	"go.uber.org/zap"
)

// DeckRunner runs one deck pipeline
type DeckRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// RunLister reads back run history
type RunLister interface {
	Recent(ctx context.Context, limit int64) ([]models.RunRecord, error)
}

// Server serves deck generation over HTTP. Runs are serialized: one browser
// session and one crawl at a time.
type Server struct {
	runner  DeckRunner
	runs    RunLister
	metrics http.Handler
	logger  *zap.Logger

	mu sync.Mutex
}

func NewServer(runner DeckRunner, runs RunLister, metrics http.Handler, logger *zap.Logger) *Server {
	return &Server{runner: runner, runs: runs, metrics: metrics, logger: logger}
}

// DeckHandler handles POST /decks and answers with the merged PDF.
func (s *Server) DeckHandler(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, s.logger, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.StoreURL == "" || req.ToEmail == "" {
		RespondError(w, s.logger, "storeUrl and toEmail are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	res, err := s.runner.Run(r.Context(), req)
	s.mu.Unlock()

	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidStore):
		RespondError(w, s.logger, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, pipeline.ErrInsufficientProducts):
		RespondError(w, s.logger, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		RespondError(w, s.logger, "Deck generation timed out", http.StatusGatewayTimeout)
		return
	default:
		RespondError(w, s.logger, fmt.Sprintf("Deck generation failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, res.Record.Store.SafeName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Document); err != nil {
		s.logger.Warn("failed to write deck", zap.Error(err))
	}
}

// RunsHandler lists recent runs from the history store.
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		RespondError(w, s.logger, "Run history is not configured", http.StatusNotFound)
		return
	}
	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 || n > 100 {
			RespondError(w, s.logger, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		RespondError(w, s.logger, "Failed to load runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []models.RunRecord{}
	}
	RespondJSON(w, http.StatusOK, runs)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
