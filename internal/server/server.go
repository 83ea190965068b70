package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"CryptoScannerBot/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout     = 5 * time.Second
	defaultHistoryLimit = 24
	maxHistoryLimit     = 500
)

type LastReporter interface {
	LastReport() *models.Report
}

type HistoryStore interface {
	FindRecent(interval string, limit int) ([]models.ScanRecord, error)
}

// Server exposes liveness, health and metrics endpoints.
type Server struct {
	addr     string
	reports  LastReporter
	gatherer prometheus.Gatherer
	history  HistoryStore
	logger   zerolog.Logger
}

func New(addr string, reports LastReporter, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	return &Server{
		addr:     addr,
		reports:  reports,
		gatherer: gatherer,
		logger:   logger.With().Str("component", "server").Logger(),
	}
}

// SetHistory enables /history/{interval}.
func (s *Server) SetHistory(h HistoryStore) {
	s.history = h
}

type healthResponse struct {
	Status   string     `json:"status"`
	LastScan *time.Time `json:"last_scan"`
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.alive).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/history/{interval}", s.recent).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

func (s *Server) alive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("I'm alive"))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if report := s.reports.LastReport(); report != nil {
		finished := report.FinishedAt
		resp.LastScan = &finished
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("writing health response failed")
	}
}

type historyEntry struct {
	Trigger    string    `json:"trigger"`
	Interval   string    `json:"interval"`
	Matches    []string  `json:"matches"`
	Scanned    int       `json:"scanned"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	StartedAt  time.Time `json:"started_at"`
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "scan history is disabled", http.StatusServiceUnavailable)
		return
	}

	interval := mux.Vars(r)["interval"]
	if !models.IsSupportedInterval(interval) {
		http.Error(w, fmt.Sprintf("unsupported interval %q", interval), http.StatusBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryLimit {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.history.FindRecent(interval, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("interval", interval).Msg("loading scan history failed")
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, historyEntry{
			Trigger:    rec.Trigger,
			Interval:   rec.Interval,
			Matches:    rec.MatchList(),
			Scanned:    rec.Scanned,
			Skipped:    rec.Skipped,
			Failed:     rec.Failed,
			Error:      rec.Error,
			DurationMs: rec.DurationMs,
			StartedAt:  rec.StartedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.logger.Error().Err(err).Msg("writing history response failed")
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("keep-alive server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
