package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"CryptoScannerBot/internal/models"

	"github.com/rs/zerolog"
)

// ErrScanInProgress is returned when a full scan is requested while another
// one is still running.
var ErrScanInProgress = errors.New("scan already in progress")

type IntervalScanner interface {
	Scan(ctx context.Context, interval string) (models.MatchResult, error)
}

type ReportStore interface {
	SaveReport(report *models.Report) error
}

type Notifier interface {
	NotifyReport(ctx context.Context, report *models.Report) error
}

type ReportObserver interface {
	SetLastScan(t time.Time)
}

type ScanHandler struct {
	scanner   IntervalScanner
	intervals []string
	parallel  bool

	store    ReportStore
	notifier Notifier
	observer ReportObserver
	logger   zerolog.Logger

	every      time.Duration
	firstDelay time.Duration

	running sync.Mutex

	mu   sync.RWMutex
	last *models.Report
}

type ScanHandlerConfig struct {
	Intervals         []string
	ParallelIntervals bool
	Every             time.Duration
	FirstDelay        time.Duration
}

func NewScanHandler(scanner IntervalScanner, cfg ScanHandlerConfig, logger zerolog.Logger) *ScanHandler {
	return &ScanHandler{
		scanner:    scanner,
		intervals:  cfg.Intervals,
		parallel:   cfg.ParallelIntervals,
		every:      cfg.Every,
		firstDelay: cfg.FirstDelay,
		logger:     logger.With().Str("component", "scan_handler").Logger(),
	}
}

// SetStore enables persistence of every finished report.
func (h *ScanHandler) SetStore(store ReportStore) {
	h.store = store
}

// SetNotifier sets where scheduled reports are delivered.
func (h *ScanHandler) SetNotifier(n Notifier) {
	h.notifier = n
}

func (h *ScanHandler) SetObserver(o ReportObserver) {
	h.observer = o
}

// ScanAll scans every configured interval and returns the combined report.
// An interval whose universe could not be loaded is kept in the report with
// its error; the joined errors are returned next to the report.
func (h *ScanHandler) ScanAll(ctx context.Context, trigger models.ScanTrigger) (*models.Report, error) {
	if !h.running.TryLock() {
		return nil, ErrScanInProgress
	}
	defer h.running.Unlock()

	report := &models.Report{
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
		Results:   make([]models.MatchResult, len(h.intervals)),
	}

	if h.parallel {
		var wg sync.WaitGroup
		for i, interval := range h.intervals {
			wg.Add(1)
			go func() {
				defer wg.Done()
				report.Results[i] = h.scanInterval(ctx, interval)
			}()
		}
		wg.Wait()
	} else {
		for i, interval := range h.intervals {
			report.Results[i] = h.scanInterval(ctx, interval)
		}
	}
	report.FinishedAt = time.Now().UTC()

	var errs []error
	for _, res := range report.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Interval, res.Err))
		}
	}

	h.mu.Lock()
	h.last = report
	h.mu.Unlock()

	if h.observer != nil {
		h.observer.SetLastScan(report.FinishedAt)
	}
	if h.store != nil {
		if err := h.store.SaveReport(report); err != nil {
			h.logger.Error().Err(err).Msg("saving report failed")
		}
	}

	h.logger.Info().
		Str("trigger", string(trigger)).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Int("failed_intervals", len(errs)).
		Msg("scan report ready")

	return report, errors.Join(errs...)
}

func (h *ScanHandler) scanInterval(ctx context.Context, interval string) models.MatchResult {
	res, err := h.scanner.Scan(ctx, interval)
	if err != nil {
		h.logger.Error().Err(err).Str("interval", interval).Msg("interval scan failed")
		res.Interval = interval
		res.Err = err
	}
	return res
}

// LastReport returns the most recent report, or nil before the first scan.
func (h *ScanHandler) LastReport() *models.Report {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// Start runs a scheduled scan after the first delay and then on every tick
// until ctx is done.
func (h *ScanHandler) Start(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(h.firstDelay):
	}
	h.runScheduled(ctx)

	ticker := time.NewTicker(h.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.runScheduled(ctx)
		}
	}
}

func (h *ScanHandler) runScheduled(ctx context.Context) {
	report, err := h.ScanAll(ctx, models.TriggerScheduled)
	if errors.Is(err, ErrScanInProgress) {
		h.logger.Warn().Msg("skipping scheduled scan, previous scan still running")
		return
	}
	if report == nil || h.notifier == nil {
		return
	}
	if err := h.notifier.NotifyReport(ctx, report); err != nil {
		h.logger.Error().Err(err).Msg("delivering scheduled report failed")
	}
}
