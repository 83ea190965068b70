package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"CryptoScannerBot/internal/models"
	"CryptoScannerBot/internal/services/analysis"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 100

	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

// ErrUniverse wraps failures to list the instrument universe. No partial
// result is returned in that case.
var ErrUniverse = errors.New("instrument universe unavailable")

type CandleSource interface {
	FetchCandles(ctx context.Context, symbol, interval string, limit int) models.FetchResult
}

type UniverseSource interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

type Recorder interface {
	ObserveInstrument(interval, outcome string)
	ObserveScan(interval string, matches int, d time.Duration)
	ObserveScanError(interval string)
}

type Scanner struct {
	candles  CandleSource
	universe UniverseSource
	analysis *analysis.Analysis
	recorder Recorder
	logger   zerolog.Logger

	limit   int
	workers int
	timeout time.Duration
}

type Option func(*Scanner)

// WithLimit sets how many candles are requested per instrument. Values below
// analysis.MinimumDataPoints are raised to it.
func WithLimit(limit int) Option {
	return func(s *Scanner) {
		s.limit = max(limit, analysis.MinimumDataPoints)
	}
}

// WithWorkers bounds how many instruments are processed at once.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = max(n, 1)
	}
}

// WithInstrumentTimeout bounds fetch and evaluation of a single instrument.
// A timeout counts as a failed retrieval. Zero disables it.
func WithInstrumentTimeout(d time.Duration) Option {
	return func(s *Scanner) {
		s.timeout = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Scanner) {
		if r != nil {
			s.recorder = r
		}
	}
}

func New(candles CandleSource, universe UniverseSource, opts ...Option) *Scanner {
	s := &Scanner{
		candles:  candles,
		universe: universe,
		analysis: analysis.NewAnalysis(),
		recorder: nopRecorder{},
		logger:   zerolog.Nop(),
		limit:    DefaultLimit,
		workers:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "scanner").Logger()
	return s
}

// Scan evaluates every instrument of the universe on interval and returns
// the matching ones. Failures of single instruments are logged and
// skipped. A failure to list the universe or a cancelled ctx is returned
// as an error without matches.
func (s *Scanner) Scan(ctx context.Context, interval string) (models.MatchResult, error) {
	start := time.Now()
	result := models.MatchResult{Interval: interval}

	symbols, err := s.universe.ListSymbols(ctx)
	if err != nil {
		s.recorder.ObserveScanError(interval)
		result.Err = fmt.Errorf("%w: %w", ErrUniverse, err)
		result.Duration = time.Since(start)
		return result, result.Err
	}

	log := s.logger.With().Str("interval", interval).Logger()
	log.Info().Int("symbols", len(symbols)).Msg("scan started")

	var (
		mu      sync.Mutex
		matches []string
	)

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome := s.scanSymbol(ctx, log, interval, symbol)
			s.recorder.ObserveInstrument(interval, outcome)

			mu.Lock()
			defer mu.Unlock()
			result.Scanned++
			switch outcome {
			case OutcomeMatch:
				matches = append(matches, symbol)
			case OutcomeEmpty:
				result.Skipped++
			case OutcomeFailed:
				result.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.recorder.ObserveScanError(interval)
		result.Err = fmt.Errorf("scan %s: %w", interval, err)
		result.Duration = time.Since(start)
		log.Warn().Err(err).Int("scanned", result.Scanned).Int("symbols", len(symbols)).Msg("scan aborted")
		return result, result.Err
	}

	sort.Strings(matches)
	result.Symbols = matches
	result.Duration = time.Since(start)
	s.recorder.ObserveScan(interval, len(matches), result.Duration)

	log.Info().
		Int("matches", len(matches)).
		Int("scanned", result.Scanned).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("took", result.Duration).
		Msg("scan finished")

	return result, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, log zerolog.Logger, interval, symbol string) (outcome string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("symbol", symbol).Interface("panic", r).Msg("evaluation panicked")
			outcome = OutcomeFailed
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res := s.candles.FetchCandles(ctx, symbol, interval, s.limit)
	switch res.Status {
	case models.FetchStatusFailed:
		log.Warn().Err(res.Err).Str("symbol", symbol).Msg("fetching candles failed")
		return OutcomeFailed
	case models.FetchStatusEmpty:
		log.Debug().Str("symbol", symbol).Msg("no candles")
		return OutcomeEmpty
	}

	signal := s.analysis.Analyze(res.Candles)
	if !signal.IsValid {
		log.Debug().Str("symbol", symbol).Str("reason", signal.Reason).Msg("no match")
		return OutcomeNoMatch
	}

	log.Info().
		Str("symbol", symbol).
		Stringer("rsi", signal.Last.RSI).
		Stringer("adx", signal.Last.ADX).
		Msg("match")
	return OutcomeMatch
}

type nopRecorder struct{}

func (nopRecorder) ObserveInstrument(string, string)       {}
func (nopRecorder) ObserveScan(string, int, time.Duration) {}
func (nopRecorder) ObserveScanError(string)                {}
