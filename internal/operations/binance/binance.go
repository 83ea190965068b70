package binance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"CryptoScannerBot/config"
	"CryptoScannerBot/internal/models"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const statusTrading = "TRADING"

var ErrMalformedKline = errors.New("malformed kline")

type BinanceClient struct {
	client      *gobinance.Client
	rateLimiter *rate.Limiter
	quoteAsset  string
	maxRetries  int
	backoff     time.Duration
	logger      zerolog.Logger
}

func NewBinanceClient(cfg config.ExchangeConfig, quoteAsset string, logger zerolog.Logger) *BinanceClient {
	httpClient := &http.Client{
		Timeout: time.Second * 10,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Public market data needs no credentials; empty keys are fine.
	spotClient := gobinance.NewClient(cfg.APIKey, cfg.SecretKey)
	spotClient.HTTPClient = httpClient
	if cfg.BaseURL != "" {
		spotClient.BaseURL = cfg.BaseURL
	}

	return &BinanceClient{
		client:      spotClient,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		quoteAsset:  quoteAsset,
		maxRetries:  3,
		backoff:     100 * time.Millisecond,
		logger:      logger.With().Str("component", "binance").Logger(),
	}
}

// ListSymbols returns every spot symbol that is trading and quoted in the
// configured asset, sorted.
func (c *BinanceClient) ListSymbols(ctx context.Context) ([]string, error) {
	var info *gobinance.ExchangeInfo
	err := c.withRetry(ctx, func() error {
		var err error
		info, err = c.client.NewExchangeInfoService().Do(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}

	symbols := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.QuoteAsset != c.quoteAsset || s.Status != statusTrading || !s.IsSpotTradingAllowed {
			continue
		}
		symbols = append(symbols, s.Symbol)
	}
	sort.Strings(symbols)

	c.logger.Debug().Int("symbols", len(symbols)).Str("quote", c.quoteAsset).Msg("loaded universe")
	return symbols, nil
}

// FetchCandles returns the most recent limit candles, oldest first.
// Retrieval errors come back as a failed result, never as a panic or error.
func (c *BinanceClient) FetchCandles(ctx context.Context, symbol, interval string, limit int) models.FetchResult {
	klines, err := c.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		return models.FetchFailed(fmt.Errorf("klines %s %s: %w", symbol, interval, err))
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		candle, err := toCandle(symbol, interval, k)
		if err != nil {
			return models.FetchFailed(fmt.Errorf("klines %s %s: %w", symbol, interval, err))
		}
		candles = append(candles, candle)
	}
	return models.FetchedCandles(candles)
}

func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*gobinance.Kline, error) {
	var klines []*gobinance.Kline
	err := c.withRetry(ctx, func() error {
		var err error
		klines, err = c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			Limit(limit).
			Do(ctx)
		return err
	})
	return klines, err
}

// withRetry waits on the shared limiter before every attempt and backs off
// exponentially between failures.
func (c *BinanceClient) withRetry(ctx context.Context, call func() error) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		err = call()
		if err == nil {
			return nil
		}

		if attempt == c.maxRetries {
			break
		}

		waitTime := time.Duration(math.Pow(2, float64(attempt))) * c.backoff
		c.logger.Debug().Err(err).Int("attempt", attempt+1).Dur("backoff", waitTime).Msg("retrying request")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
	return err
}

func toCandle(symbol, interval string, k *gobinance.Kline) (models.Candle, error) {
	open, err := parseFloat(k.Open)
	if err != nil {
		return models.Candle{}, err
	}
	high, err := parseFloat(k.High)
	if err != nil {
		return models.Candle{}, err
	}
	low, err := parseFloat(k.Low)
	if err != nil {
		return models.Candle{}, err
	}
	closePrice, err := parseFloat(k.Close)
	if err != nil {
		return models.Candle{}, err
	}
	volume, err := parseFloat(k.Volume)
	if err != nil {
		return models.Candle{}, err
	}

	return models.Candle{
		Symbol:     symbol,
		Interval:   interval,
		OpenTime:   time.UnixMilli(k.OpenTime).UTC(),
		CloseTime:  time.UnixMilli(k.CloseTime).UTC(),
		Open:       open,
		High:       high,
		Low:        low,
		Close:      closePrice,
		Volume:     volume,
		TradeCount: k.TradeNum,
	}, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedKline, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrMalformedKline, s)
	}
	return f, nil
}
