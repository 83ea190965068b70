package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"CryptoScannerBot/internal/models"

	"github.com/joho/godotenv"
)

const (
	DefaultKlineLimit = 100
	MinKlineLimit     = 50
	MaxKlineLimit     = 1000
)

var (
	ErrMissingToken  = errors.New("TELEGRAM_TOKEN is required")
	ErrMissingChatID = errors.New("CHAT_ID is required")
	ErrInvalidValue  = errors.New("invalid environment value")
)

// Load reads the optional .env file and builds the configuration from the
// environment. Variables already set take precedence over .env.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	env := &envReader{}

	cfg := &Config{
		Exchange: ExchangeConfig{
			APIKey:            os.Getenv("BINANCE_API_KEY"),
			SecretKey:         os.Getenv("BINANCE_SECRET_KEY"),
			BaseURL:           os.Getenv("BINANCE_BASE_URL"),
			RequestsPerSecond: env.Float("BINANCE_REQUESTS_PER_SECOND", 10),
			Burst:             env.Int("BINANCE_BURST", 20),
		},
		Telegram: TelegramConfig{
			Token:    os.Getenv("TELEGRAM_TOKEN"),
			ChatID:   env.Int64("CHAT_ID"),
			Disabled: env.Bool("TELEGRAM_DISABLED", false),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     env.Int("DB_PORT", 5432),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Scan: ScanConfig{
			Intervals:         getIntervals(),
			QuoteAsset:        envString("SCAN_QUOTE_ASSET", "USDT"),
			KlineLimit:        env.Int("SCAN_KLINE_LIMIT", DefaultKlineLimit),
			Workers:           env.Int("SCAN_WORKERS", 1),
			InstrumentTimeout: env.Duration("SCAN_INSTRUMENT_TIMEOUT", 30*time.Second),
			Every:             env.Duration("SCAN_EVERY", time.Hour),
			FirstDelay:        env.Duration("SCAN_FIRST_DELAY", 10*time.Second),
			ParallelIntervals: env.Bool("SCAN_PARALLEL_INTERVALS", false),
		},
		Server: ServerConfig{
			Addr: envString("KEEPALIVE_ADDR", ":8080"),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "console"),
		},
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !c.Telegram.Disabled {
		if c.Telegram.Token == "" {
			return ErrMissingToken
		}
		if c.Telegram.ChatID == 0 {
			return ErrMissingChatID
		}
	}
	if len(c.Scan.Intervals) == 0 {
		return errors.New("at least one scan interval is required")
	}
	for _, interval := range c.Scan.Intervals {
		if !models.IsSupportedInterval(interval) {
			return fmt.Errorf("unsupported interval %q", interval)
		}
	}
	if c.Scan.KlineLimit < MinKlineLimit || c.Scan.KlineLimit > MaxKlineLimit {
		return fmt.Errorf("SCAN_KLINE_LIMIT must be between %d and %d, got %d",
			MinKlineLimit, MaxKlineLimit, c.Scan.KlineLimit)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Scan.Every <= 0 {
		return fmt.Errorf("SCAN_EVERY must be positive, got %s", c.Scan.Every)
	}
	if c.Exchange.RequestsPerSecond <= 0 || c.Exchange.Burst < 1 {
		return errors.New("binance rate limit must be positive")
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envReader parses typed variables and keeps every malformed one, so a
// typo is reported instead of silently replaced by the default.
type envReader struct {
	errs []error
}

func (r *envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (r *envReader) fail(key, v string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, key, v, err))
}

func (r *envReader) Int(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return i
}

func (r *envReader) Int64(key string) int64 {
	v, ok := r.lookup(key)
	if !ok {
		return 0
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.fail(key, v, err)
		return 0
	}
	return i
}

func (r *envReader) Float(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return f
}

func (r *envReader) Bool(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *envReader) Duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

// helper to get intervals
func getIntervals() []string {
	intervals := os.Getenv("SCAN_INTERVALS")
	if intervals == "" {
		return []string{models.Interval15m, models.Interval1h, models.Interval4h}
	}

	var out []string
	for _, i := range strings.Split(intervals, ",") {
		if i = strings.TrimSpace(i); i != "" {
			out = append(out, i)
		}
	}
	return out
}
