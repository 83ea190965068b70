package config

import "time"

type Config struct {
	Exchange ExchangeConfig
	Telegram TelegramConfig
	Database DatabaseConfig
	Scan     ScanConfig
	Server   ServerConfig
	Log      LogConfig
}

type ExchangeConfig struct {
	APIKey            string
	SecretKey         string
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
}

type TelegramConfig struct {
	Token    string
	ChatID   int64
	Disabled bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Enabled reports whether scan history should be persisted.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type ScanConfig struct {
	Intervals         []string
	QuoteAsset        string
	KlineLimit        int
	Workers           int
	InstrumentTimeout time.Duration
	Every             time.Duration
	FirstDelay        time.Duration
	ParallelIntervals bool
}

type ServerConfig struct {
	Addr string
}

type LogConfig struct {
	Level  string
	Format string
}
