package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "-100200300")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"15m", "1h", "4h"}, cfg.Scan.Intervals)
	assert.Equal(t, "USDT", cfg.Scan.QuoteAsset)
	assert.Equal(t, DefaultKlineLimit, cfg.Scan.KlineLimit)
	assert.Equal(t, 1, cfg.Scan.Workers)
	assert.Equal(t, time.Hour, cfg.Scan.Every)
	assert.Equal(t, 10*time.Second, cfg.Scan.FirstDelay)
	assert.Equal(t, int64(-100200300), cfg.Telegram.ChatID)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("SCAN_INTERVALS", " 5m, 1d ")
	t.Setenv("SCAN_WORKERS", "8")
	t.Setenv("SCAN_EVERY", "30m")
	t.Setenv("SCAN_PARALLEL_INTERVALS", "true")
	t.Setenv("DB_HOST", "localhost")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"5m", "1d"}, cfg.Scan.Intervals)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Scan.Every)
	assert.True(t, cfg.Scan.ParallelIntervals)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TELEGRAM_TOKEN=fromfile\nCHAT_ID=42\nSCAN_QUOTE_ASSET=FDUSD\n"), 0o600))
	t.Setenv("SCAN_QUOTE_ASSET", "")
	os.Unsetenv("SCAN_QUOTE_ASSET")
	t.Setenv("TELEGRAM_TOKEN", "")
	os.Unsetenv("TELEGRAM_TOKEN")
	t.Setenv("CHAT_ID", "")
	os.Unsetenv("CHAT_ID")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, "FDUSD", cfg.Scan.QuoteAsset)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		err  string
	}{
		{"missing token", map[string]string{"TELEGRAM_TOKEN": ""}, ErrMissingToken.Error()},
		{"missing chat", map[string]string{"CHAT_ID": ""}, ErrMissingChatID.Error()},
		{"bad chat", map[string]string{"CHAT_ID": "abc"}, `CHAT_ID="abc"`},
		{"bad interval", map[string]string{"SCAN_INTERVALS": "15m,7m"}, `unsupported interval "7m"`},
		{"short limit", map[string]string{"SCAN_KLINE_LIMIT": "49"}, "SCAN_KLINE_LIMIT"},
		{"no workers", map[string]string{"SCAN_WORKERS": "0"}, "SCAN_WORKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestTelegramDisabledSkipsCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("CHAT_ID", "")
	t.Setenv("TELEGRAM_DISABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Telegram.Disabled)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SCAN_EVERY", "1hour"},
		{"SCAN_FIRST_DELAY", "soon"},
		{"SCAN_INSTRUMENT_TIMEOUT", "30"},
		{"SCAN_PARALLEL_INTERVALS", "yes please"},
		{"TELEGRAM_DISABLED", "nope"},
		{"BINANCE_REQUESTS_PER_SECOND", "ten"},
		{"BINANCE_BURST", "2x"},
		{"DB_PORT", "abc"},
		{"SCAN_WORKERS", "four"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadReportsEveryMalformedValue(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("SCAN_EVERY", "1hour")
	t.Setenv("DB_PORT", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `SCAN_EVERY="1hour"`)
	assert.Contains(t, err.Error(), `DB_PORT="abc"`)
}
