package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"CryptoScannerBot/config"
	"CryptoScannerBot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exchangeInfoBody = `{
  "timezone": "UTC",
  "serverTime": 1700000000000,
  "symbols": [
    {"symbol": "ETHUSDT", "status": "TRADING", "baseAsset": "ETH", "quoteAsset": "USDT", "isSpotTradingAllowed": true},
    {"symbol": "BTCUSDT", "status": "TRADING", "baseAsset": "BTC", "quoteAsset": "USDT", "isSpotTradingAllowed": true},
    {"symbol": "ETHBTC", "status": "TRADING", "baseAsset": "ETH", "quoteAsset": "BTC", "isSpotTradingAllowed": true},
    {"symbol": "LUNAUSDT", "status": "BREAK", "baseAsset": "LUNA", "quoteAsset": "USDT", "isSpotTradingAllowed": true},
    {"symbol": "MARGINUSDT", "status": "TRADING", "baseAsset": "MARGIN", "quoteAsset": "USDT", "isSpotTradingAllowed": false}
  ]
}`

func kline(openTime int64, o, h, l, c, v string) string {
	return fmt.Sprintf(`[%d,"%s","%s","%s","%s","%s",%d,"0",12,"0","0","0"]`,
		openTime, o, h, l, c, v, openTime+3599999)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *BinanceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewBinanceClient(config.ExchangeConfig{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Burst:             100,
	}, "USDT", zerolog.Nop())
	c.backoff = time.Millisecond
	return c
}

func TestListSymbolsFiltersUniverse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/exchangeInfo", r.URL.Path)
		fmt.Fprint(w, exchangeInfoBody)
	})

	symbols, err := c.ListSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, symbols)
}

func TestListSymbolsFailure(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"code":-1000,"msg":"internal"}`)
	})

	_, err := c.ListSymbols(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, c.maxRetries+1, atomic.LoadInt32(&calls))
}

func TestFetchCandles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1h", r.URL.Query().Get("interval"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		fmt.Fprintf(w, "[%s,%s]",
			kline(1700000000000, "10.0", "12.5", "9.5", "11.0", "1500.25"),
			kline(1700003600000, "11.0", "11.5", "10.5", "10.75", "900"))
	})

	res := c.FetchCandles(context.Background(), "BTCUSDT", "1h", 100)
	require.Equal(t, models.FetchStatusData, res.Status)
	require.NoError(t, res.Err)
	require.Len(t, res.Candles, 2)

	first := res.Candles[0]
	assert.Equal(t, "BTCUSDT", first.Symbol)
	assert.Equal(t, "1h", first.Interval)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), first.OpenTime)
	assert.Equal(t, 10.0, first.Open)
	assert.Equal(t, 12.5, first.High)
	assert.Equal(t, 9.5, first.Low)
	assert.Equal(t, 11.0, first.Close)
	assert.Equal(t, 1500.25, first.Volume)
	assert.EqualValues(t, 12, first.TradeCount)
	assert.True(t, res.Candles[1].OpenTime.After(first.OpenTime))
}

func TestFetchCandlesEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})

	res := c.FetchCandles(context.Background(), "NEWUSDT", "15m", 100)
	assert.Equal(t, models.FetchStatusEmpty, res.Status)
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Candles)
}

func TestFetchCandlesFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":-1121,"msg":"Invalid symbol."}`)
	})

	res := c.FetchCandles(context.Background(), "NOPEUSDT", "4h", 100)
	assert.Equal(t, models.FetchStatusFailed, res.Status)
	assert.Error(t, res.Err)
}

func TestFetchCandlesMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "[%s]", kline(1700000000000, "10", "abc", "9", "10", "1"))
	})

	res := c.FetchCandles(context.Background(), "BADUSDT", "1h", 100)
	assert.Equal(t, models.FetchStatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, ErrMalformedKline)
}

func TestRetryRecovers(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, "[%s]", kline(1700000000000, "1", "1", "1", "1", "1"))
	})

	res := c.FetchCandles(context.Background(), "BTCUSDT", "1h", 100)
	assert.Equal(t, models.FetchStatusData, res.Status)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRetryStopsOnCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := c.FetchCandles(ctx, "BTCUSDT", "1h", 100)
	assert.Equal(t, models.FetchStatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}
