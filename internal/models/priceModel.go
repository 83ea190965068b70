package models

import (
	"time"
)

// Candle is one OHLCV record of a series. Candles are never persisted; a
// series is fetched fresh for every scan.
type Candle struct {
	Symbol     string
	Interval   string
	OpenTime   time.Time
	CloseTime  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	TradeCount int64
}

const (
	Interval15m = "15m"
	Interval1h  = "1h"
	Interval4h  = "4h"
)

// SupportedIntervals lists the kline intervals the exchange accepts.
var SupportedIntervals = []string{
	"1m", "3m", "5m", "15m", "30m",
	"1h", "2h", "4h", "6h", "8h", "12h",
	"1d", "3d", "1w", "1M",
}

// IsSupportedInterval reports whether interval is a known kline interval.
func IsSupportedInterval(interval string) bool {
	for _, i := range SupportedIntervals {
		if i == interval {
			return true
		}
	}
	return false
}
