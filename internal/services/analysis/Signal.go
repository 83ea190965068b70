package analysis

import (
	"time"

	"CryptoScannerBot/internal/models"
	"CryptoScannerBot/internal/services/indicators"
)

const (
	MinimumDataPoints = 50 // EMA50 and the ADX chain need this much history
	MinRSI            = 45.0
	MinADX            = 20.0
)

type Analysis struct {
	engine *indicators.Engine
}

// Signal is the outcome of the trend rule for one series.
type Signal struct {
	Symbol    string
	Timestamp time.Time
	IsValid   bool
	Reason    string
	Last      *indicators.Row
	Previous  *indicators.Row
}

type condition struct {
	name string
	ok   func(last, prev *indicators.Row) bool
}

// Every condition must hold on the last row. A comparison against an
// undefined indicator fails.
var conditions = []condition{
	{"EMA10 above EMA20", func(l, _ *indicators.Row) bool { return l.EMA10.GreaterThan(l.EMA20) }},
	{"EMA20 above EMA50", func(l, _ *indicators.Row) bool { return l.EMA20.GreaterThan(l.EMA50) }},
	{"RSI above 45", func(l, _ *indicators.Row) bool { return l.RSI.Above(MinRSI) }},
	{"RSI rising", func(l, p *indicators.Row) bool { return l.RSI.GreaterThan(p.RSI) }},
	{"volume above SMA20", func(l, _ *indicators.Row) bool {
		return indicators.Defined(l.Volume).GreaterThan(l.VolumeSMA20)
	}},
	{"ADX above 20", func(l, _ *indicators.Row) bool { return l.ADX.Above(MinADX) }},
}

func NewAnalysis() *Analysis {
	return &Analysis{
		engine: indicators.NewEngine(),
	}
}

// Analyze computes the indicators for candles and evaluates the rule.
func (a *Analysis) Analyze(candles []models.Candle) *Signal {
	return Evaluate(a.engine.Calculate(candles))
}

// Evaluate applies the rule to the final two rows. Fewer than
// MinimumDataPoints rows is never a match.
func Evaluate(rows []indicators.Row) *Signal {
	if len(rows) == 0 {
		return newInvalidResult("", time.Time{}, "no data")
	}

	last := &rows[len(rows)-1]
	if len(rows) < MinimumDataPoints {
		return newInvalidResult(last.Symbol, last.OpenTime, "insufficient data points")
	}
	prev := &rows[len(rows)-2]

	for _, c := range conditions {
		if !c.ok(last, prev) {
			result := newInvalidResult(last.Symbol, last.OpenTime, "failed: "+c.name)
			result.Last, result.Previous = last, prev
			return result
		}
	}

	return &Signal{
		Symbol:    last.Symbol,
		Timestamp: last.OpenTime,
		IsValid:   true,
		Reason:    "all conditions met",
		Last:      last,
		Previous:  prev,
	}
}

func newInvalidResult(symbol string, ts time.Time, reason string) *Signal {
	return &Signal{
		Symbol:    symbol,
		Timestamp: ts,
		IsValid:   false,
		Reason:    reason,
	}
}
