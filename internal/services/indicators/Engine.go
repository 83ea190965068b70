package indicators

import "CryptoScannerBot/internal/models"

const (
	EMAFastPeriod   = 10
	EMAMediumPeriod = 20
	EMASlowPeriod   = 50
	RSIPeriod       = 14
	VolumePeriod    = 20
	ADXPeriod       = 14
)

// Row is a candle together with every indicator derived up to it.
type Row struct {
	models.Candle

	EMA10       Value
	EMA20       Value
	EMA50       Value
	RSI         Value
	VolumeSMA20 Value
	TR          Value
	ATR         Value
	DIPlus      Value
	DIMinus     Value
	DX          Value
	ADX         Value
}

// Engine turns a candle series into indicator rows. It holds no state
// between calls.
type Engine struct {
	ema *EMAService
	rsi *RSIService
	adx *ADXService
}

func NewEngine() *Engine {
	return &Engine{
		ema: NewEMAService(),
		rsi: NewRSIService(),
		adx: NewADXService(),
	}
}

// Calculate returns one row per candle, in the same order. The input is
// not re-sorted.
func (e *Engine) Calculate(candles []models.Candle) []Row {
	rows := make([]Row, len(candles))
	if len(candles) == 0 {
		return rows
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	ema10 := e.ema.Calculate(closes, EMAFastPeriod)
	ema20 := e.ema.Calculate(closes, EMAMediumPeriod)
	ema50 := e.ema.Calculate(closes, EMASlowPeriod)
	rsi := e.rsi.Calculate(closes, RSIPeriod)
	volumeSMA := RollingMean(DefinedAll(volumes), VolumePeriod)
	adx := e.adx.Calculate(highs, lows, closes, ADXPeriod)

	for i, c := range candles {
		rows[i] = Row{
			Candle:      c,
			EMA10:       Defined(ema10[i]),
			EMA20:       Defined(ema20[i]),
			EMA50:       Defined(ema50[i]),
			RSI:         rsi[i],
			VolumeSMA20: volumeSMA[i],
			TR:          adx.TR[i],
			ATR:         adx.ATR[i],
			DIPlus:      adx.DIPlus[i],
			DIMinus:     adx.DIMinus[i],
			DX:          adx.DX[i],
			ADX:         adx.ADX[i],
		}
	}
	return rows
}
