package indicators

import "math"

// RSINeutral is reported wherever the RSI cannot be computed.
const RSINeutral = 50.0

type RSIService struct{}

func NewRSIService() *RSIService {
	return &RSIService{}
}

// Calculate returns an RSI point for every close. Average gain and loss are
// plain rolling means over period deltas, not Wilder smoothing. The first
// close contributes a zero gain and loss.
//
// Points without a full window, and flat windows (no gain and no loss), read
// RSINeutral. A window with gains but no losses reads 100.
func (s *RSIService) Calculate(closes []float64, period int) []Value {
	rsi := make([]Value, len(closes))
	if len(closes) == 0 {
		return rsi
	}

	gains := make([]Value, len(closes))
	losses := make([]Value, len(closes))
	gains[0], losses[0] = Defined(0), Defined(0)

	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gains[i] = Defined(math.Max(change, 0))
		losses[i] = Defined(math.Max(-change, 0))
	}

	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)

	for i := range closes {
		rsi[i] = Defined(s.calculatePoint(avgGain[i], avgLoss[i]))
	}
	return rsi
}

func (s *RSIService) calculatePoint(avgGain, avgLoss Value) float64 {
	if !avgGain.Valid || !avgLoss.Valid {
		return RSINeutral
	}
	if avgLoss.V == 0 {
		if avgGain.V > 0 {
			return 100
		}
		return RSINeutral
	}

	rs := avgGain.V / avgLoss.V
	return 100 - (100 / (1 + rs))
}
