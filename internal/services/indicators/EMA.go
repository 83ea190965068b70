package indicators

// EMAService provides Exponential Moving Average calculations
type EMAService struct{}

// NewEMAService creates a new EMA service instance
func NewEMAService() *EMAService {
	return &EMAService{}
}

// Calculate computes the EMA of prices with smoothing factor 2/(span+1).
// The first value seeds the average, so every point is defined; early
// points lean towards the seed.
func (s *EMAService) Calculate(prices []float64, span int) []float64 {
	if !s.validateInputs(prices, span) {
		return nil
	}

	ema := make([]float64, len(prices))
	multiplier := s.getMultiplier(span)

	ema[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		ema[i] = s.calculatePoint(prices[i], ema[i-1], multiplier)
	}

	return ema
}

func (s *EMAService) validateInputs(prices []float64, span int) bool {
	return len(prices) > 0 && span > 0
}

func (s *EMAService) getMultiplier(span int) float64 {
	return 2.0 / float64(span+1)
}

func (s *EMAService) calculatePoint(price, prevEMA, multiplier float64) float64 {
	return (price-prevEMA)*multiplier + prevEMA
}
