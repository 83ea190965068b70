package indicators

import "math"

// ADXService computes the Average Directional Index family. All averages
// are simple rolling means over the period.
type ADXService struct{}

type ADXResult struct {
	TR      []Value
	ATR     []Value
	DIPlus  []Value
	DIMinus []Value
	DX      []Value
	ADX     []Value
}

func NewADXService() *ADXService {
	return &ADXService{}
}

func (s *ADXService) Calculate(highs, lows, closes []float64, period int) *ADXResult {
	n := len(closes)
	if len(highs) != n || len(lows) != n {
		return nil
	}

	tr := TrueRange(highs, lows, closes)
	atr := RollingMean(tr, period)

	up, down := DirectionalMovement(highs, lows)
	upMean := RollingMean(up, period)
	downMean := RollingMean(down, period)

	diPlus := make([]Value, n)
	diMinus := make([]Value, n)
	dx := make([]Value, n)
	for i := 0; i < n; i++ {
		diPlus[i] = Quotient(upMean[i].Scale(100), atr[i])
		diMinus[i] = Quotient(downMean[i].Scale(100), atr[i])
		dx[i] = Quotient(diPlus[i].Sub(diMinus[i]).Abs(), diPlus[i].Add(diMinus[i])).Scale(100)
	}

	return &ADXResult{
		TR:      tr,
		ATR:     atr,
		DIPlus:  diPlus,
		DIMinus: diMinus,
		DX:      dx,
		ADX:     RollingMean(dx, period),
	}
}

// TrueRange is undefined on the first point, which has no previous close.
func TrueRange(highs, lows, closes []float64) []Value {
	tr := make([]Value, len(closes))
	for i := 1; i < len(closes); i++ {
		prevClose := closes[i-1]
		tr[i] = Defined(math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-prevClose), math.Abs(lows[i]-prevClose))))
	}
	return tr
}

// DirectionalMovement returns the positive parts of the high-to-high rise
// and the low-to-low fall. The first point has nothing to compare with and
// counts as no movement.
func DirectionalMovement(highs, lows []float64) (up, down []Value) {
	up = make([]Value, len(highs))
	down = make([]Value, len(lows))
	if len(highs) == 0 {
		return up, down
	}

	up[0], down[0] = Defined(0), Defined(0)
	for i := 1; i < len(highs); i++ {
		up[i] = Defined(math.Max(highs[i]-highs[i-1], 0))
		down[i] = Defined(math.Max(lows[i-1]-lows[i], 0))
	}
	return up, down
}
