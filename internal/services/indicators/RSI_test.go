package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSISmallPeriod(t *testing.T) {
	// gains 0,1,0,2 / losses 0,0,1,0 => avg over 2: gain -,.5,.5,1 loss -,0,.5,.5
	rsi := NewRSIService().Calculate([]float64{1, 2, 1, 3}, 2)
	require.Len(t, rsi, 4)

	assert.Equal(t, Defined(RSINeutral), rsi[0])
	assert.Equal(t, Defined(100), rsi[1])
	assert.InDelta(t, 50, rsi[2].V, 1e-12)
	assert.InDelta(t, 100-100.0/3, rsi[3].V, 1e-12)
}

func TestRSIAlwaysDefined(t *testing.T) {
	closes := []float64{10, 11, 10.5, 10.7, 10.2, 10.9, 11.3, 11.1, 10.8, 11.6,
		11.9, 12.4, 12.1, 12.0, 12.8, 13.1, 12.7, 12.9}
	for i, v := range NewRSIService().Calculate(closes, RSIPeriod) {
		assert.True(t, v.Valid, "row %d", i)
		assert.GreaterOrEqual(t, v.V, 0.0)
		assert.LessOrEqual(t, v.V, 100.0)
	}
}

func TestRSIWarmUpIsNeutral(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(100 + i*(i%3))
	}
	rsi := NewRSIService().Calculate(closes, RSIPeriod)
	for i := 0; i < RSIPeriod-1; i++ {
		assert.Equal(t, Defined(RSINeutral), rsi[i], "row %d", i)
	}
}

func TestRSIConstantIsNeutral(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 5
	}
	for _, v := range NewRSIService().Calculate(closes, RSIPeriod) {
		assert.Equal(t, Defined(RSINeutral), v)
	}
}

func TestRSIRisingSaturates(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := NewRSIService().Calculate(closes, RSIPeriod)
	for i := RSIPeriod - 1; i < len(rsi); i++ {
		assert.Equal(t, Defined(100), rsi[i], "row %d", i)
	}
}

func TestRSIFallingIsZero(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	rsi := NewRSIService().Calculate(closes, RSIPeriod)
	assert.Equal(t, Defined(0), rsi[len(rsi)-1])
}

func TestRSIEmpty(t *testing.T) {
	assert.Empty(t, NewRSIService().Calculate(nil, RSIPeriod))
}
