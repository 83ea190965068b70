package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinedRejectsNonFinite(t *testing.T) {
	assert.False(t, Defined(math.NaN()).Valid)
	assert.False(t, Defined(math.Inf(1)).Valid)
	assert.False(t, Defined(math.Inf(-1)).Valid)
	assert.True(t, Defined(0).Valid)
}

func TestComparisonsWithUndefinedAreFalse(t *testing.T) {
	one := Defined(1)
	assert.True(t, Defined(2).GreaterThan(one))
	assert.False(t, one.GreaterThan(Defined(2)))
	assert.False(t, Undefined.GreaterThan(one))
	assert.False(t, one.GreaterThan(Undefined))
	assert.False(t, Undefined.GreaterThan(Undefined))
	assert.False(t, Undefined.Above(-1e9))
	assert.True(t, one.Above(0.5))
}

func TestQuotient(t *testing.T) {
	tests := []struct {
		name     string
		num, den Value
		want     Value
	}{
		{"regular", Defined(6), Defined(3), Defined(2)},
		{"zero denominator", Defined(6), Defined(0), Undefined},
		{"zero over zero", Defined(0), Defined(0), Undefined},
		{"undefined numerator", Undefined, Defined(3), Undefined},
		{"undefined denominator", Defined(6), Undefined, Undefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quotient(tt.num, tt.den))
		})
	}
}

func TestArithmeticPropagatesUndefined(t *testing.T) {
	assert.Equal(t, Undefined, Undefined.Add(Defined(1)))
	assert.Equal(t, Undefined, Defined(1).Sub(Undefined))
	assert.Equal(t, Undefined, Undefined.Abs())
	assert.Equal(t, Undefined, Undefined.Scale(100))
	assert.Equal(t, Defined(3), Defined(-3).Abs())
	assert.Equal(t, "n/a", Undefined.String())
	assert.Equal(t, "1.5000", Defined(1.5).String())
}
