package indicators

import (
	"fmt"
	"math"
)

// Value is an indicator reading that may be undefined, either because its
// window has not warmed up yet or because a denominator was zero. Every
// comparison involving an undefined Value is false.
type Value struct {
	V     float64
	Valid bool
}

// Undefined is the zero Value.
var Undefined = Value{}

// Defined wraps v. Non-finite inputs collapse to Undefined so a valid Value
// always holds a finite number.
func Defined(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return Value{V: v, Valid: true}
}

// DefinedAll wraps every element of values.
func DefinedAll(values []float64) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Defined(v)
	}
	return out
}

func (v Value) GreaterThan(o Value) bool {
	return v.Valid && o.Valid && v.V > o.V
}

func (v Value) Above(x float64) bool {
	return v.Valid && v.V > x
}

func (v Value) Sub(o Value) Value {
	if !v.Valid || !o.Valid {
		return Undefined
	}
	return Defined(v.V - o.V)
}

func (v Value) Add(o Value) Value {
	if !v.Valid || !o.Valid {
		return Undefined
	}
	return Defined(v.V + o.V)
}

func (v Value) Abs() Value {
	if !v.Valid {
		return Undefined
	}
	return Defined(math.Abs(v.V))
}

func (v Value) Scale(k float64) Value {
	if !v.Valid {
		return Undefined
	}
	return Defined(v.V * k)
}

// Quotient divides num by den. A zero or undefined denominator yields
// Undefined rather than zero or an infinity.
func Quotient(num, den Value) Value {
	if !num.Valid || !den.Valid || den.V == 0 {
		return Undefined
	}
	return Defined(num.V / den.V)
}

func (v Value) String() string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v.V)
}
