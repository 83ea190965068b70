package indicators

// RollingMean is the simple moving average of values over period points.
// Point i is undefined while i < period-1 or when any value inside its
// window is undefined. Each window is summed on its own so a point depends
// only on values[i-period+1 : i+1].
func RollingMean(values []Value, period int) []Value {
	out := make([]Value, len(values))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		out[i] = windowMean(values[i-period+1 : i+1])
	}
	return out
}

func windowMean(window []Value) Value {
	sum := 0.0
	for _, v := range window {
		if !v.Valid {
			return Undefined
		}
		sum += v.V
	}
	return Defined(sum / float64(len(window)))
}
