package models

// FetchStatus separates "no data" from real retrieval failures.
type FetchStatus int

const (
	FetchStatusData FetchStatus = iota
	FetchStatusEmpty
	FetchStatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchStatusData:
		return "data"
	case FetchStatusEmpty:
		return "empty"
	case FetchStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchResult is what a candle source returns for one (symbol, interval).
type FetchResult struct {
	Status  FetchStatus
	Candles []Candle
	Err     error
}

func FetchedCandles(candles []Candle) FetchResult {
	if len(candles) == 0 {
		return FetchResult{Status: FetchStatusEmpty}
	}
	return FetchResult{Status: FetchStatusData, Candles: candles}
}

func FetchFailed(err error) FetchResult {
	return FetchResult{Status: FetchStatusFailed, Err: err}
}
