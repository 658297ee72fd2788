package domain

import "time"

// Direction is the side of a trade.
type Direction string

// Trade directions.
const (
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// Trade is one row of the trade snapshot. Immutable after ingestion.
type Trade struct {
	TradeID   string
	ClientID  string
	Symbol    string
	Direction Direction
	Volume    float64
	EntryTime time.Time
	ExitTime  time.Time
	Profit    *float64 // nullable, informational
}

// DurationSeconds returns exit_time - entry_time in seconds.
// Returns 0 if either timestamp is missing.
func (t *Trade) DurationSeconds() float64 {
	if t.EntryTime.IsZero() || t.ExitTime.IsZero() {
		return 0
	}
	return t.ExitTime.Sub(t.EntryTime).Seconds()
}

// HasValidTimestamps reports whether both timestamps parsed at ingestion.
// Trades failing this are excluded from all timestamp-dependent detectors.
func (t *Trade) HasValidTimestamps() bool {
	return !t.EntryTime.IsZero() && !t.ExitTime.IsZero()
}
