package domain

import "time"

// Cluster is one detected instance of temporally synchronized trades
// across at least two distinct clients. Produced fresh per detection pass;
// holds only ids for re-joining by downstream consumers.
type Cluster struct {
	ID         string
	TradeIDs   []string
	ClientIDs  []string // distinct, sorted ascending
	Symbol     string
	Direction  Direction
	AnchorTime time.Time // entry time of the anchor trade
	Count      int       // len(TradeIDs)
}
