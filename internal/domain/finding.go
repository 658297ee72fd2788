package domain

// SubjectType identifies what kind of entity a behavior finding flags.
type SubjectType string

// Finding subject types.
const (
	SubjectClient       SubjectType = "client"
	SubjectSubAffiliate SubjectType = "sub_affiliate"
)

// SubAffiliateStats is the aggregate block attached to commission-inflation
// findings.
type SubAffiliateStats struct {
	TotalVolume        float64
	TotalTrades        int
	UniqueClients      int
	AvgDurationSeconds float64
}

// BehaviorFinding is one threshold-detector hit. TradeCount is set for
// bonus-abuse findings; Stats is set for commission-inflation findings.
type BehaviorFinding struct {
	SubjectID   string
	SubjectType SubjectType
	RiskScore   float64
	Reason      string
	TradeCount  int
	Stats       *SubAffiliateStats
}
