package reporting

import (
	"time"

	"prism-engine/internal/domain"
)

// InputSummary describes the snapshot a detection pass ran over.
type InputSummary struct {
	Partners      int
	SubAffiliates int
	Clients       int
	Trades        int
	SkippedTrades int
}

// Input carries everything one detection pass produced.
type Input struct {
	Summary            InputSummary
	Clusters           []*domain.Cluster
	Rings              []*domain.Ring
	RingAttributions   map[string]*AttributionSummary // keyed by ring id
	BonusFindings      []*domain.BehaviorFinding
	CommissionFindings []*domain.BehaviorFinding
	RegimeAlerts       []*domain.RegimeAlert
	Evidence           []*domain.Evidence
}

// AttributionSummary is the reporting view of where a ring concentrates.
type AttributionSummary struct {
	TopPartner   string
	TopSub       string
	CrossPartner bool
	CrossSub     bool
}

// Report is a timestamped detection pass result ready for rendering.
type Report struct {
	GeneratedAt time.Time
	Input
}

// Generator stamps reports with a clock.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator using wall time.
func NewGenerator() *Generator {
	return &Generator{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate stamps the pass results into a report.
func (g *Generator) Generate(in *Input) *Report {
	r := &Report{GeneratedAt: g.now()}
	if in != nil {
		r.Input = *in
	}
	return r
}
