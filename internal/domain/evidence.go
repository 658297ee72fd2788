package domain

// Evidence is the synthesized case package for one finding: a narrative
// hypothesis plus the machine-readable indicators behind it.
type Evidence struct {
	CaseID     string
	Hypothesis string
	Exposure   float64
	Confidence float64
	Indicators []string

	// Populated for ring cases only
	AgentDecision     *AgentDecision
	AuthorizedActions []AgentAction
}
