package domain

// ConfidenceTier buckets a confidence score into an operational envelope.
type ConfidenceTier string

const (
	TierLow    ConfidenceTier = "low"
	TierMedium ConfidenceTier = "medium"
	TierHigh   ConfidenceTier = "high"
)

// AgentAction is one operation the agent may take autonomously.
type AgentAction string

const (
	ActionMonitor          AgentAction = "monitor"
	ActionAnnotate         AgentAction = "annotate"
	ActionLog              AgentAction = "log"
	ActionDelayPayout      AgentAction = "delay_payout"
	ActionNotify           AgentAction = "notify"
	ActionIncreaseScrutiny AgentAction = "increase_scrutiny"
	ActionFreezePayoutTemp AgentAction = "freeze_payout_temp"
	ActionLockEscalation   AgentAction = "lock_escalation"
	ActionEscalateReview   AgentAction = "escalate_review"
)

// AgentDecision is the audit record for one autonomous policy decision.
type AgentDecision struct {
	SelectedAction        AgentAction
	Justification         string
	ConfidenceAlignment   string
	ReasoningLogs         []string
	ReversibilityNote     string
	ActionDurationHours   int
	RequiredHumanFollowup bool
	GeneratedArtifacts    []string
	Interjected           bool
	Status                string
}
