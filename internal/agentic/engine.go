// Package agentic maps finding confidence to the actions the engine is
// authorized to take without a human in the loop. The policy is a static
// table: no state survives between decisions.
package agentic

import (
	"fmt"

	"prism-engine/internal/config"
	"prism-engine/internal/domain"
)

var actionEnvelopes = map[domain.ConfidenceTier][]domain.AgentAction{
	domain.TierLow: {
		domain.ActionMonitor,
		domain.ActionLog,
		domain.ActionAnnotate,
	},
	domain.TierMedium: {
		domain.ActionIncreaseScrutiny,
		domain.ActionDelayPayout,
		domain.ActionNotify,
	},
	domain.TierHigh: {
		domain.ActionFreezePayoutTemp,
		domain.ActionLockEscalation,
		domain.ActionEscalateReview,
	},
}

// TierFor buckets a confidence score into its operational tier.
func TierFor(confidence float64, cfg *config.Config) domain.ConfidenceTier {
	switch {
	case confidence >= cfg.HighTierConfidence:
		return domain.TierHigh
	case confidence >= cfg.MediumTierConfidence:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}

// AuthorizedActions returns the allowed actions for a confidence score.
// Envelopes are cumulative: a higher tier inherits everything below it,
// own-tier actions listed first.
func AuthorizedActions(confidence float64, cfg *config.Config) []domain.AgentAction {
	var actions []domain.AgentAction
	switch TierFor(confidence, cfg) {
	case domain.TierHigh:
		actions = append(actions, actionEnvelopes[domain.TierHigh]...)
		actions = append(actions, actionEnvelopes[domain.TierMedium]...)
		actions = append(actions, actionEnvelopes[domain.TierLow]...)
	case domain.TierMedium:
		actions = append(actions, actionEnvelopes[domain.TierMedium]...)
		actions = append(actions, actionEnvelopes[domain.TierLow]...)
	default:
		actions = append(actions, actionEnvelopes[domain.TierLow]...)
	}
	return actions
}

// DecideAction picks the most effective authorized action for a case and
// returns the full audit record, including the reasoning trail.
func DecideAction(caseID string, confidence float64, cfg *config.Config) *domain.AgentDecision {
	tier := TierFor(confidence, cfg)
	authorized := AuthorizedActions(confidence, cfg)

	reasoning := []string{
		fmt.Sprintf("Analyzing risk for case %s...", caseID),
		fmt.Sprintf("Calculated confidence: %.2f (%s tier)", confidence, tier),
		fmt.Sprintf("Authorized actions for this tier: %v", authorized),
	}

	selected := domain.ActionMonitor
	switch tier {
	case domain.TierHigh:
		selected = domain.ActionFreezePayoutTemp
		reasoning = append(reasoning, "High confidence threshold met. Escalating to temporary payout freeze.")
	case domain.TierMedium:
		selected = domain.ActionDelayPayout
		reasoning = append(reasoning, "Medium confidence detected. Applying payout delay pending review.")
	default:
		reasoning = append(reasoning, "Low confidence/insufficient evidence. Maintaining monitor state.")
	}

	return &domain.AgentDecision{
		SelectedAction:        selected,
		Justification:         justification(selected, confidence),
		ConfidenceAlignment:   fmt.Sprintf("Aligned with %s confidence envelope", tier),
		ReasoningLogs:         reasoning,
		ReversibilityNote:     "Action is time-bounded (72h) and fully reversible.",
		ActionDurationHours:   72,
		RequiredHumanFollowup: true,
		GeneratedArtifacts:    []string{"investigation_brief", "network_graph"},
		Interjected:           false,
		Status:                "EXECUTED",
	}
}

func justification(action domain.AgentAction, confidence float64) string {
	switch action {
	case domain.ActionFreezePayoutTemp:
		return fmt.Sprintf("High confidence correlation (%.1f%%) warrants immediate containment to limit financial exposure.", confidence*100)
	case domain.ActionDelayPayout:
		return "Repeated behavioral anomalies detected. Delaying payout for secondary validation."
	default:
		return "Low risk detected. Continuing observational monitoring."
	}
}
