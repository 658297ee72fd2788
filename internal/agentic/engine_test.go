package agentic

import (
	"testing"

	"prism-engine/internal/config"
	"prism-engine/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		HighTierConfidence:   0.9,
		MediumTierConfidence: 0.7,
	}
}

func TestTierFor(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		confidence float64
		want       domain.ConfidenceTier
	}{
		{0.0, domain.TierLow},
		{0.69, domain.TierLow},
		{0.7, domain.TierMedium}, // inclusive lower bound
		{0.89, domain.TierMedium},
		{0.9, domain.TierHigh}, // inclusive lower bound
		{0.99, domain.TierHigh},
	}

	for _, tt := range tests {
		if got := TierFor(tt.confidence, cfg); got != tt.want {
			t.Errorf("TierFor(%v): got %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestAuthorizedActions_Cumulative(t *testing.T) {
	cfg := testConfig()

	low := AuthorizedActions(0.2, cfg)
	medium := AuthorizedActions(0.75, cfg)
	high := AuthorizedActions(0.95, cfg)

	if len(low) != 3 {
		t.Errorf("Low tier: expected 3 actions, got %d", len(low))
	}
	if len(medium) != 6 {
		t.Errorf("Medium tier: expected 6 actions, got %d", len(medium))
	}
	if len(high) != 9 {
		t.Errorf("High tier: expected 9 actions, got %d", len(high))
	}

	// Everything allowed at a lower tier is allowed above it
	allowed := make(map[domain.AgentAction]struct{}, len(high))
	for _, a := range high {
		allowed[a] = struct{}{}
	}
	for _, a := range medium {
		if _, ok := allowed[a]; !ok {
			t.Errorf("High tier missing medium-tier action %s", a)
		}
	}
}

func TestDecideAction_Selection(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name       string
		confidence float64
		want       domain.AgentAction
	}{
		{"high tier freezes payout", 0.95, domain.ActionFreezePayoutTemp},
		{"medium tier delays payout", 0.8, domain.ActionDelayPayout},
		{"low tier monitors", 0.3, domain.ActionMonitor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideAction("RING-0", tt.confidence, cfg)
			if d.SelectedAction != tt.want {
				t.Errorf("SelectedAction: got %s, want %s", d.SelectedAction, tt.want)
			}
			if len(d.ReasoningLogs) == 0 {
				t.Error("ReasoningLogs must not be empty")
			}
			if !d.RequiredHumanFollowup {
				t.Error("Every autonomous decision requires human followup")
			}
			if d.ActionDurationHours != 72 {
				t.Errorf("ActionDurationHours: got %d, want 72", d.ActionDurationHours)
			}
		})
	}
}

func TestDecideAction_Stateless(t *testing.T) {
	cfg := testConfig()

	a := DecideAction("RING-0", 0.95, cfg)
	b := DecideAction("RING-0", 0.95, cfg)
	if a.SelectedAction != b.SelectedAction || a.Justification != b.Justification {
		t.Error("Identical inputs must produce identical decisions")
	}
}
