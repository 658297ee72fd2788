package reporting

import (
	"strings"
	"testing"
	"time"

	"prism-engine/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func sampleInput() *Input {
	anchor := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	cluster := &domain.Cluster{
		ID:         "CLUSTER-1",
		TradeIDs:   []string{"T-1", "T-2", "T-3"},
		ClientIDs:  []string{"C-1", "C-2", "C-3"},
		Symbol:     "EURUSD",
		Direction:  domain.DirectionBuy,
		AnchorTime: anchor,
		Count:      3,
	}
	return &Input{
		Summary:  InputSummary{Partners: 2, SubAffiliates: 4, Clients: 40, Trades: 500, SkippedTrades: 3},
		Clusters: []*domain.Cluster{cluster},
		Rings: []*domain.Ring{{
			ID:        "RING-1",
			ClientIDs: []string{"C-1", "C-2", "C-3"},
			Clusters:  []*domain.Cluster{cluster, cluster, cluster},
		}},
		RingAttributions: map[string]*AttributionSummary{
			"RING-1": {TopPartner: "P-1000", TopSub: "S-P-1000-100"},
		},
		BonusFindings: []*domain.BehaviorFinding{{
			SubjectID:   "C-9",
			SubjectType: domain.SubjectClient,
			RiskScore:   0.95,
			Reason:      "Bonus Abuse: High-Leverage/Short-Duration Activity",
			TradeCount:  4,
		}},
		RegimeAlerts: []*domain.RegimeAlert{{
			PartnerID:  "P-1000",
			RiskScore:  0.85,
			Metric:     domain.MetricVolumeSurge,
			Baseline:   100.0,
			Current:    450.0,
			ZScore:     3.5,
			Hypothesis: "Volume for partner P-1000 deviates 3.5 std devs from baseline.",
		}},
		Evidence: []*domain.Evidence{{
			CaseID:     strings.Repeat("ab", 32),
			Hypothesis: "Coordinated mirror-trading ring across 3 accounts.",
			Exposure:   150.0,
			Confidence: 0.85,
			Indicators: []string{"3 synchronized clusters", "3 distinct clients"},
			AgentDecision: &domain.AgentDecision{
				SelectedAction: domain.ActionDelayPayout,
				Justification:  "Medium confidence supports a reversible payout delay.",
				Status:         "EXECUTED",
			},
		}},
	}
}

func TestGenerateUsesInjectedClock(t *testing.T) {
	r := NewGenerator().WithClock(fixedClock).Generate(sampleInput())
	if !r.GeneratedAt.Equal(fixedClock()) {
		t.Errorf("GeneratedAt = %v, want %v", r.GeneratedAt, fixedClock())
	}
}

func TestGenerateNilInput(t *testing.T) {
	r := NewGenerator().WithClock(fixedClock).Generate(nil)
	if len(r.Rings) != 0 || len(r.Evidence) != 0 {
		t.Error("nil input should produce an empty report")
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := NewGenerator().WithClock(fixedClock).Generate(sampleInput())
	md := RenderMarkdown(r)

	for _, want := range []string{
		"# Fraud Detection Report",
		"Generated: 2025-06-01T12:00:00Z",
		"| Trades | 500 |",
		"| Skipped Trade Rows | 3 |",
		"Detected 1 synchronized clusters and 1 coordination rings.",
		"| RING-1 | C-1 C-2 C-3 | 3 | P-1000 | false |",
		"| C-9 | client | 0.95 | 4 | Bonus Abuse: High-Leverage/Short-Duration Activity |",
		"| P-1000 | Volume Surge | 100.00 | 450.00 | 3.50 | 0.85 |",
		"### Case abababababab",
		"- 3 synchronized clusters",
		"Agent action: `delay_payout`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownEmptySections(t *testing.T) {
	r := NewGenerator().WithClock(fixedClock).Generate(&Input{})
	md := RenderMarkdown(r)

	if !strings.Contains(md, "No behavioral findings.") {
		t.Error("expected empty behavioral section placeholder")
	}
	if !strings.Contains(md, "No regime shifts detected.") {
		t.Error("expected empty regime section placeholder")
	}
	if strings.Contains(md, "## Evidence Briefs") {
		t.Error("evidence section should be omitted when empty")
	}
}

func TestRenderFindingsCSV(t *testing.T) {
	r := NewGenerator().WithClock(fixedClock).Generate(sampleInput())
	out := RenderFindingsCSV(r)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "kind,subject_id,risk_score,detail" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "ring,RING-1,") {
		t.Errorf("unexpected ring row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "bonus_abuse,C-9,0.95,") {
		t.Errorf("unexpected bonus row %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "regime_shift,P-1000,0.85,z=3.50") {
		t.Errorf("unexpected regime row %q", lines[3])
	}
}

func TestRenderHTML(t *testing.T) {
	r := NewGenerator().WithClock(fixedClock).Generate(sampleInput())
	out, err := RenderHTML(r)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		"<title>Fraud Detection Report</title>",
		"Generated: 2025-06-01 12:00:00 UTC",
		"Case abababababab",
		"Coordinated mirror-trading ring across 3 accounts.",
		"<span class=\"action\">delay_payout</span>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	in := &Input{Evidence: []*domain.Evidence{{
		CaseID:     strings.Repeat("cd", 32),
		Hypothesis: "<script>alert(1)</script>",
		Indicators: []string{"plain"},
	}}}
	r := NewGenerator().WithClock(fixedClock).Generate(in)
	out, err := RenderHTML(r)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("hypothesis was not escaped")
	}
}
