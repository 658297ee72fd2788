package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Fraud Detection Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Input Summary
	sb.WriteString("## Input Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Partners | %d |\n", r.Summary.Partners))
	sb.WriteString(fmt.Sprintf("| Sub-Affiliates | %d |\n", r.Summary.SubAffiliates))
	sb.WriteString(fmt.Sprintf("| Clients | %d |\n", r.Summary.Clients))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", r.Summary.Trades))
	sb.WriteString(fmt.Sprintf("| Skipped Trade Rows | %d |\n", r.Summary.SkippedTrades))
	sb.WriteString("\n")

	// Mirror Trading
	sb.WriteString("## Mirror Trading\n\n")
	sb.WriteString(fmt.Sprintf("Detected %d synchronized clusters and %d coordination rings.\n\n",
		len(r.Clusters), len(r.Rings)))
	if len(r.Rings) > 0 {
		sb.WriteString("| Ring | Clients | Clusters | Top Partner | Cross-Partner |\n")
		sb.WriteString("|------|---------|----------|-------------|---------------|\n")
		for _, ring := range r.Rings {
			topPartner := ""
			crossPartner := false
			if attr, ok := r.RingAttributions[ring.ID]; ok {
				topPartner = attr.TopPartner
				crossPartner = attr.CrossPartner
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %v |\n",
				ring.ID, strings.Join(ring.ClientIDs, " "), len(ring.Clusters), topPartner, crossPartner))
		}
		sb.WriteString("\n")
	}

	// Behavioral Findings
	sb.WriteString("## Behavioral Findings\n\n")
	if len(r.BonusFindings) == 0 && len(r.CommissionFindings) == 0 {
		sb.WriteString("No behavioral findings.\n\n")
	} else {
		sb.WriteString("| Subject | Type | Risk | Trades | Reason |\n")
		sb.WriteString("|---------|------|------|--------|--------|\n")
		for _, f := range r.BonusFindings {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %d | %s |\n",
				f.SubjectID, f.SubjectType, f.RiskScore, f.TradeCount, f.Reason))
		}
		for _, f := range r.CommissionFindings {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %d | %s |\n",
				f.SubjectID, f.SubjectType, f.RiskScore, f.TradeCount, f.Reason))
		}
		sb.WriteString("\n")
	}

	// Regime Alerts
	sb.WriteString("## Regime Alerts\n\n")
	if len(r.RegimeAlerts) == 0 {
		sb.WriteString("No regime shifts detected.\n\n")
	} else {
		sb.WriteString("| Partner | Metric | Baseline | Current | Z | Risk |\n")
		sb.WriteString("|---------|--------|----------|---------|---|------|\n")
		for _, a := range r.RegimeAlerts {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f | %.2f |\n",
				a.PartnerID, a.Metric, a.Baseline, a.Current, a.ZScore, a.RiskScore))
		}
		sb.WriteString("\n")
	}

	// Evidence Briefs
	if len(r.Evidence) > 0 {
		sb.WriteString("## Evidence Briefs\n\n")
		for _, ev := range r.Evidence {
			sb.WriteString(fmt.Sprintf("### Case %s\n\n", ev.CaseID[:12]))
			sb.WriteString(fmt.Sprintf("%s\n\n", ev.Hypothesis))
			sb.WriteString(fmt.Sprintf("Confidence: %.2f | Exposure: %.2f\n\n", ev.Confidence, ev.Exposure))
			for _, ind := range ev.Indicators {
				sb.WriteString(fmt.Sprintf("- %s\n", ind))
			}
			sb.WriteString("\n")
			if ev.AgentDecision != nil {
				sb.WriteString(fmt.Sprintf("Agent action: `%s` — %s\n\n",
					ev.AgentDecision.SelectedAction, ev.AgentDecision.Justification))
			}
		}
	}

	return sb.String()
}
