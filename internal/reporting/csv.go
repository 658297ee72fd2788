package reporting

import (
	"fmt"
	"strings"
)

// RenderFindingsCSV renders every case in a report as one CSV row, flat
// enough to diff between runs.
func RenderFindingsCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("kind,subject_id,risk_score,detail\n")

	for _, ring := range r.Rings {
		sb.WriteString(fmt.Sprintf("ring,%s,,%d clusters over clients %s\n",
			ring.ID, len(ring.Clusters), strings.Join(ring.ClientIDs, " ")))
	}
	for _, f := range r.BonusFindings {
		sb.WriteString(fmt.Sprintf("bonus_abuse,%s,%.2f,%d suspicious trades\n",
			f.SubjectID, f.RiskScore, f.TradeCount))
	}
	for _, f := range r.CommissionFindings {
		detail := fmt.Sprintf("%d trades", f.TradeCount)
		if f.Stats != nil {
			detail = fmt.Sprintf("%d trades across %d clients avg %.1fs",
				f.Stats.TotalTrades, f.Stats.UniqueClients, f.Stats.AvgDurationSeconds)
		}
		sb.WriteString(fmt.Sprintf("commission_inflation,%s,%.2f,%s\n",
			f.SubjectID, f.RiskScore, detail))
	}
	for _, a := range r.RegimeAlerts {
		sb.WriteString(fmt.Sprintf("regime_shift,%s,%.2f,z=%.2f baseline=%.2f current=%.2f\n",
			a.PartnerID, a.RiskScore, a.ZScore, a.Baseline, a.Current))
	}

	return sb.String()
}
