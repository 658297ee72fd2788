// Package behavior holds the per-subject threshold detectors: bonus abuse
// at the client level and commission inflation at the sub-affiliate level.
package behavior

import (
	"sort"

	"prism-engine/internal/config"
	"prism-engine/internal/domain"
)

// DetectBonusAbuse flags clients with hit-and-run activity: trades whose
// volume reaches MinTradeVolume and whose duration stays within
// MaxTradeDurationSec. Both boundaries are inclusive. Trades without a
// valid exit time have no duration and never count as suspicious.
// Findings come back in client id order.
func DetectBonusAbuse(trades []*domain.Trade, cfg *config.Config) []*domain.BehaviorFinding {
	suspicious := make(map[string]int)
	for _, t := range trades {
		if t == nil || !t.HasValidTimestamps() {
			continue
		}
		if t.Volume >= cfg.MinTradeVolume && t.DurationSeconds() <= cfg.MaxTradeDurationSec {
			suspicious[t.ClientID]++
		}
	}

	clientIDs := make([]string, 0, len(suspicious))
	for id := range suspicious {
		clientIDs = append(clientIDs, id)
	}
	sort.Strings(clientIDs)

	var findings []*domain.BehaviorFinding
	for _, id := range clientIDs {
		count := suspicious[id]
		if count < cfg.MinBonusAbuseTrades {
			continue
		}
		findings = append(findings, &domain.BehaviorFinding{
			SubjectID:   id,
			SubjectType: domain.SubjectClient,
			RiskScore:   cfg.BonusAbuseRiskScore,
			Reason:      "Bonus Abuse: High-Leverage/Short-Duration Activity",
			TradeCount:  count,
		})
	}
	return findings
}

type subAccumulator struct {
	totalVolume   float64
	totalTrades   int
	clients       map[string]struct{}
	durationSum   float64
	durationCount int
}

// DetectCommissionInflation flags sub-affiliates whose aggregated flow
// looks machine-generated: average trade duration strictly below
// MaxAvgDurationSec combined with strictly more than MinSubAffiliateTrades
// trades. Trades from clients with no known sub-affiliate are ignored.
// Findings come back in sub-affiliate id order.
func DetectCommissionInflation(trades []*domain.Trade, clients []*domain.Client, cfg *config.Config) []*domain.BehaviorFinding {
	clientSub := make(map[string]string, len(clients))
	for _, c := range clients {
		if c != nil && c.ParentSubID != "" {
			clientSub[c.ClientID] = c.ParentSubID
		}
	}

	stats := make(map[string]*subAccumulator)
	for _, t := range trades {
		if t == nil {
			continue
		}
		subID, ok := clientSub[t.ClientID]
		if !ok {
			continue
		}

		acc := stats[subID]
		if acc == nil {
			acc = &subAccumulator{clients: make(map[string]struct{})}
			stats[subID] = acc
		}
		acc.totalVolume += t.Volume
		acc.totalTrades++
		acc.clients[t.ClientID] = struct{}{}
		if t.HasValidTimestamps() {
			acc.durationSum += t.DurationSeconds()
			acc.durationCount++
		}
	}

	subIDs := make([]string, 0, len(stats))
	for id := range stats {
		subIDs = append(subIDs, id)
	}
	sort.Strings(subIDs)

	var findings []*domain.BehaviorFinding
	for _, id := range subIDs {
		acc := stats[id]
		if acc.durationCount == 0 {
			// No measurable durations, no basis for the low-duration claim
			continue
		}
		avgDuration := acc.durationSum / float64(acc.durationCount)

		if avgDuration < cfg.MaxAvgDurationSec && acc.totalTrades > cfg.MinSubAffiliateTrades {
			findings = append(findings, &domain.BehaviorFinding{
				SubjectID:   id,
				SubjectType: domain.SubjectSubAffiliate,
				RiskScore:   cfg.CommissionRiskScore,
				Reason:      "Commission Inflation: High Freq / Low Duration",
				TradeCount:  acc.totalTrades,
				Stats: &domain.SubAffiliateStats{
					TotalVolume:        acc.totalVolume,
					TotalTrades:        acc.totalTrades,
					UniqueClients:      len(acc.clients),
					AvgDurationSeconds: avgDuration,
				},
			})
		}
	}
	return findings
}
