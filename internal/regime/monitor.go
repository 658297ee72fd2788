// Package regime watches per-partner daily volume for departures from the
// partner's own historical baseline.
package regime

import (
	"fmt"
	"math"
	"sort"
	"time"

	"prism-engine/internal/config"
	"prism-engine/internal/domain"
)

type dailyVolume struct {
	date   time.Time
	volume float64
}

// DetectRegimeShifts compares each partner's recent daily volume against
// its own baseline and raises a Volume Surge alert when the z-score
// strictly exceeds the deviation threshold.
//
// Trades bucket into (partner, UTC date) daily volumes. The last
// CurrentWindowDays days form the current window; everything before is
// the baseline. Partners with fewer than MinHistoryDays active days, or a
// baseline shorter than MinBaselineDays, are skipped — as is a flat
// baseline, where the z-score is undefined. The baseline deviation is the
// sample standard deviation.
//
// Partners are scanned in ascending id order, one alert per partner per
// pass at most.
func DetectRegimeShifts(trades []*domain.Trade, clients []*domain.Client, cfg *config.Config) []*domain.RegimeAlert {
	clientPartner := make(map[string]string, len(clients))
	for _, c := range clients {
		if c != nil && c.MasterPartnerID != "" {
			clientPartner[c.ClientID] = c.MasterPartnerID
		}
	}

	// (partner, day) volume buckets
	buckets := make(map[string]map[time.Time]float64)
	for _, t := range trades {
		if t == nil || t.EntryTime.IsZero() {
			continue
		}
		partnerID, ok := clientPartner[t.ClientID]
		if !ok {
			continue
		}

		day := t.EntryTime.UTC().Truncate(24 * time.Hour)
		if buckets[partnerID] == nil {
			buckets[partnerID] = make(map[time.Time]float64)
		}
		buckets[partnerID][day] += t.Volume
	}

	partnerIDs := make([]string, 0, len(buckets))
	for id := range buckets {
		partnerIDs = append(partnerIDs, id)
	}
	sort.Strings(partnerIDs)

	var alerts []*domain.RegimeAlert
	for _, partnerID := range partnerIDs {
		days := make([]dailyVolume, 0, len(buckets[partnerID]))
		for date, vol := range buckets[partnerID] {
			days = append(days, dailyVolume{date: date, volume: vol})
		}
		sort.Slice(days, func(i, j int) bool {
			return days[i].date.Before(days[j].date)
		})

		if len(days) < cfg.MinHistoryDays {
			continue
		}

		split := len(days) - cfg.CurrentWindowDays
		if split < cfg.MinBaselineDays {
			continue
		}
		baseline := days[:split]
		current := days[split:]

		baselineMean, baselineStd := meanAndSampleStd(baseline)
		if baselineStd <= 0 {
			continue
		}

		currentMean := mean(current)
		zScore := (currentMean - baselineMean) / baselineStd
		if zScore <= cfg.DeviationThreshold {
			continue
		}

		alerts = append(alerts, &domain.RegimeAlert{
			PartnerID: partnerID,
			RiskScore: math.Min(0.99, zScore/10+0.5),
			Metric:    domain.MetricVolumeSurge,
			Baseline:  round2(baselineMean),
			Current:   round2(currentMean),
			ZScore:    round2(zScore),
			Hypothesis: fmt.Sprintf(
				"Significant volume spike (Z=%.1f) detected vs. baseline. Consistent with 'Sleeper' activation.",
				zScore),
		})
	}
	return alerts
}

func mean(days []dailyVolume) float64 {
	var sum float64
	for _, d := range days {
		sum += d.volume
	}
	return sum / float64(len(days))
}

func meanAndSampleStd(days []dailyVolume) (float64, float64) {
	m := mean(days)
	if len(days) < 2 {
		return m, 0
	}

	var sq float64
	for _, d := range days {
		diff := d.volume - m
		sq += diff * diff
	}
	return m, math.Sqrt(sq / float64(len(days)-1))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
