package regime

import (
	"fmt"
	"testing"
	"time"

	"prism-engine/internal/config"
	"prism-engine/internal/domain"
)

var day0 = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		DeviationThreshold: 2.5,
		CurrentWindowDays:  3,
		MinHistoryDays:     5,
		MinBaselineDays:    5,
	}
}

// dailyTrades emits one trade per day for a client, with the given volumes.
func dailyTrades(clientID string, startDay int, volumes []float64) []*domain.Trade {
	var trades []*domain.Trade
	for i, vol := range volumes {
		entry := day0.AddDate(0, 0, startDay+i)
		trades = append(trades, &domain.Trade{
			TradeID:   fmt.Sprintf("T-%s-%d", clientID, startDay+i),
			ClientID:  clientID,
			Symbol:    "EURUSD",
			Direction: domain.DirectionBuy,
			Volume:    vol,
			EntryTime: entry,
			ExitTime:  entry.Add(time.Minute),
		})
	}
	return trades
}

func TestDetectRegimeShifts_SleeperActivation(t *testing.T) {
	// 10 baseline days around volume 1.0 with small alternating variance,
	// then 3 days at 10.0.
	volumes := []float64{0.9, 1.1, 0.9, 1.1, 0.9, 1.1, 0.9, 1.1, 0.9, 1.1, 10, 10, 10}
	trades := dailyTrades("C-1", 0, volumes)
	clients := []*domain.Client{{ClientID: "C-1", ParentSubID: "S-1", MasterPartnerID: "P-1"}}

	// A quiet partner that must not alert
	trades = append(trades, dailyTrades("C-2", 0, []float64{1, 1.2, 0.8, 1, 1.1, 0.9, 1, 1.2, 0.8, 1, 1, 1, 1})...)
	clients = append(clients, &domain.Client{ClientID: "C-2", ParentSubID: "S-2", MasterPartnerID: "P-2"})

	alerts := DetectRegimeShifts(trades, clients, testConfig())
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}

	a := alerts[0]
	if a.PartnerID != "P-1" {
		t.Errorf("PartnerID: got %s, want P-1", a.PartnerID)
	}
	if a.Metric != domain.MetricVolumeSurge {
		t.Errorf("Metric: got %s, want %s", a.Metric, domain.MetricVolumeSurge)
	}
	if a.ZScore <= 2.0 {
		t.Errorf("ZScore: got %v, want > 2.0", a.ZScore)
	}
	if a.Baseline != 1.0 {
		t.Errorf("Baseline: got %v, want 1.0", a.Baseline)
	}
	if a.Current != 10.0 {
		t.Errorf("Current: got %v, want 10.0", a.Current)
	}
	if a.RiskScore > 0.99 {
		t.Errorf("RiskScore must cap at 0.99, got %v", a.RiskScore)
	}
}

func TestDetectRegimeShifts_ZScoreAtThresholdNoAlert(t *testing.T) {
	cfg := testConfig()

	// Pin the threshold to the exact z-score the data produces, computed
	// through the same helpers the monitor uses.
	baseline := []float64{0, 2, 0, 2, 0, 2, 0, 2, 0, 2}
	current := []float64{4, 4, 4}
	baselineMean, std := meanAndSampleStd(toDaily(baseline))
	currentMean := mean(toDaily(current))
	z := (currentMean - baselineMean) / std

	volumes := append(append([]float64{}, baseline...), current...)
	trades := dailyTrades("C-1", 0, volumes)
	clients := []*domain.Client{{ClientID: "C-1", MasterPartnerID: "P-1"}}

	cfg.DeviationThreshold = z
	alerts := DetectRegimeShifts(trades, clients, cfg)
	if len(alerts) != 0 {
		t.Fatalf("z == threshold must not alert, got %d alerts", len(alerts))
	}

	// A threshold just below must alert.
	cfg.DeviationThreshold = z - 1e-9
	alerts = DetectRegimeShifts(trades, clients, cfg)
	if len(alerts) != 1 {
		t.Fatalf("z above threshold must alert, got %d alerts", len(alerts))
	}
}

func TestDetectRegimeShifts_FlatBaselineSkipped(t *testing.T) {
	// Identical daily volumes: std 0, z undefined, no alert.
	volumes := []float64{1, 1, 1, 1, 1, 1, 1, 1, 50, 50, 50}
	trades := dailyTrades("C-1", 0, volumes)
	clients := []*domain.Client{{ClientID: "C-1", MasterPartnerID: "P-1"}}

	alerts := DetectRegimeShifts(trades, clients, testConfig())
	if len(alerts) != 0 {
		t.Fatalf("Flat baseline must be skipped, got %d alerts", len(alerts))
	}
}

func TestDetectRegimeShifts_InsufficientHistorySkipped(t *testing.T) {
	// 7 active days leaves a 4-day baseline: below the minimum.
	volumes := []float64{1, 2, 1, 2, 10, 10, 10}
	trades := dailyTrades("C-1", 0, volumes)
	clients := []*domain.Client{{ClientID: "C-1", MasterPartnerID: "P-1"}}

	alerts := DetectRegimeShifts(trades, clients, testConfig())
	if len(alerts) != 0 {
		t.Fatalf("Short history must be skipped, got %d alerts", len(alerts))
	}
}

func TestDetectRegimeShifts_UnmappedClientsIgnored(t *testing.T) {
	volumes := []float64{1, 1.2, 0.8, 1, 1.2, 0.8, 1, 1.2, 20, 20, 20}
	trades := dailyTrades("C-ghost", 0, volumes)

	alerts := DetectRegimeShifts(trades, nil, testConfig())
	if len(alerts) != 0 {
		t.Fatalf("Trades without a known partner must be ignored, got %d alerts", len(alerts))
	}
}

func TestMeanAndSampleStd(t *testing.T) {
	// Sample std of {2, 4, 4, 4, 5, 5, 7, 9} is ~2.138 (n-1 denominator).
	days := toDaily([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	m, std := meanAndSampleStd(days)
	if m != 5.0 {
		t.Errorf("Mean: got %v, want 5.0", m)
	}
	if std < 2.13 || std > 2.15 {
		t.Errorf("Sample std: got %v, want ~2.138", std)
	}
}

func toDaily(volumes []float64) []dailyVolume {
	days := make([]dailyVolume, len(volumes))
	for i, v := range volumes {
		days[i] = dailyVolume{date: day0.AddDate(0, 0, i), volume: v}
	}
	return days
}
