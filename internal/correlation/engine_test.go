package correlation

import (
	"testing"
	"time"

	"prism-engine/internal/domain"
)

var t0 = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func mkTrade(id, clientID, symbol string, dir domain.Direction, entry time.Time) *domain.Trade {
	return &domain.Trade{
		TradeID:   id,
		ClientID:  clientID,
		Symbol:    symbol,
		Direction: dir,
		Volume:    1.0,
		EntryTime: entry,
		ExitTime:  entry.Add(time.Minute),
	}
}

func TestDetectMirrorTrades_SynchronizedGroup(t *testing.T) {
	// Three clients trade EURUSD/Buy within 200ms; a fourth trades the
	// same instrument 10s later.
	trades := []*domain.Trade{
		mkTrade("T-1", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-2", "C-2", "EURUSD", domain.DirectionBuy, t0.Add(100*time.Millisecond)),
		mkTrade("T-3", "C-3", "EURUSD", domain.DirectionBuy, t0.Add(200*time.Millisecond)),
		mkTrade("T-4", "C-4", "EURUSD", domain.DirectionBuy, t0.Add(10*time.Second)),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}

	c := clusters[0]
	if c.ID != "CLUSTER-0" {
		t.Errorf("ID: got %s, want CLUSTER-0", c.ID)
	}
	if c.Count != 3 {
		t.Errorf("Count: got %d, want 3", c.Count)
	}
	if len(c.ClientIDs) != 3 {
		t.Fatalf("Expected 3 clients, got %d", len(c.ClientIDs))
	}
	for i, want := range []string{"C-1", "C-2", "C-3"} {
		if c.ClientIDs[i] != want {
			t.Errorf("ClientIDs[%d]: got %s, want %s", i, c.ClientIDs[i], want)
		}
	}
	if c.TradeIDs[0] != "T-1" {
		t.Errorf("Anchor trade should lead TradeIDs, got %s", c.TradeIDs[0])
	}
	if !c.AnchorTime.Equal(t0) {
		t.Errorf("AnchorTime: got %v, want %v", c.AnchorTime, t0)
	}
}

func TestDetectMirrorTrades_WindowBoundaryInclusive(t *testing.T) {
	trades := []*domain.Trade{
		mkTrade("T-1", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-2", "C-2", "EURUSD", domain.DirectionBuy, t0.Add(time.Second)),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 1 {
		t.Fatalf("Trade exactly at anchor+window must join the cluster, got %d clusters", len(clusters))
	}
	if clusters[0].Count != 2 {
		t.Errorf("Count: got %d, want 2", clusters[0].Count)
	}
}

func TestDetectMirrorTrades_WindowBoundaryExclusiveBeyond(t *testing.T) {
	trades := []*domain.Trade{
		mkTrade("T-1", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-2", "C-2", "EURUSD", domain.DirectionBuy, t0.Add(time.Second+time.Millisecond)),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 0 {
		t.Fatalf("Trade past anchor+window must not cluster, got %d clusters", len(clusters))
	}
}

func TestDetectMirrorTrades_SameClientNoCluster(t *testing.T) {
	// A burst from a single client is not a synchronization event.
	trades := []*domain.Trade{
		mkTrade("T-1", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-2", "C-1", "EURUSD", domain.DirectionBuy, t0.Add(100*time.Millisecond)),
		mkTrade("T-3", "C-1", "EURUSD", domain.DirectionBuy, t0.Add(200*time.Millisecond)),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 0 {
		t.Fatalf("Expected no clusters for single-client burst, got %d", len(clusters))
	}
}

func TestDetectMirrorTrades_SymbolAndDirectionSeparate(t *testing.T) {
	trades := []*domain.Trade{
		mkTrade("T-1", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-2", "C-2", "EURUSD", domain.DirectionSell, t0),
		mkTrade("T-3", "C-3", "GBPUSD", domain.DirectionBuy, t0),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 0 {
		t.Fatalf("Different symbol/direction must not cluster, got %d clusters", len(clusters))
	}
}

func TestDetectMirrorTrades_Disjoint(t *testing.T) {
	// Two separate synchronization events; every trade appears in at most
	// one cluster.
	trades := []*domain.Trade{
		mkTrade("T-1", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-2", "C-2", "EURUSD", domain.DirectionBuy, t0.Add(100*time.Millisecond)),
		mkTrade("T-3", "C-1", "EURUSD", domain.DirectionBuy, t0.Add(time.Hour)),
		mkTrade("T-4", "C-2", "EURUSD", domain.DirectionBuy, t0.Add(time.Hour+100*time.Millisecond)),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].ID != "CLUSTER-0" || clusters[1].ID != "CLUSTER-1" {
		t.Errorf("Ids must follow creation order: got %s, %s", clusters[0].ID, clusters[1].ID)
	}

	seen := make(map[string]string)
	for _, c := range clusters {
		for _, id := range c.TradeIDs {
			if prev, dup := seen[id]; dup {
				t.Errorf("Trade %s appears in both %s and %s", id, prev, c.ID)
			}
			seen[id] = c.ID
		}
	}
}

func TestDetectMirrorTrades_FailedAnchorStaysAvailable(t *testing.T) {
	// T-1 and T-2 belong to the same client, so T-1's window fails the
	// distinct-client check. T-2 must still be able to join T-3's window.
	trades := []*domain.Trade{
		mkTrade("T-1", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-2", "C-1", "EURUSD", domain.DirectionBuy, t0.Add(900*time.Millisecond)),
		mkTrade("T-3", "C-2", "EURUSD", domain.DirectionBuy, t0.Add(1500*time.Millisecond)),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.Count != 2 {
		t.Fatalf("Count: got %d, want 2", c.Count)
	}
	if c.TradeIDs[0] != "T-2" || c.TradeIDs[1] != "T-3" {
		t.Errorf("Expected T-2 anchoring T-3, got %v", c.TradeIDs)
	}
}

func TestDetectMirrorTrades_EqualTimestampsKeepRowOrder(t *testing.T) {
	// All three trades share one timestamp. The first table row anchors,
	// and members follow row order.
	trades := []*domain.Trade{
		mkTrade("T-9", "C-1", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-5", "C-2", "EURUSD", domain.DirectionBuy, t0),
		mkTrade("T-7", "C-3", "EURUSD", domain.DirectionBuy, t0),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	want := []string{"T-9", "T-5", "T-7"}
	for i, id := range clusters[0].TradeIDs {
		if id != want[i] {
			t.Errorf("TradeIDs[%d]: got %s, want %s", i, id, want[i])
		}
	}
}

func TestDetectMirrorTrades_SkipsZeroEntryTime(t *testing.T) {
	trades := []*domain.Trade{
		{TradeID: "T-1", ClientID: "C-1", Symbol: "EURUSD", Direction: domain.DirectionBuy},
		mkTrade("T-2", "C-2", "EURUSD", domain.DirectionBuy, t0),
	}

	clusters := DetectMirrorTrades(trades, 1.0, 2)
	if len(clusters) != 0 {
		t.Fatalf("Zero entry time must be ignored, got %d clusters", len(clusters))
	}
}

func TestDetectMirrorTrades_Empty(t *testing.T) {
	if got := DetectMirrorTrades(nil, 1.0, 2); len(got) != 0 {
		t.Fatalf("Expected no clusters for empty input, got %d", len(got))
	}
}
