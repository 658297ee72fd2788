package network

import (
	"testing"
	"time"

	"prism-engine/internal/domain"
)

func testClients() []*domain.Client {
	return []*domain.Client{
		{ClientID: "C-1", ParentSubID: "S-1", MasterPartnerID: "P-1", Name: "Client 1"},
		{ClientID: "C-2", ParentSubID: "S-1", MasterPartnerID: "P-1", Name: "Client 2"},
		{ClientID: "C-3", ParentSubID: "S-2", MasterPartnerID: "P-1", Name: "Client 3"},
		{ClientID: "C-4", ParentSubID: "S-3", MasterPartnerID: "P-2", Name: "Client 4"},
	}
}

func TestBuildHierarchyGraph(t *testing.T) {
	m := NewMapper(testClients())
	g := m.BuildHierarchyGraph([]string{"C-1", "C-2", "C-3"})

	// 3 clients + 2 subs + 1 partner
	if got := len(g.Nodes()); got != 6 {
		t.Fatalf("Expected 6 nodes, got %d", got)
	}

	if !g.HasEdge("C:C-1", "S:S-1") {
		t.Error("Missing edge C:C-1 -> S:S-1")
	}
	if !g.HasEdge("S:S-1", "P:P-1") {
		t.Error("Missing edge S:S-1 -> P:P-1")
	}
	if g.HasEdge("S:S-1", "C:C-1") {
		t.Error("Edges must point upward only")
	}

	n := g.Node("C:C-1")
	if n == nil || n.Type != NodeClient || n.Label != "Client 1" {
		t.Errorf("Client node wrong: %+v", n)
	}
}

func TestBuildHierarchyGraph_UnknownClientSkipped(t *testing.T) {
	m := NewMapper(testClients())
	g := m.BuildHierarchyGraph([]string{"C-1", "C-ghost"})

	if g.Node("C:C-ghost") != nil {
		t.Error("Unknown client must not create a node")
	}
	if got := len(g.Nodes()); got != 3 {
		t.Errorf("Expected 3 nodes, got %d", got)
	}
}

func TestBuildFilteredGraph_MarksActivity(t *testing.T) {
	m := NewMapper(testClients())
	entry := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		{TradeID: "T-1", ClientID: "C-1", Symbol: "EURUSD", Direction: domain.DirectionBuy, Volume: 6.0, EntryTime: entry},
		{TradeID: "T-2", ClientID: "C-2", Symbol: "EURUSD", Direction: domain.DirectionBuy, Volume: 1.0, EntryTime: entry},
		{TradeID: "T-3", ClientID: "C-3", Symbol: "GBPUSD", Direction: domain.DirectionBuy, Volume: 9.0, EntryTime: entry},
	}

	g := m.BuildFilteredGraph([]string{"C-1", "C-2", "C-3"}, trades, &TradeFilter{
		Symbol:    "EURUSD",
		MinVolume: 5.0,
	})

	if g.Node("C:C-1").Status != StatusActive {
		t.Error("C-1 matches the filter and must be active")
	}
	if g.Node("C:C-2").Status != StatusInactive {
		t.Error("C-2 is below min volume and must be inactive")
	}
	if g.Node("C:C-3").Status != StatusInactive {
		t.Error("C-3 traded another symbol and must be inactive")
	}
	if g.Node("S:S-1").Status != StatusActive {
		t.Error("Sub-affiliate nodes stay active for context")
	}
}

func TestBuildFilteredGraph_NilFilter(t *testing.T) {
	m := NewMapper(testClients())
	g := m.BuildFilteredGraph([]string{"C-1"}, nil, nil)

	if g.Node("C:C-1").Status != StatusActive {
		t.Error("Without a filter every node is active")
	}
}

func TestAttribution(t *testing.T) {
	m := NewMapper(testClients())
	a := m.Attribution([]string{"C-1", "C-2", "C-3", "C-4"})

	if a.PartnerCounts["P-1"] != 3 || a.PartnerCounts["P-2"] != 1 {
		t.Errorf("PartnerCounts wrong: %v", a.PartnerCounts)
	}
	if a.TopPartner != "P-1" {
		t.Errorf("TopPartner: got %s, want P-1", a.TopPartner)
	}
	if a.TopSub != "S-1" {
		t.Errorf("TopSub: got %s, want S-1", a.TopSub)
	}
	if !a.CrossPartner {
		t.Error("Group spans two partners")
	}
	if !a.CrossSub {
		t.Error("Group spans three sub-affiliates")
	}
}

func TestAttribution_SinglePartner(t *testing.T) {
	m := NewMapper(testClients())
	a := m.Attribution([]string{"C-1", "C-2"})

	if a.CrossPartner {
		t.Error("Single-partner group must not be cross-partner")
	}
	if a.CrossSub {
		t.Error("Single-sub group must not be cross-sub")
	}
	if a.TopPartner != "P-1" || a.TopSub != "S-1" {
		t.Errorf("Top attribution wrong: partner=%s sub=%s", a.TopPartner, a.TopSub)
	}
}

func TestAttribution_TieBreaksByID(t *testing.T) {
	m := NewMapper(testClients())
	// C-3 (S-2) and C-4 (S-3): one client each, tie resolved to lower id.
	a := m.Attribution([]string{"C-3", "C-4"})
	if a.TopSub != "S-2" {
		t.Errorf("TopSub tie must break to S-2, got %s", a.TopSub)
	}
}
