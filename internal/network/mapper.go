// Package network projects the client -> sub-affiliate -> partner
// hierarchy into a small directed graph and attributes groups of flagged
// clients to the introducing entities above them.
package network

import (
	"sort"

	"prism-engine/internal/domain"
)

// NodeType distinguishes the three hierarchy levels in a graph.
type NodeType string

const (
	NodeClient  NodeType = "client"
	NodeSub     NodeType = "sub"
	NodePartner NodeType = "partner"
)

// NodeStatus marks whether a node matched the active trade filter.
type NodeStatus string

const (
	StatusActive   NodeStatus = "active"
	StatusInactive NodeStatus = "inactive"
)

// Node is one vertex in the hierarchy graph. IDs are prefixed by level
// ("C:", "S:", "P:") so the three namespaces cannot collide.
type Node struct {
	ID     string
	Type   NodeType
	Label  string
	Status NodeStatus
}

// Graph is a directed adjacency structure over hierarchy nodes. Edges
// point upward: client -> sub-affiliate -> partner.
type Graph struct {
	nodes map[string]*Node
	edges map[string]map[string]struct{}
}

func newGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]map[string]struct{}),
	}
}

func (g *Graph) addNode(id string, nodeType NodeType, label string) {
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = &Node{ID: id, Type: nodeType, Label: label, Status: StatusActive}
	}
}

func (g *Graph) addEdge(from, to string) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]struct{})
	}
	g.edges[from][to] = struct{}{}
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []*Node {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// Successors returns the ids a node points to, sorted.
func (g *Graph) Successors(id string) []string {
	out := make([]string, 0, len(g.edges[id]))
	for to := range g.edges[id] {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// HasEdge reports whether the graph contains the directed edge from -> to.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[from][to]
	return ok
}

// Mapper resolves hierarchy questions for groups of clients.
type Mapper struct {
	clients map[string]*domain.Client
}

// NewMapper builds a mapper over a client snapshot.
func NewMapper(clients []*domain.Client) *Mapper {
	m := &Mapper{clients: make(map[string]*domain.Client, len(clients))}
	for _, c := range clients {
		if c != nil {
			m.clients[c.ClientID] = c
		}
	}
	return m
}

// BuildHierarchyGraph projects the given clients and their ancestors into
// a graph. Unknown client ids are skipped.
func (m *Mapper) BuildHierarchyGraph(clientIDs []string) *Graph {
	g := newGraph()
	for _, id := range clientIDs {
		c, ok := m.clients[id]
		if !ok {
			continue
		}

		cNode := "C:" + c.ClientID
		sNode := "S:" + c.ParentSubID
		pNode := "P:" + c.MasterPartnerID

		g.addNode(cNode, NodeClient, c.Name)
		g.addNode(sNode, NodeSub, c.ParentSubID)
		g.addNode(pNode, NodePartner, c.MasterPartnerID)

		g.addEdge(cNode, sNode)
		g.addEdge(sNode, pNode)
	}
	return g
}

// TradeFilter narrows the trades that count as activity when building a
// filtered graph. Zero values leave a dimension unfiltered.
type TradeFilter struct {
	Symbol    string
	Direction domain.Direction
	MinVolume float64
}

// BuildFilteredGraph builds the hierarchy graph and marks client nodes
// active or inactive depending on whether they have a trade matching the
// filter. Sub-affiliate and partner nodes stay active for context.
func (m *Mapper) BuildFilteredGraph(clientIDs []string, trades []*domain.Trade, filter *TradeFilter) *Graph {
	g := m.BuildHierarchyGraph(clientIDs)
	if filter == nil {
		return g
	}

	inGroup := make(map[string]struct{}, len(clientIDs))
	for _, id := range clientIDs {
		inGroup[id] = struct{}{}
	}

	active := make(map[string]struct{})
	for _, t := range trades {
		if t == nil {
			continue
		}
		if _, ok := inGroup[t.ClientID]; !ok {
			continue
		}
		if filter.Symbol != "" && t.Symbol != filter.Symbol {
			continue
		}
		if filter.Direction != "" && t.Direction != filter.Direction {
			continue
		}
		if filter.MinVolume > 0 && t.Volume < filter.MinVolume {
			continue
		}
		active[t.ClientID] = struct{}{}
	}

	for _, n := range g.nodes {
		if n.Type != NodeClient {
			continue
		}
		clientID := n.ID[len("C:"):]
		if _, ok := active[clientID]; ok {
			n.Status = StatusActive
		} else {
			n.Status = StatusInactive
		}
	}
	return g
}

// Attribution summarizes where a group of clients concentrates in the
// hierarchy.
type Attribution struct {
	PartnerCounts map[string]int
	SubCounts     map[string]int
	TopPartner    string
	TopSub        string
	CrossPartner  bool
	CrossSub      bool
}

// Attribution counts the partners and sub-affiliates behind a client
// group. Top entries break count ties by ascending id.
func (m *Mapper) Attribution(clientIDs []string) *Attribution {
	a := &Attribution{
		PartnerCounts: make(map[string]int),
		SubCounts:     make(map[string]int),
	}

	for _, id := range clientIDs {
		c, ok := m.clients[id]
		if !ok {
			continue
		}
		a.PartnerCounts[c.MasterPartnerID]++
		a.SubCounts[c.ParentSubID]++
	}

	a.TopPartner = topKey(a.PartnerCounts)
	a.TopSub = topKey(a.SubCounts)
	a.CrossPartner = len(a.PartnerCounts) > 1
	a.CrossSub = len(a.SubCounts) > 1
	return a
}

func topKey(counts map[string]int) string {
	var top string
	var best int
	for key, count := range counts {
		if count > best || (count == best && (top == "" || key < top)) {
			top = key
			best = count
		}
	}
	return top
}
