package domain

// Ring is a set of clients linked by recurring synchronized-trade clusters.
// ClientIDs equals the union of the member clusters' client sets.
type Ring struct {
	ID        string
	ClientIDs []string // distinct, sorted ascending
	Clusters  []*Cluster
}
