// Package rings groups synchronized-trade clusters into suspected
// coordination rings by shared client membership.
package rings

import (
	"fmt"
	"sort"

	"prism-engine/internal/domain"
)

// AggregateRings folds clusters into rings. Each cluster joins the first
// existing ring it shares at least one client with; otherwise it opens a
// new ring. The merge is deliberately first-match and non-transitive:
// two rings that only connect through a later cluster stay separate.
// Output stays comparable across runs because cluster order is
// deterministic.
//
// Ring ids number rings in creation order, before filtering, so the
// surviving ids are not necessarily contiguous. Only rings with at least
// clusterThreshold member clusters survive: a single synchronized window
// is noise, repetition is the signal.
func AggregateRings(clusters []*domain.Cluster, clusterThreshold int) []*domain.Ring {
	var rings []*domain.Ring

	for _, cluster := range clusters {
		if cluster == nil {
			continue
		}

		joined := false
		for _, ring := range rings {
			if sharesClient(ring.ClientIDs, cluster.ClientIDs) {
				ring.Clusters = append(ring.Clusters, cluster)
				ring.ClientIDs = unionSorted(ring.ClientIDs, cluster.ClientIDs)
				joined = true
				break
			}
		}

		if !joined {
			clientIDs := make([]string, len(cluster.ClientIDs))
			copy(clientIDs, cluster.ClientIDs)
			sort.Strings(clientIDs)

			rings = append(rings, &domain.Ring{
				ID:        fmt.Sprintf("RING-%d", len(rings)),
				ClientIDs: clientIDs,
				Clusters:  []*domain.Cluster{cluster},
			})
		}
	}

	var active []*domain.Ring
	for _, ring := range rings {
		if len(ring.Clusters) >= clusterThreshold {
			active = append(active, ring)
		}
	}
	return active
}

func sharesClient(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func unionSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		set[id] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
