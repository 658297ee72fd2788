// Package correlation detects synchronized trade clusters across client
// accounts. Trades on the same symbol and direction whose entry times fall
// inside a short window of an anchor trade form a cluster when they span
// more than one client.
package correlation

import (
	"fmt"
	"sort"
	"time"

	"prism-engine/internal/domain"
)

type groupKey struct {
	symbol    string
	direction domain.Direction
}

// DetectMirrorTrades partitions trades into synchronized clusters.
//
// Trades are scanned in entry-time order (stable: input order breaks ties).
// Each unassigned trade anchors a window scan over its (symbol, direction)
// group; trades with entry_time in [anchor, anchor+window] join the
// candidate group. A cluster is emitted only when the candidates cover at
// least minClients distinct clients, and only then are its members taken
// out of circulation. A failed anchor stays available for later windows.
//
// Cluster ids number emitted clusters in creation order. The anchor's
// trade id always comes first in TradeIDs.
func DetectMirrorTrades(trades []*domain.Trade, windowSeconds float64, minClients int) []*domain.Cluster {
	if len(trades) == 0 {
		return nil
	}

	window := time.Duration(windowSeconds * float64(time.Second))

	// Stable sort by entry time so equal timestamps keep table row order.
	order := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t == nil || t.EntryTime.IsZero() {
			continue
		}
		order = append(order, t)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].EntryTime.Before(order[j].EntryTime)
	})

	// Per-(symbol, direction) index into the sorted order. Positions within
	// a group are ascending, so group scans inherit the global ordering.
	groups := make(map[groupKey][]int)
	for i, t := range order {
		k := groupKey{symbol: t.Symbol, direction: t.Direction}
		groups[k] = append(groups[k], i)
	}

	assigned := make([]bool, len(order))
	var clusters []*domain.Cluster

	for i, anchor := range order {
		if assigned[i] {
			continue
		}

		k := groupKey{symbol: anchor.Symbol, direction: anchor.Direction}
		group := groups[k]

		// Equal timestamps may sort before the anchor, so start from the
		// first group position with entry_time >= anchor, not from the
		// anchor's own position.
		start := sort.Search(len(group), func(p int) bool {
			return !order[group[p]].EntryTime.Before(anchor.EntryTime)
		})

		limit := anchor.EntryTime.Add(window)
		var members []int
		for p := start; p < len(group); p++ {
			j := group[p]
			if order[j].EntryTime.After(limit) {
				break
			}
			if j == i || assigned[j] {
				continue
			}
			members = append(members, j)
		}

		if len(members) == 0 {
			continue
		}

		clientSet := map[string]struct{}{anchor.ClientID: {}}
		for _, j := range members {
			clientSet[order[j].ClientID] = struct{}{}
		}
		if len(clientSet) < minClients {
			// Same-client bursts are not a synchronization event; leave
			// everything unassigned for later windows.
			continue
		}

		tradeIDs := make([]string, 0, len(members)+1)
		tradeIDs = append(tradeIDs, anchor.TradeID)
		for _, j := range members {
			tradeIDs = append(tradeIDs, order[j].TradeID)
		}

		clientIDs := make([]string, 0, len(clientSet))
		for id := range clientSet {
			clientIDs = append(clientIDs, id)
		}
		sort.Strings(clientIDs)

		clusters = append(clusters, &domain.Cluster{
			ID:         fmt.Sprintf("CLUSTER-%d", len(clusters)),
			TradeIDs:   tradeIDs,
			ClientIDs:  clientIDs,
			Symbol:     anchor.Symbol,
			Direction:  anchor.Direction,
			AnchorTime: anchor.EntryTime,
			Count:      len(tradeIDs),
		})

		assigned[i] = true
		for _, j := range members {
			assigned[j] = true
		}
	}

	return clusters
}
