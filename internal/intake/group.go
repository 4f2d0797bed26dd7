package intake

import (
	"sort"
	"strconv"
)

// UnassignedKey is the bucket key for items with no assigned client.
const UnassignedKey = "UNASSIGNED"

// Group is a review bucket: all items assigned to one client, or the
// unassigned bucket. Notes and the sent flag live on the group, not on
// individual items.
type Group struct {
	Key      string   `json:"key"`
	ClientID *uint    `json:"client_id,omitempty"`
	Notes    string   `json:"notes"`
	Sent     bool     `json:"sent"`
	ItemIDs  []string `json:"item_ids"`
}

// GroupKeyFor maps an assignment to its bucket key
func GroupKeyFor(clientID *uint) string {
	if clientID == nil {
		return UnassignedKey
	}
	return strconv.FormatUint(uint64(*clientID), 10)
}

// deriveGroups recomputes the bucket set from the current items.
// Reconciliation is additive: buckets present in prev keep their notes and
// sent flag, and buckets whose items have all been removed or reassigned
// are carried over rather than pruned, so review annotations survive
// reshuffling.
func deriveGroups(items []MailItem, prev map[string]Group) map[string]Group {
	groups := make(map[string]Group, len(prev)+1)

	for key, g := range prev {
		g.ItemIDs = nil
		groups[key] = g
	}

	for _, it := range items {
		key := GroupKeyFor(it.AssignedClientID)
		g, ok := groups[key]
		if !ok {
			g = Group{Key: key}
			if it.AssignedClientID != nil {
				id := *it.AssignedClientID
				g.ClientID = &id
			}
		}
		g.ItemIDs = append(g.ItemIDs, it.ID)
		groups[key] = g
	}

	return groups
}

// sortGroups orders buckets for display: client buckets by ascending ID,
// the unassigned bucket last
func sortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		gi, gj := groups[i], groups[j]
		if gi.ClientID == nil {
			return false
		}
		if gj.ClientID == nil {
			return true
		}
		return *gi.ClientID < *gj.ClientID
	})
}
