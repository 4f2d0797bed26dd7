package intake

import (
	"sync"

	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
)

// Store is the authoritative in-process state for one intake session. All
// mutations happen under a single mutex, and processing results land via a
// whole-collection commit so concurrent review edits are never lost.
type Store struct {
	mu     sync.RWMutex
	items  []MailItem
	groups map[string]Group

	// viewer cursor, -1 when no item is open
	cursor int

	// completionFired guards the at-most-once batch completion signal.
	// Adding items or clearing the session starts a new batch.
	completionFired bool
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		groups: make(map[string]Group),
		cursor: -1,
	}
}

// Add registers a freshly uploaded image and returns the created item
func (s *Store) Add(filename string, data []byte) MailItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := newMailItem(filename, data)
	s.items = append(s.items, item)
	s.groups = deriveGroups(s.items, s.groups)
	s.completionFired = false
	return item
}

// Items returns a snapshot copy of the current items
func (s *Store) Items() []MailItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]MailItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

// Get returns the item with the given ID
func (s *Store) Get(id string) (MailItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return MailItem{}, false
}

// Len returns the number of items in the session
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Update applies fn to the current items under the store lock and commits
// the returned collection as the new state, re-deriving groups. fn receives
// the latest items, not a stale snapshot, so merges done inside it cannot
// lose concurrent edits.
func (s *Store) Update(fn func(items []MailItem) []MailItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make([]MailItem, len(s.items))
	copy(current, s.items)

	s.items = fn(current)
	s.groups = deriveGroups(s.items, s.groups)
	s.clampCursorLocked()
}

// Reassign moves an item to a different client, or to the unassigned
// bucket when clientID is nil
func (s *Store) Reassign(id string, clientID *uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].AssignedClientID = clientID
			s.items[i].Sent = false
			s.groups = deriveGroups(s.items, s.groups)
			return nil
		}
	}
	return apperrors.ErrItemNotFound
}

// Remove deletes an item from the session. The viewer cursor shifts left
// when the removed item precedes it, so the same item stays open.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperrors.ErrItemNotFound
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.groups = deriveGroups(s.items, s.groups)

	if s.cursor >= 0 && idx < s.cursor {
		s.cursor--
	}
	s.clampCursorLocked()
	return nil
}

// Clear drops all items and groups, ending the session
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.groups = make(map[string]Group)
	s.cursor = -1
	s.completionFired = false
}

// Groups returns the current review buckets, client buckets first in
// ascending ID order, the unassigned bucket last
func (s *Store) Groups() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, copyGroup(g))
	}
	sortGroups(groups)
	return groups
}

// GroupByKey returns one review bucket by its key
func (s *Store) GroupByKey(key string) (Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[key]
	if !ok {
		return Group{}, false
	}
	return copyGroup(g), true
}

// SetNotes stores review notes on a bucket. Setting notes on a bucket that
// does not exist is a no-op.
func (s *Store) SetNotes(key, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[key]
	if !ok {
		return
	}
	g.Notes = notes
	s.groups[key] = g
}

// MarkSent records a successful dispatch for a client: the bucket is
// flagged sent and its notes cleared, and every item assigned to the
// client is marked sent
func (s *Store) MarkSent(clientID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := GroupKeyFor(&clientID)
	if g, ok := s.groups[key]; ok {
		g.Sent = true
		g.Notes = ""
		s.groups[key] = g
	}

	for i := range s.items {
		if s.items[i].AssignedClientID != nil && *s.items[i].AssignedClientID == clientID {
			s.items[i].Sent = true
		}
	}
}

// HasUnassigned reports whether any item still lacks a client assignment
func (s *Store) HasUnassigned() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.AssignedClientID == nil {
			return true
		}
	}
	return false
}

// UnsentAssignedItems returns the items assigned to a client that have not
// been dispatched yet
func (s *Store) UnsentAssignedItems(clientID uint) []MailItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []MailItem
	for _, it := range s.items {
		if it.AssignedClientID != nil && *it.AssignedClientID == clientID && !it.Sent {
			out = append(out, it)
		}
	}
	return out
}

// EligibleClientIDs returns the distinct client IDs with undispatched
// items, in first-appearance order
func (s *Store) EligibleClientIDs() []uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uint]bool)
	var out []uint
	for _, it := range s.items {
		if !it.DispatchEligible() {
			continue
		}
		id := *it.AssignedClientID
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Progress returns how many items have completed extraction and the total
func (s *Store) Progress() (processed, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.Processed() {
			processed++
		}
	}
	return processed, len(s.items)
}

// TryCompleteBatch reports whether the batch just finished. It returns
// true at most once per batch: only when every item has completed
// extraction and the signal has not fired yet.
func (s *Store) TryCompleteBatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completionFired || len(s.items) == 0 {
		return false
	}
	for _, it := range s.items {
		if !it.Processed() {
			return false
		}
	}
	s.completionFired = true
	return true
}

// OpenViewer points the cursor at the item with the given ID
func (s *Store) OpenViewer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.cursor = i
			return nil
		}
	}
	return apperrors.ErrItemNotFound
}

// CloseViewer clears the cursor
func (s *Store) CloseViewer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = -1
}

// Cursor returns the currently open item, if any
func (s *Store) Cursor() (MailItem, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cursor < 0 || s.cursor >= len(s.items) {
		return MailItem{}, -1, false
	}
	return s.items[s.cursor], s.cursor, true
}

// NextItem advances the cursor, clamped at the last item
func (s *Store) NextItem() (MailItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < 0 || len(s.items) == 0 {
		return MailItem{}, false
	}
	if s.cursor < len(s.items)-1 {
		s.cursor++
	}
	return s.items[s.cursor], true
}

// PrevItem moves the cursor back, clamped at the first item
func (s *Store) PrevItem() (MailItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < 0 || len(s.items) == 0 {
		return MailItem{}, false
	}
	if s.cursor > 0 {
		s.cursor--
	}
	return s.items[s.cursor], true
}

// clampCursorLocked keeps the cursor inside the collection after removals.
// Caller must hold the lock.
func (s *Store) clampCursorLocked() {
	if len(s.items) == 0 {
		s.cursor = -1
		return
	}
	if s.cursor >= len(s.items) {
		s.cursor = len(s.items) - 1
	}
}

func copyGroup(g Group) Group {
	out := g
	if g.ClientID != nil {
		id := *g.ClientID
		out.ClientID = &id
	}
	out.ItemIDs = append([]string(nil), g.ItemIDs...)
	return out
}
