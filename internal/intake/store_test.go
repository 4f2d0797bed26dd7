package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
)

func uintPtr(v uint) *uint {
	return &v
}

func textPtr(s string) *string {
	return &s
}

func addItems(s *Store, n int) []MailItem {
	items := make([]MailItem, n)
	for i := 0; i < n; i++ {
		items[i] = s.Add("photo.jpg", []byte{0xFF, 0xD8, byte(i)})
	}
	return items
}

// ==================== Item Tests ====================

func TestAdd_CreatesItemWithPreview(t *testing.T) {
	s := NewStore()

	item := s.Add("scan.png", []byte("png-bytes"))

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "scan.png", item.Filename)
	assert.True(t, strings.HasPrefix(item.OriginalPreview, "data:image/png;base64,"))
	assert.False(t, item.Processed())
	assert.Equal(t, 1, s.Len())
}

func TestGet_UnknownID(t *testing.T) {
	s := NewStore()
	addItems(s, 2)

	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestItems_ReturnsSnapshot(t *testing.T) {
	s := NewStore()
	addItems(s, 2)

	snapshot := s.Items()
	snapshot[0].Sent = true

	fresh := s.Items()
	assert.False(t, fresh[0].Sent)
}

// ==================== Group Derivation Tests ====================

func TestGroups_ExactDistinctAssignments(t *testing.T) {
	s := NewStore()
	items := addItems(s, 4)

	// Assignments [1, nil, 1, 2] must yield exactly buckets {1, UNASSIGNED, 2}
	require.NoError(t, s.Reassign(items[0].ID, uintPtr(1)))
	require.NoError(t, s.Reassign(items[2].ID, uintPtr(1)))
	require.NoError(t, s.Reassign(items[3].ID, uintPtr(2)))

	groups := s.Groups()
	require.Len(t, groups, 3)

	// Client buckets ascending, unassigned last
	assert.Equal(t, "1", groups[0].Key)
	assert.Len(t, groups[0].ItemIDs, 2)
	assert.Equal(t, "2", groups[1].Key)
	assert.Len(t, groups[1].ItemIDs, 1)
	assert.Equal(t, UnassignedKey, groups[2].Key)
	assert.Len(t, groups[2].ItemIDs, 1)
}

func TestGroups_AdditiveAcrossReassignment(t *testing.T) {
	s := NewStore()
	items := addItems(s, 1)

	require.NoError(t, s.Reassign(items[0].ID, uintPtr(5)))
	s.SetNotes("5", "fragile, hold at desk")

	// Moving the only item away keeps the bucket and its notes
	require.NoError(t, s.Reassign(items[0].ID, uintPtr(6)))

	g, ok := s.GroupByKey("5")
	require.True(t, ok)
	assert.Equal(t, "fragile, hold at desk", g.Notes)
	assert.Empty(t, g.ItemIDs)
}

func TestReassign_UnknownItem(t *testing.T) {
	s := NewStore()

	err := s.Reassign("missing", uintPtr(1))
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
}

func TestReassign_ToUnassigned(t *testing.T) {
	s := NewStore()
	items := addItems(s, 1)

	require.NoError(t, s.Reassign(items[0].ID, uintPtr(3)))
	require.NoError(t, s.Reassign(items[0].ID, nil))

	item, ok := s.Get(items[0].ID)
	require.True(t, ok)
	assert.Nil(t, item.AssignedClientID)
	assert.True(t, s.HasUnassigned())
}

// ==================== Notes and Sent Tests ====================

func TestSetNotes_UnknownBucketIsNoop(t *testing.T) {
	s := NewStore()

	s.SetNotes("99", "should vanish")

	_, ok := s.GroupByKey("99")
	assert.False(t, ok)
}

func TestMarkSent_FlagsGroupAndItemsClearsNotes(t *testing.T) {
	s := NewStore()
	items := addItems(s, 3)

	require.NoError(t, s.Reassign(items[0].ID, uintPtr(4)))
	require.NoError(t, s.Reassign(items[1].ID, uintPtr(4)))
	require.NoError(t, s.Reassign(items[2].ID, uintPtr(7)))
	s.SetNotes("4", "two letters")

	s.MarkSent(4)

	g, ok := s.GroupByKey("4")
	require.True(t, ok)
	assert.True(t, g.Sent)
	assert.Empty(t, g.Notes)

	for _, id := range []string{items[0].ID, items[1].ID} {
		item, _ := s.Get(id)
		assert.True(t, item.Sent)
	}
	other, _ := s.Get(items[2].ID)
	assert.False(t, other.Sent)
}

func TestUnsentAssignedItems(t *testing.T) {
	s := NewStore()
	items := addItems(s, 3)

	require.NoError(t, s.Reassign(items[0].ID, uintPtr(2)))
	require.NoError(t, s.Reassign(items[1].ID, uintPtr(2)))
	s.MarkSent(2)
	require.NoError(t, s.Reassign(items[2].ID, uintPtr(2)))

	unsent := s.UnsentAssignedItems(2)
	require.Len(t, unsent, 1)
	assert.Equal(t, items[2].ID, unsent[0].ID)
}

func TestEligibleClientIDs_FirstAppearanceOrder(t *testing.T) {
	s := NewStore()
	items := addItems(s, 4)

	require.NoError(t, s.Reassign(items[0].ID, uintPtr(9)))
	require.NoError(t, s.Reassign(items[1].ID, uintPtr(2)))
	require.NoError(t, s.Reassign(items[2].ID, uintPtr(9)))
	require.NoError(t, s.Reassign(items[3].ID, uintPtr(5)))

	assert.Equal(t, []uint{9, 2, 5}, s.EligibleClientIDs())
}

// ==================== Removal and Cursor Tests ====================

func TestRemove_ShiftsCursorLeftWhenPrecedingItemRemoved(t *testing.T) {
	s := NewStore()
	items := addItems(s, 3)

	require.NoError(t, s.OpenViewer(items[2].ID))
	require.NoError(t, s.Remove(items[0].ID))

	item, idx, ok := s.Cursor()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, items[2].ID, item.ID)
}

func TestRemove_CurrentItemKeepsIndexClamped(t *testing.T) {
	s := NewStore()
	items := addItems(s, 2)

	require.NoError(t, s.OpenViewer(items[1].ID))
	require.NoError(t, s.Remove(items[1].ID))

	item, idx, ok := s.Cursor()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, items[0].ID, item.ID)
}

func TestRemove_LastItemClosesViewer(t *testing.T) {
	s := NewStore()
	items := addItems(s, 1)

	require.NoError(t, s.OpenViewer(items[0].ID))
	require.NoError(t, s.Remove(items[0].ID))

	_, _, ok := s.Cursor()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestRemove_UnknownItem(t *testing.T) {
	s := NewStore()

	assert.ErrorIs(t, s.Remove("missing"), apperrors.ErrItemNotFound)
}

func TestViewerNavigation_Clamped(t *testing.T) {
	s := NewStore()
	items := addItems(s, 2)

	require.NoError(t, s.OpenViewer(items[0].ID))

	// Prev at the first item stays put
	item, ok := s.PrevItem()
	require.True(t, ok)
	assert.Equal(t, items[0].ID, item.ID)

	item, ok = s.NextItem()
	require.True(t, ok)
	assert.Equal(t, items[1].ID, item.ID)

	// Next at the last item stays put
	item, ok = s.NextItem()
	require.True(t, ok)
	assert.Equal(t, items[1].ID, item.ID)
}

func TestViewerNavigation_ClosedViewer(t *testing.T) {
	s := NewStore()
	addItems(s, 2)

	_, ok := s.NextItem()
	assert.False(t, ok)
	_, ok = s.PrevItem()
	assert.False(t, ok)
}

// ==================== Commit and Completion Tests ====================

func TestUpdate_CommitsAgainstLatestState(t *testing.T) {
	s := NewStore()
	items := addItems(s, 1)

	// A reviewer assignment lands while processing runs; the commit sees it
	require.NoError(t, s.Reassign(items[0].ID, uintPtr(3)))

	s.Update(func(current []MailItem) []MailItem {
		require.NotNil(t, current[0].AssignedClientID)
		current[0].ExtractedText = textPtr("scanned text")
		return current
	})

	item, _ := s.Get(items[0].ID)
	assert.True(t, item.Processed())
	assert.Equal(t, uint(3), *item.AssignedClientID)
}

func TestTryCompleteBatch_AtMostOnce(t *testing.T) {
	s := NewStore()
	addItems(s, 2)

	assert.False(t, s.TryCompleteBatch(), "incomplete batch must not signal")

	s.Update(func(current []MailItem) []MailItem {
		for i := range current {
			current[i].ExtractedText = textPtr("text")
		}
		return current
	})

	assert.True(t, s.TryCompleteBatch())
	assert.False(t, s.TryCompleteBatch(), "signal must fire at most once")

	// A new upload starts a new batch
	s.Add("more.jpg", []byte{1})
	assert.False(t, s.TryCompleteBatch(), "new item is unprocessed")

	s.Update(func(current []MailItem) []MailItem {
		for i := range current {
			current[i].ExtractedText = textPtr("text")
		}
		return current
	})
	assert.True(t, s.TryCompleteBatch())
}

func TestTryCompleteBatch_EmptySessionNeverSignals(t *testing.T) {
	s := NewStore()
	assert.False(t, s.TryCompleteBatch())
}

func TestClear_ResetsSession(t *testing.T) {
	s := NewStore()
	items := addItems(s, 2)
	require.NoError(t, s.Reassign(items[0].ID, uintPtr(1)))
	require.NoError(t, s.OpenViewer(items[0].ID))

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Groups())
	_, _, ok := s.Cursor()
	assert.False(t, ok)
}
