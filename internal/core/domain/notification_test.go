package domain_test

import (
	"testing"
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func sampleList() domain.NotificationList {
	return domain.NotificationList{
		{ID: "a", Title: "A", Timestamp: baseTime, Type: domain.NotificationReminder},
		{ID: "b", Title: "B", Timestamp: baseTime.Add(time.Hour), Type: domain.NotificationPayment, IsRead: true},
		{ID: "c", Title: "C", Timestamp: baseTime.Add(2 * time.Hour), Type: domain.NotificationSystem},
	}
}

func TestToggleSelect(t *testing.T) {
	l := sampleList()
	out := l.ToggleSelect("b")
	assert.False(t, out[0].IsSelected)
	assert.True(t, out[1].IsSelected)
	assert.False(t, out[2].IsSelected)

	// Toggling again flips back.
	out = out.ToggleSelect("b")
	assert.Equal(t, 0, out.SelectedCount())

	// Unknown id is a no-op.
	assert.Equal(t, 0, l.ToggleSelect("nope").SelectedCount())
}

func TestToggleSelectAll_AllOrNothing(t *testing.T) {
	l := sampleList()

	out := l.ToggleSelectAll()
	assert.Equal(t, len(l), out.SelectedCount(), "mixed state selects everything")

	out = out.ToggleSelectAll()
	assert.Equal(t, 0, out.SelectedCount(), "fully selected state deselects everything")

	// Partially selected selects the rest rather than toggling each.
	partial := l.ToggleSelect("a")
	out = partial.ToggleSelectAll()
	assert.Equal(t, len(l), out.SelectedCount())
}

func TestToggleSelectAll_Empty(t *testing.T) {
	var l domain.NotificationList
	assert.Len(t, l.ToggleSelectAll(), 0)
}

func TestMarkAsRead(t *testing.T) {
	l := sampleList()
	out := l.MarkAsRead("a")
	assert.True(t, out[0].IsRead)
	assert.False(t, out[2].IsRead)
	assert.Equal(t, 1, out.UnreadCount())
}

func TestMarkSelectedAsRead_ConsumesSelection(t *testing.T) {
	l := sampleList().ToggleSelect("a").ToggleSelect("c")
	out := l.MarkSelectedAsRead()

	assert.True(t, out[0].IsRead)
	assert.True(t, out[2].IsRead)
	assert.Equal(t, 0, out.SelectedCount())
	assert.Equal(t, 0, out.UnreadCount())
}

func TestMarkAllAsRead_KeepsSelection(t *testing.T) {
	l := sampleList().ToggleSelect("a")
	out := l.MarkAllAsRead()
	assert.Equal(t, 0, out.UnreadCount())
	assert.Equal(t, 1, out.SelectedCount())
}

func TestDeleteSelected(t *testing.T) {
	l := sampleList().ToggleSelect("b")
	out := l.DeleteSelected()
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)

	// Nothing selected deletes nothing.
	assert.Len(t, sampleList().DeleteSelected(), 3)
}

func TestRemove(t *testing.T) {
	out := sampleList().Remove("b")
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestReducersDoNotMutateReceiver(t *testing.T) {
	l := sampleList()
	l.ToggleSelect("a")
	l.ToggleSelectAll()
	l.MarkAsRead("a")
	l.MarkAllAsRead()
	l.DeleteSelected()

	assert.Equal(t, sampleList(), l)
}

func TestSameContent_IgnoresFlags(t *testing.T) {
	l := sampleList()
	flagged := l.MarkAllAsRead().ToggleSelectAll()
	assert.True(t, l.SameContent(flagged))

	retitled := append(domain.NotificationList(nil), l...)
	retitled[0].Title = "changed"
	assert.False(t, l.SameContent(retitled))

	assert.False(t, l.SameContent(l[:2]))

	var empty domain.NotificationList
	assert.True(t, empty.SameContent(nil))
}

func TestMergeReadState(t *testing.T) {
	previous := sampleList().MarkAsRead("a").ToggleSelect("c")

	fresh := domain.NotificationList{
		{ID: "a", Title: "A", Timestamp: baseTime, Type: domain.NotificationReminder},
		{ID: "c", Title: "C updated", Timestamp: baseTime.Add(3 * time.Hour), Type: domain.NotificationSystem},
		{ID: "d", Title: "D", Timestamp: baseTime.Add(4 * time.Hour), Type: domain.NotificationPayment},
	}

	merged := domain.MergeReadState(fresh, previous)

	assert.Equal(t, []string{"a", "c", "d"}, []string{merged[0].ID, merged[1].ID, merged[2].ID}, "fresh ordering preserved")
	assert.True(t, merged[0].IsRead, "read flag carried by id")
	assert.True(t, merged[1].IsSelected, "selection carried even when content changed")
	assert.Equal(t, "C updated", merged[1].Title, "content comes from fresh")
	assert.False(t, merged[2].IsRead, "new entries default unread")
	assert.False(t, merged[2].IsSelected)
}
