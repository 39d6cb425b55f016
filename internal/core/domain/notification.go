package domain

import "time"

// NotificationType categorizes inbox entries for icon/color selection on the
// client.
type NotificationType string

const (
	NotificationPayment  NotificationType = "payment"
	NotificationReminder NotificationType = "reminder"
	NotificationSystem   NotificationType = "system"
)

// Notification is a derived, ephemeral inbox entry. Notifications are
// regenerated from debt data on every refresh; only the IsRead/IsSelected
// flags carry user state, and those are merged forward by ID.
//
// IDs must be collision-free across every producing rule: payment-derived
// entries reuse the payment ID, transaction-derived entries are prefixed
// "transaction-", milestones "milestone-<debtID>" and completions
// "completed-<debtID>".
type Notification struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Timestamp  time.Time        `json:"timestamp"`
	Type       NotificationType `json:"type"`
	IsRead     bool             `json:"isRead"`
	IsSelected bool             `json:"isSelected"`
}

// sameContent compares everything except the user-state flags.
func (n Notification) sameContent(o Notification) bool {
	return n.ID == o.ID &&
		n.Title == o.Title &&
		n.Message == o.Message &&
		n.Timestamp.Equal(o.Timestamp) &&
		n.Type == o.Type
}

// NotificationList is the per-user inbox. All reducers return a new list and
// leave the receiver untouched, mirroring how the store is updated
// atomically per user.
type NotificationList []Notification

// ToggleSelect flips the selection flag on the matching entry only.
func (l NotificationList) ToggleSelect(id string) NotificationList {
	out := l.clone()
	for i := range out {
		if out[i].ID == id {
			out[i].IsSelected = !out[i].IsSelected
		}
	}
	return out
}

// ToggleSelectAll selects every entry, unless every entry is already
// selected, in which case it deselects all. The decision is computed from
// current state on each call so it stays consistent after deletions.
func (l NotificationList) ToggleSelectAll() NotificationList {
	allSelected := len(l) > 0
	for _, n := range l {
		if !n.IsSelected {
			allSelected = false
			break
		}
	}
	out := l.clone()
	for i := range out {
		out[i].IsSelected = !allSelected
	}
	return out
}

// MarkAsRead marks a single entry read.
func (l NotificationList) MarkAsRead(id string) NotificationList {
	out := l.clone()
	for i := range out {
		if out[i].ID == id {
			out[i].IsRead = true
		}
	}
	return out
}

// MarkSelectedAsRead marks every selected entry read. The selection is
// consumed by the action.
func (l NotificationList) MarkSelectedAsRead() NotificationList {
	out := l.clone()
	for i := range out {
		if out[i].IsSelected {
			out[i].IsRead = true
			out[i].IsSelected = false
		}
	}
	return out
}

// MarkAllAsRead marks every entry read without touching selection.
func (l NotificationList) MarkAllAsRead() NotificationList {
	out := l.clone()
	for i := range out {
		out[i].IsRead = true
	}
	return out
}

// DeleteSelected removes every selected entry.
func (l NotificationList) DeleteSelected() NotificationList {
	out := make(NotificationList, 0, len(l))
	for _, n := range l {
		if !n.IsSelected {
			out = append(out, n)
		}
	}
	return out
}

// Remove drops the entry with the given ID.
func (l NotificationList) Remove(id string) NotificationList {
	out := make(NotificationList, 0, len(l))
	for _, n := range l {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

// SelectedCount returns the number of selected entries.
func (l NotificationList) SelectedCount() int {
	count := 0
	for _, n := range l {
		if n.IsSelected {
			count++
		}
	}
	return count
}

// UnreadCount returns the number of unread entries.
func (l NotificationList) UnreadCount() int {
	count := 0
	for _, n := range l {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// SameContent reports whether two lists are structurally equal ignoring the
// IsRead/IsSelected flags. Used to skip redundant store writes after a
// regeneration that produced nothing new.
func (l NotificationList) SameContent(other NotificationList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if !l[i].sameContent(other[i]) {
			return false
		}
	}
	return true
}

func (l NotificationList) clone() NotificationList {
	out := make(NotificationList, len(l))
	copy(out, l)
	return out
}

// MergeReadState carries IsRead and IsSelected forward from previous onto
// fresh, matching by ID. Entries new to fresh default to unread and
// unselected. The fresh ordering is preserved.
func MergeReadState(fresh, previous NotificationList) NotificationList {
	prevByID := make(map[string]Notification, len(previous))
	for _, n := range previous {
		prevByID[n.ID] = n
	}
	out := fresh.clone()
	for i := range out {
		if prev, ok := prevByID[out[i].ID]; ok {
			out[i].IsRead = prev.IsRead
			out[i].IsSelected = prev.IsSelected
		}
	}
	return out
}
