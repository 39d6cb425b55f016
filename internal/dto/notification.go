package dto

import (
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
)

// NotificationResponse is one inbox entry on the wire.
type NotificationResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Type       string    `json:"type"`
	IsRead     bool      `json:"isRead"`
	IsSelected bool      `json:"isSelected"`
}

// NotificationListResponse is the inbox with its derived counters.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
	SelectedCount int                    `json:"selectedCount"`
}

// NotificationIDRequest addresses a single inbox entry.
type NotificationIDRequest struct {
	ID string `json:"id" binding:"required"`
}

// ToNotificationListResponse converts an inbox to its wire form.
func ToNotificationListResponse(list domain.NotificationList) NotificationListResponse {
	items := make([]NotificationResponse, len(list))
	for i, n := range list {
		items[i] = NotificationResponse{
			ID:         n.ID,
			Title:      n.Title,
			Message:    n.Message,
			Timestamp:  n.Timestamp,
			Type:       string(n.Type),
			IsRead:     n.IsRead,
			IsSelected: n.IsSelected,
		}
	}
	return NotificationListResponse{
		Notifications: items,
		UnreadCount:   list.UnreadCount(),
		SelectedCount: list.SelectedCount(),
	}
}
