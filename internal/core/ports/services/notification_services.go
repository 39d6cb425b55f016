package services

import (
	"context"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
)

// NotificationSvcFacade regenerates and mutates a user's notification inbox.
// Every method returns the resulting inbox so handlers respond with
// authoritative state.
type NotificationSvcFacade interface {
	// RefreshInbox derives notifications from the user's current debts and
	// merges them with stored read/selection state.
	RefreshInbox(ctx context.Context, userID string) (domain.NotificationList, error)
	MarkRead(ctx context.Context, userID string, notificationID string) (domain.NotificationList, error)
	MarkAllRead(ctx context.Context, userID string) (domain.NotificationList, error)
	MarkSelectedRead(ctx context.Context, userID string) (domain.NotificationList, error)
	ToggleSelect(ctx context.Context, userID string, notificationID string) (domain.NotificationList, error)
	ToggleSelectAll(ctx context.Context, userID string) (domain.NotificationList, error)
	DeleteSelected(ctx context.Context, userID string) (domain.NotificationList, error)
}
