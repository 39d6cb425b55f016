package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
)

// notificationService regenerates inboxes from debt data and applies the
// inbox reducers. The store write is skipped when regeneration produced
// nothing new, so a refresh is always safe to invoke redundantly.
type notificationService struct {
	BaseService
	debtRepo portsrepo.DebtRepository
	store    portsrepo.InboxStore
	now      func() time.Time
}

// NewNotificationService creates the notification service. now is injectable
// for tests; pass nil for the wall clock.
func NewNotificationService(debtRepo portsrepo.DebtRepository, store portsrepo.InboxStore, now func() time.Time) portssvc.NotificationSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &notificationService{
		debtRepo: debtRepo,
		store:    store,
		now:      now,
	}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

func (s *notificationService) RefreshInbox(ctx context.Context, userID string) (domain.NotificationList, error) {
	debts, err := s.debtRepo.ListDebtsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debts for inbox refresh")
		return nil, fmt.Errorf("failed to load debts for notifications: %w", err)
	}

	previous, err := s.store.GetInbox(ctx, userID)
	if err != nil {
		// A lost inbox only resets read flags; derivation still works.
		s.LogWarn(ctx, "Failed to load stored inbox, starting empty", slog.String("error", err.Error()))
		previous = nil
	}

	fresh := DeriveNotifications(debts, s.now())
	if fresh.SameContent(previous) {
		return previous, nil
	}

	merged := domain.MergeReadState(fresh, previous)
	if err := s.store.SaveInbox(ctx, userID, merged); err != nil {
		s.LogError(ctx, err, "Failed to persist refreshed inbox")
		return nil, fmt.Errorf("failed to save inbox: %w", err)
	}
	s.LogInfo(ctx, "Inbox refreshed", slog.Int("notifications", len(merged)))
	return merged, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID string) (domain.NotificationList, error) {
	return s.mutate(ctx, userID, func(l domain.NotificationList) domain.NotificationList {
		return l.MarkAsRead(notificationID)
	})
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (domain.NotificationList, error) {
	return s.mutate(ctx, userID, domain.NotificationList.MarkAllAsRead)
}

func (s *notificationService) MarkSelectedRead(ctx context.Context, userID string) (domain.NotificationList, error) {
	return s.mutate(ctx, userID, domain.NotificationList.MarkSelectedAsRead)
}

func (s *notificationService) ToggleSelect(ctx context.Context, userID string, notificationID string) (domain.NotificationList, error) {
	return s.mutate(ctx, userID, func(l domain.NotificationList) domain.NotificationList {
		return l.ToggleSelect(notificationID)
	})
}

func (s *notificationService) ToggleSelectAll(ctx context.Context, userID string) (domain.NotificationList, error) {
	return s.mutate(ctx, userID, domain.NotificationList.ToggleSelectAll)
}

func (s *notificationService) DeleteSelected(ctx context.Context, userID string) (domain.NotificationList, error) {
	return s.mutate(ctx, userID, domain.NotificationList.DeleteSelected)
}

// mutate loads the inbox, applies one reducer and persists the result.
func (s *notificationService) mutate(ctx context.Context, userID string, reduce func(domain.NotificationList) domain.NotificationList) (domain.NotificationList, error) {
	list, err := s.store.GetInbox(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load inbox")
		return nil, fmt.Errorf("failed to load inbox: %w", err)
	}
	updated := reduce(list)
	if err := s.store.SaveInbox(ctx, userID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist inbox mutation")
		return nil, fmt.Errorf("failed to save inbox: %w", err)
	}
	return updated, nil
}
