package cache

import (
	"context"
	"sync"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
)

// MemoryInboxStore is the in-process fallback used when Redis is not
// configured. Inboxes do not survive restarts; the notification service
// rebuilds them on the next refresh.
type MemoryInboxStore struct {
	mu      sync.RWMutex
	inboxes map[string]domain.NotificationList
}

// NewMemoryInboxStore creates an empty in-memory inbox store.
func NewMemoryInboxStore() *MemoryInboxStore {
	return &MemoryInboxStore{inboxes: make(map[string]domain.NotificationList)}
}

var _ portsrepo.InboxStore = (*MemoryInboxStore)(nil)

func (s *MemoryInboxStore) GetInbox(_ context.Context, userID string) (domain.NotificationList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.inboxes[userID]
	if !ok {
		return domain.NotificationList{}, nil
	}
	list := make(domain.NotificationList, len(stored))
	copy(list, stored)
	return list, nil
}

func (s *MemoryInboxStore) SaveInbox(_ context.Context, userID string, list domain.NotificationList) error {
	stored := make(domain.NotificationList, len(list))
	copy(stored, list)
	s.mu.Lock()
	s.inboxes[userID] = stored
	s.mu.Unlock()
	return nil
}
