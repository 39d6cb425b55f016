// Package cache implements the notification inbox store, backed by Redis
// when configured and process memory otherwise.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// RedisInboxStore keeps each user's inbox as a JSON document under
// "inbox:<userID>". Entries expire after ttl so inboxes of inactive users
// age out; the next refresh rebuilds them from the debts.
type RedisInboxStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisInboxStore creates a Redis-backed inbox store.
func NewRedisInboxStore(client *redis.Client, ttl time.Duration) portsrepo.InboxStore {
	return &RedisInboxStore{client: client, ttl: ttl}
}

var _ portsrepo.InboxStore = (*RedisInboxStore)(nil)

func inboxKey(userID string) string {
	return "inbox:" + userID
}

func (s *RedisInboxStore) GetInbox(ctx context.Context, userID string) (domain.NotificationList, error) {
	raw, err := s.client.Get(ctx, inboxKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NotificationList{}, nil
		}
		return nil, fmt.Errorf("failed to read inbox for user %s: %w", userID, err)
	}
	var list domain.NotificationList
	if err := json.Unmarshal(raw, &list); err != nil {
		// A corrupt document is unrecoverable; treat it as missing and let
		// the caller rebuild the inbox.
		return domain.NotificationList{}, nil
	}
	return list, nil
}

func (s *RedisInboxStore) SaveInbox(ctx context.Context, userID string, list domain.NotificationList) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal inbox for user %s: %w", userID, err)
	}
	if err := s.client.Set(ctx, inboxKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write inbox for user %s: %w", userID, err)
	}
	return nil
}
