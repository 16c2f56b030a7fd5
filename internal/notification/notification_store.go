package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const seenTTL = 7 * 24 * time.Hour

type Store interface {
	// Push returns false when the notification id was already delivered.
	Push(ctx context.Context, n Notification) (bool, error)
	List(ctx context.Context, userID string, limit int) ([]Notification, error)
}

type redisStore struct {
	rdb      *redis.Client
	maxItems int
}

func NewRedisStore(rdb *redis.Client, maxItems int) Store {
	if maxItems <= 0 {
		maxItems = 100
	}
	return &redisStore{rdb: rdb, maxItems: maxItems}
}

func inboxKey(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func seenKey(id string) string {
	return fmt.Sprintf("notifications:seen:%s", id)
}

func (s *redisStore) Push(ctx context.Context, n Notification) (bool, error) {
	fresh, err := s.rdb.SetNX(ctx, seenKey(n.ID), 1, seenTTL).Result()
	if err != nil {
		return false, err
	}
	if !fresh {
		return false, nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return false, err
	}

	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, inboxKey(n.UserID), payload)
	pipe.LTrim(ctx, inboxKey(n.UserID), 0, int64(s.maxItems-1))
	if _, err := pipe.Exec(ctx); err != nil {
		// release the marker so a redelivery can retry
		s.rdb.Del(ctx, seenKey(n.ID))
		return false, err
	}
	return true, nil
}

func (s *redisStore) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > s.maxItems {
		limit = s.maxItems
	}

	raw, err := s.rdb.LRange(ctx, inboxKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]Notification, 0, len(raw))
	for _, r := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			continue
		}
		items = append(items, n)
	}
	return items, nil
}
