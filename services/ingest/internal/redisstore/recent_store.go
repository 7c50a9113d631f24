package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"evcharge/libs/wire"
)

const recentKey = "sessions:recent"

// RecentStore keeps the newest stored sessions in a capped redis list for
// cheap dashboard reads.
type RecentStore struct {
	client *redis.Client
	limit  int64
}

// NewRecentStore returns redis-backed store keeping up to limit entries.
func NewRecentStore(client *redis.Client, limit int) *RecentStore {
	if limit <= 0 {
		limit = 100
	}
	return &RecentStore{client: client, limit: int64(limit)}
}

type recentEntry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	wire.ChargingSession
}

// Push prepends the session and trims the list to the configured length.
func (s *RecentStore) Push(ctx context.Context, session *wire.ChargingSession) error {
	data, err := json.Marshal(recentEntry{
		ID:              session.ID,
		CreatedAt:       session.CreatedAt.UTC(),
		ChargingSession: *session,
	})
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, s.limit-1)
	_, err = pipe.Exec(ctx)
	return err
}
