package redisstore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const recentKey = "sessions:recent"

// RecentReader reads the recent-session list maintained by the ingest service.
type RecentReader struct {
	client *redis.Client
}

// NewRecentReader returns redis-backed reader.
func NewRecentReader(client *redis.Client) *RecentReader {
	return &RecentReader{client: client}
}

// List returns up to limit cached entries, newest first. Each entry is the
// JSON document the ingest side wrote; it is passed through untouched.
func (r *RecentReader) List(ctx context.Context, limit int) ([]json.RawMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	values, err := r.client.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]json.RawMessage, 0, len(values))
	for _, v := range values {
		entries = append(entries, json.RawMessage(v))
	}
	return entries, nil
}
