package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"evcharge/libs/wire"
	"evcharge/services/ingest/internal/backoff"
	"evcharge/services/ingest/internal/repository"
)

// SessionStore is the durable write side of the pipeline.
type SessionStore interface {
	Insert(ctx context.Context, s *wire.ChargingSession) error
}

// RecentCache mirrors the latest stored sessions for cheap dashboard reads.
// Best effort: cache failures never affect ingestion.
type RecentCache interface {
	Push(ctx context.Context, s *wire.ChargingSession) error
}

// Options tune the write path.
type Options struct {
	WriteTimeout time.Duration
	MaxAttempts  int
	Retry        backoff.Policy
}

// Stats snapshot for observability.
type Stats struct {
	Received int64 `json:"received"`
	Stored   int64 `json:"stored"`
	Dropped  int64 `json:"dropped"`
}

// IngestService drives one payload through decode, durable write and
// recent-session caching. Safe for concurrent use by pool workers.
type IngestService struct {
	store  SessionStore
	cache  RecentCache
	opts   Options
	logger *zap.Logger

	received atomic.Int64
	stored   atomic.Int64
	dropped  atomic.Int64
}

// NewIngestService returns service instance. cache may be nil.
func NewIngestService(store SessionStore, cache RecentCache, opts Options, logger *zap.Logger) *IngestService {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &IngestService{
		store:  store,
		cache:  cache,
		opts:   opts,
		logger: logger,
	}
}

// HandleMessage processes one delivered payload to completion: the record is
// either durably written or dropped by the failure rules. It returns once the
// message can be acknowledged to the channel.
func (s *IngestService) HandleMessage(ctx context.Context, payload []byte) {
	s.received.Add(1)

	record, err := wire.Decode(payload)
	if err != nil {
		// Malformed payloads never become valid on retry.
		s.dropped.Add(1)
		s.logger.Warn("dropping undecodable payload",
			zap.Error(err),
			zap.String("payload", excerpt(payload)))
		return
	}

	if record.StateOfChargeEndPct < record.StateOfChargeStartPct {
		s.logger.Debug("state of charge decreased during session",
			zap.String("station_id", record.StationID),
			zap.Float64("soc_start_pct", record.StateOfChargeStartPct),
			zap.Float64("soc_end_pct", record.StateOfChargeEndPct))
	}

	if !s.writeWithRetry(ctx, record) {
		return
	}
	s.stored.Add(1)

	if s.cache != nil {
		if err := s.cache.Push(ctx, record); err != nil {
			s.logger.Warn("recent session cache update failed",
				zap.Int64("id", record.ID),
				zap.Error(err))
		}
	}
}

// writeWithRetry attempts the insert up to MaxAttempts times, backing off
// between transient failures. It reports whether the record was stored.
func (s *IngestService) writeWithRetry(ctx context.Context, record *wire.ChargingSession) bool {
	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		writeCtx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
		err := s.store.Insert(writeCtx, record)
		cancel()
		if err == nil {
			return true
		}
		lastErr = err

		if repository.IsPermanent(err) {
			s.dropped.Add(1)
			s.logger.Error("dropping record after permanent store failure",
				zap.String("station_id", record.StationID),
				zap.Error(err))
			return false
		}

		s.logger.Warn("transient store failure",
			zap.String("station_id", record.StationID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.opts.MaxAttempts),
			zap.Error(err))

		if attempt == s.opts.MaxAttempts {
			break
		}
		if !s.opts.Retry.Sleep(ctx.Done(), attempt) {
			s.dropped.Add(1)
			s.logger.Warn("dropping record: shutdown during retry backoff",
				zap.String("station_id", record.StationID))
			return false
		}
	}

	s.dropped.Add(1)
	s.logger.Error("dropping record after retry ceiling",
		zap.String("station_id", record.StationID),
		zap.Int("attempts", s.opts.MaxAttempts),
		zap.Error(lastErr))
	return false
}

// Stats returns current counters.
func (s *IngestService) Stats() Stats {
	return Stats{
		Received: s.received.Load(),
		Stored:   s.stored.Load(),
		Dropped:  s.dropped.Load(),
	}
}

const excerptLimit = 256

func excerpt(payload []byte) string {
	if len(payload) > excerptLimit {
		return string(payload[:excerptLimit]) + "..."
	}
	return string(payload)
}
