package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency replays create responses keyed by the Idempotency-Key header.
// Entries live in Redis with a TTL; lookups fail open so a Redis outage never
// blocks bookings.
type Idempotency struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	prefix string
}

func NewIdempotency(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Idempotency {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Idempotency{rdb: rdb, ttl: ttl, logger: logger, prefix: "idem:book:"}
}

func (i *Idempotency) Lookup(ctx context.Context, key string) ([]byte, bool) {
	body, err := i.rdb.Get(ctx, i.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			i.logger.Warn("idempotency lookup failed", "err", err)
		}
		return nil, false
	}
	return body, true
}

func (i *Idempotency) Store(ctx context.Context, key string, body []byte) {
	// NX keeps the first recorded response authoritative under races.
	if err := i.rdb.SetNX(ctx, i.prefix+key, body, i.ttl).Err(); err != nil {
		i.logger.Warn("idempotency store failed", "err", err)
	}
}
