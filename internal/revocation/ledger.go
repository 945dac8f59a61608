package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked_token:"

// Ledger records revoked token identifiers until their natural expiry.
type Ledger interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisLedger stores a marker per revoked jti with a TTL equal to the
// token's remaining lifetime, so entries self-expire and the ledger never
// grows unbounded. Every round trip is bounded by a short timeout: the
// ledger sits on the hot path of every authenticated request and a slow
// store must not stall all traffic.
type RedisLedger struct {
	client  *redis.Client
	timeout time.Duration
	now     func() time.Time
}

type Option func(*RedisLedger)

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(l *RedisLedger) {
		if now != nil {
			l.now = now
		}
	}
}

func NewRedisLedger(client *redis.Client, timeout time.Duration, opts ...Option) *RedisLedger {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	l := &RedisLedger{client: client, timeout: timeout, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Revoke stores a marker for jti until expiresAt. A token that has already
// expired needs no marker; the call is a no-op.
func (l *RedisLedger) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.client.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	return nil
}

func (l *RedisLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	n, err := l.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation %s: %w", jti, err)
	}
	return n > 0, nil
}
