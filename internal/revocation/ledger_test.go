package revocation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreachableClient returns a client that fails fast on any command.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRevokeSkipsExpiredTokens(t *testing.T) {
	now := time.Now()
	ledger := NewRedisLedger(unreachableClient(), 50*time.Millisecond, WithClock(func() time.Time { return now }))

	// Already-expired marker needs no storage, so no round trip happens and
	// the unreachable client is never touched.
	if err := ledger.Revoke(context.Background(), "jti-1", now.Add(-time.Minute)); err != nil {
		t.Fatalf("expected no-op for expired token, got %v", err)
	}
	if err := ledger.Revoke(context.Background(), "jti-2", now); err != nil {
		t.Fatalf("expected no-op at exact expiry, got %v", err)
	}
}

func TestRevokeWrapsTransportErrors(t *testing.T) {
	ledger := NewRedisLedger(unreachableClient(), 50*time.Millisecond)

	err := ledger.Revoke(context.Background(), "jti-1", time.Now().Add(time.Hour))
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !strings.Contains(err.Error(), "jti-1") {
		t.Fatalf("error must identify the jti: %v", err)
	}
}

func TestIsRevokedWrapsTransportErrors(t *testing.T) {
	ledger := NewRedisLedger(unreachableClient(), 50*time.Millisecond)

	revoked, err := ledger.IsRevoked(context.Background(), "jti-1")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if revoked {
		t.Fatalf("revoked must be false on error")
	}
	if !strings.Contains(err.Error(), "jti-1") {
		t.Fatalf("error must identify the jti: %v", err)
	}
}

func TestNewRedisLedgerDefaultsTimeout(t *testing.T) {
	ledger := NewRedisLedger(unreachableClient(), 0)
	if ledger.timeout <= 0 {
		t.Fatalf("expected a positive default timeout, got %v", ledger.timeout)
	}
}
