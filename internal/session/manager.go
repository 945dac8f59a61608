package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tsvrsm/backoffice/internal/auth"
	"github.com/tsvrsm/backoffice/internal/identity"
	"github.com/tsvrsm/backoffice/internal/revocation"
)

// dummyHash keeps login timing uniform when the email is unknown: the bcrypt
// comparison runs either way.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// EventRecorder receives session audit events. Recording is best-effort;
// implementations must not block the auth flow.
type EventRecorder interface {
	RecordAuthEvent(ctx context.Context, action string, userID *int64, details map[string]interface{})
}

// Manager orchestrates login, refresh and logout over the credential store,
// token codec and revocation ledger. Tokens are stateless; the only
// persisted trace of a session is an optional revocation marker.
type Manager struct {
	store      identity.Store
	codec      *auth.Codec
	ledger     revocation.Ledger
	accessTTL  time.Duration
	refreshTTL time.Duration
	events     EventRecorder
}

type Option func(*Manager)

// WithEvents wires an audit event recorder.
func WithEvents(recorder EventRecorder) Option {
	return func(m *Manager) { m.events = recorder }
}

func NewManager(store identity.Store, codec *auth.Codec, ledger revocation.Ledger, accessTTL, refreshTTL time.Duration, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		codec:      codec,
		ledger:     ledger,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login authenticates the credentials and mints a fresh access/refresh token
// pair with independent jtis. Unknown email and wrong password are
// indistinguishable to the caller.
func (m *Manager) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			_ = auth.VerifyPassword(dummyHash, password)
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, auth.ErrAccountInactive
	}

	access, err := m.codec.Issue(auth.NewClaims(user.ID, user.Email), auth.TokenKindAccess, m.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := m.codec.Issue(auth.NewClaims(user.ID, ""), auth.TokenKindRefresh, m.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	m.record(ctx, "auth.login", &user.ID, map[string]interface{}{"email": user.Email})
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh verifies a refresh token and mints a new access token with a fresh
// jti for the same subject. The refresh token itself is not rotated; it
// stays valid until its own expiry or an explicit logout.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := m.codec.Verify(refreshToken)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	if !claims.IsRefresh() {
		return "", auth.ErrInvalidToken
	}

	if claims.ID != "" {
		revoked, err := m.ledger.IsRevoked(ctx, claims.ID)
		if err != nil {
			slog.Warn("revocation check failed, proceeding", "jti", claims.ID, "error", err)
		} else if revoked {
			return "", auth.ErrTokenRevoked
		}
	}

	if claims.Subject == "" {
		return "", auth.ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	user, err := m.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return "", auth.ErrInvalidToken
		}
		return "", fmt.Errorf("lookup identity: %w", err)
	}
	if !user.IsActive() {
		return "", auth.ErrAccountInactive
	}

	access, err := m.codec.Issue(auth.NewClaims(user.ID, user.Email), auth.TokenKindAccess, m.accessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	m.record(ctx, "auth.refresh", &user.ID, nil)
	return access, nil
}

// Logout best-effort revokes the refresh token. It always succeeds from the
// caller's perspective: a token that fails to decode has nothing to revoke,
// and a ledger write failure only leaves the refresh token valid until its
// natural expiry. Access tokens issued before logout stay valid until their
// own short expiry.
func (m *Manager) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	claims, err := m.codec.Verify(refreshToken)
	if err != nil {
		return
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return
	}

	if err := m.ledger.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Warn("revocation write failed during logout", "jti", claims.ID, "error", err)
	}

	var userID *int64
	if id, err := claims.UserID(); err == nil {
		userID = &id
	}
	m.record(ctx, "auth.logout", userID, nil)
}

func (m *Manager) record(ctx context.Context, action string, userID *int64, details map[string]interface{}) {
	if m.events == nil {
		return
	}
	m.events.RecordAuthEvent(ctx, action, userID, details)
}
