package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsvrsm/backoffice/internal/identity"
	"github.com/tsvrsm/backoffice/internal/models"
)

// RevocationChecker is the read side of the revocation ledger.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Evaluator resolves verified tokens to identities and exposes the guard
// primitives every protected operation is built from.
type Evaluator struct {
	store  identity.Store
	codec  *Codec
	ledger RevocationChecker
}

func NewEvaluator(store identity.Store, codec *Codec, ledger RevocationChecker) *Evaluator {
	return &Evaluator{store: store, codec: codec, ledger: ledger}
}

// ResolveIdentity is the single funnel for authentication: verify the token,
// consult the revocation ledger, then re-resolve the subject against the
// credential store. If the ledger is unreachable the check fails open — a
// revoked token then survives at most until its natural expiry, which for
// access tokens is minutes.
func (e *Evaluator) ResolveIdentity(ctx context.Context, token string) (*models.User, error) {
	claims, err := e.codec.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		revoked, err := e.ledger.IsRevoked(ctx, claims.ID)
		if err != nil {
			slog.Warn("revocation check failed, proceeding", "jti", claims.ID, "error", err)
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !user.IsActive() {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// RequireAnyRole passes when the identity holds at least one of the allowed
// role codes. Pure function of already-resolved role data.
func RequireAnyRole(user *models.User, codes ...string) error {
	held := user.RoleCodes()
	for _, code := range codes {
		if _, ok := held[code]; ok {
			return nil
		}
	}
	return &AuthorizationError{Roles: codes}
}

// RequirePermission passes when any held role enables the capability. This
// is an OR across roles: one sufficient role grants it.
func RequirePermission(user *models.User, key string) error {
	for _, role := range user.Roles {
		if role.Permissions[key] {
			return nil
		}
	}
	return &AuthorizationError{Permission: key}
}

// HasRole reports whether the identity holds the given role code. Callers
// use it to decide policy such as the platform-admin company-scoping bypass.
func HasRole(user *models.User, code string) bool {
	_, ok := user.RoleCodes()[code]
	return ok
}

// AccessibleCompanyIDs derives the companies reachable through the
// identity's store-access grants, deduplicated. An identity with no grants
// gets an empty set. The platform-wide bypass is deliberately not applied
// here; it is the caller's policy decision.
func AccessibleCompanyIDs(user *models.User) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(user.StoreAccesses))
	for _, access := range user.StoreAccesses {
		ids[access.Store.CompanyID] = struct{}{}
	}
	return ids
}
