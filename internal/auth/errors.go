package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Base error kinds. Everything that means "identity not established" unwraps
// to ErrUnauthenticated; "identity established but insufficient privilege"
// unwraps to ErrForbidden.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = fmt.Errorf("%w: incorrect email or password", ErrUnauthenticated)
	ErrAccountInactive    = fmt.Errorf("%w: account not active", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrTokenRevoked       = fmt.Errorf("%w: token has been revoked", ErrUnauthenticated)
)

// AuthorizationError names the privilege the caller is missing. The identity
// is already known at this point, so the message may safely list it.
type AuthorizationError struct {
	Roles      []string
	Permission string
}

func (e *AuthorizationError) Error() string {
	if e.Permission != "" {
		return fmt.Sprintf("required permission: %s", e.Permission)
	}
	return fmt.Sprintf("required role(s): %s", strings.Join(e.Roles, ", "))
}

func (e *AuthorizationError) Unwrap() error { return ErrForbidden }
