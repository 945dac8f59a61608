package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the signed claim bundle carried by both token kinds. Kind is
// stamped only on refresh tokens ("refresh"); access tokens omit it.
type Claims struct {
	Email string `json:"email,omitempty"`
	Kind  string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// NewClaims builds claims for the given subject identity.
func NewClaims(userID int64, email string) Claims {
	return Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(userID, 10),
		},
	}
}

func (c *Claims) IsRefresh() bool { return c.Kind == string(TokenKindRefresh) }

// UserID parses the subject claim as an identity id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Codec signs and verifies compact HS256 tokens with a server-held secret.
// It performs no I/O; revocation checks layer above it.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

type CodecOption func(*Codec)

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCodec(secret string, opts ...CodecOption) *Codec {
	c := &Codec{
		secret: []byte(secret),
		method: jwt.SigningMethodHS256,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs the claims with exp = now + ttl and iat = now. A fresh jti is
// generated when the caller did not supply one; refresh tokens get the
// "type" discriminator.
func (c *Codec) Issue(claims Claims, kind TokenKind, ttl time.Duration) (string, error) {
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
	if kind == TokenKindRefresh {
		claims.Kind = string(TokenKindRefresh)
	}

	signed, err := jwt.NewWithClaims(c.method, &claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. Any mismatch, malformed structure, or
// past expiry fails with ErrInvalidToken.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
