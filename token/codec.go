// Package token implements the credential codec: signed, time-bounded
// identity assertions carried as HS256 JWTs. Access and refresh credentials
// use separate Codec instances with distinct secrets, so a leaked access
// secret cannot forge refresh credentials and vice versa.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"photostream/users"
)

// Verification failures are terminal: no partial trust.
var (
	// ErrMalformed means the token does not parse, or a required claim
	// (subject, role, expiry) is absent.
	ErrMalformed = errors.New("token malformed")

	// ErrBadSignature means the signature does not match the secret.
	ErrBadSignature = errors.New("token signature invalid")

	// ErrExpired means the embedded expiry has passed.
	ErrExpired = errors.New("token expired")
)

// Claims is the validated payload of a credential. Decoding rejects tokens
// with any required field missing rather than trusting an untyped payload.
type Claims struct {
	Subject   string
	Role      users.RoleType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies one credential class. Verify is a pure function
// of (token, secret, current time): it performs no I/O and needs no locking.
type Codec struct {
	secret  []byte
	nowFunc func() time.Time
}

// CodecOption modifies a Codec at construction time.
type CodecOption func(*Codec)

// WithNowFunc overrides the clock, primarily for tests.
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

// NewCodec creates a codec for one credential class. The secret is injected
// here and nowhere else; there is no package-level signing state.
func NewCodec(secret string, options ...CodecOption) *Codec {
	c := &Codec{
		secret:  []byte(secret),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Sign encodes claims into a signed token that expires ttl from now.
func (c *Codec) Sign(subject string, role users.RoleType, ttl time.Duration) (string, error) {
	now := c.nowFunc()
	claims := jwtClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "Codec.Sign")
	}
	return signed, nil
}

// Verify decodes and validates a token. It fails with ErrMalformed,
// ErrBadSignature or ErrExpired; any other failure is reported as
// ErrMalformed since an unparseable token earns no finer diagnosis.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	var decoded jwtClaims
	_, err := parser.ParseWithClaims(tokenStr, &decoded, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrMalformed
		}
	}

	if decoded.Subject == "" || decoded.ExpiresAt == nil {
		return nil, ErrMalformed
	}
	role := users.RoleType(decoded.Role)
	if !users.ValidRole(role) {
		return nil, ErrMalformed
	}

	claims := &Claims{
		Subject:   decoded.Subject,
		Role:      role,
		ExpiresAt: decoded.ExpiresAt.Time,
	}
	if decoded.IssuedAt != nil {
		claims.IssuedAt = decoded.IssuedAt.Time
	}
	return claims, nil
}
