package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/pizza-service/internal/domain"
)

var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// TokenCodec signs principals into bearer tokens and verifies them. It never
// consults the session store.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

// NewTokenCodec builds a codec. A zero ttl issues tokens without expiry.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Claims describes the JWT payload: a snapshot of the principal.
type Claims struct {
	UserID int64                   `json:"id"`
	Name   string                  `json:"name"`
	Email  string                  `json:"email"`
	Roles  []domain.RoleAssignment `json:"roles"`
	jwt.RegisteredClaims
}

// Principal rebuilds the identity embedded in the claims.
func (c *Claims) Principal() *Principal {
	roles := make([]domain.RoleAssignment, len(c.Roles))
	copy(roles, c.Roles)
	return &Principal{ID: c.UserID, Name: c.Name, Email: c.Email, Roles: roles}
}

// Issue builds and signs a token for the principal.
func (tc *TokenCodec) Issue(p *Principal) (string, error) {
	if p == nil {
		return "", errors.New("issue token: nil principal")
	}
	issuedAt := tc.now()
	claims := &Claims{
		UserID: p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Roles:  p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tc.newID(),
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	if tc.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(tc.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (tc *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tc.now),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return tc.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}
