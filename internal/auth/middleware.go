package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/domain"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

const (
	principalKey = "auth_principal"
	tokenKey     = "auth_token"
)

// Principal represents the authenticated caller. It is immutable for the
// lifetime of a request.
type Principal struct {
	ID    int64
	Name  string
	Email string
	Roles []domain.RoleAssignment
}

// Gate attaches a principal to requests that carry a live bearer token.
// Requests without one continue anonymously.
type Gate struct {
	tokens   *TokenCodec
	sessions SessionStore
	logger   *zap.Logger
}

// NewGate constructs the authentication middleware.
func NewGate(tokens *TokenCodec, sessions SessionStore, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{tokens: tokens, sessions: sessions, logger: logger}
}

// Authenticate resolves the bearer token, if any, and never rejects the
// request for a bad or revoked token. Only a session store failure aborts.
func (g *Gate) Authenticate(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Next()
	}

	principal, err := g.Resolve(c.UserContext(), token)
	if err != nil {
		return err
	}
	if principal != nil {
		c.Locals(principalKey, principal)
		c.Locals(tokenKey, token)
	}
	return c.Next()
}

// Resolve returns the principal for a live token, nil for an anonymous one.
func (g *Gate) Resolve(ctx context.Context, token string) (*Principal, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.Debug("bearer token rejected", zap.Error(err))
		return nil, nil
	}

	active, err := g.sessions.IsActive(ctx, token)
	if err != nil {
		return nil, apperrors.NewUpstreamError("session store unavailable", err)
	}
	if !active {
		g.logger.Debug("bearer token revoked", zap.Int64("user_id", claims.UserID))
		return nil, nil
	}
	return claims.Principal(), nil
}

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized(MsgUnauthorized)
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// TokenFromContext returns the live token the principal authenticated with.
func TokenFromContext(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(tokenKey).(string)
	return token, ok && token != ""
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
