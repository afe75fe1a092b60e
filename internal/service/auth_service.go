package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/config"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/events"
	"github.com/spec-kit/pizza-service/internal/repository"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

const (
	msgRegistrationFields = "name, email, and password are required"
	msgUnknownUser        = "unknown user"
)

// AuthService coordinates registration, login, logout and user updates.
type AuthService struct {
	users      repository.UserRepository
	sessions   auth.SessionStore
	tokens     *auth.TokenCodec
	events     events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Sessions   auth.SessionStore
	Tokens     *auth.TokenCodec
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UpdateUserInput carries the fields a caller may change. Empty fields are left as-is.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(deps.Logger)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		tokens:     deps.Tokens,
		events:     dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a diner account and opens its first session.
//
// Creating the user and recording the session are two separate writes. If
// the second fails the account exists without a usable token; the caller
// gets an error and can simply log in. This gap is accepted rather than
// wrapped in a cross-store transaction.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError(msgRegistrationFields, nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.RoleAssignment{{Role: domain.RoleDiner}},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewUpstreamError("credential store unavailable", err)
	}
	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, nil))

	token, err := s.openSession(ctx, user)
	if err != nil {
		s.logger.Warn("user created without session", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and opens a new session. Every login gets its
// own token; earlier sessions for the user stay live.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.authFailed(ctx, email, "unknown email")
			return nil, apperrors.NewUnauthorized(msgUnknownUser)
		}
		return nil, apperrors.NewUpstreamError("credential store unavailable", err)
	}
	if !auth.PasswordMatches(user.PasswordHash, password) {
		s.authFailed(ctx, email, "password mismatch")
		return nil, apperrors.NewUnauthorized(msgUnknownUser)
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the session for token. Revoking an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return apperrors.NewUpstreamError("session store unavailable", err)
	}
	var userID int64
	if principal != nil {
		userID = principal.ID
	}
	s.publish(ctx, events.New(events.EventUserLoggedOut, userID, nil))
	return nil
}

// UpdateUser changes a user's name, email or password after the caller
// passes CanUpdateUser.
//
// Other live sessions of the user are deliberately left untouched, even on a
// password change. Revoking them is a product decision still open with
// stakeholders.
func (s *AuthService) UpdateUser(ctx context.Context, principal *auth.Principal, userID int64, in UpdateUserInput) (*domain.User, error) {
	if err := auth.CanUpdateUser(principal, userID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, apperrors.NewUpstreamError("credential store unavailable", err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = email
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewUpstreamError("credential store unavailable", err)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account if no user owns email.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.RoleAssignment{{Role: domain.RoleAdmin}},
	}
	if err := s.users.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrEmailTaken) {
		return err
	}
	s.logger.Info("bootstrap admin ensured", zap.String("email", email))
	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Issue(PrincipalFor(user))
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if err := s.sessions.Record(ctx, token, user.ID); err != nil {
		return "", apperrors.NewUpstreamError("session store unavailable", err)
	}
	s.publish(ctx, events.New(events.EventUserLoggedIn, user.ID, nil))
	return token, nil
}

func (s *AuthService) authFailed(ctx context.Context, email, reason string) {
	s.publish(ctx, events.New(events.EventAuthFailed, 0, events.AuthFailedPayload{Email: email, Reason: reason}))
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// PrincipalFor snapshots a user into the claims carried by a token.
func PrincipalFor(user *domain.User) *auth.Principal {
	roles := make([]domain.RoleAssignment, len(user.Roles))
	copy(roles, user.Roles)
	return &auth.Principal{ID: user.ID, Name: user.Name, Email: user.Email, Roles: roles}
}
