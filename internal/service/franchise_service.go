package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/repository"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// FranchiseService manages franchises and their stores.
type FranchiseService struct {
	franchises repository.FranchiseRepository
	users      repository.UserRepository
	logger     *zap.Logger
}

// FranchiseDependencies encapsulates collaborators for the franchise service.
type FranchiseDependencies struct {
	FranchiseRepo repository.FranchiseRepository
	UserRepo      repository.UserRepository
	Logger        *zap.Logger
}

// NewFranchiseService builds the service.
func NewFranchiseService(deps FranchiseDependencies) *FranchiseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FranchiseService{franchises: deps.FranchiseRepo, users: deps.UserRepo, logger: logger}
}

// List returns every franchise with its stores.
func (s *FranchiseService) List(ctx context.Context) ([]domain.Franchise, error) {
	franchises, err := s.franchises.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return franchises, nil
}

// ListForUser returns the franchises administered by userID. Callers other
// than the user themselves or an admin get an empty list.
func (s *FranchiseService) ListForUser(ctx context.Context, principal *auth.Principal, userID int64) ([]domain.Franchise, error) {
	if !auth.CanViewUserFranchises(principal, userID) {
		return []domain.Franchise{}, nil
	}
	franchises, err := s.franchises.ListByAdmin(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return franchises, nil
}

// Create registers a franchise and makes each listed email one of its admins.
func (s *FranchiseService) Create(ctx context.Context, principal *auth.Principal, name string, adminEmails []string) (*domain.Franchise, error) {
	if err := auth.CanCreateFranchise(principal); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("franchise name is required", nil)
	}

	franchise := &domain.Franchise{Name: name, Admins: make([]domain.FranchiseAdmin, 0, len(adminEmails))}
	for _, email := range adminEmails {
		user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("franchisee", map[string]any{"email": email})
			}
			return nil, apperrors.MapError(err)
		}
		franchise.Admins = append(franchise.Admins, domain.FranchiseAdmin{ID: user.ID, Name: user.Name, Email: user.Email})
	}

	if err := s.franchises.Create(ctx, franchise); err != nil {
		if errors.Is(err, repository.ErrFranchiseNameTaken) {
			return nil, apperrors.NewConflict("franchise name already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("franchise created", zap.Int64("franchise_id", franchise.ID), zap.Int64("by", principal.ID))
	return franchise, nil
}

// Delete removes a franchise, its stores and the franchisee roles it granted.
func (s *FranchiseService) Delete(ctx context.Context, principal *auth.Principal, franchiseID int64) error {
	if err := auth.CanDeleteFranchise(principal); err != nil {
		return err
	}
	if err := s.franchises.Delete(ctx, franchiseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("franchise", map[string]any{"id": franchiseID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CreateStore opens a store under franchiseID.
func (s *FranchiseService) CreateStore(ctx context.Context, principal *auth.Principal, franchiseID int64, name string) (*domain.Store, error) {
	franchise, err := s.lookup(ctx, principal, franchiseID)
	if err != nil {
		return nil, err
	}
	if err := auth.CanCreateStore(principal, franchise); err != nil {
		return nil, err
	}
	if franchise == nil {
		return nil, apperrors.NewNotFound("franchise", map[string]any{"id": franchiseID})
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("store name is required", nil)
	}

	store := &domain.Store{FranchiseID: franchiseID, Name: name}
	if err := s.franchises.CreateStore(ctx, store); err != nil {
		return nil, apperrors.MapError(err)
	}
	return store, nil
}

// DeleteStore closes a store belonging to franchiseID.
func (s *FranchiseService) DeleteStore(ctx context.Context, principal *auth.Principal, franchiseID, storeID int64) error {
	franchise, err := s.lookup(ctx, principal, franchiseID)
	if err != nil {
		return err
	}
	if err := auth.CanDeleteStore(principal, franchise); err != nil {
		return err
	}
	if franchise == nil {
		return apperrors.NewNotFound("franchise", map[string]any{"id": franchiseID})
	}
	if err := s.franchises.DeleteStore(ctx, franchiseID, storeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("store", map[string]any{"id": storeID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// lookup returns nil without error for an unknown franchise so the policy
// decides between 403 and 404.
func (s *FranchiseService) lookup(ctx context.Context, principal *auth.Principal, franchiseID int64) (*domain.Franchise, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized(auth.MsgUnauthorized)
	}
	franchise, err := s.franchises.GetByID(ctx, franchiseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return franchise, nil
}
