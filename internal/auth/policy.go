package auth

import (
	"github.com/spec-kit/pizza-service/internal/domain"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// Deny messages returned to callers that fail a rule.
const (
	MsgUnauthorized        = "unauthorized"
	MsgCreateFranchiseDeny = "unable to create a franchise"
	MsgDeleteFranchiseDeny = "unable to delete a franchise"
	MsgCreateStoreDeny     = "unable to create a store"
	MsgDeleteStoreDeny     = "unable to delete a store"
	MsgModifyMenuDeny      = "unable to add menu item"
)

// HasRole reports whether the principal holds role. A nil principal holds nothing.
func HasRole(p *Principal, role domain.Role) bool {
	if p == nil {
		return false
	}
	for _, assignment := range p.Roles {
		if assignment.Role == role {
			return true
		}
	}
	return false
}

// CanUpdateUser allows users to update themselves and admins to update anyone.
func CanUpdateUser(p *Principal, userID int64) error {
	if p == nil {
		return apperrors.NewUnauthorized(MsgUnauthorized)
	}
	if p.ID == userID || HasRole(p, domain.RoleAdmin) {
		return nil
	}
	return apperrors.NewForbidden(MsgUnauthorized)
}

// CanViewUserFranchises mirrors CanUpdateUser without producing an error;
// callers answer with an empty list instead of a 403.
func CanViewUserFranchises(p *Principal, userID int64) bool {
	return p != nil && (p.ID == userID || HasRole(p, domain.RoleAdmin))
}

func CanCreateFranchise(p *Principal) error {
	return requireAdmin(p, MsgCreateFranchiseDeny)
}

func CanDeleteFranchise(p *Principal) error {
	return requireAdmin(p, MsgDeleteFranchiseDeny)
}

// CanCreateStore allows admins and the franchise's own administrators.
func CanCreateStore(p *Principal, franchise *domain.Franchise) error {
	return requireFranchiseAdmin(p, franchise, MsgCreateStoreDeny)
}

// CanDeleteStore allows admins and the franchise's own administrators.
func CanDeleteStore(p *Principal, franchise *domain.Franchise) error {
	return requireFranchiseAdmin(p, franchise, MsgDeleteStoreDeny)
}

func CanModifyMenu(p *Principal) error {
	return requireAdmin(p, MsgModifyMenuDeny)
}

func requireAdmin(p *Principal, deny string) error {
	if p == nil {
		return apperrors.NewUnauthorized(MsgUnauthorized)
	}
	if HasRole(p, domain.RoleAdmin) {
		return nil
	}
	return apperrors.NewForbidden(deny)
}

// An unknown franchise denies non-admins with the same message so callers
// cannot probe for franchise ids.
func requireFranchiseAdmin(p *Principal, franchise *domain.Franchise, deny string) error {
	if p == nil {
		return apperrors.NewUnauthorized(MsgUnauthorized)
	}
	if HasRole(p, domain.RoleAdmin) || franchise.IsAdmin(p.ID) {
		return nil
	}
	return apperrors.NewForbidden(deny)
}
