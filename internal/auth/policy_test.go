package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pizza-service/internal/domain"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

func diner(id int64) *Principal {
	return &Principal{ID: id, Roles: []domain.RoleAssignment{{Role: domain.RoleDiner}}}
}

func admin(id int64) *Principal {
	return &Principal{ID: id, Roles: []domain.RoleAssignment{{Role: domain.RoleDiner}, {Role: domain.RoleAdmin}}}
}

func requireDenied(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, status, domainErr.HTTPStatus)
	assert.Equal(t, message, domainErr.Message)
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(admin(1), domain.RoleAdmin))
	assert.True(t, HasRole(admin(1), domain.RoleDiner))
	assert.False(t, HasRole(diner(1), domain.RoleAdmin))
	assert.False(t, HasRole(nil, domain.RoleDiner))
	assert.False(t, HasRole(&Principal{ID: 1}, domain.RoleDiner))
}

func TestCanUpdateUser(t *testing.T) {
	require.NoError(t, CanUpdateUser(diner(5), 5))
	requireDenied(t, CanUpdateUser(diner(5), 6), http.StatusForbidden, MsgUnauthorized)
	require.NoError(t, CanUpdateUser(admin(1), 6))
	requireDenied(t, CanUpdateUser(nil, 6), http.StatusUnauthorized, MsgUnauthorized)
}

func TestFranchiseRulesRequireAdmin(t *testing.T) {
	franchisee := &Principal{ID: 9, Roles: []domain.RoleAssignment{{Role: domain.RoleFranchisee}}}

	tests := []struct {
		name string
		rule func(*Principal) error
		deny string
	}{
		{name: "create franchise", rule: CanCreateFranchise, deny: MsgCreateFranchiseDeny},
		{name: "delete franchise", rule: CanDeleteFranchise, deny: MsgDeleteFranchiseDeny},
		{name: "modify menu", rule: CanModifyMenu, deny: MsgModifyMenuDeny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.rule(admin(1)))
			requireDenied(t, tt.rule(diner(2)), http.StatusForbidden, tt.deny)
			requireDenied(t, tt.rule(franchisee), http.StatusForbidden, tt.deny)
			requireDenied(t, tt.rule(nil), http.StatusUnauthorized, MsgUnauthorized)
		})
	}
}

func TestStoreRulesAllowFranchiseAdmins(t *testing.T) {
	franchise := &domain.Franchise{ID: 3, Admins: []domain.FranchiseAdmin{{ID: 7}}}

	tests := []struct {
		name string
		rule func(*Principal, *domain.Franchise) error
		deny string
	}{
		{name: "create store", rule: CanCreateStore, deny: MsgCreateStoreDeny},
		{name: "delete store", rule: CanDeleteStore, deny: MsgDeleteStoreDeny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.rule(diner(7), franchise))
			require.NoError(t, tt.rule(admin(1), franchise))
			require.NoError(t, tt.rule(admin(1), nil))
			requireDenied(t, tt.rule(diner(8), franchise), http.StatusForbidden, tt.deny)
			requireDenied(t, tt.rule(diner(7), nil), http.StatusForbidden, tt.deny)
			requireDenied(t, tt.rule(nil, franchise), http.StatusUnauthorized, MsgUnauthorized)
		})
	}
}

func TestCanViewUserFranchises(t *testing.T) {
	assert.True(t, CanViewUserFranchises(diner(4), 4))
	assert.True(t, CanViewUserFranchises(admin(1), 4))
	assert.False(t, CanViewUserFranchises(diner(5), 4))
	assert.False(t, CanViewUserFranchises(nil, 4))
}
