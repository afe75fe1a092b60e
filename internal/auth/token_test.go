package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pizza-service/internal/domain"
)

func fixedCodec(secret string, ttl time.Duration, now time.Time) *TokenCodec {
	tc := NewTokenCodec(secret, ttl)
	tc.now = func() time.Time { return now }
	tc.newID = func() string { return "token-id" }
	return tc
}

func samplePrincipal() *Principal {
	franchiseID := int64(3)
	return &Principal{
		ID:    5,
		Name:  "pizza franchisee",
		Email: "f@jwt.com",
		Roles: []domain.RoleAssignment{
			{Role: domain.RoleDiner},
			{Role: domain.RoleFranchisee, ObjectID: &franchiseID},
		},
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tc := NewTokenCodec("secret", 0)
	p := samplePrincipal()

	token, err := tc.Issue(p)
	require.NoError(t, err)
	assert.Regexp(t, `^[a-zA-Z0-9\-_]*\.[a-zA-Z0-9\-_]*\.[a-zA-Z0-9\-_]*$`, token)

	claims, err := tc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, p, claims.Principal())
	assert.Nil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

func TestIssueIsDeterministicForFixedInputs(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	first, err := fixedCodec("secret", 0, now).Issue(samplePrincipal())
	require.NoError(t, err)
	second, err := fixedCodec("secret", 0, now).Issue(samplePrincipal())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIssueProducesDistinctTokensPerLogin(t *testing.T) {
	tc := NewTokenCodec("secret", 0)
	first, err := tc.Issue(samplePrincipal())
	require.NoError(t, err)
	second, err := tc.Issue(samplePrincipal())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenCodec("other-secret", 0).Issue(samplePrincipal())
	require.NoError(t, err)

	_, err = NewTokenCodec("secret", 0).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	tc := NewTokenCodec("secret", 0)
	token, err := tc.Issue(samplePrincipal())
	require.NoError(t, err)

	other, err := tc.Issue(&Principal{ID: 1, Name: "admin", Email: "a@jwt.com",
		Roles: []domain.RoleAssignment{{Role: domain.RoleAdmin}}})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forged := strings.Join([]string{parts[0], strings.Split(other, ".")[1], parts[2]}, ".")

	_, err = tc.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	tc := NewTokenCodec("secret", 0)
	for _, token := range []string{"", "not-a-token", "a.b", "###.###.###"} {
		_, err := tc.Verify(token)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}
}

func TestVerifyEnforcesExpiry(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	token, err := fixedCodec("secret", time.Hour, issuedAt).Issue(samplePrincipal())
	require.NoError(t, err)

	_, err = NewTokenCodec("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssueRejectsNilPrincipal(t *testing.T) {
	_, err := NewTokenCodec("secret", 0).Issue(nil)
	assert.Error(t, err)
}
