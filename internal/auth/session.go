package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// SessionStore tracks which issued tokens are still live. It is the only
// revocation mechanism: a token that verifies but is not recorded here is
// treated as anonymous.
//
// Record and Revoke must be idempotent and IsActive must observe a completed
// Revoke immediately.
type SessionStore interface {
	Record(ctx context.Context, token string, userID int64) error
	IsActive(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

// SessionKey derives the storage key for a token so raw bearer tokens are
// never persisted.
func SessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
