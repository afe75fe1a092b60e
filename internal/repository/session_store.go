package repository

import (
	"context"

	"github.com/spec-kit/pizza-service/internal/auth"
)

type postgresSessionStore struct {
	db DB
}

// NewPostgresSessionStore keeps sessions in the auth table next to users.
func NewPostgresSessionStore(db DB) auth.SessionStore {
	return &postgresSessionStore{db: db}
}

func (s *postgresSessionStore) Record(ctx context.Context, token string, userID int64) error {
	const query = `
        INSERT INTO auth (token_hash, user_id)
        VALUES ($1, $2)
        ON CONFLICT (token_hash) DO NOTHING`
	_, err := s.db.Exec(ctx, query, auth.SessionKey(token), userID)
	return err
}

func (s *postgresSessionStore) IsActive(ctx context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM auth WHERE token_hash=$1)`
	var active bool
	if err := s.db.QueryRow(ctx, query, auth.SessionKey(token)).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

func (s *postgresSessionStore) Revoke(ctx context.Context, token string) error {
	const query = `DELETE FROM auth WHERE token_hash=$1`
	_, err := s.db.Exec(ctx, query, auth.SessionKey(token))
	return err
}
