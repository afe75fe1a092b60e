package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pizza-service/internal/domain"
)

// ErrFranchiseNameTaken is returned when a franchise with the same name exists.
var ErrFranchiseNameTaken = errors.New("franchise name already exists")

// FranchiseRepository manages franchises, their stores and their administrators.
type FranchiseRepository interface {
	List(ctx context.Context) ([]domain.Franchise, error)
	ListByAdmin(ctx context.Context, userID int64) ([]domain.Franchise, error)
	GetByID(ctx context.Context, id int64) (*domain.Franchise, error)
	Create(ctx context.Context, franchise *domain.Franchise) error
	Delete(ctx context.Context, id int64) error
	CreateStore(ctx context.Context, store *domain.Store) error
	DeleteStore(ctx context.Context, franchiseID, storeID int64) error
}

type franchiseRepository struct {
	db DB
}

// NewFranchiseRepository constructs repository.
func NewFranchiseRepository(db DB) FranchiseRepository {
	return &franchiseRepository{db: db}
}

func (r *franchiseRepository) List(ctx context.Context) ([]domain.Franchise, error) {
	const query = `SELECT id, name FROM franchises ORDER BY id`
	return r.list(ctx, query)
}

func (r *franchiseRepository) ListByAdmin(ctx context.Context, userID int64) ([]domain.Franchise, error) {
	const query = `
        SELECT f.id, f.name FROM franchises f
        JOIN user_roles ur ON ur.object_id = f.id AND ur.role = 'franchisee'
        WHERE ur.user_id=$1
        ORDER BY f.id`
	return r.list(ctx, query, userID)
}

func (r *franchiseRepository) list(ctx context.Context, query string, args ...any) ([]domain.Franchise, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	franchises := []domain.Franchise{}
	for rows.Next() {
		var franchise domain.Franchise
		if err := rows.Scan(&franchise.ID, &franchise.Name); err != nil {
			return nil, err
		}
		franchises = append(franchises, franchise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range franchises {
		if err := r.hydrate(ctx, &franchises[i]); err != nil {
			return nil, err
		}
	}
	return franchises, nil
}

func (r *franchiseRepository) GetByID(ctx context.Context, id int64) (*domain.Franchise, error) {
	const query = `SELECT id, name FROM franchises WHERE id=$1`
	var franchise domain.Franchise
	if err := r.db.QueryRow(ctx, query, id).Scan(&franchise.ID, &franchise.Name); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, &franchise); err != nil {
		return nil, err
	}
	return &franchise, nil
}

func (r *franchiseRepository) hydrate(ctx context.Context, franchise *domain.Franchise) error {
	admins, err := r.admins(ctx, franchise.ID)
	if err != nil {
		return err
	}
	stores, err := r.stores(ctx, franchise.ID)
	if err != nil {
		return err
	}
	franchise.Admins = admins
	franchise.Stores = stores
	return nil
}

func (r *franchiseRepository) admins(ctx context.Context, franchiseID int64) ([]domain.FranchiseAdmin, error) {
	const query = `
        SELECT u.id, u.name, u.email FROM users u
        JOIN user_roles ur ON ur.user_id = u.id
        WHERE ur.role = 'franchisee' AND ur.object_id=$1
        ORDER BY u.id`
	rows, err := r.db.Query(ctx, query, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []domain.FranchiseAdmin{}
	for rows.Next() {
		var admin domain.FranchiseAdmin
		if err := rows.Scan(&admin.ID, &admin.Name, &admin.Email); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (r *franchiseRepository) stores(ctx context.Context, franchiseID int64) ([]domain.Store, error) {
	const query = `
        SELECT s.id, s.franchise_id, s.name,
               COALESCE((SELECT SUM(oi.price) FROM diner_orders o
                         JOIN order_items oi ON oi.order_id = o.id
                         WHERE o.store_id = s.id), 0)::float8
        FROM stores s WHERE s.franchise_id=$1
        ORDER BY s.id`
	rows, err := r.db.Query(ctx, query, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(&store.ID, &store.FranchiseID, &store.Name, &store.TotalRevenue); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

// Create inserts the franchise and grants every listed admin the franchisee
// role scoped to it. Admin ids must already be resolved.
func (r *franchiseRepository) Create(ctx context.Context, franchise *domain.Franchise) error {
	const query = `INSERT INTO franchises (name) VALUES ($1) RETURNING id`

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, franchise.Name).Scan(&franchise.ID); err != nil {
			return err
		}
		franchiseID := franchise.ID
		for _, admin := range franchise.Admins {
			assignment := domain.RoleAssignment{Role: domain.RoleFranchisee, ObjectID: &franchiseID}
			if err := insertRole(ctx, tx, admin.ID, assignment); err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return ErrFranchiseNameTaken
	}
	return err
}

// Delete removes the franchise, its stores and the franchisee roles scoped to it.
func (r *franchiseRepository) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE role = 'franchisee' AND object_id=$1`, id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM franchises WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *franchiseRepository) CreateStore(ctx context.Context, store *domain.Store) error {
	const query = `INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`
	return r.db.QueryRow(ctx, query, store.FranchiseID, store.Name).Scan(&store.ID)
}

func (r *franchiseRepository) DeleteStore(ctx context.Context, franchiseID, storeID int64) error {
	const query = `DELETE FROM stores WHERE franchise_id=$1 AND id=$2`
	cmd, err := r.db.Exec(ctx, query, franchiseID, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
