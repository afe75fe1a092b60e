package http

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/factory"
	"github.com/spec-kit/pizza-service/internal/repository"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int64]*domain.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUsers) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeFranchises struct {
	mu         sync.Mutex
	nextID     int64
	franchises map[int64]*domain.Franchise
}

func newFakeFranchises() *fakeFranchises {
	return &fakeFranchises{franchises: make(map[int64]*domain.Franchise)}
}

func (f *fakeFranchises) List(context.Context) ([]domain.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Franchise, 0, len(f.franchises))
	for _, franchise := range f.franchises {
		out = append(out, *franchise)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFranchises) ListByAdmin(ctx context.Context, userID int64) ([]domain.Franchise, error) {
	all, _ := f.List(ctx)
	out := []domain.Franchise{}
	for i := range all {
		if all[i].IsAdmin(userID) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (f *fakeFranchises) GetByID(_ context.Context, id int64) (*domain.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	franchise, ok := f.franchises[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *franchise
	return &copied, nil
}

func (f *fakeFranchises) Create(_ context.Context, franchise *domain.Franchise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.franchises {
		if existing.Name == franchise.Name {
			return repository.ErrFranchiseNameTaken
		}
	}
	f.nextID++
	franchise.ID = f.nextID
	stored := *franchise
	f.franchises[franchise.ID] = &stored
	return nil
}

func (f *fakeFranchises) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.franchises[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.franchises, id)
	return nil
}

func (f *fakeFranchises) CreateStore(_ context.Context, store *domain.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	franchise, ok := f.franchises[store.FranchiseID]
	if !ok {
		return pgx.ErrNoRows
	}
	f.nextID++
	store.ID = f.nextID
	franchise.Stores = append(franchise.Stores, *store)
	return nil
}

func (f *fakeFranchises) DeleteStore(_ context.Context, franchiseID, storeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	franchise, ok := f.franchises[franchiseID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i, store := range franchise.Stores {
		if store.ID == storeID {
			franchise.Stores = append(franchise.Stores[:i], franchise.Stores[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeOrders struct {
	mu     sync.Mutex
	nextID int64
	menu   []domain.MenuItem
	orders []domain.Order
}

func (f *fakeOrders) GetMenu(context.Context) ([]domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.MenuItem{}, f.menu...), nil
}

func (f *fakeOrders) AddMenuItem(_ context.Context, item *domain.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	f.menu = append(f.menu, *item)
	return nil
}

func (f *fakeOrders) ListByDiner(_ context.Context, dinerID int64, _ int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Order{}
	for _, order := range f.orders {
		if order.DinerID == dinerID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrders) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	order.ID = f.nextID
	f.orders = append(f.orders, *order)
	return nil
}

type fakeFactory struct {
	result *factory.Result
	err    error
	calls  int
}

func (f *fakeFactory) Fulfill(context.Context, factory.Diner, *domain.Order) (*factory.Result, error) {
	f.calls++
	return f.result, f.err
}

type failingSessions struct{}

func (failingSessions) Record(context.Context, string, int64) error {
	return errors.New("session store down")
}

func (failingSessions) IsActive(context.Context, string) (bool, error) {
	return false, errors.New("session store down")
}

func (failingSessions) Revoke(context.Context, string) error {
	return errors.New("session store down")
}
