package dto

import "github.com/spec-kit/pizza-service/internal/domain"

// AdminRef names a franchisee by email when creating a franchise.
type AdminRef struct {
	Email string `json:"email"`
}

// CreateFranchiseRequest payload.
type CreateFranchiseRequest struct {
	Name   string     `json:"name"`
	Admins []AdminRef `json:"admins"`
}

// CreateStoreRequest payload.
type CreateStoreRequest struct {
	Name string `json:"name"`
}

// FranchiseAdminResponse is one administrator of a franchise.
type FranchiseAdminResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StoreResponse describes a store.
type StoreResponse struct {
	ID           int64   `json:"id"`
	FranchiseID  int64   `json:"franchiseId,omitempty"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// FranchiseResponse describes a franchise with its admins and stores.
type FranchiseResponse struct {
	ID     int64                    `json:"id"`
	Name   string                   `json:"name"`
	Admins []FranchiseAdminResponse `json:"admins"`
	Stores []StoreResponse          `json:"stores"`
}

// NewStoreResponse maps a domain store.
func NewStoreResponse(store *domain.Store) StoreResponse {
	return StoreResponse{
		ID:           store.ID,
		FranchiseID:  store.FranchiseID,
		Name:         store.Name,
		TotalRevenue: store.TotalRevenue,
	}
}

// NewFranchiseResponse maps a domain franchise.
func NewFranchiseResponse(franchise *domain.Franchise) FranchiseResponse {
	resp := FranchiseResponse{
		ID:     franchise.ID,
		Name:   franchise.Name,
		Admins: make([]FranchiseAdminResponse, 0, len(franchise.Admins)),
		Stores: make([]StoreResponse, 0, len(franchise.Stores)),
	}
	for _, admin := range franchise.Admins {
		resp.Admins = append(resp.Admins, FranchiseAdminResponse{ID: admin.ID, Name: admin.Name, Email: admin.Email})
	}
	for i := range franchise.Stores {
		resp.Stores = append(resp.Stores, NewStoreResponse(&franchise.Stores[i]))
	}
	return resp
}

// NewFranchiseList maps a slice of franchises.
func NewFranchiseList(franchises []domain.Franchise) []FranchiseResponse {
	out := make([]FranchiseResponse, 0, len(franchises))
	for i := range franchises {
		out = append(out, NewFranchiseResponse(&franchises[i]))
	}
	return out
}
