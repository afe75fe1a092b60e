package domain

// FranchiseAdmin is a user allowed to manage a franchise's stores.
type FranchiseAdmin struct {
	ID    int64
	Name  string
	Email string
}

// Store is a physical location belonging to a franchise.
type Store struct {
	ID           int64
	FranchiseID  int64
	Name         string
	TotalRevenue float64
}

// Franchise groups stores under a set of administrators.
type Franchise struct {
	ID     int64
	Name   string
	Admins []FranchiseAdmin
	Stores []Store
}

// IsAdmin reports whether userID is listed as an administrator.
func (f *Franchise) IsAdmin(userID int64) bool {
	if f == nil {
		return false
	}
	for _, admin := range f.Admins {
		if admin.ID == userID {
			return true
		}
	}
	return false
}
