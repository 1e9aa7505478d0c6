package domain

import "time"

// Roles carried inside issued tokens and checked at route boundaries.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// User is a registered shopper or platform admin.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Vendor is a seller account owning catalog products and fulfilling orders.
type Vendor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ShopName     string    `json:"shopName"`
	CreatedAt    time.Time `json:"createdAt"`
}
