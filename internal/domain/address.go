package domain

import "time"

// Address is a per-user address book record. At most one address per user
// carries IsDefault at any time; the repository enforces this inside a
// transaction and a partial unique index backstops it.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Label      string    `json:"label"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}
