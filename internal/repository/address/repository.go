package address

import (
	"context"

	"vendormart/internal/domain"
)

type Repository interface {
	// Create inserts a new address. When a.IsDefault is set, every other
	// default for the same user is cleared first, inside one transaction.
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
	// SetDefault clears all other defaults for the user and flags the
	// target, as a unit. ErrNotFound when the address is not the user's.
	SetDefault(ctx context.Context, userID, id string) (*domain.Address, error)
	// Delete removes the address without promoting a replacement default.
	Delete(ctx context.Context, userID, id string) error
}
