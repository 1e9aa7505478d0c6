package cart

import (
	"context"

	"vendormart/internal/domain"
)

// LineSnapshot carries the product fields frozen into a cart line when it
// is first added.
type LineSnapshot struct {
	Name       string
	Image      string
	PriceCents int64
}

type Repository interface {
	// GetByUser returns the user's cart with lines in insertion order, or
	// ErrNotFound when the user has no cart yet.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// AddLine creates the cart on first use, then atomically inserts the
	// line or increments the existing quantity for the same product. The
	// snapshot is only stored on insert.
	AddLine(ctx context.Context, userID, productID string, quantity int, snap LineSnapshot) (*domain.Cart, error)
	// SetLineQuantity overwrites a line's quantity (replace, not add).
	SetLineQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.Cart, error)
	// RemoveLine deletes exactly one line, ErrNotFound when absent.
	RemoveLine(ctx context.Context, userID, lineID string) (*domain.Cart, error)
	// Clear removes all lines; succeeds even when no cart exists.
	Clear(ctx context.Context, userID string) error
}
