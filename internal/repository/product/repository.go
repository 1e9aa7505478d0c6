package product

import (
	"context"

	"vendormart/internal/domain"
)

// Filter narrows and orders product listings. Zero values mean "not set";
// Page is 1-based.
type Filter struct {
	VendorID      string
	Search        string
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
	Tags          []string
	InStock       bool
	IncludeHidden bool
	SortBy        string
	Order         string
	Page          int
	Limit         int
}

type Repository interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error)
	List(ctx context.Context, f Filter) ([]domain.Product, int, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetActive(ctx context.Context, vendorID, id string, active bool) error
	AppendImage(ctx context.Context, vendorID, id, url string) (*domain.Product, error)
	// RemoveImage drops every occurrence of url from the product's image
	// list. ErrNotFound when the product is not the vendor's.
	RemoveImage(ctx context.Context, vendorID, id, url string) (*domain.Product, error)
}
