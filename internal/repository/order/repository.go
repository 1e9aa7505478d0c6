package order

import (
	"context"

	"vendormart/internal/domain"
)

// CreateInput carries everything needed to persist a new order. When
// ClearCartOfUser is set, the user's cart lines are deleted inside the same
// transaction that creates the order, so checkout cannot leave a paid-for
// cart behind.
type CreateInput struct {
	UserID          string
	VendorID        string
	Lines           []domain.OrderLine
	TotalCents      int64
	PaymentMethod   string
	ShippingAddress domain.ShippingAddress
	ClearCartOfUser bool
}

// ListFilter pages order listings; zero-value fields are ignored.
type ListFilter struct {
	UserID   string
	VendorID string
	Page     int
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, error)
	// UpdateStatus sets the new status and appends a history row in one
	// transaction. Legality of the transition is the service's concern.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	// SetProviderOrderID records the payment provider's order reference.
	SetProviderOrderID(ctx context.Context, id, providerOrderID string) error
	// MarkPaid flips payment status to paid and creates the invoice row in
	// one transaction; the PDF artifact is attached later.
	MarkPaid(ctx context.Context, id, paymentID, invoiceNumber string) (*domain.Invoice, error)
}
