package invoice

import (
	"context"

	"vendormart/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error)
	// SetPDFURL attaches the rendered document once the upload succeeded.
	SetPDFURL(ctx context.Context, id, url string) error
}
