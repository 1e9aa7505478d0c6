package invoice

import (
	"vendormart/internal/domain"
)

// RenderInput gathers everything the invoice document shows.
type RenderInput struct {
	Invoice       domain.Invoice
	Order         domain.Order
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Renderer turns invoice data into a document artifact.
type Renderer interface {
	Render(in RenderInput) ([]byte, error)
}
