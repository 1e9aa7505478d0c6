package httpserver

import (
	"context"

	"vendormart/internal/domain"
	productrepo "vendormart/internal/repository/product"
	addresssvc "vendormart/internal/service/address"
	authsvc "vendormart/internal/service/auth"
	catalogsvc "vendormart/internal/service/catalog"
	ordersvc "vendormart/internal/service/order"
	paymentsvc "vendormart/internal/service/payment"
)

// AuthService covers registration, login and token verification.
type AuthService interface {
	RegisterUser(ctx context.Context, in authsvc.RegisterUserInput) (*domain.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*domain.User, string, error)
	RegisterVendor(ctx context.Context, in authsvc.RegisterVendorInput) (*domain.Vendor, string, error)
	LoginVendor(ctx context.Context, email, password string) (*domain.Vendor, string, error)
	Verify(ctx context.Context, token string) (authsvc.Identity, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in authsvc.UpdateProfileInput) (*domain.User, error)
}

// CatalogService covers public browsing and vendor product management.
type CatalogService interface {
	List(ctx context.Context, f productrepo.Filter) (*catalogsvc.ListResult, error)
	ListForVendor(ctx context.Context, vendorID string, f productrepo.Filter) (*catalogsvc.ListResult, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Product, error)
	Create(ctx context.Context, vendorID string, in catalogsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, vendorID, id string, in catalogsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, vendorID, id string) error
	UploadImage(ctx context.Context, vendorID, id, filename, contentType string, data []byte) (*domain.Product, error)
	RemoveImage(ctx context.Context, vendorID, id, imageURL string) (*domain.Product, error)
}

// CartService covers the per-user cart.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	UpdateLineQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, userID, lineID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// OrderService covers creation and the status lifecycle.
type OrderService interface {
	Create(ctx context.Context, userID string, in ordersvc.CreateInput) (*domain.Order, error)
	Checkout(ctx context.Context, userID string, in ordersvc.CheckoutInput) (*domain.Order, error)
	Get(ctx context.Context, requesterID, requesterRole, orderID string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string, page, limit int) ([]domain.Order, error)
	ListForVendor(ctx context.Context, vendorID string, page, limit int) ([]domain.Order, error)
	ListAll(ctx context.Context, page, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, requesterID, requesterRole, orderID string, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
}

// AddressService covers the per-user address book.
type AddressService interface {
	Add(ctx context.Context, userID string, in addresssvc.AddInput) (*domain.Address, error)
	List(ctx context.Context, userID string) ([]domain.Address, error)
	SetDefault(ctx context.Context, userID, id string) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
}

// PaymentService covers payment capture and invoices.
type PaymentService interface {
	CreateProviderOrder(ctx context.Context, userID, orderID string) (*paymentsvc.ProviderOrder, error)
	VerifyPayment(ctx context.Context, userID string, in paymentsvc.VerifyInput) (*domain.Invoice, error)
	RegenerateInvoice(ctx context.Context, userID, paymentID string) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, userID, id string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, userID string) ([]domain.Invoice, error)
}

// Deps collects the services the router dispatches to.
type Deps struct {
	Auth      AuthService
	Catalog   CatalogService
	Cart      CartService
	Orders    OrderService
	Addresses AddressService
	Payments  PaymentService
}
