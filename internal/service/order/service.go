package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"vendormart/internal/domain"
	"vendormart/internal/events"
	orderrepo "vendormart/internal/repository/order"
)

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type cartReader interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
}

type cartCacheInvalidator interface {
	Delete(ctx context.Context, userID string) error
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service owns order creation and the status lifecycle. Orders are never
// deleted; cancellation is a status transition like any other.
type Service struct {
	repo       orderRepo
	carts      cartReader
	cartsCache cartCacheInvalidator
	products   productReader
	producer   events.Producer
	logger     *log.Logger
}

func New(repo orderrepo.Repository, carts cartReader, cartsCache cartCacheInvalidator, products productReader, producer events.Producer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if producer == nil {
		producer = events.NopProducer{}
	}
	return &Service{repo: repo, carts: carts, cartsCache: cartsCache, products: products, producer: producer, logger: logger}
}

// ItemInput is one direct-checkout line; name/image/price are the caller's
// snapshots of the product at selection time.
type ItemInput struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

// CreateInput is the direct order creation payload.
type CreateInput struct {
	Items           []ItemInput            `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TotalCents      int64                  `json:"totalCents"`
}

// Create builds an order from an explicit item list. The supplied total
// must match the sum of the line snapshots.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrInvalidInput)
	}

	lines := make([]domain.OrderLine, 0, len(in.Items))
	var total int64
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
		if item.PriceCents < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
		}
		lines = append(lines, domain.OrderLine{
			ProductID:     item.ProductID,
			NameSnapshot:  item.Name,
			ImageSnapshot: item.Image,
			Quantity:      item.Quantity,
			PriceCents:    item.PriceCents,
		})
		total += int64(item.Quantity) * item.PriceCents
	}
	if in.TotalCents != 0 && in.TotalCents != total {
		return nil, fmt.Errorf("%w: totalCents %d does not match item sum %d", domain.ErrInvalidInput, in.TotalCents, total)
	}

	return s.create(ctx, userID, lines, total, in.ShippingAddress, in.PaymentMethod, false)
}

// CheckoutInput is the cart-to-order consolidation payload.
type CheckoutInput struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// Checkout freezes the user's cart into an order and clears the cart, both
// inside one repository transaction. A failure leaves either the cart intact
// or the order placed with the cart gone, never both.
func (s *Service) Checkout(ctx context.Context, userID string, in CheckoutInput) (*domain.Order, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, cl := range cart.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:     cl.ProductID,
			NameSnapshot:  cl.NameSnapshot,
			ImageSnapshot: cl.ImageSnapshot,
			Quantity:      cl.Quantity,
			PriceCents:    cl.PriceCents,
		})
	}

	o, err := s.create(ctx, userID, lines, cart.TotalCents(), in.ShippingAddress, in.PaymentMethod, true)
	if err != nil {
		return nil, err
	}
	if s.cartsCache != nil {
		if err := s.cartsCache.Delete(ctx, userID); err != nil {
			s.logger.Printf("order service: cart cache delete user=%s error=%v", userID, err)
		}
	}
	return o, nil
}

func (s *Service) create(ctx context.Context, userID string, lines []domain.OrderLine, total int64, addr domain.ShippingAddress, paymentMethod string, clearCart bool) (*domain.Order, error) {
	if strings.TrimSpace(addr.Street) == "" || strings.TrimSpace(addr.City) == "" {
		return nil, fmt.Errorf("%w: shipping address incomplete", domain.ErrInvalidInput)
	}
	if paymentMethod == "" {
		paymentMethod = "COD"
	}

	o, err := s.repo.Create(ctx, orderrepo.CreateInput{
		UserID:          userID,
		VendorID:        s.resolveVendor(ctx, lines),
		Lines:           lines,
		TotalCents:      total,
		PaymentMethod:   paymentMethod,
		ShippingAddress: addr,
		ClearCartOfUser: clearCart,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, o)
	return o, nil
}

// resolveVendor routes the order to the vendor of its first line's product.
// Best effort: an unknown product leaves the order unrouted.
func (s *Service) resolveVendor(ctx context.Context, lines []domain.OrderLine) string {
	if s.products == nil || len(lines) == 0 || lines[0].ProductID == "" {
		return ""
	}
	p, err := s.products.GetByID(ctx, lines[0].ProductID)
	if err != nil {
		return ""
	}
	return p.VendorID
}

// Get returns an order visible to the requester: the owner, the fulfilling
// vendor, or an admin.
func (s *Service) Get(ctx context.Context, requesterID, requesterRole, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canSee(o, requesterID, requesterRole) {
		// Cross-owner lookups read as absence, not as a permissions leak.
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ListForUser returns the user's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string, page, limit int) ([]domain.Order, error) {
	return s.list(ctx, orderrepo.ListFilter{UserID: userID, Page: page, Limit: limit})
}

// ListForVendor returns orders routed to the vendor, newest first.
func (s *Service) ListForVendor(ctx context.Context, vendorID string, page, limit int) ([]domain.Order, error) {
	return s.list(ctx, orderrepo.ListFilter{VendorID: vendorID, Page: page, Limit: limit})
}

// ListAll returns every order; admin surface.
func (s *Service) ListAll(ctx context.Context, page, limit int) ([]domain.Order, error) {
	return s.list(ctx, orderrepo.ListFilter{Page: page, Limit: limit})
}

func (s *Service) list(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// UpdateStatus advances the order's lifecycle. Only the fulfilling vendor
// or an admin may transition; illegal transitions are rejected, and the
// history only ever grows.
func (s *Service) UpdateStatus(ctx context.Context, requesterID, requesterRole, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch requesterRole {
	case domain.RoleAdmin:
	case domain.RoleVendor:
		if o.VendorID == "" || o.VendorID != requesterID {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}
	if !o.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: cannot move %s order to %s", domain.ErrConflict, o.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated)
	return updated, nil
}

// Cancel lets the owning user cancel a not-yet-delivered order. Delivered
// and already-cancelled orders are final.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if !o.Status.CanTransition(domain.OrderStatusCancelled) {
		return nil, fmt.Errorf("%w: %s order cannot be cancelled", domain.ErrConflict, o.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated)
	return updated, nil
}

func (s *Service) publish(ctx context.Context, o *domain.Order) {
	err := s.producer.PublishStatusChange(ctx, events.OrderStatusChanged{
		OrderID:    o.ID,
		UserID:     o.UserID,
		VendorID:   o.VendorID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		Timestamp:  o.UpdatedAt,
	})
	if err != nil {
		s.logger.Printf("order service: publish order=%s status=%s error=%v", o.ID, o.Status, err)
	}
}

func canSee(o *domain.Order, requesterID, role string) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleVendor:
		return o.VendorID == requesterID
	default:
		return o.UserID == requesterID
	}
}
