package domain

import "time"

// OrderStatus is the order's position in its fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPacked    OrderStatus = "packed"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus values for Order.PaymentInfo.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

var orderStatusNext = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusPacked,
	OrderStatusPacked:    OrderStatusInTransit,
	OrderStatusInTransit: OrderStatusDelivered,
}

// ValidOrderStatus reports whether s is a member of the status enum.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPacked,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is legal out of s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether moving from s to next is legal. Fulfilment
// advances one step at a time; cancellation is reachable from any
// non-terminal state; terminal states admit nothing.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderStatusNext[s] == next
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is an immutable purchase snapshot. Lines are frozen at creation;
// only the status fields and payment info change afterwards, and orders are
// never deleted (cancellation is a status).
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	VendorID        string          `json:"vendorId,omitempty"`
	Lines           []OrderLine     `json:"items"`
	TotalCents      int64           `json:"totalCents"`
	Status          OrderStatus     `json:"status"`
	StatusHistory   []StatusChange  `json:"statusHistory"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderLine mirrors a cart line frozen at checkout time.
type OrderLine struct {
	ID            string `json:"id"`
	OrderID       string `json:"orderId"`
	ProductID     string `json:"productId"`
	NameSnapshot  string `json:"name"`
	ImageSnapshot string `json:"image,omitempty"`
	Quantity      int    `json:"quantity"`
	PriceCents    int64  `json:"priceCents"`
}

// StatusChange is one entry of the append-only status audit trail.
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// PaymentInfo records how (and whether) the order was paid.
type PaymentInfo struct {
	Method          string `json:"method"`
	TransactionID   string `json:"transactionId,omitempty"`
	ProviderOrderID string `json:"providerOrderId,omitempty"`
	Status          string `json:"status"`
}

// ShippingAddress is embedded into the order at checkout, not a live
// reference to the address book.
type ShippingAddress struct {
	FullName   string `json:"fullName,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
