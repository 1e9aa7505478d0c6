package payment

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"time"

	"vendormart/internal/domain"
	invoicedoc "vendormart/internal/invoice"
	invoicerepo "vendormart/internal/repository/invoice"
	"vendormart/internal/storage"
)

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	SetProviderOrderID(ctx context.Context, id, providerOrderID string) error
	MarkPaid(ctx context.Context, id, paymentID, invoiceNumber string) (*domain.Invoice, error)
}

type userReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Service handles the payment capture flow: registering the provider-side
// order, verifying the provider's signed callback, and issuing the invoice.
type Service struct {
	orders   orderRepo
	invoices invoicerepo.Repository
	users    userReader
	renderer invoicedoc.Renderer
	objects  storage.ObjectStorage
	secret   []byte
	logger   *log.Logger
}

func New(orders orderRepo, invoices invoicerepo.Repository, users userReader, renderer invoicedoc.Renderer, objects storage.ObjectStorage, secret string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:   orders,
		invoices: invoices,
		users:    users,
		renderer: renderer,
		objects:  objects,
		secret:   []byte(secret),
		logger:   logger,
	}
}

// ProviderOrder is what the client needs to open the provider's checkout.
type ProviderOrder struct {
	ProviderOrderID string `json:"providerOrderId"`
	AmountCents     int64  `json:"amountCents"`
	Currency        string `json:"currency"`
}

// CreateProviderOrder registers the order with the payment provider and
// stores the provider's reference on our side.
func (s *Service) CreateProviderOrder(ctx context.Context, userID, orderID string) (*ProviderOrder, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if o.PaymentInfo.Status == domain.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: order already paid", domain.ErrConflict)
	}

	providerOrderID := "order_" + randomHex(12)
	if err := s.orders.SetProviderOrderID(ctx, orderID, providerOrderID); err != nil {
		return nil, err
	}
	return &ProviderOrder{
		ProviderOrderID: providerOrderID,
		AmountCents:     o.TotalCents,
		Currency:        "INR",
	}, nil
}

// VerifyInput is the provider's payment callback payload.
type VerifyInput struct {
	OrderID           string `json:"orderId"`
	ProviderOrderID   string `json:"providerOrderId"`
	ProviderPaymentID string `json:"providerPaymentId"`
	Signature         string `json:"signature"`
}

// VerifyPayment checks the provider's signature over the payment, marks the
// order paid, and issues the invoice. Marking paid and creating the invoice
// row commit together; rendering and uploading the PDF happen after, and a
// failure there leaves the invoice retrievable and regenerable.
func (s *Service) VerifyPayment(ctx context.Context, userID string, in VerifyInput) (*domain.Invoice, error) {
	if in.ProviderOrderID == "" || in.ProviderPaymentID == "" || in.Signature == "" {
		return nil, fmt.Errorf("%w: payment fields required", domain.ErrInvalidInput)
	}
	if !s.signatureValid(in.ProviderOrderID, in.ProviderPaymentID, in.Signature) {
		return nil, fmt.Errorf("%w: payment signature mismatch", domain.ErrUnauthorized)
	}

	o, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if o.PaymentInfo.ProviderOrderID != in.ProviderOrderID {
		return nil, fmt.Errorf("%w: payment does not belong to this order", domain.ErrInvalidInput)
	}

	inv, err := s.orders.MarkPaid(ctx, o.ID, in.ProviderPaymentID, newInvoiceNumber())
	if err != nil {
		return nil, err
	}

	if url, renderErr := s.renderAndStore(ctx, inv, o); renderErr != nil {
		s.logger.Printf("payment service: invoice pdf invoice=%s error=%v", inv.ID, renderErr)
	} else {
		inv.PDFURL = url
	}
	return inv, nil
}

// RegenerateInvoice re-renders and re-uploads the PDF for an already
// captured payment. Safe to call repeatedly.
func (s *Service) RegenerateInvoice(ctx context.Context, userID, paymentID string) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	o, err := s.orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return nil, err
	}
	url, err := s.renderAndStore(ctx, inv, o)
	if err != nil {
		return nil, err
	}
	inv.PDFURL = url
	return inv, nil
}

// GetInvoice returns one of the user's invoices.
func (s *Service) GetInvoice(ctx context.Context, userID, id string) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// ListInvoices returns the user's invoices, newest first.
func (s *Service) ListInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	invs, err := s.invoices.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []domain.Invoice{}
	}
	return invs, nil
}

func (s *Service) signatureValid(providerOrderID, providerPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s", providerOrderID, providerPaymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *Service) renderAndStore(ctx context.Context, inv *domain.Invoice, o *domain.Order) (string, error) {
	if s.renderer == nil || s.objects == nil {
		return "", fmt.Errorf("invoice rendering not configured")
	}

	in := invoicedoc.RenderInput{Invoice: *inv, Order: *o}
	if s.users != nil {
		if u, err := s.users.GetByID(ctx, inv.UserID); err == nil {
			in.CustomerName = u.Name
			in.CustomerEmail = u.Email
			in.CustomerPhone = u.Phone
		}
	}

	data, err := s.renderer.Render(in)
	if err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	key := fmt.Sprintf("invoices/%s.pdf", inv.ID)
	url, err := s.objects.Put(ctx, key, data, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("upload invoice: %w", err)
	}
	if err := s.invoices.SetPDFURL(ctx, inv.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

func newInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%s", time.Now().UTC().Format("20060102"), randomHex(4))
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
