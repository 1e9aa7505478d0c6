package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"vendormart/internal/domain"
	invoicedoc "vendormart/internal/invoice"
)

type stubOrders struct {
	order            *domain.Order
	getErr           error
	markPaidErr      error
	lastProviderID   string
	lastPaymentID    string
	lastInvoiceNum   string
	markPaidCalls    int
	setProviderCalls int
}

func (s *stubOrders) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubOrders) SetProviderOrderID(_ context.Context, _, providerOrderID string) error {
	s.setProviderCalls++
	s.lastProviderID = providerOrderID
	return nil
}

func (s *stubOrders) MarkPaid(_ context.Context, _, paymentID, invoiceNumber string) (*domain.Invoice, error) {
	s.markPaidCalls++
	s.lastPaymentID = paymentID
	s.lastInvoiceNum = invoiceNumber
	if s.markPaidErr != nil {
		return nil, s.markPaidErr
	}
	return &domain.Invoice{
		ID:            "inv-1",
		OrderID:       s.order.ID,
		UserID:        s.order.UserID,
		InvoiceNumber: invoiceNumber,
		AmountCents:   s.order.TotalCents,
		PaymentID:     paymentID,
	}, nil
}

type stubInvoices struct {
	invoice    *domain.Invoice
	getErr     error
	lastPDFURL string
}

func (s *stubInvoices) GetByID(_ context.Context, _ string) (*domain.Invoice, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.invoice, nil
}

func (s *stubInvoices) GetByPaymentID(_ context.Context, _ string) (*domain.Invoice, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.invoice, nil
}

func (s *stubInvoices) ListByUser(_ context.Context, _ string) ([]domain.Invoice, error) {
	return nil, nil
}

func (s *stubInvoices) SetPDFURL(_ context.Context, _, url string) error {
	s.lastPDFURL = url
	return nil
}

type stubUsers struct{ user *domain.User }

func (s *stubUsers) GetByID(_ context.Context, _ string) (*domain.User, error) {
	if s.user == nil {
		return nil, domain.ErrNotFound
	}
	return s.user, nil
}

type stubRenderer struct {
	err   error
	calls int
}

func (s *stubRenderer) Render(_ invoicedoc.RenderInput) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.4"), nil
}

type stubObjects struct {
	putErr  error
	lastKey string
}

func (s *stubObjects) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	s.lastKey = key
	if s.putErr != nil {
		return "", s.putErr
	}
	return "https://cdn.example.com/" + key, nil
}

func (s *stubObjects) Delete(_ context.Context, _ string) error { return nil }

const testSecret = "test-secret"

func sign(providerOrderID, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%s|%s", providerOrderID, providerPaymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func paidableOrder() *domain.Order {
	return &domain.Order{
		ID:         "order-1",
		UserID:     "user-1",
		TotalCents: 4597,
		Status:     domain.OrderStatusPending,
		PaymentInfo: domain.PaymentInfo{
			Method:          "ONLINE",
			ProviderOrderID: "order_abc123",
			Status:          domain.PaymentStatusUnpaid,
		},
	}
}

func TestCreateProviderOrder(t *testing.T) {
	orders := &stubOrders{order: paidableOrder()}
	svc := New(orders, &stubInvoices{}, &stubUsers{}, nil, nil, testSecret, nil)

	po, err := svc.CreateProviderOrder(context.Background(), "user-1", "order-1")
	if err != nil {
		t.Fatalf("create provider order: %v", err)
	}
	if po.AmountCents != 4597 {
		t.Fatalf("expected amount 4597, got %d", po.AmountCents)
	}
	if orders.setProviderCalls != 1 || orders.lastProviderID != po.ProviderOrderID {
		t.Fatalf("provider order id not stored: %+v", orders)
	}
}

func TestCreateProviderOrder_AlreadyPaid(t *testing.T) {
	o := paidableOrder()
	o.PaymentInfo.Status = domain.PaymentStatusPaid
	svc := New(&stubOrders{order: o}, &stubInvoices{}, &stubUsers{}, nil, nil, testSecret, nil)

	_, err := svc.CreateProviderOrder(context.Background(), "user-1", "order-1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestVerifyPayment_ValidSignature(t *testing.T) {
	orders := &stubOrders{order: paidableOrder()}
	svc := New(orders, &stubInvoices{}, &stubUsers{}, nil, nil, testSecret, nil)

	inv, err := svc.VerifyPayment(context.Background(), "user-1", VerifyInput{
		OrderID:           "order-1",
		ProviderOrderID:   "order_abc123",
		ProviderPaymentID: "pay_xyz789",
		Signature:         sign("order_abc123", "pay_xyz789"),
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if orders.markPaidCalls != 1 {
		t.Fatalf("expected one mark-paid call, got %d", orders.markPaidCalls)
	}
	if inv.PaymentID != "pay_xyz789" {
		t.Fatalf("unexpected invoice payment id %q", inv.PaymentID)
	}
	if inv.InvoiceNumber == "" {
		t.Fatalf("expected an invoice number")
	}
}

func TestVerifyPayment_BadSignature(t *testing.T) {
	orders := &stubOrders{order: paidableOrder()}
	svc := New(orders, &stubInvoices{}, &stubUsers{}, nil, nil, testSecret, nil)

	_, err := svc.VerifyPayment(context.Background(), "user-1", VerifyInput{
		OrderID:           "order-1",
		ProviderOrderID:   "order_abc123",
		ProviderPaymentID: "pay_xyz789",
		Signature:         "deadbeef",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if orders.markPaidCalls != 0 {
		t.Fatalf("bad signature must not mark the order paid")
	}
}

func TestVerifyPayment_WrongProviderOrder(t *testing.T) {
	orders := &stubOrders{order: paidableOrder()}
	svc := New(orders, &stubInvoices{}, &stubUsers{}, nil, nil, testSecret, nil)

	_, err := svc.VerifyPayment(context.Background(), "user-1", VerifyInput{
		OrderID:           "order-1",
		ProviderOrderID:   "order_other",
		ProviderPaymentID: "pay_xyz789",
		Signature:         sign("order_other", "pay_xyz789"),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerifyPayment_DuplicateCapture(t *testing.T) {
	orders := &stubOrders{order: paidableOrder(), markPaidErr: domain.ErrAlreadyExists}
	svc := New(orders, &stubInvoices{}, &stubUsers{}, nil, nil, testSecret, nil)

	_, err := svc.VerifyPayment(context.Background(), "user-1", VerifyInput{
		OrderID:           "order-1",
		ProviderOrderID:   "order_abc123",
		ProviderPaymentID: "pay_xyz789",
		Signature:         sign("order_abc123", "pay_xyz789"),
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestVerifyPayment_PDFFailureDoesNotFailCapture(t *testing.T) {
	orders := &stubOrders{order: paidableOrder()}
	// No renderer or storage configured, so the PDF step cannot succeed.
	svc := New(orders, &stubInvoices{}, &stubUsers{}, nil, nil, testSecret, nil)

	inv, err := svc.VerifyPayment(context.Background(), "user-1", VerifyInput{
		OrderID:           "order-1",
		ProviderOrderID:   "order_abc123",
		ProviderPaymentID: "pay_xyz789",
		Signature:         sign("order_abc123", "pay_xyz789"),
	})
	if err != nil {
		t.Fatalf("capture must survive a pdf failure, got %v", err)
	}
	if inv.PDFURL != "" {
		t.Fatalf("expected no pdf url, got %q", inv.PDFURL)
	}
}

func TestVerifyPayment_PDFUploadedWhenConfigured(t *testing.T) {
	orders := &stubOrders{order: paidableOrder()}
	invoices := &stubInvoices{}
	renderer := &stubRenderer{}
	objects := &stubObjects{}
	users := &stubUsers{user: &domain.User{ID: "user-1", Name: "Test Buyer", Email: "buyer@example.com"}}
	svc := New(orders, invoices, users, renderer, objects, testSecret, nil)

	inv, err := svc.VerifyPayment(context.Background(), "user-1", VerifyInput{
		OrderID:           "order-1",
		ProviderOrderID:   "order_abc123",
		ProviderPaymentID: "pay_xyz789",
		Signature:         sign("order_abc123", "pay_xyz789"),
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if renderer.calls != 1 {
		t.Fatalf("expected one render, got %d", renderer.calls)
	}
	if objects.lastKey != "invoices/inv-1.pdf" {
		t.Fatalf("unexpected storage key %q", objects.lastKey)
	}
	if inv.PDFURL == "" || invoices.lastPDFURL != inv.PDFURL {
		t.Fatalf("pdf url not persisted: inv=%q stored=%q", inv.PDFURL, invoices.lastPDFURL)
	}
}

func TestRegenerateInvoice(t *testing.T) {
	invoices := &stubInvoices{invoice: &domain.Invoice{
		ID:        "inv-1",
		OrderID:   "order-1",
		UserID:    "user-1",
		PaymentID: "pay_xyz789",
	}}
	renderer := &stubRenderer{}
	objects := &stubObjects{}
	svc := New(&stubOrders{order: paidableOrder()}, invoices, &stubUsers{}, renderer, objects, testSecret, nil)

	inv, err := svc.RegenerateInvoice(context.Background(), "user-1", "pay_xyz789")
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if inv.PDFURL == "" {
		t.Fatalf("expected pdf url after regeneration")
	}

	// Foreign payment id reads as missing.
	if _, err := svc.RegenerateInvoice(context.Background(), "user-2", "pay_xyz789"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetInvoice_ForeignInvoiceReadsAsMissing(t *testing.T) {
	invoices := &stubInvoices{invoice: &domain.Invoice{ID: "inv-1", UserID: "user-1"}}
	svc := New(&stubOrders{order: paidableOrder()}, invoices, &stubUsers{}, nil, nil, testSecret, nil)

	_, err := svc.GetInvoice(context.Background(), "user-2", "inv-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
