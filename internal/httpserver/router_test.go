package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"vendormart/internal/domain"
	productrepo "vendormart/internal/repository/product"
	addresssvc "vendormart/internal/service/address"
	authsvc "vendormart/internal/service/auth"
	catalogsvc "vendormart/internal/service/catalog"
	ordersvc "vendormart/internal/service/order"
	paymentsvc "vendormart/internal/service/payment"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubAuthService struct {
	identity  authsvc.Identity
	verifyErr error
	user      *domain.User
	loginErr  error
}

func (s *stubAuthService) RegisterUser(_ context.Context, _ authsvc.RegisterUserInput) (*domain.User, string, error) {
	return s.user, "token", s.loginErr
}

func (s *stubAuthService) LoginUser(_ context.Context, _, _ string) (*domain.User, string, error) {
	return s.user, "token", s.loginErr
}

func (s *stubAuthService) RegisterVendor(_ context.Context, _ authsvc.RegisterVendorInput) (*domain.Vendor, string, error) {
	return &domain.Vendor{ID: "vendor-1"}, "token", s.loginErr
}

func (s *stubAuthService) LoginVendor(_ context.Context, _, _ string) (*domain.Vendor, string, error) {
	return &domain.Vendor{ID: "vendor-1"}, "token", s.loginErr
}

func (s *stubAuthService) Verify(_ context.Context, _ string) (authsvc.Identity, error) {
	return s.identity, s.verifyErr
}

func (s *stubAuthService) GetUser(_ context.Context, _ string) (*domain.User, error) {
	return s.user, nil
}

func (s *stubAuthService) UpdateProfile(_ context.Context, _ string, _ authsvc.UpdateProfileInput) (*domain.User, error) {
	return s.user, nil
}

type stubCatalogService struct {
	result *catalogsvc.ListResult
	getErr error
}

func (s *stubCatalogService) List(_ context.Context, _ productrepo.Filter) (*catalogsvc.ListResult, error) {
	return s.result, nil
}

func (s *stubCatalogService) ListForVendor(_ context.Context, _ string, _ productrepo.Filter) (*catalogsvc.ListResult, error) {
	return s.result, nil
}

func (s *stubCatalogService) Get(_ context.Context, _ string) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &domain.Product{ID: "prod-1", Name: "Mug"}, nil
}

func (s *stubCatalogService) Create(_ context.Context, vendorID string, _ catalogsvc.CreateInput) (*domain.Product, error) {
	return &domain.Product{ID: "prod-1", VendorID: vendorID}, nil
}

func (s *stubCatalogService) Update(_ context.Context, _, id string, _ catalogsvc.UpdateInput) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}

func (s *stubCatalogService) Delete(_ context.Context, _, _ string) error { return nil }

func (s *stubCatalogService) UploadImage(_ context.Context, _, id, _, _ string, _ []byte) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}

func (s *stubCatalogService) RemoveImage(_ context.Context, _, id, _ string) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}

type stubCartService struct {
	cart       *domain.Cart
	addErr     error
	lastUserID string
	lastProd   string
	lastQty    int
}

func (s *stubCartService) Get(_ context.Context, userID string) (*domain.Cart, error) {
	s.lastUserID = userID
	return s.cart, nil
}

func (s *stubCartService) AddItem(_ context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	s.lastUserID = userID
	s.lastProd = productID
	s.lastQty = quantity
	return s.cart, s.addErr
}

func (s *stubCartService) UpdateLineQuantity(_ context.Context, _, _ string, _ int) (*domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) RemoveLine(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) Clear(_ context.Context, _ string) error { return nil }

type stubOrderService struct {
	order      *domain.Order
	statusErr  error
	lastStatus domain.OrderStatus
	lastRole   string
}

func (s *stubOrderService) Create(_ context.Context, _ string, _ ordersvc.CreateInput) (*domain.Order, error) {
	return s.order, nil
}

func (s *stubOrderService) Checkout(_ context.Context, _ string, _ ordersvc.CheckoutInput) (*domain.Order, error) {
	return s.order, nil
}

func (s *stubOrderService) Get(_ context.Context, _, _, _ string) (*domain.Order, error) {
	return s.order, nil
}

func (s *stubOrderService) ListForUser(_ context.Context, _ string, _, _ int) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (s *stubOrderService) ListForVendor(_ context.Context, _ string, _, _ int) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (s *stubOrderService) ListAll(_ context.Context, _, _ int) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _, role, _ string, status domain.OrderStatus) (*domain.Order, error) {
	s.lastRole = role
	s.lastStatus = status
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return s.order, nil
}

func (s *stubOrderService) Cancel(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.statusErr
}

type stubAddressService struct{}

func (s *stubAddressService) Add(_ context.Context, _ string, _ addresssvc.AddInput) (*domain.Address, error) {
	return &domain.Address{ID: "addr-1"}, nil
}

func (s *stubAddressService) List(_ context.Context, _ string) ([]domain.Address, error) {
	return []domain.Address{}, nil
}

func (s *stubAddressService) SetDefault(_ context.Context, _, id string) (*domain.Address, error) {
	return &domain.Address{ID: id, IsDefault: true}, nil
}

func (s *stubAddressService) Delete(_ context.Context, _, _ string) error { return nil }

type stubPaymentService struct {
	verifyErr error
}

func (s *stubPaymentService) CreateProviderOrder(_ context.Context, _, _ string) (*paymentsvc.ProviderOrder, error) {
	return &paymentsvc.ProviderOrder{ProviderOrderID: "order_abc", AmountCents: 100}, nil
}

func (s *stubPaymentService) VerifyPayment(_ context.Context, _ string, _ paymentsvc.VerifyInput) (*domain.Invoice, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &domain.Invoice{ID: "inv-1"}, nil
}

func (s *stubPaymentService) RegenerateInvoice(_ context.Context, _, _ string) (*domain.Invoice, error) {
	return &domain.Invoice{ID: "inv-1"}, nil
}

func (s *stubPaymentService) GetInvoice(_ context.Context, _, _ string) (*domain.Invoice, error) {
	return &domain.Invoice{ID: "inv-1"}, nil
}

func (s *stubPaymentService) ListInvoices(_ context.Context, _ string) ([]domain.Invoice, error) {
	return []domain.Invoice{}, nil
}

func testDeps(auth *stubAuthService) Deps {
	return Deps{
		Auth:      auth,
		Catalog:   &stubCatalogService{result: &catalogsvc.ListResult{Products: []domain.Product{}}},
		Cart:      &stubCartService{cart: &domain.Cart{ID: "cart-1", UserID: "user-1"}},
		Orders:    &stubOrderService{order: &domain.Order{ID: "order-1", Status: domain.OrderStatusPending}},
		Addresses: &stubAddressService{},
		Payments:  &stubPaymentService{},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps, nil)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doRequest(router *gin.Engine, method, target, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCartRequiresAuth(t *testing.T) {
	router := newTestRouter(t, testDeps(&stubAuthService{verifyErr: authsvc.ErrInvalidToken}))

	rec := doRequest(router, http.MethodGet, "/api/cart", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodGet, "/api/cart", "bad-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", rec.Code)
	}
}

func TestVendorRoutesRejectShoppers(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "user-1", Role: domain.RoleUser}}
	router := newTestRouter(t, testDeps(auth))

	rec := doRequest(router, http.MethodPost, "/api/vendor/products", "token", `{"name":"X","priceCents":100}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for shopper on vendor route, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectVendors(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "vendor-1", Role: domain.RoleVendor}}
	router := newTestRouter(t, testDeps(auth))

	rec := doRequest(router, http.MethodGet, "/api/admin/orders", "token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for vendor on admin route, got %d", rec.Code)
	}
}

func TestAddCartItem(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "user-1", Role: domain.RoleUser}}
	deps := testDeps(auth)
	cartStub := deps.Cart.(*stubCartService)
	router := newTestRouter(t, deps)

	rec := doRequest(router, http.MethodPost, "/api/cart/items", "token", `{"productId":"prod-1","quantity":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if cartStub.lastUserID != "user-1" || cartStub.lastProd != "prod-1" || cartStub.lastQty != 3 {
		t.Fatalf("unexpected call: user=%s prod=%s qty=%d", cartStub.lastUserID, cartStub.lastProd, cartStub.lastQty)
	}
}

func TestAddCartItem_QuantityDefaultsToOne(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "user-1", Role: domain.RoleUser}}
	deps := testDeps(auth)
	cartStub := deps.Cart.(*stubCartService)
	router := newTestRouter(t, deps)

	rec := doRequest(router, http.MethodPost, "/api/cart/items", "token", `{"productId":"prod-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cartStub.lastQty != 1 {
		t.Fatalf("expected default quantity 1, got %d", cartStub.lastQty)
	}
}

func TestPublicProductListNeedsNoToken(t *testing.T) {
	router := newTestRouter(t, testDeps(&stubAuthService{verifyErr: authsvc.ErrInvalidToken}))

	rec := doRequest(router, http.MethodGet, "/api/products?page=1&limit=10", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "vendor-1", Role: domain.RoleVendor}}
	deps := testDeps(auth)
	orderStub := deps.Orders.(*stubOrderService)
	router := newTestRouter(t, deps)

	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrConflict, http.StatusConflict},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		orderStub.statusErr = tc.err
		rec := doRequest(router, http.MethodPatch, "/api/vendor/orders/order-1/status", "token", `{"status":"confirmed"}`)
		if rec.Code != tc.want {
			t.Fatalf("error %v: expected %d, got %d body=%s", tc.err, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestUpdateOrderStatus_PassesRoleThrough(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "vendor-1", Role: domain.RoleVendor}}
	deps := testDeps(auth)
	orderStub := deps.Orders.(*stubOrderService)
	router := newTestRouter(t, deps)

	rec := doRequest(router, http.MethodPatch, "/api/vendor/orders/order-1/status", "token", `{"status":"confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orderStub.lastRole != domain.RoleVendor || orderStub.lastStatus != domain.OrderStatusConfirmed {
		t.Fatalf("unexpected call role=%s status=%s", orderStub.lastRole, orderStub.lastStatus)
	}
}

func TestCheckout(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "user-1", Role: domain.RoleUser}}
	router := newTestRouter(t, testDeps(auth))

	body := `{"shippingAddress":{"street":"1 Main St","city":"Pune"},"paymentMethod":"COD"}`
	rec := doRequest(router, http.MethodPost, "/api/orders/checkout", "token", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"order"`) {
		t.Fatalf("expected order in body: %s", rec.Body.String())
	}
}

func TestVerifyPayment_BadSignatureMapsTo401(t *testing.T) {
	auth := &stubAuthService{identity: authsvc.Identity{SubjectID: "user-1", Role: domain.RoleUser}}
	deps := testDeps(auth)
	deps.Payments = &stubPaymentService{verifyErr: domain.ErrUnauthorized}
	router := newTestRouter(t, deps)

	body := `{"orderId":"order-1","providerOrderId":"order_abc","providerPaymentId":"pay_1","signature":"bad"}`
	rec := doRequest(router, http.MethodPost, "/api/payments/verify", "token", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, testDeps(&stubAuthService{}))

	rec := doRequest(router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
