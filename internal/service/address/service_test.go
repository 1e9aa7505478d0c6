package address

import (
	"context"
	"errors"
	"testing"

	"vendormart/internal/domain"
)

type stubRepo struct {
	addresses  []domain.Address
	listErr    error
	created    *domain.Address
	setDefault *domain.Address
	deleteErr  error
	lastCreate domain.Address
	lastSetID  string
}

func (s *stubRepo) Create(_ context.Context, a domain.Address) (*domain.Address, error) {
	s.lastCreate = a
	if s.created != nil {
		return s.created, nil
	}
	out := a
	out.ID = "addr-1"
	return &out, nil
}

func (s *stubRepo) ListByUser(_ context.Context, _ string) ([]domain.Address, error) {
	return s.addresses, s.listErr
}

func (s *stubRepo) GetByID(_ context.Context, _, _ string) (*domain.Address, error) {
	if len(s.addresses) == 0 {
		return nil, domain.ErrNotFound
	}
	return &s.addresses[0], nil
}

func (s *stubRepo) SetDefault(_ context.Context, _, id string) (*domain.Address, error) {
	s.lastSetID = id
	if s.setDefault == nil {
		return nil, domain.ErrNotFound
	}
	return s.setDefault, nil
}

func (s *stubRepo) Delete(_ context.Context, _, _ string) error {
	return s.deleteErr
}

func validInput() AddInput {
	return AddInput{
		Label:      "Home",
		Street:     "1 Main St",
		City:       "Pune",
		PostalCode: "411001",
		Country:    "IN",
		Phone:      "5550100",
	}
}

func TestAdd_FirstAddressBecomesDefault(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	_, err := svc.Add(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !repo.lastCreate.IsDefault {
		t.Fatalf("first address must be default")
	}
}

func TestAdd_LaterAddressNotDefaultUnlessAsked(t *testing.T) {
	repo := &stubRepo{addresses: []domain.Address{{ID: "addr-0", IsDefault: true}}}
	svc := New(repo)

	_, err := svc.Add(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if repo.lastCreate.IsDefault {
		t.Fatalf("second address must not steal the default")
	}

	in := validInput()
	in.IsDefault = true
	_, err = svc.Add(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("add default: %v", err)
	}
	if !repo.lastCreate.IsDefault {
		t.Fatalf("explicit default flag must be honored")
	}
}

func TestAdd_MissingFieldsRejected(t *testing.T) {
	svc := New(&stubRepo{})

	in := validInput()
	in.Street = "  "
	_, err := svc.Add(context.Background(), "user-1", in)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetDefault_UnknownAddress(t *testing.T) {
	svc := New(&stubRepo{})

	_, err := svc.SetDefault(context.Background(), "user-1", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_NeverNil(t *testing.T) {
	svc := New(&stubRepo{})

	addrs, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if addrs == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}
