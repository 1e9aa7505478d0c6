package address

import (
	"context"
	"fmt"
	"strings"

	"vendormart/internal/domain"
	addressrepo "vendormart/internal/repository/address"
)

// Service manages a user's address book. Defaults are exclusive: flagging
// one address clears the previous default in the same transaction.
type Service struct {
	repo addressrepo.Repository
}

func New(repo addressrepo.Repository) *Service {
	return &Service{repo: repo}
}

// AddInput is a new address-book entry.
type AddInput struct {
	Label      string `json:"label"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}

func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.Address, error) {
	for field, value := range map[string]string{
		"street":     in.Street,
		"city":       in.City,
		"postalCode": in.PostalCode,
		"country":    in.Country,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
		}
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	a := domain.Address{
		UserID:     userID,
		Label:      in.Label,
		Street:     in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
		// The first address a user saves becomes the default regardless of
		// what the payload asked for.
		IsDefault: in.IsDefault || len(existing) == 0,
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Address, error) {
	addrs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return addrs, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// SetDefault flags the address as the user's default, displacing any
// previous default.
func (s *Service) SetDefault(ctx context.Context, userID, id string) (*domain.Address, error) {
	return s.repo.SetDefault(ctx, userID, id)
}

// Delete removes the address. Deleting the default leaves the user with no
// default until they pick a new one.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
