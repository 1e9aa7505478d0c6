package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"vendormart/internal/cache"
	"vendormart/internal/domain"
	cartrepo "vendormart/internal/repository/cart"
)

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, userID, productID string, quantity int, snap cartrepo.LineSnapshot) (*domain.Cart, error)
	SetLineQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, userID, lineID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service owns every cart mutation. Carts are never replaced wholesale by
// client payloads; each operation edits one line at most.
type Service struct {
	repo     cartRepo
	products productRepo
	carts    cache.CartCache
	logger   *log.Logger
}

func New(repo cartrepo.Repository, products productRepo, carts cache.CartCache, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, carts: carts, logger: logger}
}

// AddItem resolves the product and merges it into the user's cart: an
// existing line for the same product accumulates quantity, a new line is
// appended with name/price/image frozen at this moment. Later adds of the
// same product never refresh the snapshot.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.AddLine(ctx, userID, productID, quantity, cartrepo.LineSnapshot{
		Name:       product.Name,
		Image:      product.FirstImage(),
		PriceCents: product.PriceCents,
	})
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, userID, c)
	return c, nil
}

// Get returns the user's cart. A user with no cart gets an empty one, not
// an error.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if s.carts != nil {
		if c, err := s.carts.Get(ctx, userID); err == nil {
			return c, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Printf("cart service: cache get user=%s error=%v", userID, err)
		}
	}

	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Cart{UserID: userID, Lines: []domain.CartLine{}}, nil
		}
		return nil, err
	}
	if c.Lines == nil {
		c.Lines = []domain.CartLine{}
	}
	s.cacheSet(ctx, userID, c)
	return c, nil
}

// UpdateLineQuantity overwrites a line's quantity. Replace semantics: the
// given value wins, it is not added to the current one.
func (s *Service) UpdateLineQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	c, err := s.repo.SetLineQuantity(ctx, userID, lineID, quantity)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, userID, c)
	return c, nil
}

// RemoveLine deletes one line, preserving the order of the rest.
func (s *Service) RemoveLine(ctx context.Context, userID, lineID string) (*domain.Cart, error) {
	c, err := s.repo.RemoveLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, userID, c)
	return c, nil
}

// Clear empties the cart. Idempotent: clearing a missing or already empty
// cart succeeds.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	if s.carts != nil {
		if err := s.carts.Delete(ctx, userID); err != nil {
			s.logger.Printf("cart service: cache delete user=%s error=%v", userID, err)
		}
	}
	return nil
}

func (s *Service) cacheSet(ctx context.Context, userID string, c *domain.Cart) {
	if s.carts == nil {
		return
	}
	if err := s.carts.Set(ctx, userID, c); err != nil {
		s.logger.Printf("cart service: cache set user=%s error=%v", userID, err)
	}
}
