package catalog

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"vendormart/internal/domain"
	productrepo "vendormart/internal/repository/product"
	"vendormart/internal/storage"

	"github.com/google/uuid"
)

type productRepo interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error)
	List(ctx context.Context, f productrepo.Filter) ([]domain.Product, int, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetActive(ctx context.Context, vendorID, id string, active bool) error
	AppendImage(ctx context.Context, vendorID, id, url string) (*domain.Product, error)
	RemoveImage(ctx context.Context, vendorID, id, url string) (*domain.Product, error)
}

// Service owns catalog reads and vendor-scoped catalog writes.
type Service struct {
	repo    productRepo
	objects storage.ObjectStorage
}

func New(repo productrepo.Repository, objects storage.ObjectStorage) *Service {
	return &Service{repo: repo, objects: objects}
}

// CreateInput mirrors the vendor product creation payload.
type CreateInput struct {
	Name                string                 `json:"name"`
	Description         string                 `json:"description"`
	Category            string                 `json:"category"`
	PriceCents          int64                  `json:"priceCents"`
	CompareAtPriceCents int64                  `json:"compareAtPriceCents"`
	Stock               int                    `json:"stock"`
	SKU                 string                 `json:"sku"`
	Tags                []string               `json:"tags"`
	Images              []string               `json:"images"`
	Attributes          map[string]interface{} `json:"attributes"`
	IsActive            *bool                  `json:"isActive"`
}

// Create adds a product owned by the given vendor.
func (s *Service) Create(ctx context.Context, vendorID string, in CreateInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	if in.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.repo.Create(ctx, domain.Product{
		VendorID:            vendorID,
		Name:                name,
		Slug:                Slugify(name),
		Description:         strings.TrimSpace(in.Description),
		Category:            strings.TrimSpace(in.Category),
		PriceCents:          in.PriceCents,
		CompareAtPriceCents: in.CompareAtPriceCents,
		Stock:               in.Stock,
		SKU:                 strings.TrimSpace(in.SKU),
		Tags:                trimTags(in.Tags),
		Images:              in.Images,
		Attributes:          in.Attributes,
		IsActive:            active,
	})
}

// Get resolves a product by id or slug.
func (s *Service) Get(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	return s.repo.GetByIDOrSlug(ctx, idOrSlug)
}

// ListResult is a page of products with totals for the client paginator.
type ListResult struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

// List returns active products matching the filter.
func (s *Service) List(ctx context.Context, f productrepo.Filter) (*ListResult, error) {
	f.IncludeHidden = false
	return s.list(ctx, f)
}

// ListForVendor returns the vendor's own products, hidden ones included.
func (s *Service) ListForVendor(ctx context.Context, vendorID string, f productrepo.Filter) (*ListResult, error) {
	f.VendorID = vendorID
	f.IncludeHidden = true
	return s.list(ctx, f)
}

func (s *Service) list(ctx context.Context, f productrepo.Filter) (*ListResult, error) {
	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 12
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	if products == nil {
		products = []domain.Product{}
	}
	return &ListResult{
		Products: products,
		Total:    total,
		Page:     page,
		Pages:    (total + limit - 1) / limit,
	}, nil
}

// UpdateInput carries optional field overrides; nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Name                *string                `json:"name"`
	Description         *string                `json:"description"`
	Category            *string                `json:"category"`
	PriceCents          *int64                 `json:"priceCents"`
	CompareAtPriceCents *int64                 `json:"compareAtPriceCents"`
	Stock               *int                   `json:"stock"`
	SKU                 *string                `json:"sku"`
	Tags                []string               `json:"tags"`
	Attributes          map[string]interface{} `json:"attributes"`
	IsActive            *bool                  `json:"isActive"`
}

// Update applies the overrides to a product the vendor owns.
func (s *Service) Update(ctx context.Context, vendorID, id string, in UpdateInput) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VendorID != vendorID {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
		}
		p.Name = name
		p.Slug = Slugify(name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
		}
		p.PriceCents = *in.PriceCents
	}
	if in.CompareAtPriceCents != nil {
		p.CompareAtPriceCents = *in.CompareAtPriceCents
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Tags != nil {
		p.Tags = trimTags(in.Tags)
	}
	if in.Attributes != nil {
		p.Attributes = in.Attributes
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return s.repo.Update(ctx, *p)
}

// Delete hides a product from listings; the row stays for order snapshots.
func (s *Service) Delete(ctx context.Context, vendorID, id string) error {
	return s.repo.SetActive(ctx, vendorID, id, false)
}

// UploadImage stores the image bytes and appends the resulting URL to the
// product's image list.
func (s *Service) UploadImage(ctx context.Context, vendorID, id, filename, contentType string, data []byte) (*domain.Product, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("%w: object storage not configured", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VendorID != vendorID {
		return nil, domain.ErrNotFound
	}

	key := fmt.Sprintf("products/%s/%s%s", id, uuid.NewString(), path.Ext(filename))
	url, err := s.objects.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}
	return s.repo.AppendImage(ctx, vendorID, id, url)
}

// RemoveImage detaches the URL from the product and deletes the stored
// object. The object delete is best effort; a stale object is harmless,
// a dangling URL is not.
func (s *Service) RemoveImage(ctx context.Context, vendorID, id, imageURL string) (*domain.Product, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("%w: image url required", domain.ErrInvalidInput)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VendorID != vendorID {
		return nil, domain.ErrNotFound
	}

	out, err := s.repo.RemoveImage(ctx, vendorID, id, imageURL)
	if err != nil {
		return nil, err
	}
	if s.objects != nil {
		if key := objectKeyFromURL(imageURL); key != "" {
			_ = s.objects.Delete(ctx, key)
		}
	}
	return out, nil
}

// objectKeyFromURL recovers the storage key from a public object URL.
func objectKeyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses non-alphanumeric runs to single
// hyphens.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
