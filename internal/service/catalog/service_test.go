package catalog

import (
	"context"
	"errors"
	"testing"

	"vendormart/internal/domain"
	productrepo "vendormart/internal/repository/product"
)

type stubRepo struct {
	product    *domain.Product
	products   []domain.Product
	total      int
	getErr     error
	lastCreate domain.Product
	lastUpdate domain.Product
	lastFilter productrepo.Filter
	lastActive bool
	appendURL  string
	removedURL string
}

func (s *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastCreate = p
	out := p
	out.ID = "prod-1"
	return &out, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.product, nil
}

func (s *stubRepo) GetByIDOrSlug(_ context.Context, _ string) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.product, nil
}

func (s *stubRepo) List(_ context.Context, f productrepo.Filter) ([]domain.Product, int, error) {
	s.lastFilter = f
	return s.products, s.total, nil
}

func (s *stubRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastUpdate = p
	return &p, nil
}

func (s *stubRepo) SetActive(_ context.Context, _, _ string, active bool) error {
	s.lastActive = active
	return nil
}

func (s *stubRepo) AppendImage(_ context.Context, _, _, url string) (*domain.Product, error) {
	s.appendURL = url
	out := *s.product
	out.Images = append(out.Images, url)
	return &out, nil
}

func (s *stubRepo) RemoveImage(_ context.Context, _, _, url string) (*domain.Product, error) {
	s.removedURL = url
	out := *s.product
	kept := out.Images[:0:0]
	for _, img := range out.Images {
		if img != url {
			kept = append(kept, img)
		}
	}
	out.Images = kept
	return &out, nil
}

type stubObjects struct {
	lastKey         string
	lastContentType string
	deletedKey      string
	putErr          error
}

func (s *stubObjects) Put(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	s.lastKey = key
	s.lastContentType = contentType
	if s.putErr != nil {
		return "", s.putErr
	}
	return "https://cdn.example.com/" + key, nil
}

func (s *stubObjects) Delete(_ context.Context, key string) error {
	s.deletedKey = key
	return nil
}

func TestCreate_SlugFromName(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	_, err := svc.Create(context.Background(), "vendor-1", CreateInput{
		Name:       "  Blue Denim Jacket! ",
		PriceCents: 4999,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.lastCreate.Slug != "blue-denim-jacket" {
		t.Fatalf("expected slug blue-denim-jacket, got %q", repo.lastCreate.Slug)
	}
	if !repo.lastCreate.IsActive {
		t.Fatalf("new products default to active")
	}
}

func TestCreate_NegativePriceRejected(t *testing.T) {
	svc := New(&stubRepo{}, nil)

	_, err := svc.Create(context.Background(), "vendor-1", CreateInput{Name: "X", PriceCents: -1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestList_HidesInactive(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	_, err := svc.List(context.Background(), productrepo.Filter{IncludeHidden: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.IncludeHidden {
		t.Fatalf("public listing must not include hidden products")
	}
}

func TestListForVendor_ScopesAndIncludesHidden(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	_, err := svc.ListForVendor(context.Background(), "vendor-1", productrepo.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.VendorID != "vendor-1" || !repo.lastFilter.IncludeHidden {
		t.Fatalf("unexpected filter %+v", repo.lastFilter)
	}
}

func TestList_PageMath(t *testing.T) {
	repo := &stubRepo{total: 25}
	svc := New(repo, nil)

	res, err := svc.List(context.Background(), productrepo.Filter{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Pages != 3 || res.Page != 2 || res.Total != 25 {
		t.Fatalf("unexpected paging %+v", res)
	}
	if res.Products == nil {
		t.Fatalf("products must not be nil")
	}
}

func TestUpdate_PartialOverrides(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{
		ID:         "prod-1",
		VendorID:   "vendor-1",
		Name:       "Old Name",
		Slug:       "old-name",
		PriceCents: 1000,
		Stock:      5,
	}}
	svc := New(repo, nil)

	newPrice := int64(1500)
	_, err := svc.Update(context.Background(), "vendor-1", "prod-1", UpdateInput{PriceCents: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.lastUpdate.PriceCents != 1500 {
		t.Fatalf("expected price 1500, got %d", repo.lastUpdate.PriceCents)
	}
	if repo.lastUpdate.Name != "Old Name" || repo.lastUpdate.Stock != 5 {
		t.Fatalf("untouched fields must survive: %+v", repo.lastUpdate)
	}
}

func TestUpdate_ForeignProductReadsAsMissing(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "prod-1", VendorID: "vendor-1"}}
	svc := New(repo, nil)

	_, err := svc.Update(context.Background(), "vendor-2", "prod-1", UpdateInput{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_SoftHides(t *testing.T) {
	repo := &stubRepo{lastActive: true}
	svc := New(repo, nil)

	if err := svc.Delete(context.Background(), "vendor-1", "prod-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.lastActive {
		t.Fatalf("delete must deactivate, not remove")
	}
}

func TestUploadImage_AppendsURL(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "prod-1", VendorID: "vendor-1"}}
	objects := &stubObjects{}
	svc := New(repo, objects)

	p, err := svc.UploadImage(context.Background(), "vendor-1", "prod-1", "photo.jpg", "image/jpeg", []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if objects.lastContentType != "image/jpeg" {
		t.Fatalf("unexpected content type %q", objects.lastContentType)
	}
	if len(p.Images) != 1 || p.Images[0] != repo.appendURL {
		t.Fatalf("image url not appended: %+v", p.Images)
	}
}

func TestRemoveImage_DetachesAndDeletesObject(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{
		ID:       "prod-1",
		VendorID: "vendor-1",
		Images:   []string{"https://cdn.example.com/products/prod-1/a.jpg"},
	}}
	objects := &stubObjects{}
	svc := New(repo, objects)

	p, err := svc.RemoveImage(context.Background(), "vendor-1", "prod-1", "https://cdn.example.com/products/prod-1/a.jpg")
	if err != nil {
		t.Fatalf("remove image: %v", err)
	}
	if len(p.Images) != 0 {
		t.Fatalf("image url not detached: %+v", p.Images)
	}
	if objects.deletedKey != "products/prod-1/a.jpg" {
		t.Fatalf("unexpected deleted key %q", objects.deletedKey)
	}
}

func TestRemoveImage_ForeignProductReadsAsMissing(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "prod-1", VendorID: "vendor-2"}}
	svc := New(repo, &stubObjects{})

	_, err := svc.RemoveImage(context.Background(), "vendor-1", "prod-1", "https://cdn.example.com/x.jpg")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadImage_NoStorageConfigured(t *testing.T) {
	svc := New(&stubRepo{}, nil)

	_, err := svc.UploadImage(context.Background(), "vendor-1", "prod-1", "photo.jpg", "image/jpeg", []byte{1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Blue Denim Jacket":   "blue-denim-jacket",
		"  Café -- Crème!  ":  "caf-cr-me",
		"100% Cotton T-Shirt": "100-cotton-t-shirt",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
