package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Slug        string
	SKU         string
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Stock       int
	Tags        []string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if err := ensureUser(ctx, pool, "Admin", "admin@vendormart.local", "Admin1234", "admin"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if err := ensureUser(ctx, pool, "Demo Shopper", "shopper@vendormart.local", "Shopper1", "user"); err != nil {
		return fmt.Errorf("ensure shopper: %w", err)
	}

	vendorID, err := ensureVendor(ctx, pool, "Demo Seller", "seller@vendormart.local", "Seller12", "Demo Store")
	if err != nil {
		return fmt.Errorf("ensure vendor: %w", err)
	}

	products := []productSeed{
		{
			Slug:        "demo-t-shirt",
			SKU:         "SKU-DEMO-TSHIRT",
			Name:        "Demo T-Shirt",
			Description: "Soft cotton tee",
			Category:    "apparel",
			PriceCents:  1999,
			Stock:       120,
			Tags:        []string{"apparel", "cotton"},
		},
		{
			Slug:        "demo-mug",
			SKU:         "SKU-DEMO-MUG",
			Name:        "Demo Mug",
			Description: "Ceramic mug",
			Category:    "kitchen",
			PriceCents:  1299,
			Stock:       60,
			Tags:        []string{"kitchen"},
		},
		{
			Slug:        "demo-headphones",
			SKU:         "SKU-DEMO-HEADPHONES",
			Name:        "Demo Headphones",
			Description: "Over-ear wired headphones",
			Category:    "electronics",
			PriceCents:  5499,
			Stock:       25,
			Tags:        []string{"electronics", "audio"},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, vendorID, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	logger.Printf("seeded %d products for vendor %s", len(products), vendorID)
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, name, email, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (lower(email)) DO NOTHING
`
	_, err = pool.Exec(ctx, q, name, email, string(hash), role)
	return err
}

func ensureVendor(ctx context.Context, pool *pgxpool.Pool, name, email, password, shopName string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO vendors (name, email, password_hash, shop_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (lower(email)) DO UPDATE SET shop_name = EXCLUDED.shop_name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name, email, string(hash), shopName).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, vendorID string, p productSeed) error {
	const q = `
INSERT INTO products (vendor_id, name, slug, description, category, price_cents, stock, sku, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    stock = EXCLUDED.stock,
    sku = EXCLUDED.sku,
    tags = EXCLUDED.tags
`
	_, err := pool.Exec(ctx, q, vendorID, p.Name, p.Slug, p.Description, p.Category, p.PriceCents, p.Stock, p.SKU, p.Tags)
	return err
}
