package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"vendormart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, vendor_id::text, name, slug, COALESCE(description, ''), COALESCE(category, ''),
price_cents, COALESCE(compare_at_price_cents, 0), stock, COALESCE(sku, ''), tags, images, attributes, is_active, created_at`

var uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	imagesJSON, err := json.Marshal(emptyIfNil(p.Images))
	if err != nil {
		return nil, err
	}
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	const q = `
INSERT INTO products (vendor_id, name, slug, description, category, price_cents, compare_at_price_cents, stock, sku, tags, images, attributes, is_active)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, 0), $8, NULLIF($9, ''), $10, $11, $12, $13)
RETURNING ` + productColumns
	out, err := r.scanProduct(r.pool.QueryRow(ctx, q,
		p.VendorID, p.Name, p.Slug, p.Description, p.Category,
		p.PriceCents, p.CompareAtPriceCents, p.Stock, p.SKU,
		emptyIfNil(p.Tags), imagesJSON, attrs, p.IsActive,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: create slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s slug=%s vendor=%s", out.ID, out.Slug, out.VendorID)
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if uuidRe.MatchString(idOrSlug) {
		return r.GetByID(ctx, idOrSlug)
	}
	const q = `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.scanProduct(r.pool.QueryRow(ctx, q, idOrSlug))
}

// List builds the WHERE clause from the filter piecewise, the way the query
// parameters compose: every set field narrows the result.
func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, int, error) {
	where := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.IncludeHidden {
		where = append(where, "is_active = true")
	}
	if f.VendorID != "" {
		where = append(where, "vendor_id = "+arg(f.VendorID))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + s + "%")
		where = append(where, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.MinPriceCents > 0 {
		where = append(where, "price_cents >= "+arg(f.MinPriceCents))
	}
	if f.MaxPriceCents > 0 {
		where = append(where, "price_cents <= "+arg(f.MaxPriceCents))
	}
	if len(f.Tags) > 0 {
		where = append(where, "tags && "+arg(f.Tags))
	}
	if f.InStock {
		where = append(where, "stock > 0")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM products "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 12
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	q := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s %s LIMIT %d OFFSET %d",
		productColumns, whereSQL, sortColumn(f.SortBy), sortDirection(f.Order), limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	imagesJSON, err := json.Marshal(emptyIfNil(p.Images))
	if err != nil {
		return nil, err
	}
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	const q = `
UPDATE products
SET name = $3, slug = $4, description = NULLIF($5, ''), category = NULLIF($6, ''),
    price_cents = $7, compare_at_price_cents = NULLIF($8, 0), stock = $9, sku = NULLIF($10, ''),
    tags = $11, images = $12, attributes = $13, is_active = $14
WHERE id = $1 AND vendor_id = $2
RETURNING ` + productColumns
	out, err := r.scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.VendorID, p.Name, p.Slug, p.Description, p.Category,
		p.PriceCents, p.CompareAtPriceCents, p.Stock, p.SKU,
		emptyIfNil(p.Tags), imagesJSON, attrs, p.IsActive,
	))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive toggles visibility; deletion is always soft.
func (r *postgresRepo) SetActive(ctx context.Context, vendorID, id string, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET is_active = $3 WHERE id = $1 AND vendor_id = $2`, id, vendorID, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AppendImage(ctx context.Context, vendorID, id, url string) (*domain.Product, error) {
	const q = `
UPDATE products
SET images = images || to_jsonb(ARRAY[$3]::text[])
WHERE id = $1 AND vendor_id = $2
RETURNING ` + productColumns
	return r.scanProduct(r.pool.QueryRow(ctx, q, id, vendorID, url))
}

func (r *postgresRepo) RemoveImage(ctx context.Context, vendorID, id, url string) (*domain.Product, error) {
	const q = `
UPDATE products
SET images = images - $3
WHERE id = $1 AND vendor_id = $2
RETURNING ` + productColumns
	return r.scanProduct(r.pool.QueryRow(ctx, q, id, vendorID, url))
}

func (r *postgresRepo) scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var imagesJSON []byte
	if err := row.Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Slug, &p.Description, &p.Category,
		&p.PriceCents, &p.CompareAtPriceCents, &p.Stock, &p.SKU,
		&p.Tags, &imagesJSON, &p.Attributes, &p.IsActive, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "price":
		return "price_cents"
	case "name":
		return "name"
	case "stock":
		return "stock"
	default:
		return "created_at"
	}
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
