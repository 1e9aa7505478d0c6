package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

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

const orderColumns = `id::text, user_id::text, COALESCE(vendor_id::text, ''), total_cents, status,
payment_method, payment_status, payment_txn_id, provider_order_id,
ship_full_name, ship_phone, ship_street, ship_city, ship_state, ship_postal_code, ship_country,
created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (user_id, vendor_id, total_cents, status, payment_method,
                    ship_full_name, ship_phone, ship_street, ship_city, ship_state, ship_postal_code, ship_country)
VALUES ($1, NULLIF($2, '')::uuid, $3, 'pending', $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id::text
`
	var orderID string
	addr := in.ShippingAddress
	if err := tx.QueryRow(ctx, q,
		in.UserID, in.VendorID, in.TotalCents, in.PaymentMethod,
		addr.FullName, addr.Phone, addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country,
	).Scan(&orderID); err != nil {
		return nil, err
	}

	for _, line := range in.Lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, product_id, name_snapshot, image_snapshot, quantity, price_cents)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6)
`, orderID, line.ProductID, line.NameSnapshot, line.ImageSnapshot, line.Quantity, line.PriceCents); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO order_status_history (order_id, status) VALUES ($1, 'pending')
`, orderID); err != nil {
		return nil, err
	}

	if in.ClearCartOfUser {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_lines
USING carts
WHERE cart_lines.cart_id = carts.id AND carts.user_id = $1
`, in.UserID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s user=%s total_cents=%d lines=%d", orderID, in.UserID, in.TotalCents, len(in.Lines))
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{*o}
	if err := r.attachDetails(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	where := ""
	args := []interface{}{}
	switch {
	case f.UserID != "":
		where = "WHERE user_id = $1"
		args = append(args, f.UserID)
	case f.VendorID != "":
		where = "WHERE vendor_id = $1"
		args = append(args, f.VendorID)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	q := fmt.Sprintf("SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		orderColumns, where, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachDetails(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
`, id, string(status))
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}

	// History rows are only ever inserted, never updated or deleted.
	if _, err := tx.Exec(ctx, `
INSERT INTO order_status_history (order_id, status) VALUES ($1, $2)
`, id, string(status)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetProviderOrderID(ctx context.Context, id, providerOrderID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders SET provider_order_id = $2, updated_at = now() WHERE id = $1
`, id, providerOrderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id, paymentID, invoiceNumber string) (*domain.Invoice, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var userID string
	var totalCents int64
	err = tx.QueryRow(ctx, `
UPDATE orders SET payment_status = 'paid', payment_txn_id = $2, updated_at = now()
WHERE id = $1
RETURNING user_id::text, total_cents
`, id, paymentID).Scan(&userID, &totalCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var inv domain.Invoice
	err = tx.QueryRow(ctx, `
INSERT INTO invoices (order_id, user_id, invoice_number, amount_cents, payment_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, order_id::text, user_id::text, invoice_number, amount_cents, payment_id, pdf_url, created_at
`, id, userID, invoiceNumber, totalCents, paymentID).Scan(
		&inv.ID, &inv.OrderID, &inv.UserID, &inv.InvoiceNumber, &inv.AmountCents, &inv.PaymentID, &inv.PDFURL, &inv.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Same payment id verified twice: keep the first invoice.
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: marked paid id=%s payment=%s invoice=%s", id, paymentID, inv.InvoiceNumber)
	return &inv, nil
}

func (r *postgresRepo) attachDetails(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	idx := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for i := range orders {
		idx[orders[i].ID] = &orders[i]
		ids = append(ids, orders[i].ID)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, COALESCE(product_id::text, ''), name_snapshot, image_snapshot, quantity, price_cents
FROM order_lines
WHERE order_id = ANY($1)
ORDER BY order_id, id
`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.NameSnapshot, &line.ImageSnapshot, &line.Quantity, &line.PriceCents); err != nil {
			return err
		}
		if o, ok := idx[line.OrderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	histRows, err := r.pool.Query(ctx, `
SELECT order_id::text, status, created_at
FROM order_status_history
WHERE order_id = ANY($1)
ORDER BY order_id, id ASC
`, ids)
	if err != nil {
		return err
	}
	defer histRows.Close()
	for histRows.Next() {
		var orderID string
		var change domain.StatusChange
		if err := histRows.Scan(&orderID, &change.Status, &change.Timestamp); err != nil {
			return err
		}
		if o, ok := idx[orderID]; ok {
			o.StatusHistory = append(o.StatusHistory, change)
		}
	}
	return histRows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	if err := row.Scan(
		&o.ID, &o.UserID, &o.VendorID, &o.TotalCents, &status,
		&o.PaymentInfo.Method, &o.PaymentInfo.Status, &o.PaymentInfo.TransactionID, &o.PaymentInfo.ProviderOrderID,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone, &o.ShippingAddress.Street,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}
