package invoice

import (
	"context"
	"errors"

	"vendormart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const invoiceColumns = `id::text, order_id::text, user_id::text, invoice_number, amount_cents, payment_id, pdf_url, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE payment_id = $1`
	return scanInvoice(r.pool.QueryRow(ctx, q, paymentID))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	return result, rows.Err()
}

func (r *postgresRepo) SetPDFURL(ctx context.Context, id, url string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE invoices SET pdf_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := row.Scan(
		&inv.ID, &inv.OrderID, &inv.UserID, &inv.InvoiceNumber,
		&inv.AmountCents, &inv.PaymentID, &inv.PDFURL, &inv.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}
