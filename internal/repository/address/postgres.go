package address

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

const addressColumns = `id::text, user_id::text, label, street, city, state, postal_code, country, phone, is_default, created_at`

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Clear-then-insert ordering: no observation point sees two defaults,
	// and the partial unique index never trips.
	if a.IsDefault {
		if _, err := tx.Exec(ctx, `
UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default
`, a.UserID); err != nil {
			return nil, err
		}
	}

	const q = `
INSERT INTO addresses (user_id, label, street, city, state, postal_code, country, phone, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + addressColumns
	out, err := scanAddress(tx.QueryRow(ctx, q,
		a.UserID, a.Label, a.Street, a.City, a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND id = $2`
	return scanAddress(r.pool.QueryRow(ctx, q, userID, id))
}

func (r *postgresRepo) SetDefault(ctx context.Context, userID, id string) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default AND id <> $2
`, userID, id); err != nil {
		return nil, err
	}

	out, err := scanAddress(tx.QueryRow(ctx, `
UPDATE addresses SET is_default = true WHERE user_id = $1 AND id = $2
RETURNING `+addressColumns, userID, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(
		&a.ID, &a.UserID, &a.Label, &a.Street, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.Phone, &a.IsDefault, &a.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
