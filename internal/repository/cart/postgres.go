package cart

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

const lineColumns = `id::text, cart_id::text, product_id::text, quantity, name_snapshot, image_snapshot, price_cents, created_at`

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, created_at
FROM carts
WHERE user_id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadLines(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, userID, productID string, quantity int, snap LineSnapshot) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lazy cart creation; ON CONFLICT keeps concurrent first-adds safe.
	var cartID string
	err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id::text
`, userID).Scan(&cartID)
	if err != nil {
		return nil, err
	}

	// Insert-or-increment in one statement so two concurrent adds for the
	// same product both land. The snapshot columns stay untouched on the
	// conflict path: only the first add freezes name/price/image.
	_, err = tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, name_snapshot, image_snapshot, price_cents)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, cartID, productID, quantity, snap.Name, snap.Image, snap.PriceCents)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByUser(ctx, userID)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.Cart, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $3
FROM carts
WHERE cart_lines.id = $2 AND cart_lines.cart_id = carts.id AND carts.user_id = $1
`, userID, lineID, quantity)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByUser(ctx, userID)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, userID, lineID string) (*domain.Cart, error) {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
USING carts
WHERE cart_lines.id = $2 AND cart_lines.cart_id = carts.id AND carts.user_id = $1
`, userID, lineID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByUser(ctx, userID)
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
USING carts
WHERE cart_lines.cart_id = carts.id AND carts.user_id = $1
`, userID)
	return err
}

func (r *postgresRepo) loadLines(ctx context.Context, cart *domain.Cart) error {
	const q = `
SELECT ` + lineColumns + `
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.Quantity,
			&line.NameSnapshot,
			&line.ImageSnapshot,
			&line.PriceCents,
			&line.CreatedAt,
		); err != nil {
			return err
		}
		cart.Lines = append(cart.Lines, line)
	}
	return rows.Err()
}
