package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dimaswib/go-shop-backend/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

// AddLine upserts: adding a product already in the cart increases its
// quantity instead of duplicating the line.
func (r *Repo) AddLine(ctx context.Context, userID, productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQty
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items(user_id, product_id, qty)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty`,
		userID, productID, qty)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return catalog.ErrProductNotFound
	}
	return err
}

func (r *Repo) SetLine(ctx context.Context, userID, productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQty
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE cart_items SET qty=$3 WHERE user_id=$1 AND product_id=$2`,
		userID, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *Repo) RemoveLine(ctx context.Context, userID, productID string) error {
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`,
		userID, productID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *Repo) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

func (r *Repo) Get(ctx context.Context, userID string) (Lines, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.product_id, p.name, p.price_cents, p.image_url, c.qty
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out Lines
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.PriceCents, &l.ImageURL, &l.Qty); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
