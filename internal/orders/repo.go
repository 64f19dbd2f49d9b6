package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dimaswib/go-shop-backend/internal/catalog"
)

// Repo is the Postgres-backed Ledger.
type Repo struct{ DB *pgxpool.Pool }

var _ Ledger = (*Repo)(nil)

func (r *Repo) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgxTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgxTx struct{ tx pgx.Tx }

func (t *pgxTx) ProductForUpdate(ctx context.Context, productID string) (*catalog.Product, error) {
	var p catalog.Product
	err := t.tx.QueryRow(ctx, `
		SELECT id, name, description, price_cents, image_url, stock, admin_id, created_at, updated_at
		FROM products WHERE id=$1 FOR UPDATE`, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL,
			&p.Stock, &p.AdminID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock keeps the stock >= qty guard in the statement even
// though the caller already checked under the row lock.
func (t *pgxTx) DecrementStock(ctx context.Context, productID string, qty int) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id=$1 AND stock >= $2`, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return catalog.ErrInsufficientStock
	}
	return nil
}

func (t *pgxTx) InsertOrder(ctx context.Context, o *Order) error {
	externalID := any(o.ExternalID)
	if o.ExternalID == "" {
		externalID = nil
	}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders(id, external_id, user_id, status, total_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		o.ID, externalID, o.BuyerID, string(o.Status), o.TotalCents).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}
	for _, l := range o.Lines {
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, qty, price_cents)
			VALUES ($1, $2, $3, $4)`,
			o.ID, l.ProductID, l.Qty, l.PriceCents); err != nil {
			return err
		}
	}
	return nil
}

const orderCols = `id, COALESCE(external_id, ''), user_id, status, total_cents, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.ExternalID, &o.BuyerID, &status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	return &o, nil
}

func (r *Repo) ByID(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, orderID))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) ByExternalID(ctx context.Context, externalID string) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE external_id=$1`, externalID))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repo) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, buyerID)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadLines(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) loadLines(ctx context.Context, o *Order) error {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, qty, price_cents FROM order_items WHERE order_id=$1`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Qty, &l.PriceCents); err != nil {
			return err
		}
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}

func (r *Repo) UpdateStatus(ctx context.Context, orderID string, st Status) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=now()
		WHERE id=$1
		RETURNING `+orderCols, orderID, string(st)))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
