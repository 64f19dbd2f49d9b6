package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, name, description, price_cents, image_url, stock, admin_id, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL,
		&p.Stock, &p.AdminID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p *Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, description, price_cents, image_url, stock, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.PriceCents, p.ImageURL, p.Stock, p.AdminID)
	return err
}

func (r *Repo) ByID(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields. The owning admin is part of the
// predicate so one admin cannot edit another's product.
func (r *Repo) Update(ctx context.Context, adminID string, p *Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name=$3, description=$4, price_cents=$5, image_url=$6, stock=$7, updated_at=now()
		WHERE id=$1 AND admin_id=$2`,
		p.ID, adminID, p.Name, p.Description, p.PriceCents, p.ImageURL, p.Stock)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return r.missingOrNotOwner(ctx, p.ID)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, adminID, productID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1 AND admin_id=$2`, productID, adminID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return r.missingOrNotOwner(ctx, productID)
	}
	return nil
}

func (r *Repo) missingOrNotOwner(ctx context.Context, productID string) error {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM products WHERE id=$1`, productID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotOwner
}

// StockByIDs reads remaining stock for a set of products.
func (r *Repo) StockByIDs(ctx context.Context, ids []string) ([]StockLevel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(ids))
	params := ""
	for i, id := range ids {
		if i > 0 {
			params += ","
		}
		params += fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	rows, err := r.DB.Query(ctx, `SELECT id, name, stock FROM products WHERE id IN (`+params+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockLevel
	for rows.Next() {
		var s StockLevel
		if err := rows.Scan(&s.ProductID, &s.Name, &s.Stock); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
