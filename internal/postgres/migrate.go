package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema on startup. CHECK constraints are the
// last line of defense for the stock/price invariants; the order
// workflow enforces them under row locks before they can trip.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS accounts (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'buyer',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
		image_url   TEXT NOT NULL DEFAULT '',
		stock       INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		admin_id    UUID NOT NULL REFERENCES accounts(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		user_id    UUID NOT NULL REFERENCES accounts(id),
		product_id UUID NOT NULL REFERENCES products(id),
		qty        INT NOT NULL CHECK (qty > 0),
		PRIMARY KEY (user_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id          UUID PRIMARY KEY,
		external_id TEXT,
		user_id     UUID NOT NULL REFERENCES accounts(id),
		status      TEXT NOT NULL DEFAULT 'pending',
		total_cents BIGINT NOT NULL CHECK (total_cents >= 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE UNIQUE INDEX IF NOT EXISTS orders_external_id_idx
		ON orders (external_id) WHERE external_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS order_items (
		order_id    UUID NOT NULL REFERENCES orders(id),
		product_id  UUID NOT NULL REFERENCES products(id),
		qty         INT NOT NULL CHECK (qty > 0),
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0)
	);
	CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id);
	`
	_, err := db.Exec(ctx, ddl)
	return err
}
