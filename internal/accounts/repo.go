package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dimaswib/go-shop-backend/internal/auth"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, a *Account) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO accounts(id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Email, a.PasswordHash, string(a.Role))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (r *Repo) ByEmail(ctx context.Context, email string, role auth.Role) (*Account, error) {
	var a Account
	var roleStr string
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM accounts WHERE email=$1 AND role=$2`, email, string(role)).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &roleStr, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	a.Role = auth.Role(roleStr)
	return &a, nil
}
