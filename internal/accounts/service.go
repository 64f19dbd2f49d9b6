package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dimaswib/go-shop-backend/internal/auth"
)

// Store is what the service needs from persistence.
type Store interface {
	Create(ctx context.Context, a *Account) error
	ByEmail(ctx context.Context, email string, role auth.Role) (*Account, error)
}

var ErrInvalidInput = errors.New("name, email and password are required")

type Service struct {
	Store      Store
	Tokens     auth.Tokens
	BcryptCost int
	Log        *zap.Logger
}

func (s *Service) Register(ctx context.Context, name, email, password string, role auth.Role) (*Account, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := auth.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	a := &Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Store.Create(ctx, a); err != nil {
		return nil, err
	}
	s.Log.Info("account registered", zap.String("account_id", a.ID), zap.String("role", string(role)))
	return a, nil
}

// Login checks the password and mints a bearer token for the principal.
func (s *Service) Login(ctx context.Context, email, password string, role auth.Role) (string, *Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, err := s.Store.ByEmail(ctx, email, role)
	if err != nil {
		return "", nil, err
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.Tokens.Mint(a.ID, a.Role, time.Now())
	if err != nil {
		return "", nil, err
	}
	return token, a, nil
}
