package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dimaswib/go-shop-backend/internal/catalog"
)

// Ledger is the order persistence boundary. WithinTx runs fn in one
// transaction scope: nothing fn did is visible unless it returns nil.
type Ledger interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	ByID(ctx context.Context, orderID string) (*Order, error)
	ByExternalID(ctx context.Context, externalID string) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, st Status) (*Order, error)
}

// Tx is the per-transaction surface the placement workflow needs.
// ProductForUpdate must hold a lock on the product row until the
// transaction ends, so check-and-decrement is serialized per product.
type Tx interface {
	ProductForUpdate(ctx context.Context, productID string) (*catalog.Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) error
	InsertOrder(ctx context.Context, o *Order) error
}

type Service struct {
	Ledger Ledger
	Log    *zap.Logger
}

// Place validates every requested line against the catalog and commits
// the stock decrements together with the order, all-or-nothing. A
// failure on any line leaves no stock mutation behind.
//
// externalID is optional; when the caller supplies one and an order with
// that id already exists, the existing order is returned unchanged.
func (s *Service) Place(ctx context.Context, buyerID, externalID string, lines []LineInput) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Qty <= 0 {
			return nil, fmt.Errorf("product %s: %w", l.ProductID, ErrInvalidQty)
		}
	}

	if externalID != "" {
		if existing, err := s.Ledger.ByExternalID(ctx, externalID); err == nil {
			return existing, nil
		}
	}

	o := &Order{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		BuyerID:    buyerID,
		Status:     StatusPending,
	}

	err := s.Ledger.WithinTx(ctx, func(tx Tx) error {
		for _, l := range lines {
			p, err := tx.ProductForUpdate(ctx, l.ProductID)
			if err != nil {
				return &LineError{ProductID: l.ProductID, Err: err}
			}
			if p.Stock < l.Qty {
				return &LineError{ProductID: l.ProductID, Available: p.Stock, Err: catalog.ErrInsufficientStock}
			}
			if err := tx.DecrementStock(ctx, l.ProductID, l.Qty); err != nil {
				return err
			}
			o.TotalCents += p.PriceCents * int64(l.Qty)
			o.Lines = append(o.Lines, Line{ProductID: l.ProductID, Qty: l.Qty, PriceCents: p.PriceCents})
		}
		return tx.InsertOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("buyer_id", buyerID),
		zap.Int64("total_cents", o.TotalCents),
		zap.Int("lines", len(o.Lines)))
	return o, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.Ledger.ByID(ctx, orderID)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.Ledger.ListAll(ctx)
}

func (s *Service) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return s.Ledger.ListByBuyer(ctx, buyerID)
}

// UpdateStatus overwrites the status with any enumerated value.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status string) (*Order, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.Ledger.UpdateStatus(ctx, orderID, st)
	if err != nil {
		return nil, err
	}
	s.Log.Info("order status updated", zap.String("order_id", orderID), zap.String("status", string(st)))
	return o, nil
}
