package orders

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound   = errors.New("order not found")
	ErrEmptyOrder = errors.New("order has no lines")
	ErrInvalidQty = errors.New("quantity must be positive")
)

type Order struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id,omitempty"`
	BuyerID    string    `json:"buyer_id"`
	Status     Status    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	Lines      []Line    `json:"lines"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Line is immutable after creation; price is the catalog price captured
// at placement time.
type Line struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int64  `json:"price_cents"`
}

// LineInput is the requested (product, quantity) pair, the same shape a
// cart flushes on checkout.
type LineInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// LineError reports which line made a placement fail. It wraps the
// catalog sentinel so callers can branch on the reason.
type LineError struct {
	ProductID string
	Available int // meaningful for insufficient stock only
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("product %s: %v", e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
