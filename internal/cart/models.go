package cart

import "errors"

var (
	ErrLineNotFound = errors.New("product not in cart")
	ErrInvalidQty   = errors.New("quantity must be positive")
)

// Line is one (product, quantity) pairing in a buyer's cart, joined
// with the display fields the storefront needs.
type Line struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url"`
	Qty        int    `json:"qty"`
}

type Lines []Line

// SubtotalCents is the running total shown in the cart; the order total
// is recomputed from catalog prices at placement time, never from here.
func (ls Lines) SubtotalCents() int64 {
	var total int64
	for _, l := range ls {
		total += l.PriceCents * int64(l.Qty)
	}
	return total
}
