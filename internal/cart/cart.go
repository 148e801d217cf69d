// Package cart implements the shopping cart aggregate: an ordered list of
// line items and the totals derived from it.
//
// A Cart is not safe for concurrent use. Callers own it and serialise
// mutation (see the session package).
package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pricing"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 9999")
	ErrInvalidProduct  = errors.New("product id is required")
)

const (
	DefaultFreeShippingThreshold int64 = 999
	DefaultShippingFee           int64 = 99

	// MaxQuantity bounds a single line so line totals stay far from int64
	// overflow.
	MaxQuantity = 9999
)

// Policy holds the shipping rule. Shipping is free only when the subtotal
// is strictly greater than FreeShippingThreshold.
type Policy struct {
	FreeShippingThreshold int64
	ShippingFee           int64
}

// DefaultPolicy returns the storefront's standard shipping rule
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		ShippingFee:           DefaultShippingFee,
	}
}

// Shipping returns the shipping charge for a subtotal
func (p Policy) Shipping(subtotal int64) int64 {
	if subtotal > p.FreeShippingThreshold {
		return 0
	}
	return p.ShippingFee
}

// Line is one cart entry. Lines are identified by product and variant.
type Line struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// ProductSource resolves the products referenced by cart lines
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Cart is the ordered set of lines a shopper intends to buy
type Cart struct {
	lines []Line
}

// New creates a cart holding the given lines. Lines for the same product and
// variant are merged and quantities are clamped to [1, MaxQuantity].
func New(lines ...Line) *Cart {
	c := &Cart{lines: make([]Line, 0, len(lines))}
	for _, l := range lines {
		l.Quantity = clamp(l.Quantity)
		merged := c.merge(l)
		if merged.Quantity > MaxQuantity {
			c.lines[c.index(l.ProductID, l.Variant)].Quantity = MaxQuantity
		}
	}
	return c
}

func clamp(quantity int) int {
	switch {
	case quantity < 1:
		return 1
	case quantity > MaxQuantity:
		return MaxQuantity
	}
	return quantity
}

// DemoLines returns the two lines a fresh demo cart is seeded with
func DemoLines() []Line {
	return []Line{
		{ProductID: "prod-1", Variant: "500g", Quantity: 2},
		{ProductID: "prod-3", Variant: "1kg", Quantity: 1},
	}
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// Empty reports whether the cart has no lines
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// AddLine appends a line, or increases the quantity of the existing line for
// the same product and variant. The resulting quantity may not exceed
// MaxQuantity.
func (c *Cart) AddLine(productID, variant string, quantity int) (Line, error) {
	if productID == "" {
		return Line{}, ErrInvalidProduct
	}
	if quantity < 1 || quantity > MaxQuantity {
		return Line{}, errors.Wrapf(ErrInvalidQuantity, "%d", quantity)
	}
	if i := c.index(productID, variant); i >= 0 && c.lines[i].Quantity > MaxQuantity-quantity {
		return Line{}, errors.Wrapf(ErrInvalidQuantity, "%d more of %s/%s", quantity, productID, variant)
	}
	return c.merge(Line{ProductID: productID, Variant: variant, Quantity: quantity}), nil
}

func (c *Cart) merge(l Line) Line {
	if i := c.index(l.ProductID, l.Variant); i >= 0 {
		c.lines[i].Quantity += l.Quantity
		return c.lines[i]
	}
	c.lines = append(c.lines, l)
	return l
}

// SetQuantity sets the quantity of one line. Quantities below 1 are clamped
// to 1. Stock is not checked, but quantities above MaxQuantity are rejected.
func (c *Cart) SetQuantity(productID, variant string, quantity int) (Line, error) {
	i := c.index(productID, variant)
	if i < 0 {
		return Line{}, errors.Wrapf(ErrLineNotFound, "%s/%s", productID, variant)
	}
	if quantity > MaxQuantity {
		return Line{}, errors.Wrapf(ErrInvalidQuantity, "%d", quantity)
	}
	if quantity < 1 {
		quantity = 1
	}
	c.lines[i].Quantity = quantity
	return c.lines[i], nil
}

// RemoveLine deletes one line, leaving the others untouched.
func (c *Cart) RemoveLine(productID, variant string) (Line, error) {
	i := c.index(productID, variant)
	if i < 0 {
		return Line{}, errors.Wrapf(ErrLineNotFound, "%s/%s", productID, variant)
	}
	removed := c.lines[i]
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return removed, nil
}

// Clear removes every line
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

func (c *Cart) index(productID, variant string) int {
	for i, l := range c.lines {
		if l.ProductID == productID && l.Variant == variant {
			return i
		}
	}
	return -1
}

// LineView is a line with its product and resolved price
type LineView struct {
	Line
	Product   models.Product `json:"product"`
	Quote     pricing.Quote  `json:"quote"`
	UnitPrice int64          `json:"unitPrice"`
	LineTotal int64          `json:"lineTotal"`
}

// Totals is the derived order summary of a cart
type Totals struct {
	Lines    []LineView `json:"lines"`
	Subtotal int64      `json:"subtotal"`
	Shipping int64      `json:"shipping"`
	Discount int64      `json:"discount"`
	Total    int64      `json:"total"`
	// Skipped counts lines whose product no longer resolves
	Skipped int `json:"skipped,omitempty"`
}

// Totals prices every line through the pricing resolver and applies the
// shipping policy. Lines whose product cannot be resolved are left out of
// the totals. Promo codes are never accepted, so Discount is always 0.
func (c *Cart) Totals(ctx context.Context, products ProductSource, policy Policy) (Totals, error) {
	t := Totals{Lines: make([]LineView, 0, len(c.lines))}

	for _, l := range c.lines {
		p, err := products.GetProduct(ctx, l.ProductID)
		if err != nil {
			if ctx.Err() != nil {
				return Totals{}, errors.Wrap(ctx.Err(), "price cart")
			}
			t.Skipped++
			continue
		}

		q := pricing.Resolve(*p, l.Variant)
		view := LineView{
			Line:      l,
			Product:   *p,
			Quote:     q,
			UnitPrice: q.Display,
			LineTotal: q.Display * int64(l.Quantity),
		}
		t.Lines = append(t.Lines, view)
		t.Subtotal += view.LineTotal
	}

	t.Shipping = policy.Shipping(t.Subtotal)
	t.Total = t.Subtotal + t.Shipping - t.Discount
	return t, nil
}
