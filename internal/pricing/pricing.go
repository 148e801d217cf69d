// Package pricing resolves the price shown for a product, optionally narrowed
// to one of its variants. Every view that displays a price (product card,
// detail page, cart line) goes through Resolve so totals never disagree.
package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// CurrencySymbol prefixes every formatted amount
const CurrencySymbol = "₹"

// Quote is the resolved price of a product or variant.
type Quote struct {
	// Display is the effective unit price.
	Display int64 `json:"display"`
	// Strikethrough is the undiscounted price, 0 when there is no sale.
	Strikethrough int64 `json:"strikethrough,omitempty"`
	// DiscountPercent is the rounded saving against Strikethrough.
	DiscountPercent int `json:"discountPercent,omitempty"`
	// Variant is the size label the quote was resolved for, "" for the
	// product-level price.
	Variant string `json:"variant,omitempty"`
}

// OnSale reports whether the quote carries a struck-through price
func (q Quote) OnSale() bool {
	return q.Strikethrough > 0
}

// Resolve returns the price of product for the given variant label.
//
// A known variant wins: its sale price is used when it is lower than the
// variant price, otherwise the variant price is shown plain. With no
// variant (or an unknown label) the product's own sale-price-vs-price pair
// is used the same way.
func Resolve(p models.Product, variant string) Quote {
	if variant != "" {
		if v, ok := p.Variant(variant); ok {
			q := quote(v.Price, v.SalePrice)
			q.Variant = v.Size
			return q
		}
	}
	return quote(p.Price, p.SalePrice)
}

func quote(price, sale int64) Quote {
	if sale > 0 && sale < price {
		return Quote{
			Display:         sale,
			Strikethrough:   price,
			DiscountPercent: discountPercent(price, sale),
		}
	}
	return Quote{Display: price}
}

func discountPercent(price, sale int64) int {
	if price <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(sale)/float64(price)) * 100))
}

// UnitPrice is the effective unit price of product for variant.
func UnitPrice(p models.Product, variant string) int64 {
	return Resolve(p, variant).Display
}

// LineTotal is the unit price multiplied by quantity.
func LineTotal(p models.Product, variant string, quantity int) int64 {
	return UnitPrice(p, variant) * int64(quantity)
}

// OnSale reports whether the product-level price is discounted; product
// cards show a "Sale" tag when it is.
func OnSale(p models.Product) bool {
	return Resolve(p, "").OnSale()
}

var printer = message.NewPrinter(language.English)

// Format renders an amount the way the storefront displays it, e.g. ₹1,797.
func Format(amount int64) string {
	return printer.Sprintf("%s%d", CurrencySymbol, amount)
}
