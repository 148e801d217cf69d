package service

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pricing"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/promo"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 9999")
	ErrOutOfStock      = errors.New("product is out of stock")
)

const (
	MsgItemRemoved     = "Item removed from cart"
	MsgLoginToCheckout = "Please log in to checkout"
)

// CartView is the cart page: priced lines and the order summary
type CartView struct {
	SessionID string      `json:"sessionId"`
	Empty     bool        `json:"empty"`
	Totals    cart.Totals `json:"totals"`
	Summary   Summary     `json:"summary"`
}

// Summary holds the formatted order summary amounts
type Summary struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
	// FreeShipping is set when the subtotal clears the threshold
	FreeShipping bool `json:"freeShipping"`
}

// AddLineRequest is the payload of an add-to-cart action
type AddLineRequest struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// CartService runs cart actions against a session's cart
type CartService struct {
	sessions *session.Store
	products catalog.Repository
	policy   cart.Policy
	promo    *promo.Checker
}

// NewCartService creates a new cart service
func NewCartService(sessions *session.Store, products catalog.Repository, policy cart.Policy, checker *promo.Checker) *CartService {
	return &CartService{
		sessions: sessions,
		products: products,
		policy:   policy,
		promo:    checker,
	}
}

// View prices the cart of session id
func (s *CartService) View(ctx context.Context, id string) (*CartView, error) {
	var view *CartView
	err := s.sessions.View(id, func(st *session.State) error {
		v, err := s.view(ctx, st)
		view = v
		return err
	})
	return view, err
}

// AddLine adds a product to the cart. The product must exist and be in
// stock; a variant, when given, must belong to it. An empty variant picks
// the product's first variant.
func (s *CartService) AddLine(ctx context.Context, id string, req AddLineRequest, d notify.Dispatcher) (*CartView, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > cart.MaxQuantity {
		return nil, errors.Wrapf(ErrInvalidQuantity, "%d", req.Quantity)
	}

	p, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Variant == "" {
		req.Variant = p.DefaultVariant()
	} else if _, ok := p.Variant(req.Variant); !ok {
		return nil, errors.Wrapf(ErrUnknownVariant, "%s/%s", req.ProductID, req.Variant)
	}
	if p.Stock <= 0 {
		return nil, errors.Wrap(ErrOutOfStock, p.ID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, err = s.sessions.Update(id, func(st *session.State) error {
		_, err := st.Cart.AddLine(p.ID, req.Variant, req.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	notify.Success(ctx, d, fmt.Sprintf("%s added to cart", p.Name))
	return s.View(ctx, id)
}

// SetQuantity sets the quantity of one line. Quantities below 1 are clamped
// to 1 and no stock bound applies.
func (s *CartService) SetQuantity(ctx context.Context, id, productID, variant string, quantity int) (*CartView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, err := s.sessions.Update(id, func(st *session.State) error {
		_, err := st.Cart.SetQuantity(productID, variant, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, id)
}

// RemoveLine deletes one line from the cart
func (s *CartService) RemoveLine(ctx context.Context, id, productID, variant string, d notify.Dispatcher) (*CartView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, err := s.sessions.Update(id, func(st *session.State) error {
		_, err := st.Cart.RemoveLine(productID, variant)
		return err
	})
	if err != nil {
		return nil, err
	}

	notify.Success(ctx, d, MsgItemRemoved)
	return s.View(ctx, id)
}

// ApplyPromo checks a promo code for the cart of session id. The cart is
// left unchanged; no code currently grants a discount.
func (s *CartService) ApplyPromo(ctx context.Context, id, code string, d notify.Dispatcher) (promo.Result, error) {
	if _, err := s.sessions.Get(id); err != nil {
		return promo.Result{}, err
	}
	return s.promo.Check(ctx, code, d)
}

// PromoStats returns the promo checker counters
func (s *CartService) PromoStats() map[string]interface{} {
	return s.promo.GetStats()
}

// Checkout is not available yet. It always notifies the shopper to log in
// and leaves the cart untouched.
func (s *CartService) Checkout(ctx context.Context, id string, d notify.Dispatcher) (*CartView, error) {
	view, err := s.View(ctx, id)
	if err != nil {
		return nil, err
	}
	notify.Info(ctx, d, MsgLoginToCheckout)
	return view, nil
}

// AddToWishlist acknowledges a wishlist action. Wishlists are not stored.
func (s *CartService) AddToWishlist(ctx context.Context, productID string, d notify.Dispatcher) error {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	notify.Success(ctx, d, fmt.Sprintf("%s added to wishlist", p.Name))
	return nil
}

func (s *CartService) view(ctx context.Context, st *session.State) (*CartView, error) {
	totals, err := st.Cart.Totals(ctx, s.products, s.policy)
	if err != nil {
		return nil, err
	}

	return &CartView{
		SessionID: st.ID,
		Empty:     st.Cart.Empty(),
		Totals:    totals,
		Summary: Summary{
			Subtotal:     pricing.Format(totals.Subtotal),
			Shipping:     pricing.Format(totals.Shipping),
			Discount:     pricing.Format(totals.Discount),
			Total:        pricing.Format(totals.Total),
			FreeShipping: totals.Shipping == 0,
		},
	}, nil
}
