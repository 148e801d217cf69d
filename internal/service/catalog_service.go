package service

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pricing"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/showcase"
)

var ErrUnknownVariant = errors.New("unknown product variant")

// ProductCard is the grid tile shown on the home and category pages
type ProductCard struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Category      models.CategorySlug  `json:"category"`
	Image         string               `json:"image"`
	Badges        []string             `json:"badges,omitempty"`
	Status        models.ProductStatus `json:"status,omitempty"`
	StatusLabel   string               `json:"statusLabel,omitempty"`
	Quote         pricing.Quote        `json:"quote"`
	Price         string               `json:"price"`
	Strikethrough string               `json:"strikethrough,omitempty"`
	OnSale        bool                 `json:"onSale"`
	InStock       bool                 `json:"inStock"`
}

// ProductDetail is the product page with the selected variant priced
type ProductDetail struct {
	Product         models.Product `json:"product"`
	SelectedVariant string         `json:"selectedVariant,omitempty"`
	Quote           pricing.Quote  `json:"quote"`
	Price           string         `json:"price"`
	Strikethrough   string         `json:"strikethrough,omitempty"`
	StockLabel      string         `json:"stockLabel"`
	StatusLabel     string         `json:"statusLabel,omitempty"`
	InStock         bool           `json:"inStock"`
	Quantity        int            `json:"quantity"`
}

// CategoryPage is a category header with its product grid
type CategoryPage struct {
	Category models.Category `json:"category"`
	Products []ProductCard   `json:"products"`
}

// HomeView is everything the landing page renders
type HomeView struct {
	Hero       showcase.CarouselState `json:"hero"`
	Categories []models.Category      `json:"categories"`
	Tab        string                 `json:"tab"`
	Tabs       []string               `json:"tabs"`
	Featured   []ProductCard          `json:"featured"`
}

// QuoteView prices a quantity of one product variant
type QuoteView struct {
	ProductID string        `json:"productId"`
	Quantity  int           `json:"quantity"`
	Quote     pricing.Quote `json:"quote"`
	UnitPrice int64         `json:"unitPrice"`
	LineTotal int64         `json:"lineTotal"`
	Formatted string        `json:"formatted"`
}

// CatalogService assembles the browsing views
type CatalogService struct {
	repo     catalog.Repository
	carousel *showcase.Carousel
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo catalog.Repository, carousel *showcase.Carousel) *CatalogService {
	return &CatalogService{
		repo:     repo,
		carousel: carousel,
	}
}

// ListProducts returns the raw catalog records matching f
func (s *CatalogService) ListProducts(ctx context.Context, f catalog.Filter) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, f)
}

// ProductCards returns the grid tiles for the products matching f
func (s *CatalogService) ProductCards(ctx context.Context, f catalog.Filter) ([]ProductCard, error) {
	products, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	return cards(products), nil
}

// ProductDetail returns the detail page of a product. An empty variant
// selects the product's first variant.
func (s *CatalogService) ProductDetail(ctx context.Context, id, variant string) (*ProductDetail, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if variant == "" {
		variant = p.DefaultVariant()
	} else if _, ok := p.Variant(variant); !ok {
		return nil, errors.Wrapf(ErrUnknownVariant, "%s/%s", id, variant)
	}

	q := pricing.Resolve(*p, variant)
	d := &ProductDetail{
		Product:         *p,
		SelectedVariant: variant,
		Quote:           q,
		Price:           pricing.Format(q.Display),
		StockLabel:      showcase.StockLabel(p.Stock),
		StatusLabel:     p.Status.Label(),
		InStock:         showcase.InStock(p.Stock),
		Quantity:        1,
	}
	if q.OnSale() {
		d.Strikethrough = pricing.Format(q.Strikethrough)
	}
	return d, nil
}

// Categories returns every category in display order
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CategoryPage returns the category with the given slug and its products
func (s *CatalogService) CategoryPage(ctx context.Context, slug string) (*CategoryPage, error) {
	c, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx, catalog.Filter{Category: c.Slug})
	if err != nil {
		return nil, err
	}

	return &CategoryPage{Category: *c, Products: cards(products)}, nil
}

// Home returns the landing page with the featured grid filtered by tab.
// An empty tab means showcase.TabAll.
func (s *CatalogService) Home(ctx context.Context, tab string) (*HomeView, error) {
	if tab == "" {
		tab = showcase.TabAll
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx, catalog.Filter{FeaturedOnly: true})
	if err != nil {
		return nil, err
	}

	featured, err := showcase.FeaturedTab(products, tab)
	if err != nil {
		return nil, err
	}

	return &HomeView{
		Hero:       s.carousel.State(),
		Categories: categories,
		Tab:        tab,
		Tabs:       showcase.Tabs,
		Featured:   cards(featured),
	}, nil
}

// Hero returns the carousel position
func (s *CatalogService) Hero() showcase.CarouselState {
	return s.carousel.State()
}

// NextSlide advances the carousel and restarts its countdown
func (s *CatalogService) NextSlide() showcase.CarouselState {
	return s.carousel.Next()
}

// PrevSlide moves the carousel back and restarts its countdown
func (s *CatalogService) PrevSlide() showcase.CarouselState {
	return s.carousel.Prev()
}

// SelectSlide jumps to slide i
func (s *CatalogService) SelectSlide(i int) (showcase.CarouselState, error) {
	return s.carousel.Select(i)
}

// Quote prices quantity units of a product variant
func (s *CatalogService) Quote(ctx context.Context, id, variant string, quantity int) (*QuoteView, error) {
	if quantity < 1 || quantity > cart.MaxQuantity {
		return nil, errors.Wrapf(ErrInvalidQuantity, "%d", quantity)
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if variant != "" {
		if _, ok := p.Variant(variant); !ok {
			return nil, errors.Wrapf(ErrUnknownVariant, "%s/%s", id, variant)
		}
	}

	total := pricing.LineTotal(*p, variant, quantity)
	return &QuoteView{
		ProductID: p.ID,
		Quantity:  quantity,
		Quote:     pricing.Resolve(*p, variant),
		UnitPrice: pricing.UnitPrice(*p, variant),
		LineTotal: total,
		Formatted: pricing.Format(total),
	}, nil
}

// Stepper applies one press of the detail-page quantity stepper. A press
// blocked at the stock limit notifies d.
func (s *CatalogService) Stepper(ctx context.Context, id string, current, delta int, d notify.Dispatcher) (showcase.StepResult, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return showcase.StepResult{}, err
	}

	res := showcase.StepQuantity(current, delta, p.Stock)
	if res.Blocked {
		notify.Error(ctx, d, showcase.MsgMaxStock)
	}
	return res, nil
}

func cards(products []models.Product) []ProductCard {
	out := make([]ProductCard, 0, len(products))
	for _, p := range products {
		q := pricing.Resolve(p, "")
		c := ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Image:       p.Image(),
			Badges:      p.Badges,
			Status:      p.Status,
			StatusLabel: p.Status.Label(),
			Quote:       q,
			Price:       pricing.Format(q.Display),
			OnSale:      pricing.OnSale(p),
			InStock:     showcase.InStock(p.Stock),
		}
		if q.OnSale() {
			c.Strikethrough = pricing.Format(q.Strikethrough)
		}
		out = append(out, c)
	}
	return out
}
