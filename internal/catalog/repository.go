package catalog

import (
	"context"
	_ "embed"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidDataset   = errors.New("invalid catalog dataset")
)

//go:embed catalog.yaml
var embeddedDataset []byte

// Filter narrows ListProducts. Zero values match everything.
type Filter struct {
	Category     models.CategorySlug
	FeaturedOnly bool
	// Query matches product names case-insensitively
	Query string
}

// Repository defines read-only access to the storefront catalog
type Repository interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListProducts(ctx context.Context, f Filter) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	HeroSlides(ctx context.Context) ([]models.HeroSlide, error)
}

type dataset struct {
	Categories []models.Category  `yaml:"categories"`
	Products   []models.Product   `yaml:"products"`
	HeroSlides []models.HeroSlide `yaml:"heroSlides"`
}

// InMemoryRepository serves the catalog from memory. It is immutable after
// construction, so it is safe for concurrent use without locking.
type InMemoryRepository struct {
	categories     []models.Category
	products       []models.Product
	slides         []models.HeroSlide
	productByID    map[string]int
	categoryByID   map[string]int
	categoryBySlug map[models.CategorySlug]int
}

// NewInMemoryRepository builds the repository from the dataset embedded in
// the binary.
func NewInMemoryRepository() (*InMemoryRepository, error) {
	return Parse(embeddedDataset)
}

// MustNewInMemoryRepository is NewInMemoryRepository for callers that treat a
// broken embedded dataset as a programming error.
func MustNewInMemoryRepository() *InMemoryRepository {
	repo, err := NewInMemoryRepository()
	if err != nil {
		panic(err)
	}
	return repo
}

// Parse decodes and validates a YAML catalog document
func Parse(data []byte) (*InMemoryRepository, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	return newRepository(ds)
}

func newRepository(ds dataset) (*InMemoryRepository, error) {
	repo := &InMemoryRepository{
		categories:     ds.Categories,
		products:       ds.Products,
		slides:         ds.HeroSlides,
		productByID:    make(map[string]int, len(ds.Products)),
		categoryByID:   make(map[string]int, len(ds.Categories)),
		categoryBySlug: make(map[models.CategorySlug]int, len(ds.Categories)),
	}

	for i, c := range ds.Categories {
		if c.ID == "" || c.Slug == "" {
			return nil, errors.Wrapf(ErrInvalidDataset, "category %d: id and slug are required", i)
		}
		if _, dup := repo.categoryByID[c.ID]; dup {
			return nil, errors.Wrapf(ErrInvalidDataset, "duplicate category id %q", c.ID)
		}
		if _, dup := repo.categoryBySlug[c.Slug]; dup {
			return nil, errors.Wrapf(ErrInvalidDataset, "duplicate category slug %q", c.Slug)
		}
		repo.categoryByID[c.ID] = i
		repo.categoryBySlug[c.Slug] = i
	}

	for i, p := range ds.Products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, dup := repo.productByID[p.ID]; dup {
			return nil, errors.Wrapf(ErrInvalidDataset, "duplicate product id %q", p.ID)
		}
		repo.productByID[p.ID] = i
	}

	return repo, nil
}

func validateProduct(p models.Product) error {
	if p.ID == "" {
		return errors.Wrap(ErrInvalidDataset, "product id is required")
	}
	if !p.Category.Valid() {
		return errors.Wrapf(ErrInvalidDataset, "product %q: unknown category %q", p.ID, p.Category)
	}
	if p.Stock < 0 {
		return errors.Wrapf(ErrInvalidDataset, "product %q: negative stock", p.ID)
	}
	if len(p.Images) == 0 {
		return errors.Wrapf(ErrInvalidDataset, "product %q: at least one image is required", p.ID)
	}
	sizes := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if _, dup := sizes[v.Size]; dup {
			return errors.Wrapf(ErrInvalidDataset, "product %q: duplicate variant %q", p.ID, v.Size)
		}
		sizes[v.Size] = struct{}{}
	}
	return nil
}

// GetProduct returns a product by its identifier
func (r *InMemoryRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	i, ok := r.productByID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := cloneProduct(r.products[i])
	return &p, nil
}

// GetCategory returns a category by its identifier
func (r *InMemoryRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	i, ok := r.categoryByID[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	c := r.categories[i]
	return &c, nil
}

// GetCategoryBySlug returns a category by its URL slug
func (r *InMemoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	i, ok := r.categoryBySlug[models.CategorySlug(slug)]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	c := r.categories[i]
	return &c, nil
}

// ListProducts returns products matching f in dataset order
func (r *InMemoryRepository) ListProducts(ctx context.Context, f Filter) ([]models.Product, error) {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.FeaturedOnly && !p.Featured {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

// ListCategories returns all categories in dataset order
func (r *InMemoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

// HeroSlides returns the homepage carousel slides
func (r *InMemoryRepository) HeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	out := make([]models.HeroSlide, len(r.slides))
	copy(out, r.slides)
	return out, nil
}

// ProductIDs returns all product identifiers, sorted.
func (r *InMemoryRepository) ProductIDs() []string {
	ids := make([]string, 0, len(r.productByID))
	for id := range r.productByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// cloneProduct copies the slices so callers cannot mutate the dataset.
func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	p.Badges = append([]string(nil), p.Badges...)
	p.Variants = append([]models.Variant(nil), p.Variants...)
	return p
}
