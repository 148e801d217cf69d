package catalog

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

func TestNewInMemoryRepository_EmbeddedDataset(t *testing.T) {
	repo, err := NewInMemoryRepository()
	require.NoError(t, err)

	assert.Equal(t, []string{"prod-1", "prod-2", "prod-3", "prod-4", "prod-5", "prod-6"}, repo.ProductIDs())

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	slides, err := repo.HeroSlides(context.Background())
	require.NoError(t, err)
	assert.Len(t, slides, 3)
	assert.Equal(t, "slide-1", slides[0].ID)
}

func TestGetProduct(t *testing.T) {
	repo := MustNewInMemoryRepository()
	ctx := context.Background()

	t.Run("known product", func(t *testing.T) {
		p, err := repo.GetProduct(ctx, "prod-1")
		require.NoError(t, err)
		assert.Equal(t, "Premium California Almonds", p.Name)
		assert.Equal(t, models.CategoryDryFruits, p.Category)
		assert.Equal(t, int64(899), p.Price)
		assert.Equal(t, int64(699), p.SalePrice)
		assert.Equal(t, 50, p.Stock)
		require.Len(t, p.Variants, 3)
		assert.Equal(t, models.Variant{Size: "500g", Price: 449, SalePrice: 399}, p.Variants[1])
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := repo.GetProduct(ctx, "prod-999")
		assert.True(t, errors.Is(err, ErrProductNotFound))
	})

	t.Run("returned product is a copy", func(t *testing.T) {
		p, err := repo.GetProduct(ctx, "prod-1")
		require.NoError(t, err)
		p.Variants[0].Price = 1
		p.Badges[0] = "changed"

		again, err := repo.GetProduct(ctx, "prod-1")
		require.NoError(t, err)
		assert.Equal(t, int64(249), again.Variants[0].Price)
		assert.Equal(t, "Bestseller", again.Badges[0])
	})
}

func TestGetCategory(t *testing.T) {
	repo := MustNewInMemoryRepository()
	ctx := context.Background()

	c, err := repo.GetCategory(ctx, "cat-2")
	require.NoError(t, err)
	assert.Equal(t, models.CategorySpices, c.Slug)

	c, err = repo.GetCategoryBySlug(ctx, "wholesale")
	require.NoError(t, err)
	assert.Equal(t, "Wholesale Deals", c.Name)

	_, err = repo.GetCategory(ctx, "cat-9")
	assert.True(t, errors.Is(err, ErrCategoryNotFound))

	_, err = repo.GetCategoryBySlug(ctx, "nuts")
	assert.True(t, errors.Is(err, ErrCategoryNotFound))
}

func TestListProducts(t *testing.T) {
	repo := MustNewInMemoryRepository()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"prod-1", "prod-2", "prod-3", "prod-4", "prod-5", "prod-6"}},
		{"category", Filter{Category: models.CategoryDryFruits}, []string{"prod-1", "prod-3", "prod-5"}},
		{"featured", Filter{FeaturedOnly: true}, []string{"prod-1", "prod-2", "prod-3", "prod-4"}},
		{"featured in category", Filter{Category: models.CategorySpices, FeaturedOnly: true}, []string{"prod-2", "prod-4"}},
		{"featured wholesale is empty", Filter{Category: models.CategoryWholesale, FeaturedOnly: true}, []string{}},
		{"name query", Filter{Query: "  PREMIUM "}, []string{"prod-1", "prod-2", "prod-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.ListProducts(context.Background(), tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "duplicate product id",
			doc: `
products:
  - {id: p1, category: spices, price: 1, images: [a], stock: 1}
  - {id: p1, category: spices, price: 1, images: [a], stock: 1}
`,
		},
		{
			name: "duplicate slug",
			doc: `
categories:
  - {id: c1, slug: spices}
  - {id: c2, slug: spices}
`,
		},
		{
			name: "unknown category",
			doc: `
products:
  - {id: p1, category: tea, price: 1, images: [a], stock: 1}
`,
		},
		{
			name: "negative stock",
			doc: `
products:
  - {id: p1, category: spices, price: 1, images: [a], stock: -1}
`,
		},
		{
			name: "missing image",
			doc: `
products:
  - {id: p1, category: spices, price: 1, stock: 1}
`,
		},
		{
			name: "duplicate variant",
			doc: `
products:
  - id: p1
    category: spices
    price: 1
    images: [a]
    stock: 1
    variants:
      - {size: 1g, price: 1}
      - {size: 1g, price: 2}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDataset), "got %v", err)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("products: [unterminated"))
		assert.Error(t, err)
	})
}
