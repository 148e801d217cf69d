package showcase

import (
	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// TabAll shows every featured product regardless of category
const TabAll = "all"

var ErrUnknownTab = errors.New("unknown showcase tab")

// Tabs lists the featured-products tabs in display order
var Tabs = []string{TabAll, string(models.CategoryDryFruits), string(models.CategorySpices), string(models.CategoryWholesale)}

// FeaturedTab returns the featured products shown under tab. An empty tab
// means TabAll.
func FeaturedTab(products []models.Product, tab string) ([]models.Product, error) {
	if tab == "" {
		tab = TabAll
	}
	if tab != TabAll && !models.CategorySlug(tab).Valid() {
		return nil, errors.Wrapf(ErrUnknownTab, "%q", tab)
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !p.Featured {
			continue
		}
		if tab != TabAll && string(p.Category) != tab {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
