package models

// CategorySlug identifies one of the fixed storefront categories
type CategorySlug string

const (
	CategoryDryFruits CategorySlug = "dryfruits"
	CategorySpices    CategorySlug = "spices"
	CategoryWholesale CategorySlug = "wholesale"
)

// Valid reports whether c is one of the known categories.
func (c CategorySlug) Valid() bool {
	switch c {
	case CategoryDryFruits, CategorySpices, CategoryWholesale:
		return true
	}
	return false
}

// ProductStatus is the canonical status rendered over a product image.
// It is distinct from the free-form promotional badges.
type ProductStatus string

const (
	StatusNone       ProductStatus = ""
	StatusBestseller ProductStatus = "bestseller"
	StatusLowStock   ProductStatus = "low_stock"
	StatusOutOfStock ProductStatus = "out_of_stock"
)

// Label returns the display label of the status
func (s ProductStatus) Label() string {
	switch s {
	case StatusBestseller:
		return "Bestseller"
	case StatusLowStock:
		return "Low Stock"
	case StatusOutOfStock:
		return "Out of Stock"
	default:
		return ""
	}
}

// Category groups products on the storefront
type Category struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Slug        CategorySlug `json:"slug" yaml:"slug"`
	Description string       `json:"description" yaml:"description"`
	Image       string       `json:"image" yaml:"image"`
}

// Variant is a purchasable size or packaging option of a product.
// A zero SalePrice means the variant has no sale price.
type Variant struct {
	Size      string `json:"size" yaml:"size"`
	Price     int64  `json:"price" yaml:"price"`
	SalePrice int64  `json:"salePrice,omitempty" yaml:"salePrice"`
}

// Product is a catalog record. Prices are whole currency units.
type Product struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Category    CategorySlug  `json:"category" yaml:"category"`
	Price       int64         `json:"price" yaml:"price"`
	SalePrice   int64         `json:"salePrice,omitempty" yaml:"salePrice"`
	Images      []string      `json:"images" yaml:"images"`
	Badges      []string      `json:"badges,omitempty" yaml:"badges"`
	Status      ProductStatus `json:"status,omitempty" yaml:"status"`
	Stock       int           `json:"stock" yaml:"stock"`
	Variants    []Variant     `json:"variants,omitempty" yaml:"variants"`
	Featured    bool          `json:"featured" yaml:"featured"`
}

// Image returns the primary image reference
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Variant looks up a variant by its size label.
func (p Product) Variant(size string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Size == size {
			return v, true
		}
	}
	return Variant{}, false
}

// DefaultVariant returns the size label preselected on the detail page,
// or "" when the product has no variants.
func (p Product) DefaultVariant() string {
	if len(p.Variants) == 0 {
		return ""
	}
	return p.Variants[0].Size
}

// HeroSlide is one banner of the homepage carousel
type HeroSlide struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Subtitle   string `json:"subtitle" yaml:"subtitle"`
	Image      string `json:"image" yaml:"image"`
	ButtonText string `json:"buttonText" yaml:"buttonText"`
	Link       string `json:"link" yaml:"link"`
}
