package products

import "time"

// Genders a product may target.
const (
	GenderMen    = "Men"
	GenderWomen  = "Women"
	GenderUnisex = "Unisex"
)

// Sort orders accepted by List.
const (
	SortPriceAsc   = "priceAsc"
	SortPriceDesc  = "priceDesc"
	SortPopularity = "popularity"
)

type Image struct {
	URL     string `dynamodbav:"url" json:"url"`
	AltText string `dynamodbav:"alt_text,omitempty" json:"altText,omitempty"`
}

// Product represents the item stored in the products DynamoDB table.
type Product struct {
	ProductID     string    `dynamodbav:"product_id" json:"id"` // PK
	Name          string    `dynamodbav:"name" json:"name"`
	Description   string    `dynamodbav:"description" json:"description"`
	Price         float64   `dynamodbav:"price" json:"price"`
	DiscountPrice float64   `dynamodbav:"discount_price,omitempty" json:"discountPrice,omitempty"`
	CountInStock  int       `dynamodbav:"count_in_stock" json:"countInStock"`
	SKU           string    `dynamodbav:"sku" json:"sku"`
	Category      string    `dynamodbav:"category" json:"category"`
	Brand         string    `dynamodbav:"brand,omitempty" json:"brand,omitempty"`
	Sizes         []string  `dynamodbav:"sizes" json:"sizes"`
	Colors        []string  `dynamodbav:"colors" json:"colors"`
	Collections   string    `dynamodbav:"collections" json:"collections"`
	Material      string    `dynamodbav:"material,omitempty" json:"material,omitempty"`
	Gender        string    `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Images        []Image   `dynamodbav:"images" json:"images"`
	IsFeatured    bool      `dynamodbav:"is_featured" json:"isFeatured"`
	IsPublished   bool      `dynamodbav:"is_published" json:"isPublished"`
	Rating        float64   `dynamodbav:"rating" json:"rating"`
	NumReviews    int       `dynamodbav:"num_reviews" json:"numReviews"`
	Tags          []string  `dynamodbav:"tags,omitempty" json:"tags,omitempty"`
	CreatedBy     string    `dynamodbav:"created_by,omitempty" json:"user,omitempty"`
	CreatedAt     time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// PrimaryImage returns the first image URL, or "".
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Filter narrows a catalog listing. Zero values do not filter.
// Sizes, Materials and Brands match any of the listed values.
type Filter struct {
	Collection string
	Category   string
	Gender     string
	Color      string
	Sizes      []string
	Materials  []string
	Brands     []string
	MinPrice   float64
	MaxPrice   float64
	Search     string
	SortBy     string
	Limit      int

	IncludeUnpublished bool
}
