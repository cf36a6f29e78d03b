// Package catalog manages the product catalog slice of client state: the
// currently loaded page, the selected product, pagination cursor, and the
// active search term, all fetched on demand from the product endpoints.
package catalog

// Product is a single catalog entry as served by the product endpoints.
// List responses omit some of the optional fields; the detail endpoint
// returns the full record including reviews.
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand,omitempty"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Tags               []string `json:"tags,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	Images             []string `json:"images,omitempty"`

	ShippingInformation string   `json:"shippingInformation,omitempty"`
	WarrantyInformation string   `json:"warrantyInformation,omitempty"`
	Reviews             []Review `json:"reviews,omitempty"`
}

// DiscountedPrice returns the price after applying the discount percentage.
func (p *Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.DiscountPercentage/100)
}

// Review is a single customer review on a product detail record.
type Review struct {
	ReviewerName  string  `json:"reviewerName"`
	ReviewerEmail string  `json:"reviewerEmail"`
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment"`
	Date          string  `json:"date"`
}

// Category is one entry of the catalog category index.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Page is one fetched batch of products together with the server's
// pagination cursor for the query that produced it.
type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}
