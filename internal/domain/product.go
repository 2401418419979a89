package domain

// ProductSummary is a single product as returned by a catalog search.
// Identity is the Code (EAN/UPC barcode).
type ProductSummary struct {
	Code     string `json:"id"`
	Name     string `json:"product_name"`
	Brand    string `json:"brand,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// ProductDetail is the full catalog record for one product. A "not found"
// catalog response maps to (nil, ErrProductNotFound), never to a zero-valued
// detail, so callers can tell "no such product" from "empty fields".
type ProductDetail struct {
	ProductSummary
	IngredientsText string         `json:"ingredients_text,omitempty"`
	Nutriments      map[string]any `json:"nutriments,omitempty"`
}

// SearchResponse is the payload returned by the product search endpoint.
type SearchResponse struct {
	Products []ProductSummary `json:"products"`
	Count    int              `json:"count"`
}
