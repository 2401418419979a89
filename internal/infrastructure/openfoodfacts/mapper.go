package openfoodfacts

import "github.com/labelpadhega/backend/internal/domain"

// rawSearchResponse mirrors the Open Food Facts search payload.
type rawSearchResponse struct {
	Products []rawProduct `json:"products"`
	Count    int          `json:"count"`
}

// rawProductResponse mirrors the fetch-by-barcode payload. Status is 1 when
// the product exists and 0 otherwise.
type rawProductResponse struct {
	Status  int        `json:"status"`
	Product rawProduct `json:"product"`
}

// rawProduct carries the subset of catalog fields this service uses.
type rawProduct struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	Brands          string         `json:"brands"`
	ImageSmallURL   string         `json:"image_front_small_url"`
	ImageFrontURL   string         `json:"image_front_url"`
	IngredientsText string         `json:"ingredients_text"`
	Nutriments      map[string]any `json:"nutriments"`
}

const (
	unknownProduct = "Unknown Product"
	unknownBrand   = "Unknown Brand"
)

// mapSearchProducts converts raw search results to domain summaries. Records
// without a barcode are dropped since they cannot be deduplicated or fetched.
func mapSearchProducts(raw []rawProduct) []domain.ProductSummary {
	products := make([]domain.ProductSummary, 0, len(raw))
	for _, item := range raw {
		if item.Code == "" {
			continue
		}
		products = append(products, domain.ProductSummary{
			Code:     item.Code,
			Name:     orDefault(item.ProductName, unknownProduct),
			Brand:    orDefault(item.Brands, unknownBrand),
			ImageURL: item.ImageSmallURL,
		})
	}
	return products
}

// mapProductDetail converts a raw fetch-by-barcode record to a domain detail.
// The barcode from the request is authoritative; detail responses omit it in
// some catalog versions.
func mapProductDetail(code string, raw rawProduct) *domain.ProductDetail {
	return &domain.ProductDetail{
		ProductSummary: domain.ProductSummary{
			Code:     code,
			Name:     orDefault(raw.ProductName, unknownProduct),
			Brand:    orDefault(raw.Brands, unknownBrand),
			ImageURL: raw.ImageFrontURL,
		},
		IngredientsText: raw.IngredientsText,
		Nutriments:      raw.Nutriments,
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
