package domain

import (
	"context"
	"io"
	"time"
)

// CatalogClient defines the interface for the external product catalog.
type CatalogClient interface {
	Search(ctx context.Context, term string, limit int) ([]ProductSummary, error)
	FetchByCode(ctx context.Context, code string) (*ProductDetail, error)
}

// TextGenerator defines the interface for the generative model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Configured reports whether credentials are present. When false,
	// Generate must fail with ErrUpstreamUnavailable without any network I/O.
	Configured() bool
}

// TextExtractor defines the interface for the ingredient-text extraction
// collaborator (OCR). Implementations are opaque text sources; callers must
// not depend on extraction fidelity.
type TextExtractor interface {
	Extract(ctx context.Context, image io.Reader, filename string) (string, error)
}

// DetailCache defines the interface for caching resolved product details.
type DetailCache interface {
	Get(ctx context.Context, code string) (*ProductDetail, bool)
	Set(ctx context.Context, code string, detail *ProductDetail, ttl time.Duration)
}
