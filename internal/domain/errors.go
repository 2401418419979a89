package domain

import "errors"

var (
	// ErrProductNotFound is returned when the catalog has no record for a
	// query or barcode
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrCatalogUnavailable is returned when a catalog request fails at the
	// transport or HTTP level
	ErrCatalogUnavailable = errors.New("catalog request failed")

	// ErrUpstreamUnavailable is returned when an upstream service cannot be
	// called because credentials are missing or misconfigured
	ErrUpstreamUnavailable = errors.New("upstream credentials not configured")

	// ErrGenerationFailed is returned when the generative model call fails
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrMalformedOutput is returned when structured recovery cannot repair
	// the model output into a parseable record
	ErrMalformedOutput = errors.New("model output is not recoverable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
