package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labelpadhega/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client handles communication with the Open Food Facts API. The catalog is
// public and needs no credentials.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new Open Food Facts client. The timeout bounds every
// catalog call so the three-way fallback search stays within a UI-acceptable
// latency envelope.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	// Open Food Facts asks heavy users to stay under ~10 req/s; a burst of 10
	// covers the exact search plus the three-term fallback in one request.
	limiter := rate.NewLimiter(rate.Limit(10), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
		logger:      logger,
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "LabelPadhega/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return resp, nil
}

// Search runs one catalog search for the given term. A term that matches
// nothing returns an empty slice, not an error; errors mean the call itself
// failed.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]domain.ProductSummary, error) {
	endpoint := fmt.Sprintf("%s/cgi/search.pl", c.baseURL)
	params := url.Values{}
	params.Add("search_terms", term)
	params.Add("search_simple", "1")
	params.Add("action", "process")
	params.Add("json", "1")
	params.Add("page_size", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("catalog search returned non-OK status",
			zap.String("term", term),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 256)))
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	var searchResp rawSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	products := mapSearchProducts(searchResp.Products)
	c.logger.Debug("catalog search completed",
		zap.String("term", term),
		zap.Int("results", len(products)))

	return products, nil
}

// FetchByCode retrieves the full catalog record for a barcode. The catalog
// reports "not found" with an explicit status flag; that maps to
// ErrProductNotFound, distinct from transport failures.
func (c *Client) FetchByCode(ctx context.Context, code string) (*domain.ProductDetail, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(code))

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogUnavailable, resp.StatusCode, truncate(body, 256))
	}

	var productResp rawProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}

	if productResp.Status != 1 {
		c.logger.Info("product not found in catalog", zap.String("code", code))
		return nil, domain.ErrProductNotFound
	}

	return mapProductDetail(code, productResp.Product), nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
