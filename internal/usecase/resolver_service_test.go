package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/labelpadhega/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCatalog records every search term and serves canned results per term.
type fakeCatalog struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]domain.ProductSummary
	errs    map[string]error

	details    map[string]*domain.ProductDetail
	fetchCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results: make(map[string][]domain.ProductSummary),
		errs:    make(map[string]error),
		details: make(map[string]*domain.ProductDetail),
	}
}

func (f *fakeCatalog) Search(ctx context.Context, term string, limit int) ([]domain.ProductSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, term)
	if err, ok := f.errs[term]; ok {
		return nil, err
	}
	return f.results[term], nil
}

func (f *fakeCatalog) FetchByCode(ctx context.Context, code string) (*domain.ProductDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	detail, ok := f.details[code]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return detail, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCatalog) searchedTerms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	terms := make([]string, len(f.calls))
	copy(terms, f.calls)
	return terms
}

func summary(code, name string) domain.ProductSummary {
	return domain.ProductSummary{Code: code, Name: name}
}

func newTestResolver(catalog domain.CatalogClient, detailCache domain.DetailCache) *ResolverService {
	return NewResolverService(catalog, detailCache, ResolverConfig{}, zap.NewNop())
}

func TestResolve_ExactMatchStopsImmediately(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.results["Amul Butter"] = []domain.ProductSummary{summary("100", "Amul Butter 500g")}

	resolver := newTestResolver(catalog, nil)

	results, err := resolver.Resolve(context.Background(), "Amul Butter", 10)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "100", results[0].Code)
	// A non-empty exact match must not trigger any fallback call.
	assert.Equal(t, 1, catalog.callCount())
	assert.Equal(t, []string{"Amul Butter"}, catalog.searchedTerms())
}

func TestResolve_FallbackUsesThreeLongestTokens(t *testing.T) {
	catalog := newFakeCatalog()
	// Exact search is empty; term searches have canned results.
	catalog.results["Butter"] = []domain.ProductSummary{
		summary("1", "Butter A"),
		summary("2", "Butter B"),
	}
	catalog.results["Amul"] = []domain.ProductSummary{
		summary("2", "Butter B"), // duplicate across terms
		summary("3", "Amul Milk"),
	}
	catalog.results["Pack"] = []domain.ProductSummary{
		summary("4", "Pack of Rusk"),
	}

	resolver := newTestResolver(catalog, nil)

	results, err := resolver.Resolve(context.Background(), "Amul Butter Pack", 10)

	require.NoError(t, err)

	terms := catalog.searchedTerms()
	require.Len(t, terms, 4)
	assert.Equal(t, "Amul Butter Pack", terms[0])
	// Tokens sorted by descending length; "Amul" and "Pack" tie at 4 chars
	// and keep their left-to-right query order.
	assert.ElementsMatch(t, []string{"Butter", "Amul", "Pack"}, terms[1:])

	// Merged in token order (Butter, Amul, Pack), deduplicated by code,
	// first seen wins.
	codes := make([]string, 0, len(results))
	for _, p := range results {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, codes)
}

func TestResolve_SingleTokenNoFallback(t *testing.T) {
	catalog := newFakeCatalog()

	resolver := newTestResolver(catalog, nil)

	results, err := resolver.Resolve(context.Background(), "Nonexistentbrand", 10)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, catalog.callCount())
}

func TestResolve_FailingTermTreatedAsEmpty(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.errs["Butter"] = errors.New("connection refused")
	catalog.results["Amul"] = []domain.ProductSummary{summary("3", "Amul Milk")}
	catalog.results["Pack"] = []domain.ProductSummary{summary("4", "Pack of Rusk")}

	resolver := newTestResolver(catalog, nil)

	results, err := resolver.Resolve(context.Background(), "Amul Butter Pack", 10)

	require.NoError(t, err)
	// One failing sub-search must not abort the other two.
	codes := make([]string, 0, len(results))
	for _, p := range results {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, []string{"3", "4"}, codes)
}

func TestResolve_ExactSearchErrorFallsThrough(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.errs["Amul Butter"] = errors.New("timeout")
	catalog.results["Butter"] = []domain.ProductSummary{summary("1", "Butter A")}

	resolver := newTestResolver(catalog, nil)

	results, err := resolver.Resolve(context.Background(), "Amul Butter", 10)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Code)
}

func TestResolve_EmptyQuery(t *testing.T) {
	resolver := newTestResolver(newFakeCatalog(), nil)

	_, err := resolver.Resolve(context.Background(), "   ", 10)

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestLongestTokens(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected []string
	}{
		{
			name:     "descending length with stable tie-break",
			tokens:   []string{"Amul", "Butter", "Pack"},
			expected: []string{"Butter", "Amul", "Pack"},
		},
		{
			name:     "fewer than three tokens",
			tokens:   []string{"Maggi", "Noodles"},
			expected: []string{"Noodles", "Maggi"},
		},
		{
			name:     "more than three tokens keeps the three longest",
			tokens:   []string{"So", "Fresh", "Orange", "Marmalade"},
			expected: []string{"Marmalade", "Orange", "Fresh"},
		},
		{
			name:     "all equal lengths preserve query order",
			tokens:   []string{"aaa", "bbb", "ccc", "ddd"},
			expected: []string{"aaa", "bbb", "ccc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, longestTokens(tt.tokens, maxFallbackTerms))
		})
	}
}

// stubCache is a minimal DetailCache for resolver tests.
type stubCache struct {
	mu   sync.Mutex
	data map[string]*domain.ProductDetail
}

func (c *stubCache) Get(ctx context.Context, code string) (*domain.ProductDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[code]
	return d, ok
}

func (c *stubCache) Set(ctx context.Context, code string, detail *domain.ProductDetail, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]*domain.ProductDetail)
	}
	c.data[code] = detail
}

func TestResolveDetail_NotFoundPassesThrough(t *testing.T) {
	resolver := newTestResolver(newFakeCatalog(), nil)

	_, err := resolver.ResolveDetail(context.Background(), "000000")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestResolveDetail_CachesResult(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["8901262010"] = &domain.ProductDetail{
		ProductSummary:  summary("8901262010", "Amul Butter"),
		IngredientsText: "Milk fat, salt",
	}

	resolver := newTestResolver(catalog, &stubCache{})

	first, err := resolver.ResolveDetail(context.Background(), "8901262010")
	require.NoError(t, err)

	second, err := resolver.ResolveDetail(context.Background(), "8901262010")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, catalog.fetchCalls)
}
