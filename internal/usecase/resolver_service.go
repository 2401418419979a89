package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/labelpadhega/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxFallbackTerms is how many of the longest query tokens are re-searched
// when the exact search comes back empty.
const maxFallbackTerms = 3

// ResolverConfig holds configuration for the resolver service
type ResolverConfig struct {
	DefaultLimit int
	CacheTTL     time.Duration
}

// ResolverService implements the exact-then-fallback product search policy on
// top of the catalog client. An exact match is always preferred over fallback
// results, even a poor one: precision over recall.
type ResolverService struct {
	catalog      domain.CatalogClient
	detailCache  domain.DetailCache
	defaultLimit int
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewResolverService creates a resolver service. The cache may be nil.
func NewResolverService(catalog domain.CatalogClient, detailCache domain.DetailCache, config ResolverConfig, logger *zap.Logger) *ResolverService {
	limit := config.DefaultLimit
	if limit <= 0 {
		limit = 10
	}

	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &ResolverService{
		catalog:      catalog,
		detailCache:  detailCache,
		defaultLimit: limit,
		cacheTTL:     ttl,
		logger:       logger,
	}
}

// Resolve searches the catalog for a free-text query.
//
//  1. One search with the full, unmodified query. Any result ends the search.
//  2. On zero results with a multi-token query, the three longest tokens are
//     each searched once and the results merged in token order, deduplicated
//     by barcode, first seen wins.
//  3. A single-token query with zero results resolves to an empty list.
//
// A failing sub-search counts as zero results for that term so one bad call
// does not abort the others.
func (s *ResolverService) Resolve(ctx context.Context, query string, limit int) ([]domain.ProductSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	exact, err := s.catalog.Search(ctx, query, limit)
	if err != nil {
		s.logger.Warn("exact search failed, treating as empty",
			zap.String("query", query), zap.Error(err))
		exact = nil
	}
	if len(exact) > 0 {
		return exact, nil
	}

	tokens := strings.Fields(query)
	if len(tokens) <= 1 {
		return []domain.ProductSummary{}, nil
	}

	terms := longestTokens(tokens, maxFallbackTerms)
	s.logger.Info("exact search empty, running fallback",
		zap.String("query", query), zap.Strings("terms", terms))

	return s.fallbackSearch(ctx, terms, limit), nil
}

// fallbackSearch runs one search per term concurrently. Each goroutine writes
// into its own slot so the merge happens in token order regardless of which
// call finishes first; within a slot the catalog response order is preserved.
func (s *ResolverService) fallbackSearch(ctx context.Context, terms []string, limit int) []domain.ProductSummary {
	perTerm := make([][]domain.ProductSummary, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	for i, term := range terms {
		g.Go(func() error {
			results, err := s.catalog.Search(gctx, term, limit)
			if err != nil {
				// Swallowed: one failing term must not abort the other two.
				s.logger.Warn("fallback search failed for term",
					zap.String("term", term), zap.Error(err))
				return nil
			}
			perTerm[i] = results
			return nil
		})
	}
	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()

	merged := make([]domain.ProductSummary, 0)
	seen := make(map[string]bool)
	for _, results := range perTerm {
		for _, p := range results {
			if seen[p.Code] {
				continue
			}
			seen[p.Code] = true
			merged = append(merged, p)
		}
	}

	return merged
}

// longestTokens returns the n longest tokens sorted by descending length.
// Equal-length tokens keep their original left-to-right order.
func longestTokens(tokens []string, n int) []string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ResolveDetail fetches the full catalog record for a barcode, consulting the
// cache first. ErrProductNotFound passes through untouched.
func (s *ResolverService) ResolveDetail(ctx context.Context, code string) (*domain.ProductDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidRequest
	}

	if s.detailCache != nil {
		if detail, ok := s.detailCache.Get(ctx, code); ok {
			s.logger.Debug("product detail served from cache", zap.String("code", code))
			return detail, nil
		}
	}

	detail, err := s.catalog.FetchByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.detailCache != nil {
		s.detailCache.Set(ctx, code, detail, s.cacheTTL)
	}

	return detail, nil
}
