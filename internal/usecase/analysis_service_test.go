package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/labelpadhega/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGenerator records prompts and serves a canned response.
type fakeGenerator struct {
	configured bool
	response   string
	err        error
	prompts    []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !f.configured {
		return "", domain.ErrUpstreamUnavailable
	}
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) Configured() bool {
	return f.configured
}

// fakeExtractor serves canned extracted text.
type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, image io.Reader, filename string) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestAnalysis(catalog domain.CatalogClient, generator domain.TextGenerator, extractor domain.TextExtractor) *AnalysisService {
	resolver := NewResolverService(catalog, nil, ResolverConfig{}, zap.NewNop())
	return NewAnalysisService(resolver, generator, extractor, zap.NewNop())
}

func TestAnalyzeText_PlaceholderWhenUnconfigured(t *testing.T) {
	generator := &fakeGenerator{configured: false}
	service := newTestAnalysis(newFakeCatalog(), generator, nil)

	outcome, err := service.AnalyzeText(context.Background(), domain.AnalysisRequest{
		IngredientsText: "Sugar, Palm Oil, Salt",
	})

	require.NoError(t, err)
	assert.True(t, outcome.Placeholder)
	assert.Equal(t, domain.FormatText, outcome.Mode)
	assert.Contains(t, outcome.Text, "[MOCK]")
	assert.Contains(t, outcome.Text, "Sugar, Palm Oil, Salt")
	// No outbound generative call may happen without credentials.
	assert.Empty(t, generator.prompts)
}

func TestAnalyzeText_NormalizesModelOutput(t *testing.T) {
	generator := &fakeGenerator{
		configured: true,
		response:   "**OVERALL VERDICT**\nConsume with Caution\n\n## SUMMARY\nHigh in sugar.",
	}
	service := newTestAnalysis(newFakeCatalog(), generator, nil)

	outcome, err := service.AnalyzeText(context.Background(), domain.AnalysisRequest{
		IngredientsText: "Sugar, Salt",
		ProductName:     "Choco Biscuit",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FormatText, outcome.Mode)
	assert.False(t, outcome.Placeholder)
	// Artifact removal is literal: the space after "##" stays.
	assert.Equal(t, "OVERALL VERDICT\nConsume with Caution\n\n SUMMARY\nHigh in sugar.", outcome.Text)
	assert.Nil(t, outcome.Structured)
}

func TestAnalyzeText_EmptyIngredients(t *testing.T) {
	service := newTestAnalysis(newFakeCatalog(), &fakeGenerator{configured: true}, nil)

	_, err := service.AnalyzeText(context.Background(), domain.AnalysisRequest{IngredientsText: "  "})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestAnalyzeText_UnknownFormat(t *testing.T) {
	service := newTestAnalysis(newFakeCatalog(), &fakeGenerator{configured: true}, nil)

	_, err := service.AnalyzeText(context.Background(), domain.AnalysisRequest{
		IngredientsText: "Sugar",
		ResponseFormat:  "xml",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestAnalyzeText_GenerationFailureBecomesApology(t *testing.T) {
	generator := &fakeGenerator{
		configured: true,
		err:        domain.ErrGenerationFailed,
	}
	service := newTestAnalysis(newFakeCatalog(), generator, nil)

	outcome, err := service.AnalyzeText(context.Background(), domain.AnalysisRequest{
		IngredientsText: "Sugar",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FormatText, outcome.Mode)
	assert.Equal(t, apologyText, outcome.Text)
}

func TestAnalyzeText_StructuredMode(t *testing.T) {
	generator := &fakeGenerator{
		configured: true,
		// Model continued the seeded prefix: no opening brace.
		response: `"overall_verdict": "Avoid", "summary": "Mostly sugar.", "hidden_sugars": ["Invert Syrup"]}`,
	}
	service := newTestAnalysis(newFakeCatalog(), generator, nil)

	outcome, err := service.AnalyzeText(context.Background(), domain.AnalysisRequest{
		IngredientsText: "Sugar, Invert Syrup",
		ResponseFormat:  domain.FormatStructured,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FormatStructured, outcome.Mode)
	require.NotNil(t, outcome.Structured)
	assert.Equal(t, "Avoid", outcome.Structured.OverallVerdict)
	assert.Equal(t, []string{"Invert Syrup"}, outcome.Structured.HiddenSugars)
	assert.Empty(t, outcome.Text, "structured outcome must not carry text")
}

func TestAnalyzeText_StructuredRecoveryFailureFallsBackToText(t *testing.T) {
	generator := &fakeGenerator{
		configured: true,
		response:   "I am sorry, I cannot produce JSON for this product.",
	}
	service := newTestAnalysis(newFakeCatalog(), generator, nil)

	outcome, err := service.AnalyzeText(context.Background(), domain.AnalysisRequest{
		IngredientsText: "Sugar",
		ResponseFormat:  domain.FormatStructured,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FormatText, outcome.Mode)
	assert.Nil(t, outcome.Structured)
	assert.Equal(t, "I am sorry, I cannot produce JSON for this product.", outcome.Text)
}

func TestAnalyzeProduct_PassesResolvedValuesIntoPrompt(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["8901262010"] = &domain.ProductDetail{
		ProductSummary:  domain.ProductSummary{Code: "8901262010", Name: "Amul Butter"},
		IngredientsText: "Milk fat, salt, permitted natural colour",
	}
	generator := &fakeGenerator{configured: true, response: "VERDICT: fine"}
	service := newTestAnalysis(catalog, generator, nil)

	name, outcome, err := service.AnalyzeProduct(context.Background(), "8901262010", "")

	require.NoError(t, err)
	assert.Equal(t, "Amul Butter", name)
	assert.Equal(t, "VERDICT: fine", outcome.Text)

	// The resolved name and ingredient text must reach the prompt verbatim.
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Amul Butter")
	assert.Contains(t, generator.prompts[0], "Milk fat, salt, permitted natural colour")
}

func TestAnalyzeProduct_UnknownCode(t *testing.T) {
	service := newTestAnalysis(newFakeCatalog(), &fakeGenerator{configured: true}, nil)

	_, _, err := service.AnalyzeProduct(context.Background(), "000000", "")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAnalyzeProduct_MissingIngredientsReportsNotFound(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["123"] = &domain.ProductDetail{
		ProductSummary: domain.ProductSummary{Code: "123", Name: "Mystery Snack"},
	}
	service := newTestAnalysis(catalog, &fakeGenerator{configured: true}, nil)

	_, _, err := service.AnalyzeProduct(context.Background(), "123", "")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAnalyzeImage_UsesExtractedText(t *testing.T) {
	extractor := &fakeExtractor{text: "Wheat flour, sugar, cocoa solids"}
	generator := &fakeGenerator{configured: true, response: "VERDICT: caution"}
	service := newTestAnalysis(newFakeCatalog(), generator, extractor)

	name, outcome, err := service.AnalyzeImage(context.Background(), strings.NewReader("fake-image"), "label.jpg", "")

	require.NoError(t, err)
	assert.Equal(t, uploadedImageProductName, name)
	assert.Equal(t, "VERDICT: caution", outcome.Text)
	assert.Equal(t, 1, extractor.calls)
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Wheat flour, sugar, cocoa solids")
}

func TestAnalyzeImage_ExtractionFailureSubstitutesPlaceholder(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("discovery unreachable")}
	generator := &fakeGenerator{configured: true, response: "VERDICT: fine"}
	service := newTestAnalysis(newFakeCatalog(), generator, extractor)

	_, outcome, err := service.AnalyzeImage(context.Background(), strings.NewReader("fake-image"), "label.jpg", "")

	// The request still succeeds on placeholder ingredient text.
	require.NoError(t, err)
	assert.Equal(t, "VERDICT: fine", outcome.Text)
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "[PLACEHOLDER]")
}
