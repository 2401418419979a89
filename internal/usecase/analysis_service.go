package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labelpadhega/backend/internal/domain"
	"go.uber.org/zap"
)

const (
	// uploadedImageProductName labels analyses of ad hoc image uploads that
	// have no catalog identity.
	uploadedImageProductName = "Uploaded Image Product"

	// placeholderIngredients stands in for extracted text when the extraction
	// collaborator is unreachable or unconfigured. The request still succeeds.
	placeholderIngredients = "[PLACEHOLDER] Text extraction unavailable. Sample ingredients: Sugar, Refined Wheat Flour (Maida), Edible Vegetable Oil, Invert Syrup, Cocoa Solids, Leavening Agents, Salt."

	// apologyText replaces the analysis when the model call itself fails. The
	// raw transport error never reaches the caller.
	apologyText = "A system error occurred during the ingredient analysis. Please try again later."
)

// AnalysisService orchestrates the full analysis flow: resolve product (when
// asked by barcode), build the prompt, call the model, and normalize or
// recover the output. All failure paths terminate here in a well-defined
// outcome or sentinel error; nothing upstream-flavored leaks to delivery.
type AnalysisService struct {
	resolver  *ResolverService
	generator domain.TextGenerator
	extractor domain.TextExtractor
	logger    *zap.Logger
}

// NewAnalysisService creates an analysis service with its collaborators. The
// extractor may be nil when image analysis is not wired.
func NewAnalysisService(resolver *ResolverService, generator domain.TextGenerator, extractor domain.TextExtractor, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		resolver:  resolver,
		generator: generator,
		extractor: extractor,
		logger:    logger,
	}
}

// AnalyzeText analyzes a raw ingredient list. When generative credentials are
// absent no outbound call is made and a clearly marked placeholder outcome is
// returned instead.
func (s *AnalysisService) AnalyzeText(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisOutcome, error) {
	ingredients := strings.TrimSpace(req.IngredientsText)
	if ingredients == "" {
		return nil, domain.ErrInvalidRequest
	}

	format := req.ResponseFormat
	if format == "" {
		format = domain.FormatText
	}
	if format != domain.FormatText && format != domain.FormatStructured {
		return nil, fmt.Errorf("%w: unknown response format %q", domain.ErrInvalidRequest, req.ResponseFormat)
	}

	if !s.generator.Configured() {
		s.logger.Warn("generative credentials absent, returning placeholder analysis")
		return s.placeholderOutcome(ingredients), nil
	}

	var prompt string
	if format == domain.FormatStructured {
		prompt = BuildStructuredPrompt(ingredients, req.ProductName)
	} else {
		prompt = BuildTextPrompt(ingredients, req.ProductName)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return s.placeholderOutcome(ingredients), nil
		}
		s.logger.Error("generation failed", zap.Error(err))
		return &domain.AnalysisOutcome{
			Mode: domain.FormatText,
			Text: apologyText,
		}, nil
	}

	if format == domain.FormatStructured {
		analysis, err := RecoverAnalysis(raw)
		if err != nil {
			// Lossy recovery gave up; serve the readable text instead of
			// failing the request. The outcome is tagged as text so callers
			// never misread the shape.
			s.logger.Warn("structured recovery failed, falling back to text",
				zap.Int("raw_length", len(raw)))
			return &domain.AnalysisOutcome{
				Mode: domain.FormatText,
				Text: Normalize(raw),
			}, nil
		}
		return &domain.AnalysisOutcome{
			Mode:       domain.FormatStructured,
			Structured: analysis,
		}, nil
	}

	return &domain.AnalysisOutcome{
		Mode: domain.FormatText,
		Text: Normalize(raw),
	}, nil
}

// AnalyzeProduct resolves a product by barcode and analyzes its ingredient
// list. A product without ingredient text reports not found: there is nothing
// to analyze. Returns the resolved product name alongside the outcome.
func (s *AnalysisService) AnalyzeProduct(ctx context.Context, code, format string) (string, *domain.AnalysisOutcome, error) {
	detail, err := s.resolver.ResolveDetail(ctx, code)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(detail.IngredientsText) == "" {
		return "", nil, fmt.Errorf("%w: no ingredient text for %s", domain.ErrProductNotFound, code)
	}

	outcome, err := s.AnalyzeText(ctx, domain.AnalysisRequest{
		IngredientsText: detail.IngredientsText,
		ProductName:     detail.Name,
		ResponseFormat:  format,
	})
	if err != nil {
		return "", nil, err
	}
	return detail.Name, outcome, nil
}

// AnalyzeImage extracts ingredient text from an uploaded label image and
// analyzes it. Extraction failures of any kind substitute the labeled
// placeholder text rather than failing the whole request.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, image io.Reader, filename, format string) (string, *domain.AnalysisOutcome, error) {
	ingredients := placeholderIngredients
	if s.extractor != nil {
		text, err := s.extractor.Extract(ctx, image, filename)
		if err != nil {
			s.logger.Warn("text extraction failed, using placeholder ingredients",
				zap.String("filename", filename), zap.Error(err))
		} else if strings.TrimSpace(text) != "" {
			ingredients = text
		}
	}

	outcome, err := s.AnalyzeText(ctx, domain.AnalysisRequest{
		IngredientsText: ingredients,
		ProductName:     uploadedImageProductName,
		ResponseFormat:  format,
	})
	if err != nil {
		return "", nil, err
	}
	return uploadedImageProductName, outcome, nil
}

// placeholderOutcome is the clearly marked stand-in returned when credentials
// for the generative service are missing. The API call still succeeds.
func (s *AnalysisService) placeholderOutcome(ingredients string) *domain.AnalysisOutcome {
	preview := ingredients
	if len(preview) > 50 {
		preview = preview[:50] + "..."
	}
	return &domain.AnalysisOutcome{
		Mode:        domain.FormatText,
		Placeholder: true,
		Text: "[MOCK] Analysis requires generative service credentials. Ingredients received: " + preview +
			"\nConfigure the watsonx API key and project id to get a real analysis.",
	}
}
