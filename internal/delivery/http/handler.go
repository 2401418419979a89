package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labelpadhega/backend/internal/domain"
	"github.com/labelpadhega/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver *usecase.ResolverService
	analysis *usecase.AnalysisService
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver *usecase.ResolverService, analysis *usecase.AnalysisService) *Handler {
	return &Handler{
		resolver: resolver,
		analysis: analysis,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labelpadhega-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles GET /products/search?q=...&limit=...
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	products, err := h.resolver.Resolve(c.Request.Context(), query, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.SearchResponse{
		Products: products,
		Count:    len(products),
	})
}

// GetProduct handles GET /products/:code
func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.resolver.ResolveDetail(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// AnalyzeIngredients handles POST /analyze with a raw ingredient list
func (h *Handler) AnalyzeIngredients(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients_text is required"})
		return
	}

	outcome, err := h.analysis.AnalyzeText(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.AnalyzeResponse{
		ProductName: req.ProductName,
		Analysis:    *outcome,
	})
}

// AnalyzeProduct handles POST /analyze/product/:code
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	name, outcome, err := h.analysis.AnalyzeProduct(
		c.Request.Context(),
		c.Param("code"),
		c.Query("response_format"),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.AnalyzeResponse{
		ProductName: name,
		Analysis:    *outcome,
	})
}

// AnalyzeImage handles POST /analyze/image with a multipart label photo
func (h *Handler) AnalyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	name, outcome, err := h.analysis.AnalyzeImage(
		c.Request.Context(),
		file,
		fileHeader.Filename,
		c.Query("response_format"),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.AnalyzeResponse{
		ProductName: name,
		Analysis:    *outcome,
	})
}

// respondError maps sentinel errors to HTTP statuses. Every expected failure
// terminates in one of these; anything else is a genuine server error.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request parameters"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "product catalog is unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
