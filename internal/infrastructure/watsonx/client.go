package watsonx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labelpadhega/backend/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultModelID = "ibm/granite-3-8b-instruct"

	// apiVersion is the watsonx.ai API version query parameter value.
	apiVersion = "2024-05-31"
)

// Decoding policy: greedy so that normalization and recovery logic can be
// tested against fixed fixtures, with a mild repetition penalty and a bounded
// token range.
const (
	decodingMethod    = "greedy"
	minNewTokens      = 10
	maxNewTokens      = 600
	repetitionPenalty = 1.1
)

// request types mirror the watsonx.ai text generation API structure.
type request struct {
	ModelID    string     `json:"model_id"`
	Input      string     `json:"input"`
	ProjectID  string     `json:"project_id"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	DecodingMethod    string  `json:"decoding_method"`
	MinNewTokens      int     `json:"min_new_tokens"`
	MaxNewTokens      int     `json:"max_new_tokens"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

type response struct {
	Results []struct {
		GeneratedText string `json:"generated_text"`
		StopReason    string `json:"stop_reason"`
	} `json:"results"`
}

// Client calls the watsonx.ai text generation endpoint. A client constructed
// without credentials is valid: Configured reports false and Generate fails
// with ErrUpstreamUnavailable before any network I/O, which callers turn into
// a labeled placeholder result.
type Client struct {
	apiKey     string
	projectID  string
	modelID    string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a watsonx.ai client.
func NewClient(apiKey, projectID, baseURL, modelID string, timeout time.Duration, logger *zap.Logger) *Client {
	if modelID == "" {
		modelID = defaultModelID
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:     apiKey,
		projectID:  projectID,
		modelID:    modelID,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.projectID != "" && c.baseURL != ""
}

// Generate sends the prompt to the model and returns the raw generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", domain.ErrUpstreamUnavailable
	}

	body := request{
		ModelID:   c.modelID,
		Input:     prompt,
		ProjectID: c.projectID,
		Parameters: parameters{
			DecodingMethod:    decodingMethod,
			MinNewTokens:      minNewTokens,
			MaxNewTokens:      maxNewTokens,
			RepetitionPenalty: repetitionPenalty,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/ml/v1/text/generation?version=%s", c.baseURL, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("watsonx returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", errBody))
		return "", fmt.Errorf("%w: status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrGenerationFailed, err)
	}

	if len(respBody.Results) == 0 {
		return "", fmt.Errorf("%w: empty results", domain.ErrGenerationFailed)
	}

	result := respBody.Results[0]
	c.logger.Debug("generation completed",
		zap.String("model", c.modelID),
		zap.String("stop_reason", result.StopReason),
		zap.Int("length", len(result.GeneratedText)))

	return result.GeneratedText, nil
}
