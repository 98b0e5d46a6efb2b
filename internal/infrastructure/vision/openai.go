package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smartsave/freshness/internal/domain"
)

// OpenAIConfig configures the OpenAI chat completions scorer
type OpenAIConfig struct {
	APIKey             string
	BaseURL            string
	Model              string
	MaxTokens          int
	RateLimitPerMinute int
}

// OpenAIScorer scores produce images with an OpenAI vision model
type OpenAIScorer struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewOpenAIScorer creates a new OpenAI scorer
func NewOpenAIScorer(config OpenAIConfig, logger *zap.Logger) *OpenAIScorer {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := config.Model
	if model == "" {
		model = "gpt-4o"
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIScorer{
		// The caller bounds each call with its own deadline
		httpClient:  &http.Client{Timeout: 2 * time.Minute},
		apiKey:      strings.TrimSpace(config.APIKey),
		baseURL:     baseURL,
		model:       model,
		maxTokens:   maxTokens,
		rateLimiter: newLimiter(config.RateLimitPerMinute),
		logger:      logger,
	}
}

func (c *OpenAIScorer) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Score sends the image and prompt to the chat completions endpoint
func (c *OpenAIScorer) Score(ctx context.Context, req *domain.AnalysisRequest) (*domain.RawScoreDocument, error) {
	if c.apiKey == "" {
		return nil, credentialError("OPENAI_API_KEY")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemMessage},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: BuildPrompt(req)},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + req.Image}},
			}},
		},
		MaxTokens:      c.maxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("[OPENAI] Requesting score", zap.String("model", c.model), zap.String("produce_type", req.ProduceType))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.ScoringError{Message: "OpenAI request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ScoringError{StatusCode: resp.StatusCode, Message: "failed to read OpenAI response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(raw))
		var apiErr apiErrorBody
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		c.logger.Warn("[OPENAI] API error", zap.Int("status", resp.StatusCode), zap.String("message", message))
		return nil, &domain.ScoringError{StatusCode: resp.StatusCode, Message: message}
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, &domain.ScoringError{Message: fmt.Sprintf("failed to decode OpenAI response: %v", err)}
	}
	if len(chat.Choices) == 0 {
		return nil, &domain.ScoringError{Message: "No response from OpenAI"}
	}

	return decodeScore("OpenAI", chat.Choices[0].Message.Content)
}

// newLimiter converts a per-minute budget into a token bucket. Zero or
// negative means unlimited.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60), max(1, perMinute/10))
}
