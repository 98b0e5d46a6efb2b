package analyzeapi

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

	"github.com/smartsave/freshness/internal/domain"
)

// defaultErrorMessage is used when a failed response carries no error string
const defaultErrorMessage = "Failed to analyze image"

// Client calls a remote scoring backend speaking the /api/analyze contract
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// NewClient creates a new scoring backend client
func NewClient(url string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		url:    url,
		logger: logger,
	}
}

func (c *Client) Name() string { return "remote" }

// Score posts the request and returns the backend's raw score document.
// Failures carry the backend's own error string when it sent one.
func (c *Client) Score(ctx context.Context, req *domain.AnalysisRequest) (*domain.RawScoreDocument, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "SmartSave/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("[REMOTE] Request error", zap.String("url", c.url), zap.Error(err))
		return nil, &domain.ScoringError{Message: defaultErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ScoringError{StatusCode: resp.StatusCode, Message: defaultErrorMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := errorMessage(body)
		c.logger.Warn("[REMOTE] Backend error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, &domain.ScoringError{StatusCode: resp.StatusCode, Message: message}
	}

	var doc domain.RawScoreDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &domain.ScoringError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid response from scoring backend: %v", err),
		}
	}

	return &doc, nil
}

// errorMessage prefers the backend's {"error": "..."} string
func errorMessage(body []byte) string {
	var errBody struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil {
		if msg := strings.TrimSpace(errBody.Error); msg != "" {
			return msg
		}
	}
	return defaultErrorMessage
}
