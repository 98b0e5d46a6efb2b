package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/smartsave/freshness/internal/domain"
)

// GeminiConfig configures the Gemini scorer
type GeminiConfig struct {
	APIKey             string
	Model              string
	MaxTokens          int
	RateLimitPerMinute int
}

// GeminiScorer scores produce images with a Gemini model. The API client is
// created on first use and shared by later calls until Close.
type GeminiScorer struct {
	apiKey      string
	model       string
	maxTokens   int
	rateLimiter *rate.Limiter
	logger      *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiScorer creates a new Gemini scorer
func NewGeminiScorer(config GeminiConfig, logger *zap.Logger) *GeminiScorer {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiScorer{
		apiKey:      strings.TrimSpace(config.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		rateLimiter: newLimiter(config.RateLimitPerMinute),
		logger:      logger,
	}
}

func (g *GeminiScorer) Name() string { return "gemini" }

// Score sends the image and prompt to Gemini and requests a JSON answer
func (g *GeminiScorer) Score(ctx context.Context, req *domain.AnalysisRequest) (*domain.RawScoreDocument, error) {
	if g.apiKey == "" {
		return nil, credentialError("GEMINI_API_KEY")
	}

	imgBytes, err := domain.DecodeImage(req.Image)
	if err != nil {
		return nil, err
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	cl, err := g.getClient(ctx)
	if err != nil {
		return nil, &domain.ScoringError{Message: "failed to create Gemini client", Err: err}
	}

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		MaxOutputTokens:  ptrInt32(int32(g.maxTokens)),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemMessage)},
	}

	g.logger.Debug("[GEMINI] Requesting score", zap.String("model", g.model), zap.String("produce_type", req.ProduceType))

	resp, err := m.GenerateContent(ctx,
		genai.Text(BuildPrompt(req)),
		genai.Blob{MIMEType: imageMIME(imgBytes), Data: imgBytes},
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.logger.Warn("[GEMINI] API error", zap.Error(err))
		return nil, &domain.ScoringError{Message: fmt.Sprintf("Gemini request failed: %v", err), Err: err}
	}

	return decodeScore("Gemini", firstText(resp))
}

func (g *GeminiScorer) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, err
	}
	g.client = cl
	return cl, nil
}

// Close releases the shared client. The scorer may be used again afterwards.
func (g *GeminiScorer) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// imageMIME sniffs the image type, defaulting to JPEG like the chat endpoint
func imageMIME(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}
