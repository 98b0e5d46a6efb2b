package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartsave/freshness/internal/domain"
)

// DemoScorerName is the name reported by the simulated scorer
const DemoScorerName = "demo"

// AnalysisServiceConfig holds configuration for the analysis pipeline
type AnalysisServiceConfig struct {
	ScoringTimeout time.Duration
}

// AnalyzeInput is one analysis attempt as submitted by a client
type AnalyzeInput struct {
	Image    string             `json:"image"` // base64 or data URL
	Filename string             `json:"filename"`
	Mode     domain.DetectMode  `json:"mode"`
	Manual   domain.ManualEntry `json:"manual"`
}

// RequestSummary echoes what was sent for scoring, without the image
type RequestSummary struct {
	ProduceType      string `json:"produceType"`
	DaysSinceHarvest int    `json:"daysSinceHarvest"`
	StorageCondition string `json:"storageCondition"`
	Observations     string `json:"observations"`
}

// AnalysisOutcome is everything one pipeline run produces
type AnalysisOutcome struct {
	Detection       domain.DetectionResult `json:"detection"`
	Request         RequestSummary         `json:"request"`
	Result          domain.AnalysisResult  `json:"result"`
	Drafts          domain.Drafts          `json:"drafts"`
	RuleSummary     []string               `json:"ruleSummary"`
	DaysUntilExpiry int                    `json:"daysUntilExpiry"`
}

// AnalysisService runs the full pipeline:
// detect -> resolve -> build request -> score -> normalize -> derive drafts
type AnalysisService struct {
	detector domain.KeywordDetector
	resolver *ProductResolver
	builder  *RequestBuilder
	scorer   domain.FreshnessScorer
	archive  domain.ImageArchive
	timeout  time.Duration
	logger   *zap.Logger
}

// NewAnalysisService creates the pipeline. archive may be nil.
func NewAnalysisService(
	detector domain.KeywordDetector,
	resolver *ProductResolver,
	builder *RequestBuilder,
	scorer domain.FreshnessScorer,
	archive domain.ImageArchive,
	config AnalysisServiceConfig,
	logger *zap.Logger,
) *AnalysisService {
	timeout := config.ScoringTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnalysisService{
		detector: detector,
		resolver: resolver,
		builder:  builder,
		scorer:   scorer,
		archive:  archive,
		timeout:  timeout,
		logger:   logger,
	}
}

// Detect runs keyword detection and resolves the keywords against the catalog.
// An unidentified product is a normal outcome, not an error.
func (s *AnalysisService) Detect(mode domain.DetectMode, filename string) domain.DetectionResult {
	detection := s.detector.Detect(mode, filename)
	detection.Identified = s.resolver.Resolve(detection.Keywords)

	if detection.Identified != nil {
		s.logger.Debug("[ANALYZE] Product identified",
			zap.Strings("keywords", detection.Keywords),
			zap.String("sku", detection.Identified.SKU))
	} else {
		s.logger.Debug("[ANALYZE] No catalog match, manual entry required",
			zap.Strings("keywords", detection.Keywords))
	}
	return detection
}

// Analyze runs one analysis attempt end to end. Input errors are returned
// before the scoring call; the scoring call itself is bounded by the
// configured timeout.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisOutcome, error) {
	detection := s.Detect(in.Mode, in.Filename)

	built, err := s.builder.Build(in.Image, detection, in.Manual)
	if err != nil {
		return nil, err
	}

	s.archiveImage(ctx, built.ImageData)

	raw, err := s.score(ctx, built.Request)
	if err != nil {
		return nil, err
	}

	result := Normalize(raw, built.Product.OriginalPrice)
	if result.ProduceType == "" {
		result.ProduceType = built.Request.ProduceType
	}
	if s.scorer.Name() == DemoScorerName {
		result.Source = domain.SourceDemo
	}
	for _, w := range result.Warnings {
		s.logger.Warn("[ANALYZE] Score data quality", zap.String("warning", w))
	}

	drafts := DeriveDrafts(result, built.Product.Item())

	s.logger.Info("[ANALYZE] Analysis complete",
		zap.String("product", built.Request.ProduceType),
		zap.String("grade", result.Grade),
		zap.Int("freshness", result.Freshness),
		zap.Int("price_reduction", result.PriceReduction),
		zap.String("source", result.Source))

	return &AnalysisOutcome{
		Detection: detection,
		Request: RequestSummary{
			ProduceType:      built.Request.ProduceType,
			DaysSinceHarvest: built.Request.DaysSinceHarvest,
			StorageCondition: built.Request.StorageCondition,
			Observations:     built.Request.Observations,
		},
		Result:          result,
		Drafts:          drafts,
		RuleSummary:     RuleSummary(drafts.Rule),
		DaysUntilExpiry: built.DaysUntilExpiry,
	}, nil
}

// score calls the scorer under the scoring deadline and classifies failures
func (s *AnalysisService) score(ctx context.Context, req *domain.AnalysisRequest) (*domain.RawScoreDocument, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.scorer.Score(scoreCtx, req)
	if err == nil {
		return raw, nil
	}

	switch {
	case ctx.Err() != nil:
		return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
	case errors.Is(scoreCtx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w after %s", domain.ErrScoringTimeout, s.timeout)
	case errors.Is(err, domain.ErrScoringFailed),
		errors.Is(err, domain.ErrCredentialMissing),
		errors.Is(err, domain.ErrInvalidRequest):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrScoringFailed, err)
	}
}

// archiveImage keeps a copy of the upload. Failures are logged only.
func (s *AnalysisService) archiveImage(ctx context.Context, data []byte) {
	if s.archive == nil || len(data) == 0 {
		return
	}

	contentType := http.DetectContentType(data)
	key := fmt.Sprintf("analyses/%s/%s%s", time.Now().UTC().Format(dateLayout), uuid.NewString(), extensionFor(contentType))
	if err := s.archive.Store(ctx, key, data, contentType); err != nil {
		s.logger.Warn("[ANALYZE] Image archive failed", zap.String("key", key), zap.Error(err))
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
