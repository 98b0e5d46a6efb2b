package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartsave/freshness/internal/domain"
)

// Defaults written into a sanitized score document
const (
	defaultRecommendedLabel = "Use Soon"
	defaultNotes            = "Analysis completed"
)

// leadingFloatRegex matches the numeric prefix of a loosely formatted decimal ("8.5/10" -> 8.5)
var leadingFloatRegex = regexp.MustCompile(`^\s*[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ScoringServiceConfig holds configuration for the scoring service
type ScoringServiceConfig struct {
	CacheTTL time.Duration
}

// ScoringService is the scoring backend: it validates a request, asks the
// configured model for a score and sanitizes the answer. Sanitized answers
// are cached by request content.
type ScoringService struct {
	model    domain.FreshnessScorer
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewScoringService creates a scoring service. cache may be nil.
func NewScoringService(
	model domain.FreshnessScorer,
	cache domain.CacheRepository,
	config ScoringServiceConfig,
	logger *zap.Logger,
) *ScoringService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ScoringService{
		model:    model,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Name reports the underlying model's name
func (s *ScoringService) Name() string {
	return s.model.Name()
}

// Score returns a sanitized score document for req.
// Flow: validate -> check cache -> call model -> sanitize -> cache -> return
func (s *ScoringService) Score(ctx context.Context, req *domain.AnalysisRequest) (*domain.RawScoreDocument, error) {
	if req == nil || strings.TrimSpace(req.Image) == "" || strings.TrimSpace(req.ProduceType) == "" {
		return nil, fmt.Errorf("%w: image and produce type are required", domain.ErrInvalidRequest)
	}

	cacheKey := generateScoreCacheKey(s.model.Name(), req)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		s.logger.Debug("[SCORING] Cache hit", zap.String("produce_type", req.ProduceType))
		return cached, nil
	}

	start := time.Now()
	raw, err := s.model.Score(ctx, req)
	if err != nil {
		s.logger.Warn("[SCORING] Model call failed",
			zap.String("model", s.model.Name()),
			zap.String("produce_type", req.ProduceType),
			zap.Error(err))
		return nil, err
	}

	doc := sanitizeScore(raw, req.ProduceType)
	s.logger.Info("[SCORING] Scored",
		zap.String("model", s.model.Name()),
		zap.String("produce_type", req.ProduceType),
		zap.Any("grade", doc.Grade),
		zap.Any("freshness_score", doc.FreshnessScore),
		zap.Duration("elapsed", time.Since(start)))

	if err := s.setInCache(ctx, cacheKey, doc); err != nil {
		s.logger.Warn("[SCORING] Cache write failed", zap.Error(err))
	}

	return doc, nil
}

// sanitizeScore bounds the model's answer to the ranges the prompt asks for
func sanitizeScore(raw *domain.RawScoreDocument, requestedType string) *domain.RawScoreDocument {
	if raw == nil {
		raw = &domain.RawScoreDocument{}
	}

	shelfLife, ok := parseLooseInt(raw.ShelfLifeDaysRemaining)
	if !ok {
		shelfLife = 0
	}

	grade := any(domain.DefaultGrade)
	if g, ok := looseString(raw.Grade); ok {
		grade = g
	}
	label := any(defaultRecommendedLabel)
	if l, ok := looseString(raw.RecommendedLabel); ok {
		label = l
	}
	notes := any(defaultNotes)
	if n, ok := looseString(raw.Notes); ok {
		notes = n
	}
	produceType := any(requestedType)
	if p, ok := looseString(raw.ProduceType); ok {
		produceType = p
	}

	return &domain.RawScoreDocument{
		ProduceType:            produceType,
		FreshnessScore:         clampFloat(parseLooseFloat(raw.FreshnessScore), 0, maxRawScore),
		Grade:                  grade,
		ShelfLifeDaysRemaining: shelfLife,
		DiscountRecommendation: clampFloat(parseLooseFloat(raw.DiscountRecommendation), 0, maxPriceReduction),
		RecommendedLabel:       label,
		Notes:                  notes,
	}
}

// parseLooseFloat reads the numeric prefix of v; anything unreadable is 0
func parseLooseFloat(v any) float64 {
	var f float64
	if s, ok := v.(string); ok {
		m := leadingFloatRegex.FindString(s)
		if m == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
		if err != nil {
			return 0
		}
		f = parsed
	} else {
		f = coerceNumber(v)
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// generateScoreCacheKey hashes the full request, image included.
// Format: "score:{model}:{sha256}"
func generateScoreCacheKey(model string, req *domain.AnalysisRequest) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(req)
	return fmt.Sprintf("score:%s:%s", model, hex.EncodeToString(h.Sum(nil)))
}

// getFromCache retrieves a sanitized document from cache
func (s *ScoringService) getFromCache(ctx context.Context, key string) (*domain.RawScoreDocument, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *domain.RawScoreDocument:
		return v, nil
	case map[string]interface{}:
		return mapToRawScore(v), nil
	default:
		return nil, domain.ErrCacheMiss
	}
}

// setInCache stores a sanitized document in cache
func (s *ScoringService) setInCache(ctx context.Context, key string, doc *domain.RawScoreDocument) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, doc, s.cacheTTL)
}

// mapToRawScore converts a map (from JSON cache) to a score document
func mapToRawScore(data map[string]interface{}) *domain.RawScoreDocument {
	return &domain.RawScoreDocument{
		ProduceType:            data["produce_type"],
		FreshnessScore:         data["freshness_score"],
		Grade:                  data["grade"],
		ShelfLifeDaysRemaining: data["shelf_life_days_remaining"],
		DiscountRecommendation: data["discount_recommendation"],
		RecommendedLabel:       data["recommended_label"],
		Notes:                  data["notes"],
	}
}
