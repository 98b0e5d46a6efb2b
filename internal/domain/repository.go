package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FreshnessScorer produces a RawScoreDocument from an image and its metadata.
// Model clients, the remote scoring backend and the simulated demo scorer all
// implement it, so any of them can feed the normalizer.
type FreshnessScorer interface {
	Name() string
	Score(ctx context.Context, req *AnalysisRequest) (*RawScoreDocument, error)
}

// KeywordDetector produces descriptive keywords for an uploaded image
type KeywordDetector interface {
	Detect(mode DetectMode, filename string) DetectionResult
}

// CatalogRepository gives read-only access to the sample inventory
type CatalogRepository interface {
	All() []InventoryItem
	FindBySKU(sku string) (*InventoryItem, bool)
}

// PricingStore persists confirmed ESL updates and pricing rules
type PricingStore interface {
	SaveESLUpdate(ctx context.Context, update *ESLUpdate) error
	SavePricingRule(ctx context.Context, rule *PricingRule) error
	ListPricingRules(ctx context.Context) ([]PricingRule, error)
}

// ImageArchive keeps a copy of analyzed images
type ImageArchive interface {
	Store(ctx context.Context, key string, data []byte, contentType string) error
}
