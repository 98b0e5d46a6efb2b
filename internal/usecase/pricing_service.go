package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartsave/freshness/internal/domain"
)

// PricingService confirms drafts by handing them to the pricing store
type PricingService struct {
	store  domain.PricingStore
	logger *zap.Logger
	now    func() time.Time
}

// NewPricingService creates a pricing service over store
func NewPricingService(store domain.PricingStore, logger *zap.Logger) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{store: store, logger: logger, now: time.Now}
}

// ApplyESLUpdate validates a (possibly edited) ESL draft and records it
func (s *PricingService) ApplyESLUpdate(ctx context.Context, draft domain.ESLUpdateDraft) (*domain.Confirmation, error) {
	draft.ProductName = strings.TrimSpace(draft.ProductName)
	if draft.ProductName == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidDraft)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(draft.NewPrice))
	if err != nil {
		return nil, fmt.Errorf("%w: new price %q is not a number", domain.ErrInvalidDraft, draft.NewPrice)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: new price must not be negative", domain.ErrInvalidDraft)
	}
	price = price.Round(2)
	draft.NewPrice = price.StringFixed(2)

	if !isValidDisplayColor(draft.DisplayColor) {
		return nil, fmt.Errorf("%w: display color %q is not one of green, yellow, red, blue", domain.ErrInvalidDraft, draft.DisplayColor)
	}

	newPrice, _ := price.Float64()
	update := &domain.ESLUpdate{
		ID:        uuid.NewString(),
		Draft:     draft,
		NewPrice:  newPrice,
		AppliedAt: s.now().UTC(),
	}
	if err := s.store.SaveESLUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("saving ESL update: %w", err)
	}

	s.logger.Info("[PRICING] ESL update applied",
		zap.String("id", update.ID),
		zap.String("product", draft.ProductName),
		zap.String("price", draft.NewPrice))

	return &domain.Confirmation{
		ID:      update.ID,
		Message: fmt.Sprintf("Successfully updated ESL for %s with new price $%s", draft.ProductName, draft.NewPrice),
	}, nil
}

// CreatePricingRule validates a (possibly edited) rule draft and records it
func (s *PricingService) CreatePricingRule(ctx context.Context, draft domain.PricingRuleDraft) (*domain.Confirmation, error) {
	if err := validateRuleDraft(&draft); err != nil {
		return nil, err
	}

	rule := &domain.PricingRule{
		ID:        uuid.NewString(),
		Draft:     draft,
		Summary:   RuleSummary(draft),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SavePricingRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("saving pricing rule: %w", err)
	}

	s.logger.Info("[PRICING] Rule created",
		zap.String("id", rule.ID),
		zap.String("name", draft.Name),
		zap.String("product", draft.Product))

	return &domain.Confirmation{
		ID:      rule.ID,
		Message: fmt.Sprintf("Successfully created rule %q for %s", draft.Name, draft.Product),
	}, nil
}

// ListPricingRules returns every confirmed rule
func (s *PricingService) ListPricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	rules, err := s.store.ListPricingRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pricing rules: %w", err)
	}
	return rules, nil
}

func validateRuleDraft(d *domain.PricingRuleDraft) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Product = strings.TrimSpace(d.Product)
	d.Category = strings.TrimSpace(d.Category)

	if d.Name == "" {
		return fmt.Errorf("%w: rule name is required", domain.ErrInvalidDraft)
	}
	if d.Product == "" {
		return fmt.Errorf("%w: product is required", domain.ErrInvalidDraft)
	}
	if d.Category != "" && d.Category != domain.RuleCategoryAll && !domain.Category(d.Category).IsValid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidDraft, d.Category)
	}

	switch d.Condition {
	case domain.TriggerFreshnessScore, domain.TriggerShelfLife, domain.TriggerExpiryDate, domain.TriggerVisualQuality:
	default:
		return fmt.Errorf("%w: unknown trigger condition %q", domain.ErrInvalidDraft, d.Condition)
	}

	if d.Threshold < 0 {
		return fmt.Errorf("%w: threshold must not be negative", domain.ErrInvalidDraft)
	}
	if d.Adjustment < 0 {
		return fmt.Errorf("%w: adjustment must not be negative", domain.ErrInvalidDraft)
	}

	switch d.AdjustmentType {
	case domain.AdjustmentPercentage:
		if d.Adjustment > 100 {
			return fmt.Errorf("%w: percentage adjustment above 100", domain.ErrInvalidDraft)
		}
	case domain.AdjustmentFixed, domain.AdjustmentNewPrice:
	default:
		return fmt.Errorf("%w: unknown adjustment type %q", domain.ErrInvalidDraft, d.AdjustmentType)
	}

	return nil
}

func isValidDisplayColor(c string) bool {
	switch c {
	case domain.ColorGreen, domain.ColorYellow, domain.ColorRed, domain.ColorBlue:
		return true
	}
	return false
}
