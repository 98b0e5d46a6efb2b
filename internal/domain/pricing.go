package domain

import "time"

// Rule trigger conditions
const (
	TriggerFreshnessScore = "freshness_score"
	TriggerShelfLife      = "shelf_life"
	TriggerExpiryDate     = "expiry_date"
	TriggerVisualQuality  = "visual_quality"
)

// Rule adjustment types
const (
	AdjustmentPercentage = "percentage"
	AdjustmentFixed      = "fixed"
	AdjustmentNewPrice   = "new_price"
)

// RuleCategoryAll applies a pricing rule to every category
const RuleCategoryAll = "all"

// ESLUpdateDraft is the pre-filled ESL update derived from an analysis.
// Callers may edit the fields before confirming it.
type ESLUpdateDraft struct {
	ProductName    string   `json:"productName"`
	SKU            string   `json:"sku,omitempty"`
	NewPrice       string   `json:"newPrice"` // formatted with 2 decimals
	DisplayMessage string   `json:"displayMessage"`
	DisplayColor   string   `json:"displayColor"`
	Actions        []string `json:"actions,omitempty"`
}

// PricingRuleDraft is the pre-filled dynamic pricing rule derived from an analysis
type PricingRuleDraft struct {
	Name           string  `json:"name"`
	Product        string  `json:"product"`
	Category       string  `json:"category,omitempty"`
	Condition      string  `json:"condition"`
	Threshold      float64 `json:"threshold"`
	Adjustment     float64 `json:"adjustment"`
	AdjustmentType string  `json:"adjustmentType"`
	AutoApply      bool    `json:"autoApply"`
}

// Drafts bundles both drafts derived from one analysis
type Drafts struct {
	ESL  ESLUpdateDraft   `json:"esl"`
	Rule PricingRuleDraft `json:"rule"`
}

// ESLUpdate is a confirmed ESL update handed to the pricing store
type ESLUpdate struct {
	ID        string         `json:"id"`
	Draft     ESLUpdateDraft `json:"draft"`
	NewPrice  float64        `json:"newPrice"`
	AppliedAt time.Time      `json:"appliedAt"`
}

// PricingRule is a confirmed pricing rule handed to the pricing store
type PricingRule struct {
	ID        string           `json:"id"`
	Draft     PricingRuleDraft `json:"draft"`
	Summary   []string         `json:"summary"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Confirmation is returned after a draft was accepted by the store
type Confirmation struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
