package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smartsave/freshness/internal/domain"
)

const unknownProduct = "Unknown product"

// DeriveDrafts builds the ESL update and pricing rule drafts for one result.
// item may be nil when the product was never identified.
func DeriveDrafts(result domain.AnalysisResult, item *domain.InventoryItem) domain.Drafts {
	name := result.ProduceType
	var sku, category string
	if item != nil {
		if item.Name != "" {
			name = item.Name
		}
		sku = item.SKU
		category = string(item.Category)
	}
	if name == "" {
		name = unknownProduct
	}

	actions := make([]string, len(result.ESLActions))
	copy(actions, result.ESLActions)

	return domain.Drafts{
		ESL: domain.ESLUpdateDraft{
			ProductName:    name,
			SKU:            sku,
			NewPrice:       fmt.Sprintf("%.2f", result.SuggestedPrice),
			DisplayMessage: result.DisplayRecommendation.Message,
			DisplayColor:   result.DisplayRecommendation.Color,
			Actions:        actions,
		},
		Rule: domain.PricingRuleDraft{
			Name:           "Freshness Rule - " + name,
			Product:        name,
			Category:       category,
			Condition:      domain.TriggerFreshnessScore,
			Threshold:      float64(result.Freshness),
			Adjustment:     float64(result.PriceReduction),
			AdjustmentType: domain.AdjustmentPercentage,
			AutoApply:      true,
		},
	}
}

// RuleSummary renders the human-readable lines describing a rule draft
func RuleSummary(rule domain.PricingRuleDraft) []string {
	product := rule.Product
	if product == "" {
		product = "Not specified"
	}
	category := rule.Category
	if category == "" {
		category = "No category"
	}

	threshold := "threshold"
	if rule.Threshold != 0 {
		threshold = formatAmount(rule.Threshold)
	}

	var action string
	switch rule.AdjustmentType {
	case domain.AdjustmentPercentage:
		action = fmt.Sprintf("Apply %s%% discount", formatAmount(rule.Adjustment))
	case domain.AdjustmentFixed:
		action = fmt.Sprintf("Apply $%s discount", formatAmount(rule.Adjustment))
	default:
		action = fmt.Sprintf("Apply $%s as new price", formatAmount(rule.Adjustment))
	}

	autoApply := "No"
	if rule.AutoApply {
		autoApply = "Yes"
	}

	return []string{
		fmt.Sprintf("Product: %s (%s)", product, category),
		fmt.Sprintf("Trigger: When %s is below %s", strings.ReplaceAll(rule.Condition, "_", " "), threshold),
		"Action: " + action,
		"Auto-apply: " + autoApply,
	}
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
