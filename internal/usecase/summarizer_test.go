package usecase

import (
	"reflect"
	"testing"

	"github.com/smartsave/freshness/internal/domain"
)

func TestDeriveDrafts(t *testing.T) {
	result := Normalize(&domain.RawScoreDocument{
		FreshnessScore:         9.2,
		Grade:                  "A",
		ShelfLifeDaysRemaining: 6,
		DiscountRecommendation: 5,
	}, price(10.00))

	t.Run("with identified item", func(t *testing.T) {
		banana := testCatalog().items[0]
		drafts := DeriveDrafts(result, &banana)

		wantESL := domain.ESLUpdateDraft{
			ProductName:    "Organic Bananas",
			SKU:            "PRD-BAN-001",
			NewPrice:       "9.50",
			DisplayMessage: "Fresh Pick",
			DisplayColor:   domain.ColorGreen,
			Actions:        result.ESLActions,
		}
		if !reflect.DeepEqual(drafts.ESL, wantESL) {
			t.Errorf("ESL draft = %+v\nwant %+v", drafts.ESL, wantESL)
		}

		wantRule := domain.PricingRuleDraft{
			Name:           "Freshness Rule - Organic Bananas",
			Product:        "Organic Bananas",
			Category:       "fruits",
			Condition:      domain.TriggerFreshnessScore,
			Threshold:      92,
			Adjustment:     5,
			AdjustmentType: domain.AdjustmentPercentage,
			AutoApply:      true,
		}
		if drafts.Rule != wantRule {
			t.Errorf("Rule draft = %+v\nwant %+v", drafts.Rule, wantRule)
		}
	})

	t.Run("falls back to produce type", func(t *testing.T) {
		r := result
		r.ProduceType = "bananas"
		drafts := DeriveDrafts(r, nil)
		if drafts.ESL.ProductName != "bananas" {
			t.Errorf("ProductName = %q, want bananas", drafts.ESL.ProductName)
		}
		if drafts.Rule.Category != "" {
			t.Errorf("Category = %q, want empty", drafts.Rule.Category)
		}
	})

	t.Run("unknown product without price", func(t *testing.T) {
		drafts := DeriveDrafts(Normalize(&domain.RawScoreDocument{Grade: "D"}, nil), nil)
		if drafts.ESL.ProductName != unknownProduct {
			t.Errorf("ProductName = %q, want %q", drafts.ESL.ProductName, unknownProduct)
		}
		if drafts.ESL.NewPrice != "0.00" {
			t.Errorf("NewPrice = %q, want 0.00", drafts.ESL.NewPrice)
		}
		if drafts.ESL.DisplayColor != domain.ColorRed {
			t.Errorf("DisplayColor = %q, want red", drafts.ESL.DisplayColor)
		}
	})

	t.Run("actions are copied", func(t *testing.T) {
		drafts := DeriveDrafts(result, nil)
		drafts.ESL.Actions[0] = "changed"
		if result.ESLActions[0] == "changed" {
			t.Error("draft shares the result's action slice")
		}
	})
}

func TestRuleSummary(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.PricingRuleDraft
		want  []string
	}{
		{
			name: "percentage rule",
			draft: domain.PricingRuleDraft{
				Product: "Organic Bananas", Category: "fruits", Condition: domain.TriggerFreshnessScore,
				Threshold: 92, Adjustment: 5, AdjustmentType: domain.AdjustmentPercentage, AutoApply: true,
			},
			want: []string{
				"Product: Organic Bananas (fruits)",
				"Trigger: When freshness score is below 92",
				"Action: Apply 5% discount",
				"Auto-apply: Yes",
			},
		},
		{
			name: "fixed rule with blanks",
			draft: domain.PricingRuleDraft{
				Condition: domain.TriggerShelfLife, Adjustment: 1.5, AdjustmentType: domain.AdjustmentFixed,
			},
			want: []string{
				"Product: Not specified (No category)",
				"Trigger: When shelf life is below threshold",
				"Action: Apply $1.5 discount",
				"Auto-apply: No",
			},
		},
		{
			name: "new price rule",
			draft: domain.PricingRuleDraft{
				Product: "Whole Milk", Category: "dairy", Condition: domain.TriggerExpiryDate,
				Threshold: 2, Adjustment: 2.99, AdjustmentType: domain.AdjustmentNewPrice,
			},
			want: []string{
				"Product: Whole Milk (dairy)",
				"Trigger: When expiry date is below 2",
				"Action: Apply $2.99 as new price",
				"Auto-apply: No",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleSummary(tt.draft)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RuleSummary() = %v\nwant %v", got, tt.want)
			}
		})
	}
}
