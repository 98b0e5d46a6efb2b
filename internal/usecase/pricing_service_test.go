package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/smartsave/freshness/internal/domain"
)

func TestApplyESLUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("records update and confirms", func(t *testing.T) {
		store := &MockPricingStore{}
		svc := NewPricingService(store, nil)

		conf, err := svc.ApplyESLUpdate(ctx, domain.ESLUpdateDraft{
			ProductName:    "Organic Bananas",
			NewPrice:       "9.5",
			DisplayMessage: "Fresh Pick",
			DisplayColor:   domain.ColorGreen,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conf.Message != "Successfully updated ESL for Organic Bananas with new price $9.50" {
			t.Errorf("Message = %q", conf.Message)
		}
		if len(store.updates) != 1 {
			t.Fatalf("stored %d updates, want 1", len(store.updates))
		}
		stored := store.updates[0]
		if stored.ID != conf.ID || stored.ID == "" {
			t.Errorf("stored ID = %q, confirmation ID = %q", stored.ID, conf.ID)
		}
		if stored.NewPrice != 9.5 || stored.Draft.NewPrice != "9.50" {
			t.Errorf("stored price = %v / %q", stored.NewPrice, stored.Draft.NewPrice)
		}
	})

	t.Run("blue is a valid display color", func(t *testing.T) {
		svc := NewPricingService(&MockPricingStore{}, nil)
		_, err := svc.ApplyESLUpdate(ctx, domain.ESLUpdateDraft{ProductName: "Eggs", NewPrice: "2.00", DisplayColor: domain.ColorBlue})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	invalid := []struct {
		name  string
		draft domain.ESLUpdateDraft
	}{
		{"missing product", domain.ESLUpdateDraft{NewPrice: "1.00", DisplayColor: domain.ColorRed}},
		{"non-numeric price", domain.ESLUpdateDraft{ProductName: "Eggs", NewPrice: "cheap", DisplayColor: domain.ColorRed}},
		{"negative price", domain.ESLUpdateDraft{ProductName: "Eggs", NewPrice: "-1", DisplayColor: domain.ColorRed}},
		{"unknown color", domain.ESLUpdateDraft{ProductName: "Eggs", NewPrice: "1.00", DisplayColor: "purple"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockPricingStore{}
			_, err := NewPricingService(store, nil).ApplyESLUpdate(ctx, tt.draft)
			if !errors.Is(err, domain.ErrInvalidDraft) {
				t.Errorf("error = %v, want ErrInvalidDraft", err)
			}
			if len(store.updates) != 0 {
				t.Error("invalid draft must not be stored")
			}
		})
	}

	t.Run("store failure is returned", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		svc := NewPricingService(&MockPricingStore{saveErr: storeErr}, nil)
		_, err := svc.ApplyESLUpdate(ctx, domain.ESLUpdateDraft{ProductName: "Eggs", NewPrice: "1", DisplayColor: domain.ColorRed})
		if !errors.Is(err, storeErr) {
			t.Errorf("error = %v, want wrapped store error", err)
		}
	})
}

func TestCreatePricingRule(t *testing.T) {
	ctx := context.Background()

	valid := domain.PricingRuleDraft{
		Name:           "Freshness Rule - Organic Bananas",
		Product:        "Organic Bananas",
		Category:       "fruits",
		Condition:      domain.TriggerFreshnessScore,
		Threshold:      92,
		Adjustment:     5,
		AdjustmentType: domain.AdjustmentPercentage,
		AutoApply:      true,
	}

	t.Run("records rule with summary", func(t *testing.T) {
		store := &MockPricingStore{}
		svc := NewPricingService(store, nil)

		conf, err := svc.CreatePricingRule(ctx, valid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conf.Message != `Successfully created rule "Freshness Rule - Organic Bananas" for Organic Bananas` {
			t.Errorf("Message = %q", conf.Message)
		}
		if len(store.rules) != 1 {
			t.Fatalf("stored %d rules, want 1", len(store.rules))
		}
		if len(store.rules[0].Summary) != 4 {
			t.Errorf("Summary = %v, want 4 lines", store.rules[0].Summary)
		}

		rules, err := svc.ListPricingRules(ctx)
		if err != nil || len(rules) != 1 {
			t.Errorf("ListPricingRules() = %v, %v", rules, err)
		}
	})

	t.Run("all category accepted", func(t *testing.T) {
		d := valid
		d.Category = domain.RuleCategoryAll
		if _, err := NewPricingService(&MockPricingStore{}, nil).CreatePricingRule(ctx, d); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	invalid := []struct {
		name   string
		mutate func(d *domain.PricingRuleDraft)
	}{
		{"blank name", func(d *domain.PricingRuleDraft) { d.Name = "  " }},
		{"blank product", func(d *domain.PricingRuleDraft) { d.Product = "" }},
		{"unknown category", func(d *domain.PricingRuleDraft) { d.Category = "toys" }},
		{"unknown trigger", func(d *domain.PricingRuleDraft) { d.Condition = "weather" }},
		{"negative threshold", func(d *domain.PricingRuleDraft) { d.Threshold = -1 }},
		{"negative adjustment", func(d *domain.PricingRuleDraft) { d.Adjustment = -5 }},
		{"percentage above 100", func(d *domain.PricingRuleDraft) { d.Adjustment = 120 }},
		{"unknown adjustment type", func(d *domain.PricingRuleDraft) { d.AdjustmentType = "bogo" }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			_, err := NewPricingService(&MockPricingStore{}, nil).CreatePricingRule(ctx, d)
			if !errors.Is(err, domain.ErrInvalidDraft) {
				t.Errorf("error = %v, want ErrInvalidDraft", err)
			}
		})
	}
}
