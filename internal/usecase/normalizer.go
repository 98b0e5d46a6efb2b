package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartsave/freshness/internal/domain"
)

// Bounds applied to the scoring backend's numbers
const (
	maxFreshnessPercent = 100
	maxRawScore         = 10
	maxPriceReduction   = 70
)

// Normalize turns a raw score document into bounded, presentable values.
// It never fails: every malformed or missing field falls back to a safe
// default, and the fallbacks that hide data problems are listed in Warnings.
// knownOriginalPrice is used only when it is a positive finite number.
func Normalize(raw *domain.RawScoreDocument, knownOriginalPrice *float64) domain.AnalysisResult {
	if raw == nil {
		raw = &domain.RawScoreDocument{}
	}

	var warnings []string

	// 1. freshness percentage
	rawScore := coerceNumber(raw.FreshnessScore)
	freshness := 0
	if isFinite(rawScore) {
		freshness = int(clampFloat(roundHalfUp(rawScore*10), 0, maxFreshnessPercent))
		if rawScore < 0 || rawScore > maxRawScore {
			warnings = append(warnings, fmt.Sprintf("freshness score %g outside 0-10; clamped", rawScore))
		}
	} else {
		warnings = append(warnings, "freshness score unavailable; freshness set to 0")
	}

	// 2. grade and its display bundle
	rawGrade, hasGrade := looseString(raw.Grade)
	grade := strings.ToUpper(rawGrade)
	display, knownGrade := domain.LookupGrade(grade)
	if !knownGrade {
		if hasGrade {
			warnings = append(warnings, fmt.Sprintf("grade %q not recognized; defaulted to %s", rawGrade, domain.DefaultGrade))
		} else {
			warnings = append(warnings, fmt.Sprintf("grade missing; defaulted to %s", domain.DefaultGrade))
		}
		grade = domain.DefaultGrade
		display, _ = domain.LookupGrade(grade)
	}

	// 3. price reduction
	discount := coerceNumber(raw.DiscountRecommendation)
	if math.IsNaN(discount) {
		discount = 0
	}
	if discount < 0 || discount > maxPriceReduction {
		warnings = append(warnings, fmt.Sprintf("discount %g%% outside 0-70; clamped", discount))
	}
	priceReduction := int(roundHalfUp(clampFloat(discount, 0, maxPriceReduction)))

	// 4. shelf life
	shelfLife, ok := parseLooseInt(raw.ShelfLifeDaysRemaining)
	if !ok || shelfLife < 0 {
		shelfLife = 0
	}

	// 5. suggested price
	var originalPrice *float64
	suggestedPrice := 0.0
	if knownOriginalPrice != nil && isFinite(*knownOriginalPrice) && *knownOriginalPrice > 0 {
		base := *knownOriginalPrice
		originalPrice = &base
		suggestedPrice = discountedPrice(base, priceReduction)
	}

	label := display.Label
	if recommended, ok := looseString(raw.RecommendedLabel); ok {
		label = recommended
	}
	notes, hasNotes := looseString(raw.Notes)
	produceType, _ := looseString(raw.ProduceType)

	// 6. factors, omitting absent entries
	factors := make([]string, 0, 3)
	if isFinite(rawScore) {
		factors = append(factors, fmt.Sprintf("AI score: %.1f/10", rawScore))
	} else {
		factors = append(factors, "AI score unavailable")
	}
	if knownGrade {
		factors = append(factors, "Grade "+grade)
	}
	if hasNotes {
		factors = append(factors, "Notes: "+notes)
	}

	// 7. ESL actions, always three in fixed order
	discountAction := fmt.Sprintf("Apply %d%% discount", priceReduction)
	if originalPrice != nil {
		discountAction = fmt.Sprintf("Apply %d%% discount → $%.2f", priceReduction, suggestedPrice)
	}
	eslActions := []string{
		fmt.Sprintf("Update ESL label to \"%s\"", label),
		discountAction,
		fmt.Sprintf("Highlight %s freshness", display.Condition),
	}

	return domain.AnalysisResult{
		Freshness:      freshness,
		ShelfLife:      shelfLife,
		SuggestedPrice: suggestedPrice,
		PriceReduction: priceReduction,
		Condition:      display.Condition,
		Factors:        factors,
		ESLActions:     eslActions,
		DisplayRecommendation: domain.DisplayRecommendation{
			Color:   display.Color,
			Message: label,
			Urgency: display.Urgency,
		},
		Grade:            grade,
		Label:            display.Label,
		RecommendedLabel: label,
		Notes:            notes,
		ProduceType:      produceType,
		OriginalPrice:    originalPrice,
		Source:           domain.SourceAI,
		Warnings:         warnings,
	}
}

// discountedPrice applies a whole-percent reduction and rounds to cents
func discountedPrice(base float64, reductionPercent int) float64 {
	price := decimal.NewFromFloat(base).
		Mul(decimal.NewFromInt(int64(100 - reductionPercent))).
		Div(decimal.NewFromInt(100)).
		Round(2)
	f, _ := price.Float64()
	return f
}
