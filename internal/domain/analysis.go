package domain

// Storage conditions understood by the scoring prompt
const (
	StorageRoomTemperature      = "Room temperature"
	StorageRefrigerated         = "Refrigerated"
	StorageFrozen               = "Frozen"
	StorageControlledAtmosphere = "Controlled atmosphere"
)

// IsValidStorageCondition reports whether s is one of the fixed storage conditions
func IsValidStorageCondition(s string) bool {
	switch s {
	case StorageRoomTemperature, StorageRefrigerated, StorageFrozen, StorageControlledAtmosphere:
		return true
	}
	return false
}

// AnalysisRequest is the payload sent to the scoring backend
type AnalysisRequest struct {
	Image            string `json:"image" binding:"required"` // base64, no data URL prefix
	ProduceType      string `json:"produce_type" binding:"required"`
	DaysSinceHarvest int    `json:"days_since_harvest"`
	StorageCondition string `json:"storage_condition"`
	Observations     string `json:"observations"`
}

// RawScoreDocument is the scoring backend's response before validation.
// Every field is untrusted and may be missing, mistyped or out of range.
type RawScoreDocument struct {
	ProduceType            any `json:"produce_type,omitempty"`
	FreshnessScore         any `json:"freshness_score"`
	Grade                  any `json:"grade"`
	ShelfLifeDaysRemaining any `json:"shelf_life_days_remaining"`
	DiscountRecommendation any `json:"discount_recommendation"`
	RecommendedLabel       any `json:"recommended_label"`
	Notes                  any `json:"notes"`
}

// Display colors and urgency levels for ESL recommendations
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
	ColorBlue   = "blue"

	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Result sources
const (
	SourceAI   = "ai"
	SourceDemo = "demo"
)

// GradeDisplay is the presentation bundle tied to a freshness grade
type GradeDisplay struct {
	Condition string
	Color     string
	Urgency   string
	Label     string
}

// DefaultGrade is used whenever the backend grade is missing or unrecognized
const DefaultGrade = "C"

// gradeTable is the single source for condition, color, urgency and label
var gradeTable = map[string]GradeDisplay{
	"A": {Condition: "Excellent", Color: ColorGreen, Urgency: UrgencyLow, Label: "Fresh Pick"},
	"B": {Condition: "Good", Color: ColorYellow, Urgency: UrgencyMedium, Label: "Ripe Today"},
	"C": {Condition: "Fair", Color: ColorYellow, Urgency: UrgencyMedium, Label: "Use Soon"},
	"D": {Condition: "Poor", Color: ColorRed, Urgency: UrgencyHigh, Label: "Process Immediately"},
}

// LookupGrade returns the display bundle for grade and whether grade is known
func LookupGrade(grade string) (GradeDisplay, bool) {
	d, ok := gradeTable[grade]
	return d, ok
}

// GradeForScore buckets a 0-10 freshness score into a grade using the
// bands the scoring prompt instructs the model to follow.
func GradeForScore(score float64) string {
	switch {
	case score >= 8.5:
		return "A"
	case score >= 7:
		return "B"
	case score >= 5:
		return "C"
	default:
		return "D"
	}
}

// DisplayRecommendation drives what the ESL shows
type DisplayRecommendation struct {
	Color   string `json:"color"`
	Message string `json:"message"`
	Urgency string `json:"urgency"`
}

// AnalysisResult is the normalized, presentable output of one analysis
type AnalysisResult struct {
	Freshness             int                   `json:"freshness"` // 0-100
	ShelfLife             int                   `json:"shelfLife"`
	SuggestedPrice        float64               `json:"suggestedPrice"`
	PriceReduction        int                   `json:"priceReduction"` // 0-70
	Condition             string                `json:"condition"`
	Factors               []string              `json:"factors"`
	ESLActions            []string              `json:"eslActions"`
	DisplayRecommendation DisplayRecommendation `json:"displayRecommendation"`

	Grade            string   `json:"grade"`
	Label            string   `json:"label"`
	RecommendedLabel string   `json:"recommendedLabel"`
	Notes            string   `json:"notes,omitempty"`
	ProduceType      string   `json:"produceType,omitempty"`
	OriginalPrice    *float64 `json:"originalPrice"`
	Source           string   `json:"source"`
	Warnings         []string `json:"warnings,omitempty"`
}

// HasPriceComparison reports whether a base price was known, so a display
// can show "was/now" prices instead of "no comparison available".
func (r *AnalysisResult) HasPriceComparison() bool {
	return r.OriginalPrice != nil
}
