package vision

import (
	"strconv"
	"strings"

	"github.com/smartsave/freshness/internal/domain"
)

// SystemMessage is sent as the system role with every scoring prompt
const SystemMessage = "You are a food retail pricing expert. Always respond with valid JSON only, no additional text."

// scoringPrompt is the inspection instruction. The weights, grade bands,
// discount bands and labels are what the normalizer's defaults assume, so
// the text must not drift.
const scoringPrompt = `You are an AI produce quality inspector and pricing assistant.

Given an image or textual description of a perishable produce item, evaluate its current freshness and recommend an appropriate discount.

Follow these steps:

1. Evaluate the following parameters (0-10 scale):
   - Colour: Brightness and ripeness quality (Deep red/orange vs dull) - Weight: 0.2
   - Firmness: Resistance to touch (Firm = fresh, Soft = near spoilage) - Weight: 0.3
   - Surface Condition: Scratches, mold, bruises (Clean = 10, minor blemish = 7, mold = 0) - Weight: 0.2
   - Smell/Aroma: Fermented or off-smell reduces score (Normal = 10, sour = 5) - Weight: 0.1
   - Expected Shelf Life Remaining: Estimated days based on current condition (Fresh = 10, Overripe = 3) - Weight: 0.2

2. Compute the Freshness Score using the formula:
   Freshness Score = (Colour×0.2 + Firmness×0.3 + Surface×0.2 + Smell×0.1 + ShelfLife×0.2)

3. Determine Grade based on Freshness Score:
   - Grade A: 8.5-10 (Fresh and firm, 5-7 days shelf life)
   - Grade B: 7-8.4 (Ripe and good, 2-4 days shelf life)
   - Grade C: 5-6.9 (Softening, dull colour, 1-2 days shelf life)
   - Grade D: <5 (Overripe, damaged, <1 day shelf life)

4. Determine Discount Recommendation based on Grade:
   - Grade A: 0-10% discount
   - Grade B: 20-30% discount
   - Grade C: 35-50% discount
   - Grade D: 60%+ discount

5. Provide recommended label:
   - Grade A: "Fresh Pick"
   - Grade B: "Ripe Today"
   - Grade C: "Use Soon"
   - Grade D: "Process Immediately"

Product Information:
- Produce Type: {{produce_type}}
- Days Since Harvest: {{days_since_harvest}}
- Storage Condition: {{storage_condition}}
- Observations: {{observations}}

Output strictly in this JSON format:
{
  "produce_type": "{{produce_type}}",
  "freshness_score": <calculated score 0-10>,
  "grade": "<A/B/C/D>",
  "shelf_life_days_remaining": <integer>,
  "discount_recommendation": <percentage 0-70>,
  "recommended_label": "<short label>",
  "notes": "<brief explanation of the evaluation>"
}`

// BuildPrompt fills the product information into the scoring prompt
func BuildPrompt(req *domain.AnalysisRequest) string {
	observations := req.Observations
	if observations == "" {
		observations = "None provided"
	}

	return strings.NewReplacer(
		"{{produce_type}}", req.ProduceType,
		"{{days_since_harvest}}", strconv.Itoa(req.DaysSinceHarvest),
		"{{storage_condition}}", req.StorageCondition,
		"{{observations}}", observations,
	).Replace(scoringPrompt)
}
