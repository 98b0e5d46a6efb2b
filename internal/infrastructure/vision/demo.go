package vision

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/smartsave/freshness/internal/domain"
)

// bandDefaults are the mid-band values the prompt asks a model to use per grade
var bandDefaults = map[string]struct {
	discount     int
	minShelfLife int
	maxShelfLife int
}{
	"A": {discount: 5, minShelfLife: 5, maxShelfLife: 7},
	"B": {discount: 25, minShelfLife: 2, maxShelfLife: 4},
	"C": {discount: 40, minShelfLife: 1, maxShelfLife: 2},
	"D": {discount: 60, minShelfLife: 0, maxShelfLife: 0},
}

// DemoScorer simulates a model answer when no vision backend is available.
// Scores decay with days since harvest and get a little noise from rng.
type DemoScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDemoScorer creates a simulated scorer drawing from rng
func NewDemoScorer(rng *rand.Rand) *DemoScorer {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &DemoScorer{rng: rng}
}

func (d *DemoScorer) Name() string { return "demo" }

// Score returns a plausible document following the prompt's grade bands
func (d *DemoScorer) Score(ctx context.Context, req *domain.AnalysisRequest) (*domain.RawScoreDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	noise := d.rng.Float64()*1.6 - 0.8
	shelfRoll := d.rng.Intn(3)
	d.mu.Unlock()

	score := 9.8 - 0.6*float64(req.DaysSinceHarvest) + noise
	if req.StorageCondition == domain.StorageRefrigerated || req.StorageCondition == domain.StorageControlledAtmosphere {
		score += 0.4
	}
	score = math.Round(math.Max(1, math.Min(10, score))*10) / 10

	grade := domain.GradeForScore(score)
	display, _ := domain.LookupGrade(grade)
	band := bandDefaults[grade]
	shelfLife := band.minShelfLife + shelfRoll%(band.maxShelfLife-band.minShelfLife+1)

	return &domain.RawScoreDocument{
		ProduceType:            req.ProduceType,
		FreshnessScore:         score,
		Grade:                  grade,
		ShelfLifeDaysRemaining: shelfLife,
		DiscountRecommendation: band.discount,
		RecommendedLabel:       display.Label,
		Notes: fmt.Sprintf("Simulated assessment for %s after %d days (%s); no vision model was consulted",
			req.ProduceType, req.DaysSinceHarvest, req.StorageCondition),
	}, nil
}
