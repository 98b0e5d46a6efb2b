package usecase

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/smartsave/freshness/internal/domain"
)

// simulatedKeywords is the vocabulary the random detection path draws from
var simulatedKeywords = []string{
	"red", "round", "fruit", "fresh", "tomato", "vegetable",
	"banana", "yellow", "apple", "orange", "strawberry", "lettuce", "green",
	"milk", "dairy", "carton", "cheese", "eggs", "yogurt",
}

// fixedDetection is a hard-coded detection used by override modes and filename hints
type fixedDetection struct {
	keywords   []string
	confidence int
}

var (
	bananaDetection = fixedDetection{keywords: []string{"banana", "yellow", "fruit"}, confidence: 94}
	tomatoDetection = fixedDetection{keywords: []string{"tomato", "red", "vegetable"}, confidence: 91}
	milkDetection   = fixedDetection{keywords: []string{"milk", "dairy", "white"}, confidence: 89}
)

// filenameHints are checked in order against the lowercased upload filename
var filenameHints = []struct {
	substring string
	detection fixedDetection
}{
	{"banana", bananaDetection},
	{"tomato", tomatoDetection},
	{"milk", milkDetection},
}

// Random draw bounds
const (
	minRandomKeywords     = 3
	maxRandomKeywords     = 5
	minRandomConfidence   = 70
	randomConfidenceRange = 20 // confidence in [70, 90)
	fallbackConfidence    = 70
)

// KeywordDetector simulates a vision model's keyword tagging for demos.
// All randomness comes from the injected generator so tests can pin it.
type KeywordDetector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewKeywordDetector creates a detector drawing from rng
func NewKeywordDetector(rng *rand.Rand) *KeywordDetector {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &KeywordDetector{rng: rng}
}

// Detect produces keyword tags and a confidence for an upload. Unknown modes
// behave like auto. The returned keyword list is never empty.
func (d *KeywordDetector) Detect(mode domain.DetectMode, filename string) domain.DetectionResult {
	result := domain.DetectionResult{Mode: mode}

	switch mode {
	case domain.DetectModeBananas:
		result.Keywords, result.Confidence = bananaDetection.copy()
	case domain.DetectModeTomatoes:
		result.Keywords, result.Confidence = tomatoDetection.copy()
	case domain.DetectModeMilk:
		result.Keywords, result.Confidence = milkDetection.copy()
	case domain.DetectModeRandom:
		result.Keywords = d.pickRandomKeywords()
		result.Confidence = d.randomConfidence()
	default:
		result.Mode = domain.DetectModeAuto
		name := strings.ToLower(filename)
		matched := false
		for _, hint := range filenameHints {
			if strings.Contains(name, hint.substring) {
				result.Keywords, result.Confidence = hint.detection.copy()
				matched = true
				break
			}
		}
		if !matched {
			result.Keywords = d.pickRandomKeywords()
			result.Confidence = d.randomConfidence()
		}
	}

	if len(result.Keywords) == 0 {
		result.Keywords = d.pickRandomKeywords()
		result.Confidence = fallbackConfidence
	}

	return result
}

// pickRandomKeywords draws 3-5 distinct keywords from the vocabulary
func (d *KeywordDetector) pickRandomKeywords() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	shuffled := make([]string, len(simulatedKeywords))
	copy(shuffled, simulatedKeywords)
	d.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := minRandomKeywords + d.rng.Intn(maxRandomKeywords-minRandomKeywords+1)
	return shuffled[:n]
}

func (d *KeywordDetector) randomConfidence() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return minRandomConfidence + d.rng.Intn(randomConfidenceRange)
}

func (f fixedDetection) copy() ([]string, int) {
	keywords := make([]string, len(f.keywords))
	copy(keywords, f.keywords)
	return keywords, f.confidence
}
