package domain

// DetectMode selects how the simulated keyword detector picks its keywords
type DetectMode string

const (
	DetectModeAuto     DetectMode = "auto"
	DetectModeRandom   DetectMode = "random"
	DetectModeBananas  DetectMode = "bananas"
	DetectModeTomatoes DetectMode = "tomatoes"
	DetectModeMilk     DetectMode = "milk"
)

// DetectionResult is produced fresh for every analysis attempt
type DetectionResult struct {
	Mode       DetectMode     `json:"mode"`
	Keywords   []string       `json:"keywords"`
	Confidence int            `json:"confidence"` // 0-100
	Identified *InventoryItem `json:"identified"`
}
