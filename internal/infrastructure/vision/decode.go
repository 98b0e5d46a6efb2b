package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smartsave/freshness/internal/domain"
)

// decodeScore parses a model's text answer into a raw score document.
// Models sometimes wrap JSON in markdown fences despite being told not to.
func decodeScore(provider, text string) (*domain.RawScoreDocument, error) {
	text = stripCodeFences(text)
	if text == "" {
		return nil, &domain.ScoringError{Message: fmt.Sprintf("No response from %s", provider)}
	}

	var doc domain.RawScoreDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &domain.ScoringError{
			Message: fmt.Sprintf("%s returned invalid JSON: %v", provider, err),
		}
	}
	return &doc, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// credentialError reports a missing provider key the way the scoring backend surfaces it
func credentialError(envName string) error {
	return &domain.ScoringError{
		Message: envName + " is not configured on the server",
		Err:     domain.ErrCredentialMissing,
	}
}

func ptrFloat32(v float32) *float32 { return &v }

func ptrInt32(v int32) *int32 { return &v }
