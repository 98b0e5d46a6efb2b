package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// DecodeImage decodes a base64 image payload. Whitespace anywhere in the
// payload is ignored and trailing padding is optional.
func DecodeImage(payload string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(compact)
	if err == nil {
		return data, nil
	}
	data, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(compact, "="))
	if rawErr == nil {
		return data, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
}
