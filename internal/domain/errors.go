package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingImage is returned when an analysis is requested without image data
	ErrMissingImage = errors.New("image is required")

	// ErrInvalidImage is returned when the image payload is not valid base64
	ErrInvalidImage = errors.New("unable to read image data")

	// ErrMissingProductName is returned when neither detection nor the caller named the product
	ErrMissingProductName = errors.New("product name is required before running analysis")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when a SKU is not in the catalog
	ErrProductNotFound = errors.New("product not found in inventory")

	// ErrScoringFailed is returned when the scoring backend or model call fails
	ErrScoringFailed = errors.New("freshness scoring failed")

	// ErrScoringTimeout is returned when the scoring call exceeds its deadline
	ErrScoringTimeout = errors.New("freshness scoring timed out")

	// ErrCredentialMissing is returned when the model provider credential is not configured
	ErrCredentialMissing = errors.New("model provider credential is not configured")

	// ErrInvalidDraft is returned when an ESL update or pricing rule draft fails validation
	ErrInvalidDraft = errors.New("invalid draft")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// ScoringError carries the best available message for a failed scoring call.
// Message prefers an error string supplied by the backend over a generic one.
type ScoringError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ScoringError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Unwrap matches ErrScoringFailed as well as the underlying cause
func (e *ScoringError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrScoringFailed, e.Err}
	}
	return []error{ErrScoringFailed}
}
