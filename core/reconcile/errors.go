package reconcile

import (
	"fmt"
	"strings"

	"commerce-sync/core/apperrors"
)

// ErrorCategory is re-exported so adapters only depend on this package.
type ErrorCategory = apperrors.Category

// ValidationError reports required fields missing from a source entity.
// The engine quarantines the entity instead of counting an error.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Category implements apperrors.Categorized.
func (e *ValidationError) Category() apperrors.Category {
	return apperrors.CategoryValidation
}

// NewValidationError returns nil when nothing is missing.
func NewValidationError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}
