package apperrors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrLockHeld       = errors.New("run lock held by another worker")
)

// Category classifies a failure coming back from an external system so that
// callers can pick a recovery rule without matching on error text.
type Category string

const (
	CategoryUnknown           Category = "unknown"
	CategoryTransient         Category = "transient"
	CategoryValidation        Category = "validation"
	CategoryNotFound          Category = "not_found"
	CategoryConflict          Category = "conflict"
	CategoryAttributeConflict Category = "attribute_conflict"
	CategoryAuth              Category = "auth"
)

// Categorized is implemented by errors that carry a Category.
type Categorized interface {
	Category() Category
}

// Classify walks the error chain and returns the first category found.
func Classify(err error) Category {
	if err == nil {
		return ""
	}
	var c Categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	if errors.Is(err, ErrNotFound) {
		return CategoryNotFound
	}
	if errors.Is(err, ErrConflict) {
		return CategoryConflict
	}
	return CategoryUnknown
}

// IsRetryable reports whether the failure is worth another attempt.
func IsRetryable(err error) bool {
	return Classify(err) == CategoryTransient
}
