// Package apperrors holds the sentinel errors shared across the service and the
// error category taxonomy used by the API clients and the reconciliation engine.
//
// External calls return errors implementing Categorized. The engine uses
// Classify to decide whether a declared fallback rule applies, and the HTTP
// client uses IsRetryable to decide whether to back off and try again.
package apperrors
