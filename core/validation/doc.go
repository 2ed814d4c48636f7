// Package validation wraps go-playground/validator to turn struct validation
// failures into the list of missing field names stored with quarantined
// records.
package validation
