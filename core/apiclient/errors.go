package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"commerce-sync/core/apperrors"
)

// attributeConflictCodes are error codes the storefront returns when a
// variation attribute (color, size) collides with an existing one.
var attributeConflictCodes = []string{
	"color_attribute_already_exists",
	"attribute_already_exists",
	"variation_attribute_conflict",
}

// Error is a failed call to an external API.
type Error struct {
	Method string
	URL    string
	Status int
	// Code is the machine-readable code from the response body, if any.
	Code    string
	Message string
	Body    string
	Kind    apperrors.Category
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	case e.Code != "":
		return fmt.Sprintf("%s %s: status %d (%s): %s", e.Method, e.URL, e.Status, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Category implements apperrors.Categorized.
func (e *Error) Category() apperrors.Category {
	return e.Kind
}

// errorBody covers the error envelopes returned by both APIs.
type errorBody struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newError(method, url string, status int, body []byte) *Error {
	e := &Error{Method: method, URL: url, Status: status, Body: truncate(string(body), 512)}

	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		e.Code = parsed.Code
		e.Message = parsed.Message
		if e.Message == "" {
			e.Message = parsed.Error
		}
		if e.Code == "" && len(parsed.Errors) > 0 {
			e.Code = parsed.Errors[0].Code
			if e.Message == "" {
				e.Message = parsed.Errors[0].Message
			}
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	e.Kind = categorize(status, e.Code)
	return e
}

func categorize(status int, code string) apperrors.Category {
	switch {
	case status == http.StatusTooManyRequests || status >= 500:
		return apperrors.CategoryTransient
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.CategoryAuth
	case status == http.StatusNotFound:
		return apperrors.CategoryNotFound
	case slices.Contains(attributeConflictCodes, code):
		return apperrors.CategoryAttributeConflict
	case status == http.StatusConflict:
		return apperrors.CategoryConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.CategoryValidation
	default:
		return apperrors.CategoryUnknown
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
