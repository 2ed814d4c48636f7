// Package apiclient is the HTTP transport shared by the ERP and storefront
// clients.
//
// Requests are JSON in both directions. Transient failures (network errors,
// 429 and 5xx responses) are retried with exponential backoff from
// github.com/cenkalti/backoff/v4; everything else fails immediately.
//
// Every non-2xx response becomes an *Error carrying an apperrors.Category
// derived from the status and from the machine-readable "code" in the
// response body. The reconciliation engine keys its fallback rules on that
// category instead of on message text.
package apiclient
