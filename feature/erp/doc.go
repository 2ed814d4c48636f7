// Package erp is a typed client for the ERP REST API (products, customers
// and sales).
//
// The ERP is the source of truth for products and the target for customers
// and orders. Requests authenticate with the access-token and
// secret-access-token headers. Lists are paged with "pagina"/"limite" and
// wrapped in a {"code","status","meta","data"} envelope.
//
// Identifiers and numeric fields arrive as strings or numbers depending on
// the endpoint, so response types use utils.FlexString and utils.Amount.
package erp
