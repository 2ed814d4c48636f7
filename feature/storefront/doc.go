// Package storefront is a typed client for the online store REST API.
//
// The store is the target for products and the source of customers and
// orders. Requests authenticate with a bearer token; lists are paged with
// "page"/"limit" and wrapped in a {"data","meta"} envelope. Colors are a
// separate resource referenced by products through color_id.
package storefront
