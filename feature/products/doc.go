// Package products reconciles the ERP catalog into the storefront.
//
// # Architecture
//
// Each ERP product is expanded into sellable items: one per variation, or a
// single item when the product has none. Every item becomes an independent
// storefront product whose external_id is "<product>-<variation>".
//
//	ERP /produtos ──► Expand ──► Converter ──► reconcile.Engine ──► storefront /products
//	                                 │
//	                                 └── ColorCache (one per run) ──► storefront /colors
//
// Conversion scales dimensions by 10 to reach centimeters, keeps weight as
// is, and quarantines items missing name, description, height, width, depth
// or weight.
//
// # Variant names
//
// The color of a variation is chosen by an ordered strategy list, first match
// wins:
//
//  1. an attribute named cor, color or colour
//  2. the first attribute with a value
//  3. "Modelo-<sku>"
//  4. "Modelo-<position>"
//
// When the storefront rejects a write with an attribute conflict the engine
// retries once without color_id and attributes.
package products
