// Package utils holds small conversion helpers shared by the ERP and
// storefront converters: loose type coercion, document digit stripping, date
// normalization and the lenient JSON types FlexString and Amount.
package utils
