// Package customers reconciles storefront customers into the ERP.
//
// Documents (CPF/CNPJ) are reduced to digits and decide the person type:
// up to 11 digits is an individual (PF), anything longer a company (PJ).
// Existing ERP customers are matched by document first, then by email, so a
// customer registered by hand in the ERP is linked instead of duplicated.
package customers
