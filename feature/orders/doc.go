// Package orders reconciles storefront orders into ERP sales.
//
// Orders depend on customers: the ERP sale references the ERP customer id,
// resolved through the entity mapping written by the customers class. That is
// why the orchestrator runs customers before orders. An order whose customer
// has not been synced yet is quarantined with the missing field "customer"
// and picked up again on a later run.
//
// Status and payment method are translated with fixed tables; unknown values
// fall back to "em_andamento" and "credit_card".
package orders
