// Package reconcile provides the engine that decides, for every source entity,
// whether to skip, quarantine, create, or update it in the target system.
//
// The engine is generic over entity classes. Everything class specific lives
// behind the Adapter interface; everything stateful lives in the three stores
// passed to NewEngine (entity mapping, sync history, incomplete records).
//
// # Architecture
//
// Each entity moves through a fixed sequence of states:
//
//  1. Fetched: read from the source through Adapter.FetchAll, which drains the
//     source with CollectAll.
//  2. Fingerprinted: VersionFields are hashed with Fingerprint. An entity whose
//     fingerprint matches the history store is Skipped.
//  3. Converted: Adapter.Convert builds create and patch payloads. A
//     *ValidationError quarantines the entity; it is counted as incomplete,
//     never as an error.
//  4. Reconciled: a stored mapping means update. Without one the declared
//     natural keys are looked up first; a match backfills the mapping and
//     updates instead of creating a duplicate.
//  5. Synced: the history store gets the new fingerprint and the entity leaves
//     quarantine. Any other failure ends in Failed and the loop moves on.
//
// # Error categories
//
// Writes that fail with a categorized error (see core/apperrors) are matched
// against the FallbackRules declared by the converter. A matching rule retries
// the write once with the listed fields stripped.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(mappings, history, incomplete, logger)
//	report, err := engine.Run(ctx, products.NewAdapter(erpClient, storeClient, pages, logger))
//	if err != nil {
//	    // setup or fetch failure, or ctx cancelled (report holds partial results)
//	}
//	fmt.Println(report.Stats.Success, report.Stats.Errors, report.Stats.Incomplete)
package reconcile
