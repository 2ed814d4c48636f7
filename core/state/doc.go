// Package state holds the three durable stores the reconciliation engine
// consults on every run:
//
//   - MappingStore: source id to target id, per entity class.
//   - HistoryStore: last sync timestamp and version fingerprint per entity.
//   - IncompleteStore: entities quarantined because required fields are missing.
//
// Each store keeps its whole document in memory behind a RWMutex and rewrites
// the file through persist.Document after every mutation. Write failures are
// logged and the in-memory state stays authoritative for the rest of the
// process.
package state
