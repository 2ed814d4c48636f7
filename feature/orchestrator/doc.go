// Package orchestrator runs sync sessions over the three entity classes.
//
// A session runs products, customers and orders in that order against the
// shared state stores, isolating each class so that one failing class never
// stops the others. Only one session runs at a time: the service acquires a
// lock.Guard (in-process, optionally chained with a Redis lock) and rejects
// overlapping triggers with apperrors.ErrSyncInProgress.
//
// Each session is appended to a RunLog (a JSON document under the data
// directory, or the sync_runs table when a database is configured) and can be
// archived to object storage through an Archiver.
//
// # HTTP
//
//	GET    /sync/status
//	POST   /sync/run[?wait=true]
//	GET    /sync/runs[?limit=N]
//	GET    /sync/incomplete
//	GET    /sync/incomplete/stats
//	DELETE /sync/incomplete/:id
package orchestrator
