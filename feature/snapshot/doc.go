// Package snapshot archives the sync state documents to object storage.
//
// After every run the Uploader copies the mapping, history, incomplete and
// run log documents to <prefix>/<run_id>/ in the configured bucket, then
// prunes all but the newest snapshots. Restore brings a snapshot back over
// the local data directory; it is meant to run while no sync is active.
package snapshot
