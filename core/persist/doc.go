// Package persist provides the file-backed primitive behind every durable
// store in the service.
//
// A Document holds one JSON value per file. It is loaded fully into memory by
// its owner and rewritten after each mutation:
//
//   - Load never fails. A missing file yields the default value; a malformed
//     file is moved aside to "<file>.bak.<YYYYmmddHHMMSS>" first.
//   - Save writes "<file>.tmp", syncs it, and renames it over the target so a
//     reader never observes a half written file.
//   - Commit is Save for callers that prefer availability over durability: the
//     error is logged and the caller keeps its in-memory state.
//
// The filesystem is an afero.Fs so tests can run against afero.NewMemMapFs and
// inject failures.
package persist
