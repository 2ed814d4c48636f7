package state

import (
	"sync"
	"time"

	"commerce-sync/core/persist"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// HistoryEntry is the last successful sync of one entity.
type HistoryEntry struct {
	LastSync time.Time `json:"last_sync"`
	Version  string    `json:"version"`
}

type historyDocument map[string]map[string]HistoryEntry

func newHistoryDocument() historyDocument {
	doc := make(historyDocument, len(Categories))
	for _, c := range Categories {
		doc[c] = map[string]HistoryEntry{}
	}
	return doc
}

// HistoryStore keeps the version fingerprint of every synced entity.
// Layout: {"products": {"<id>": {"last_sync": "<iso8601>", "version": "<hash>"}}, ...}.
type HistoryStore struct {
	mu     sync.RWMutex
	doc    *persist.Document[historyDocument]
	data   historyDocument
	now    func() time.Time
	logger *zap.Logger
}

// NewHistoryStore loads the history document at path.
func NewHistoryStore(fs afero.Fs, path string, logger *zap.Logger, opts ...Option) *HistoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := buildOptions(opts)
	doc := persist.NewDocument(fs, path, logger, newHistoryDocument, o.persistOptions()...)
	data := doc.Load()
	if data == nil {
		data = newHistoryDocument()
	}
	for _, c := range Categories {
		if data[c] == nil {
			data[c] = map[string]HistoryEntry{}
		}
	}
	return &HistoryStore{doc: doc, data: data, now: o.now, logger: logger}
}

// Get returns the history entry for id.
func (s *HistoryStore) Get(category, id string) (HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data[category][id]
	return entry, ok
}

// ShouldSync reports whether version differs from the last synced one.
// An empty version always syncs.
func (s *HistoryStore) ShouldSync(category, id, version string) bool {
	if version == "" {
		return true
	}
	entry, ok := s.Get(category, id)
	return !ok || entry.Version != version
}

// Record stores version as the latest synced state of id.
// last_sync never moves backwards even if the clock does.
func (s *HistoryStore) Record(category, id, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.data[category]
	if bucket == nil {
		bucket = map[string]HistoryEntry{}
		s.data[category] = bucket
	}

	ts := s.now().UTC()
	if prev, ok := bucket[id]; ok && prev.LastSync.After(ts) {
		ts = prev.LastSync
	}
	bucket[id] = HistoryEntry{LastSync: ts, Version: version}
	s.doc.Commit(s.data)
}

// Delete forgets id so the next run re-evaluates it.
func (s *HistoryStore) Delete(category, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[category][id]; !ok {
		return false
	}
	delete(s.data[category], id)
	s.doc.Commit(s.data)
	return true
}

// Len returns the number of entries in a category.
func (s *HistoryStore) Len(category string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[category])
}

// Path returns the backing file location.
func (s *HistoryStore) Path() string {
	return s.doc.Path()
}
