package state

import (
	"sync"

	"commerce-sync/core/persist"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type mappingDocument map[string]map[string]string

func newMappingDocument() mappingDocument {
	doc := make(mappingDocument, len(Categories))
	for _, c := range Categories {
		doc[c] = map[string]string{}
	}
	return doc
}

// MappingStore records which target entity each source entity became.
// Layout: {"products": {"<source_id>": "<target_id>"}, "customers": {...}, "orders": {...}}.
type MappingStore struct {
	mu     sync.RWMutex
	doc    *persist.Document[mappingDocument]
	data   mappingDocument
	logger *zap.Logger
}

// NewMappingStore loads the mapping document at path.
func NewMappingStore(fs afero.Fs, path string, logger *zap.Logger, opts ...Option) *MappingStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := buildOptions(opts)
	doc := persist.NewDocument(fs, path, logger, newMappingDocument, o.persistOptions()...)
	data := doc.Load()
	if data == nil {
		data = newMappingDocument()
	}
	for _, c := range Categories {
		if data[c] == nil {
			data[c] = map[string]string{}
		}
	}
	return &MappingStore{doc: doc, data: data, logger: logger}
}

// Get returns the target id mapped to sourceID.
func (s *MappingStore) Get(category, sourceID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target, ok := s.data[category][sourceID]
	return target, ok
}

// Put upserts a mapping. Re-adding an identical mapping does not touch disk.
func (s *MappingStore) Put(category, sourceID, targetID, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.data[category]
	if bucket == nil {
		bucket = map[string]string{}
		s.data[category] = bucket
	}
	if current, ok := bucket[sourceID]; ok && current == targetID {
		return
	}
	if current, ok := bucket[sourceID]; ok {
		s.logger.Warn("Remapping entity",
			zap.String("category", category),
			zap.String("source_id", sourceID),
			zap.String("name", displayName),
			zap.String("previous_target_id", current),
			zap.String("target_id", targetID),
		)
	}
	bucket[sourceID] = targetID
	s.doc.Commit(s.data)
	s.logger.Debug("Mapping stored",
		zap.String("category", category),
		zap.String("source_id", sourceID),
		zap.String("target_id", targetID),
		zap.String("name", displayName),
	)
}

// Delete removes a mapping. It reports whether one existed.
func (s *MappingStore) Delete(category, sourceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[category][sourceID]; !ok {
		return false
	}
	delete(s.data[category], sourceID)
	s.doc.Commit(s.data)
	return true
}

// Len returns the number of mappings in a category.
func (s *MappingStore) Len(category string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[category])
}

// Snapshot returns a deep copy of the document.
func (s *MappingStore) Snapshot() map[string]map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]string, len(s.data))
	for c, bucket := range s.data {
		cp := make(map[string]string, len(bucket))
		for k, v := range bucket {
			cp[k] = v
		}
		out[c] = cp
	}
	return out
}

// Path returns the backing file location.
func (s *MappingStore) Path() string {
	return s.doc.Path()
}
