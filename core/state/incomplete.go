package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"commerce-sync/core/persist"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// IncompleteRecord is a source entity held back because required fields are missing.
type IncompleteRecord struct {
	Name          string    `json:"name"`
	MissingFields []string  `json:"missing_fields"`
	AddedAt       time.Time `json:"added_at"`
}

// IncompleteStatistics groups quarantined records by what they lack.
type IncompleteStatistics struct {
	Total              int            `json:"total"`
	MissingDescription int            `json:"missing_description"`
	MissingDimensions  int            `json:"missing_dimensions"`
	MissingWeight      int            `json:"missing_weight"`
	MissingOther       int            `json:"missing_other"`
	ByClass            map[string]int `json:"by_class"`
}

var (
	descriptionFields = []string{"description", "descricao"}
	dimensionFields   = []string{"height", "width", "depth", "altura", "largura", "comprimento"}
	weightFields      = []string{"weight", "peso"}
)

// incompleteDocument is persisted with one top-level key per category next to
// "last_update" and "statistics".
type incompleteDocument struct {
	Categories map[string]map[string]IncompleteRecord
	LastUpdate time.Time
	Statistics IncompleteStatistics
}

func newIncompleteDocument() incompleteDocument {
	doc := incompleteDocument{Categories: make(map[string]map[string]IncompleteRecord, len(Categories))}
	for _, c := range Categories {
		doc.Categories[c] = map[string]IncompleteRecord{}
	}
	doc.Statistics.ByClass = map[string]int{}
	return doc
}

func (d incompleteDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Categories)+2)
	for c, bucket := range d.Categories {
		out[c] = bucket
	}
	out["last_update"] = d.LastUpdate
	out["statistics"] = d.Statistics
	return json.Marshal(out)
}

func (d *incompleteDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if d.Categories == nil {
		d.Categories = map[string]map[string]IncompleteRecord{}
	}
	for key, value := range raw {
		switch key {
		case "last_update":
			if err := json.Unmarshal(value, &d.LastUpdate); err != nil {
				return fmt.Errorf("last_update: %w", err)
			}
		case "statistics":
			if err := json.Unmarshal(value, &d.Statistics); err != nil {
				return fmt.Errorf("statistics: %w", err)
			}
		default:
			bucket := map[string]IncompleteRecord{}
			if err := json.Unmarshal(value, &bucket); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			d.Categories[key] = bucket
		}
	}
	return nil
}

// IncompleteStore is the quarantine for entities that cannot be synced yet.
type IncompleteStore struct {
	mu     sync.RWMutex
	doc    *persist.Document[incompleteDocument]
	data   incompleteDocument
	now    func() time.Time
	logger *zap.Logger
}

// NewIncompleteStore loads the quarantine document at path.
func NewIncompleteStore(fs afero.Fs, path string, logger *zap.Logger, opts ...Option) *IncompleteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := buildOptions(opts)
	doc := persist.NewDocument(fs, path, logger, newIncompleteDocument, o.persistOptions()...)
	data := doc.Load()
	for _, c := range Categories {
		if data.Categories[c] == nil {
			data.Categories[c] = map[string]IncompleteRecord{}
		}
	}
	return &IncompleteStore{doc: doc, data: data, now: o.now, logger: logger}
}

// Add quarantines id. A record already present keeps its original AddedAt.
func (s *IncompleteStore) Add(category, id, name string, missing []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.data.Categories[category]
	if bucket == nil {
		bucket = map[string]IncompleteRecord{}
		s.data.Categories[category] = bucket
	}

	rec := IncompleteRecord{
		Name:          name,
		MissingFields: slices.Clone(missing),
		AddedAt:       s.now().UTC(),
	}
	if prev, ok := bucket[id]; ok {
		rec.AddedAt = prev.AddedAt
	}
	bucket[id] = rec
	s.commit()

	s.logger.Info("Incomplete record registered",
		zap.String("category", category),
		zap.String("id", id),
		zap.String("name", name),
		zap.Strings("missing_fields", missing),
	)
}

// Get returns the quarantined record for id.
func (s *IncompleteStore) Get(category, id string) (IncompleteRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data.Categories[category][id]
	return rec, ok
}

// Remove releases id from quarantine. It reports whether it was present.
func (s *IncompleteStore) Remove(category, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Categories[category][id]; !ok {
		return false
	}
	delete(s.data.Categories[category], id)
	s.commit()
	return true
}

// Clear removes id from every category it appears in.
func (s *IncompleteStore) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for _, bucket := range s.data.Categories {
		if _, ok := bucket[id]; ok {
			delete(bucket, id)
			removed = true
		}
	}
	if removed {
		s.commit()
	}
	return removed
}

// List returns a copy of every quarantined record grouped by category.
func (s *IncompleteStore) List() map[string]map[string]IncompleteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]IncompleteRecord, len(s.data.Categories))
	for c, bucket := range s.data.Categories {
		cp := make(map[string]IncompleteRecord, len(bucket))
		for id, rec := range bucket {
			rec.MissingFields = slices.Clone(rec.MissingFields)
			cp[id] = rec
		}
		out[c] = cp
	}
	return out
}

// Statistics recomputes the grouping over the current records.
func (s *IncompleteStore) Statistics() IncompleteStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeStatistics(s.data.Categories)
}

// LastUpdate is the time of the last persisted mutation.
func (s *IncompleteStore) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.LastUpdate
}

// Path returns the backing file location.
func (s *IncompleteStore) Path() string {
	return s.doc.Path()
}

// commit must be called with the write lock held.
func (s *IncompleteStore) commit() {
	s.data.Statistics = computeStatistics(s.data.Categories)
	s.data.LastUpdate = s.now().UTC()
	s.doc.Commit(s.data)
}

func computeStatistics(categories map[string]map[string]IncompleteRecord) IncompleteStatistics {
	stats := IncompleteStatistics{ByClass: make(map[string]int, len(categories))}
	for c, bucket := range categories {
		stats.ByClass[c] = len(bucket)
		stats.Total += len(bucket)
		for _, rec := range bucket {
			if containsAny(rec.MissingFields, descriptionFields) {
				stats.MissingDescription++
			}
			if containsAny(rec.MissingFields, dimensionFields) {
				stats.MissingDimensions++
			}
			if containsAny(rec.MissingFields, weightFields) {
				stats.MissingWeight++
			}
			for _, f := range rec.MissingFields {
				if !slices.Contains(descriptionFields, f) && !slices.Contains(dimensionFields, f) && !slices.Contains(weightFields, f) {
					stats.MissingOther++
					break
				}
			}
		}
	}
	return stats
}

func containsAny(fields, candidates []string) bool {
	for _, f := range fields {
		if slices.Contains(candidates, f) {
			return true
		}
	}
	return false
}
