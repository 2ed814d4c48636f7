package orchestrator

import (
	"path/filepath"

	"commerce-sync/core/state"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Store document names inside the data directory.
const (
	MappingFile    = "entity_mapping.json"
	HistoryFile    = "sync_history.json"
	IncompleteFile = "incomplete_records.json"
	RunLogFile     = "sync_runs.json"
)

// Stores groups the three state stores a run works against.
type Stores struct {
	Mappings   *state.MappingStore
	History    *state.HistoryStore
	Incomplete *state.IncompleteStore
}

// OpenStores loads the stores from dir. Loading never fails; missing or
// corrupt documents start empty.
func OpenStores(fs afero.Fs, dir string, logger *zap.Logger, opts ...state.Option) *Stores {
	return &Stores{
		Mappings:   state.NewMappingStore(fs, filepath.Join(dir, MappingFile), logger, opts...),
		History:    state.NewHistoryStore(fs, filepath.Join(dir, HistoryFile), logger, opts...),
		Incomplete: state.NewIncompleteStore(fs, filepath.Join(dir, IncompleteFile), logger, opts...),
	}
}

// Files returns the document paths of the stores.
func (s *Stores) Files() []string {
	return []string{s.Mappings.Path(), s.History.Path(), s.Incomplete.Path()}
}
