package reconcile

import "context"

// Adapter binds the engine to one entity class: where entities come from, how
// they become target payloads, and how the target is written.
type Adapter interface {
	// Class returns the entity class handled by this adapter.
	Class() EntityClass

	// FetchAll drains the source system. Implementations page through the
	// source with CollectAll.
	FetchAll(ctx context.Context) ([]SourceItem, error)

	// Identify returns the stable source id and a display name.
	Identify(item SourceItem) (id, name string)

	// VersionFields returns the representation hashed into the version
	// fingerprint. It must include every field the target cares about and
	// should leave out volatile ones such as modification timestamps.
	VersionFields(item SourceItem) any

	// Convert maps a source entity to target payloads. Missing required fields
	// are reported with a *ValidationError.
	Convert(ctx context.Context, item SourceItem) (*Converted, error)

	// FindByNaturalKey looks the key up in the target system.
	FindByNaturalKey(ctx context.Context, key NaturalKey) (targetID string, found bool, err error)

	// Create writes a new entity and returns its target id.
	Create(ctx context.Context, payload Payload) (string, error)

	// Update applies a partial payload to an existing entity.
	Update(ctx context.Context, targetID string, patch Payload) error
}

// Preparer is implemented by adapters that need per-run setup, such as
// loading a session-scoped lookup cache. Prepare runs once before FetchAll.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// MappingStore is the subset of the entity mapping store the engine uses.
type MappingStore interface {
	Get(category, sourceID string) (string, bool)
	Put(category, sourceID, targetID, displayName string)
}

// HistoryStore is the subset of the sync history store the engine uses.
type HistoryStore interface {
	ShouldSync(category, id, version string) bool
	Record(category, id, version string)
}

// QuarantineStore is the subset of the incomplete-records store the engine uses.
type QuarantineStore interface {
	Add(category, id, name string, missing []string)
	Remove(category, id string) bool
}
