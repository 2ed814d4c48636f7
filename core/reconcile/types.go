package reconcile

import (
	"encoding/json"
	"maps"
	"time"
)

// EntityClass names a category of synchronized record.
// The value doubles as the top-level key in every store document.
type EntityClass string

const (
	ClassProducts  EntityClass = "products"
	ClassCustomers EntityClass = "customers"
	ClassOrders    EntityClass = "orders"
)

// SourceItem is one raw entity read from the source system.
// Adapters define the concrete type.
type SourceItem any

// Payload is a request body sent to the target system.
type Payload map[string]any

// Without returns a copy of p with the given fields removed.
func (p Payload) Without(fields ...string) Payload {
	out := maps.Clone(p)
	if out == nil {
		out = Payload{}
	}
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

// NaturalKey is a business identifier that may already exist on a target
// entity independently of the stored mapping (a SKU, a tax document, an order code).
type NaturalKey struct {
	// Kind tells the adapter which lookup to run (e.g. "sku", "document").
	Kind string
	// Value is the identifier itself. Empty values are never looked up.
	Value string
}

// FallbackRule declares a reduced payload to retry with when the target
// rejects a write with a specific error category.
type FallbackRule struct {
	// Category is the error category that triggers the rule.
	Category ErrorCategory
	// Strip lists the payload fields dropped on retry.
	Strip []string
}

// Converted is the output of a successful conversion.
type Converted struct {
	// Name is the display name used in logs and the quarantine store.
	Name string

	// Create is the full payload for a create call.
	Create Payload

	// Patch is the partial payload for an update call. It only holds
	// fields the source owns, so target-only fields are never clobbered.
	Patch Payload

	// NaturalKeys are checked in order before creating, to avoid duplicates.
	NaturalKeys []NaturalKey

	// MirrorKey is written into every MirrorFields entry of the update payload
	// so fields that must mirror one source value stay consistent.
	MirrorKey    string
	MirrorFields []string

	// Fallbacks are tried once each when a write fails with their category.
	Fallbacks []FallbackRule
}

// UpdatePayload returns Patch with the mirrored natural key applied.
func (c *Converted) UpdatePayload() Payload {
	patch := maps.Clone(c.Patch)
	if patch == nil {
		patch = Payload{}
	}
	if c.MirrorKey != "" {
		for _, f := range c.MirrorFields {
			patch[f] = c.MirrorKey
		}
	}
	return patch
}

// Outcome is the terminal state of one entity in a run.
type Outcome string

const (
	OutcomeSkipped     Outcome = "skipped"
	OutcomeQuarantined Outcome = "quarantined"
	OutcomeCreated     Outcome = "created"
	OutcomeUpdated     Outcome = "updated"
	OutcomeFailed      Outcome = "failed"
)

// EntityResult describes what happened to one source entity.
type EntityResult struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Outcome  Outcome  `json:"outcome"`
	TargetID string   `json:"target_id,omitempty"`
	Missing  []string `json:"missing_fields,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// ClassStats aggregates outcomes for one entity class.
// Success counts created plus updated entities.
type ClassStats struct {
	Success    int `json:"success"`
	Errors     int `json:"errors"`
	Incomplete int `json:"incomplete"`
	Skipped    int `json:"skipped"`
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Fetched    int `json:"fetched"`
}

// Add tallies a single result.
func (s *ClassStats) Add(r EntityResult) {
	switch r.Outcome {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeQuarantined:
		s.Incomplete++
	case OutcomeCreated:
		s.Created++
		s.Success++
	case OutcomeUpdated:
		s.Updated++
		s.Success++
	case OutcomeFailed:
		s.Errors++
	}
}

// ClassReport is the outcome of running the engine for one class.
type ClassReport struct {
	Class      EntityClass    `json:"class"`
	Stats      ClassStats     `json:"stats"`
	Results    []EntityResult `json:"results"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	// Cancelled is set when the run stopped before reaching every entity.
	Cancelled bool `json:"cancelled"`
}

// PayloadOf flattens a typed request struct into a Payload through its JSON
// form, so omitempty tags decide which fields are sent.
func PayloadOf(v any) (Payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	p := Payload{}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}
