package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"commerce-sync/core/reconcile"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type fakeEntity struct {
	ID      string
	Name    string
	Missing []string
}

// fakeAdapter creates every entity with target id "T-<id>" unless it is
// marked incomplete.
type fakeAdapter struct {
	class    reconcile.EntityClass
	entities []fakeEntity
	fetchErr error
	panics   bool
	block    chan struct{}

	mu      sync.Mutex
	created []string
	order   *[]reconcile.EntityClass
}

func (f *fakeAdapter) Class() reconcile.EntityClass { return f.class }

func (f *fakeAdapter) FetchAll(ctx context.Context) ([]reconcile.SourceItem, error) {
	if f.order != nil {
		*f.order = append(*f.order, f.class)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panics {
		panic("boom")
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	items := make([]reconcile.SourceItem, 0, len(f.entities))
	for _, e := range f.entities {
		items = append(items, e)
	}
	return items, nil
}

func (f *fakeAdapter) Identify(item reconcile.SourceItem) (string, string) {
	e := item.(fakeEntity)
	return e.ID, e.Name
}

func (f *fakeAdapter) VersionFields(item reconcile.SourceItem) any { return item }

func (f *fakeAdapter) Convert(_ context.Context, item reconcile.SourceItem) (*reconcile.Converted, error) {
	e := item.(fakeEntity)
	if len(e.Missing) > 0 {
		return nil, reconcile.NewValidationError(e.Missing)
	}
	return &reconcile.Converted{
		Name:   e.Name,
		Create: reconcile.Payload{"id": e.ID},
		Patch:  reconcile.Payload{"id": e.ID},
	}, nil
}

func (f *fakeAdapter) FindByNaturalKey(context.Context, reconcile.NaturalKey) (string, bool, error) {
	return "", false, nil
}

func (f *fakeAdapter) Create(_ context.Context, payload reconcile.Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprint(payload["id"])
	f.created = append(f.created, id)
	return "T-" + id, nil
}

func (f *fakeAdapter) Update(context.Context, string, reconcile.Payload) error {
	return nil
}

type recordingArchiver struct {
	runIDs []string
	err    error
}

func (a *recordingArchiver) Archive(_ context.Context, runID string) error {
	a.runIDs = append(a.runIDs, runID)
	return a.err
}

type failingRunLog struct{}

func (failingRunLog) Append(context.Context, SessionResult) error {
	return errors.New("disk full")
}

func (failingRunLog) Recent(context.Context, int) ([]SessionResult, error) {
	return nil, errors.New("disk full")
}

func newTestStores() (afero.Fs, *Stores) {
	fs := afero.NewMemMapFs()
	return fs, OpenStores(fs, "data", zap.NewNop())
}
