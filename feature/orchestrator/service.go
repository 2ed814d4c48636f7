package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"commerce-sync/core/apperrors"
	"commerce-sync/core/lock"
	"commerce-sync/core/logger"
	"commerce-sync/core/reconcile"
	"commerce-sync/core/state"
	"commerce-sync/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// classOrder is the fixed run order: orders reference customers.
var classOrder = []reconcile.EntityClass{
	reconcile.ClassProducts,
	reconcile.ClassCustomers,
	reconcile.ClassOrders,
}

// Archiver copies the state documents somewhere safe after a run.
type Archiver interface {
	Archive(ctx context.Context, runID string) error
}

// Deps are the collaborators of a Service.
type Deps struct {
	Stores   *Stores
	Adapters []reconcile.Adapter
	Guard    lock.Guard
	RunLog   RunLog
	// Archiver is optional.
	Archiver Archiver
	Logger   *zap.Logger
	// BaseContext parents runs started with Start. Defaults to Background.
	BaseContext context.Context
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Status is the admin view of the service.
type Status struct {
	Running    bool           `json:"running"`
	LastRun    *SessionResult `json:"last_run,omitempty"`
	Mappings   map[string]int `json:"mappings"`
	Incomplete int            `json:"incomplete"`
}

// Service runs sync sessions and exposes the administrative operations.
type Service struct {
	stores   *Stores
	engine   *reconcile.Engine
	adapters []reconcile.Adapter
	guard    lock.Guard
	runs     RunLog
	archiver Archiver
	logger   *zap.Logger
	baseCtx  context.Context
	now      func() time.Time

	running atomic.Bool
	mu      sync.RWMutex
	last    *SessionResult
}

// NewService wires a Service. Adapters are sorted into the fixed class order.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	guard := d.Guard
	if guard == nil {
		guard = lock.NewLocal()
	}
	baseCtx := d.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	adapters := slices.Clone(d.Adapters)
	slices.SortStableFunc(adapters, func(a, b reconcile.Adapter) int {
		return classRank(a.Class()) - classRank(b.Class())
	})

	return &Service{
		stores:   d.Stores,
		engine:   reconcile.NewEngine(d.Stores.Mappings, d.Stores.History, d.Stores.Incomplete, logger),
		adapters: adapters,
		guard:    guard,
		runs:     d.RunLog,
		archiver: d.Archiver,
		logger:   logger,
		baseCtx:  baseCtx,
		now:      now,
	}
}

func classRank(c reconcile.EntityClass) int {
	if i := slices.Index(classOrder, c); i >= 0 {
		return i
	}
	return len(classOrder)
}

// RunSyncOnce runs every class once and returns the session result. It fails
// only when the run cannot start: another run holds the guard.
func (s *Service) RunSyncOnce(ctx context.Context) (*SessionResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.execute(ctx), nil
}

// Start launches a run in the background. It returns the same errors as
// RunSyncOnce when the run cannot start.
func (s *Service) Start() error {
	release, err := s.acquire(s.baseCtx)
	if err != nil {
		return err
	}
	go func() {
		defer release()
		s.execute(s.baseCtx)
	}()
	return nil
}

func (s *Service) acquire(ctx context.Context) (lock.Release, error) {
	release, err := s.guard.Acquire(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncInProgress) || errors.Is(err, apperrors.ErrLockHeld) {
			s.logger.Info("Sync already in progress, skipping trigger", zap.Error(err))
		}
		return nil, err
	}
	return release, nil
}

func (s *Service) execute(ctx context.Context) *SessionResult {
	s.running.Store(true)
	defer s.running.Store(false)

	result := &SessionResult{RunID: uuid.NewString(), StartedAt: s.now().UTC()}
	l := logger.WithRun(s.logger, result.RunID)
	l.Info("Sync run started")

	for _, adapter := range s.adapters {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}
		cr := s.runClass(ctx, l, adapter)
		result.Classes = append(result.Classes, cr)
		if cr.Cancelled {
			result.Cancelled = true
			break
		}
	}

	result.FinishedAt = s.now().UTC()
	result.DurationSeconds = result.Duration().Seconds()

	// The run is recorded even when ctx was cancelled mid-run.
	bg := context.WithoutCancel(ctx)
	if s.runs != nil {
		if err := s.runs.Append(bg, *result); err != nil {
			l.Error("Failed to append run log", zap.Error(err))
		}
	}
	if s.archiver != nil {
		if err := s.archiver.Archive(bg, result.RunID); err != nil {
			l.Warn("Failed to archive state snapshot", zap.Error(err))
		}
	}

	totals := result.Totals()
	l.Info("Sync run finished",
		zap.String("duration", utils.FormatDuration(result.Duration())),
		zap.Bool("cancelled", result.Cancelled),
		zap.Int("success", totals.Success),
		zap.Int("errors", totals.Errors),
		zap.Int("incomplete", totals.Incomplete),
		zap.Int("skipped", totals.Skipped),
	)

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
	return result
}

// runClass isolates one class: errors and panics become a single error count.
func (s *Service) runClass(ctx context.Context, l *zap.Logger, adapter reconcile.Adapter) (cr ClassResult) {
	cr.Class = adapter.Class()
	l = l.With(zap.String("class", string(cr.Class)))

	defer func() {
		if r := recover(); r != nil {
			l.Error("Class sync panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			cr = ClassResult{Class: cr.Class, ClassStats: reconcile.ClassStats{Errors: 1}, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	report, err := s.engine.Run(ctx, adapter)
	if report != nil {
		cr.ClassStats = report.Stats
		cr.Cancelled = report.Cancelled
	}
	if err == nil {
		return cr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		cr.Cancelled = true
		return cr
	}

	l.Error("Class sync failed", zap.Error(err))
	cr.ClassStats = reconcile.ClassStats{Errors: 1}
	cr.Error = err.Error()
	return cr
}

// ListIncomplete returns every quarantined record grouped by class.
func (s *Service) ListIncomplete() map[string]map[string]state.IncompleteRecord {
	return s.stores.Incomplete.List()
}

// IncompleteStatistics returns the quarantine statistics.
func (s *Service) IncompleteStatistics() state.IncompleteStatistics {
	return s.stores.Incomplete.Statistics()
}

// ClearIncomplete drops a quarantined record from every class. It reports
// whether anything was removed.
func (s *Service) ClearIncomplete(id string) bool {
	removed := s.stores.Incomplete.Clear(id)
	if removed {
		s.logger.Info("Incomplete record cleared", zap.String("id", id))
	}
	return removed
}

// Status reports whether a run is active, the last run and store sizes.
func (s *Service) Status() Status {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	mappings := make(map[string]int, len(classOrder))
	for _, c := range classOrder {
		mappings[string(c)] = s.stores.Mappings.Len(string(c))
	}
	return Status{
		Running:    s.running.Load(),
		LastRun:    last,
		Mappings:   mappings,
		Incomplete: s.stores.Incomplete.Statistics().Total,
	}
}

// Runs returns up to limit recent runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]SessionResult, error) {
	if s.runs == nil {
		return []SessionResult{}, nil
	}
	return s.runs.Recent(ctx, limit)
}
