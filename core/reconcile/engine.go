package reconcile

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"commerce-sync/core/apperrors"

	"go.uber.org/zap"
)

// Engine reconciles one entity class at a time against the three stores.
// It is not safe for concurrent runs; callers serialize runs.
type Engine struct {
	mappings   MappingStore
	history    HistoryStore
	quarantine QuarantineStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine creates an engine bound to the given stores.
func NewEngine(mappings MappingStore, history HistoryStore, quarantine QuarantineStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		mappings:   mappings,
		history:    history,
		quarantine: quarantine,
		logger:     logger,
		now:        time.Now,
	}
}

// Run reconciles every entity the adapter fetches.
// Per-entity failures are counted, never returned. An error is returned only
// when the class could not be processed at all (setup or fetch failure), or
// when ctx was cancelled, in which case the partial report is returned too.
func (e *Engine) Run(ctx context.Context, adapter Adapter) (*ClassReport, error) {
	class := adapter.Class()
	l := e.logger.With(zap.String("class", string(class)))
	report := &ClassReport{Class: class, StartedAt: e.now()}

	if p, ok := adapter.(Preparer); ok {
		if err := p.Prepare(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare %s: %w", class, err)
		}
	}

	items, err := adapter.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", class, err)
	}
	report.Stats.Fetched = len(items)
	l.Info("Fetched source entities", zap.Int("count", len(items)))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			report.FinishedAt = e.now()
			l.Warn("Run cancelled between entities", zap.Int("processed", len(report.Results)))
			return report, err
		}

		result := e.reconcileOne(ctx, adapter, item)
		report.Results = append(report.Results, result)
		report.Stats.Add(result)
	}

	report.FinishedAt = e.now()
	l.Info("Class reconciled",
		zap.Int("success", report.Stats.Success),
		zap.Int("errors", report.Stats.Errors),
		zap.Int("incomplete", report.Stats.Incomplete),
		zap.Int("skipped", report.Stats.Skipped),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// reconcileOne walks a single entity through the state machine. Nothing
// escapes it: panics and errors become a failed result.
func (e *Engine) reconcileOne(ctx context.Context, adapter Adapter, item SourceItem) (result EntityResult) {
	class := string(adapter.Class())
	l := e.logger.With(zap.String("class", class))

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = OutcomeFailed
			result.Error = fmt.Sprintf("panic: %v", r)
			l.Error("Entity processing panicked",
				zap.String("id", result.ID),
				zap.String("name", result.Name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	id, name := adapter.Identify(item)
	result = EntityResult{ID: id, Name: name}
	l = l.With(zap.String("id", id), zap.String("name", name))

	if id == "" {
		return e.fail(l, result, errors.New("source entity has no id"))
	}

	version := Fingerprint(adapter.VersionFields(item))
	if !e.history.ShouldSync(class, id, version) {
		l.Debug("Entity unchanged, skipping")
		result.Outcome = OutcomeSkipped
		return result
	}

	converted, err := adapter.Convert(ctx, item)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			e.quarantine.Add(class, id, name, verr.Missing)
			l.Warn("Entity quarantined", zap.Strings("missing_fields", verr.Missing))
			result.Outcome = OutcomeQuarantined
			result.Missing = verr.Missing
			return result
		}
		return e.fail(l, result, fmt.Errorf("conversion failed: %w", err))
	}
	if converted.Name != "" {
		result.Name = converted.Name
	}

	targetID, mapped := e.mappings.Get(class, id)
	if !mapped {
		targetID, mapped, err = e.findByNaturalKeys(ctx, adapter, converted)
		if err != nil {
			return e.fail(l, result, fmt.Errorf("natural key lookup failed: %w", err))
		}
		if mapped {
			l.Info("Natural key match found, backfilling mapping", zap.String("target_id", targetID))
			e.mappings.Put(class, id, targetID, result.Name)
		}
	}

	if mapped {
		patch := converted.UpdatePayload()
		err := e.withFallback(l, patch, converted.Fallbacks, func(p Payload) error {
			return adapter.Update(ctx, targetID, p)
		})
		if err != nil {
			result.TargetID = targetID
			return e.fail(l, result, fmt.Errorf("update failed: %w", err))
		}
		result.Outcome = OutcomeUpdated
	} else {
		err := e.withFallback(l, converted.Create, converted.Fallbacks, func(p Payload) error {
			created, err := adapter.Create(ctx, p)
			if err != nil {
				return err
			}
			if created == "" {
				return errors.New("target returned an empty id")
			}
			targetID = created
			return nil
		})
		if err != nil {
			return e.fail(l, result, fmt.Errorf("create failed: %w", err))
		}
		e.mappings.Put(class, id, targetID, result.Name)
		result.Outcome = OutcomeCreated
	}

	result.TargetID = targetID
	e.history.Record(class, id, version)
	if e.quarantine.Remove(class, id) {
		l.Info("Entity released from quarantine")
	}
	l.Info("Entity synced", zap.String("outcome", string(result.Outcome)), zap.String("target_id", targetID))
	return result
}

func (e *Engine) findByNaturalKeys(ctx context.Context, adapter Adapter, converted *Converted) (string, bool, error) {
	for _, key := range converted.NaturalKeys {
		if key.Value == "" {
			continue
		}
		targetID, found, err := adapter.FindByNaturalKey(ctx, key)
		if err != nil {
			return "", false, fmt.Errorf("%s %q: %w", key.Kind, key.Value, err)
		}
		if found && targetID != "" {
			return targetID, true, nil
		}
	}
	return "", false, nil
}

// withFallback runs call with payload and, if it fails with a category that a
// declared rule covers, runs it once more with the rule's reduced payload.
func (e *Engine) withFallback(l *zap.Logger, payload Payload, rules []FallbackRule, call func(Payload) error) error {
	err := call(payload)
	if err == nil {
		return nil
	}

	category := apperrors.Classify(err)
	for _, rule := range rules {
		if rule.Category != category {
			continue
		}
		l.Warn("Write rejected, retrying with reduced payload",
			zap.String("category", string(category)),
			zap.Strings("stripped", rule.Strip),
			zap.Error(err),
		)
		if retryErr := call(payload.Without(rule.Strip...)); retryErr != nil {
			return fmt.Errorf("retry without %v: %w", rule.Strip, retryErr)
		}
		return nil
	}
	return err
}

func (e *Engine) fail(l *zap.Logger, result EntityResult, err error) EntityResult {
	l.Error("Entity sync failed", zap.Error(err))
	result.Outcome = OutcomeFailed
	result.Error = err.Error()
	return result
}
