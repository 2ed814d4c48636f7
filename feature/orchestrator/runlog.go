package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"commerce-sync/core/persist"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultRunLogCapacity is how many runs the file run log keeps.
const DefaultRunLogCapacity = 100

// RunLog is the run-level audit log.
type RunLog interface {
	// Append records a finished run.
	Append(ctx context.Context, r SessionResult) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]SessionResult, error)
}

// FileRunLog keeps the last runs in a JSON document.
type FileRunLog struct {
	mu       sync.Mutex
	doc      *persist.Document[[]SessionResult]
	runs     []SessionResult
	capacity int
}

// NewFileRunLog loads the run log stored at path.
func NewFileRunLog(fs afero.Fs, path string, capacity int, logger *zap.Logger) *FileRunLog {
	if capacity <= 0 {
		capacity = DefaultRunLogCapacity
	}
	doc := persist.NewDocument(fs, path, logger, func() []SessionResult { return []SessionResult{} })
	runs := doc.Load()
	if runs == nil {
		runs = []SessionResult{}
	}
	return &FileRunLog{doc: doc, runs: runs, capacity: capacity}
}

// Path returns the document path.
func (l *FileRunLog) Path() string {
	return l.doc.Path()
}

// Append adds r and drops the oldest runs beyond capacity. Write failures
// are logged by the document and not returned.
func (l *FileRunLog) Append(_ context.Context, r SessionResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.runs = append(l.runs, r)
	if over := len(l.runs) - l.capacity; over > 0 {
		l.runs = append([]SessionResult(nil), l.runs[over:]...)
	}
	l.doc.Commit(l.runs)
	return nil
}

func (l *FileRunLog) Recent(_ context.Context, limit int) ([]SessionResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.runs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]SessionResult, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.runs[i])
	}
	return out, nil
}

// RunRecord is the database row of a run.
type RunRecord struct {
	ID              uint      `gorm:"primaryKey"`
	RunID           string    `gorm:"size:36;uniqueIndex"`
	StartedAt       time.Time `gorm:"index"`
	FinishedAt      time.Time
	DurationSeconds float64
	Cancelled       bool
	// Classes holds the per-class counters as JSON.
	Classes string `gorm:"type:text"`
}

// TableName sets the table name for gorm.
func (RunRecord) TableName() string {
	return "sync_runs"
}

// GormRunLog stores runs in a SQL table.
type GormRunLog struct {
	db *gorm.DB
}

// NewGormRunLog creates the log. Migrate must have been run on db.
func NewGormRunLog(db *gorm.DB) *GormRunLog {
	return &GormRunLog{db: db}
}

// Migrate creates or updates the sync_runs table.
func (l *GormRunLog) Migrate(ctx context.Context) error {
	return l.db.WithContext(ctx).AutoMigrate(&RunRecord{})
}

func (l *GormRunLog) Append(ctx context.Context, r SessionResult) error {
	classes, err := json.Marshal(r.Classes)
	if err != nil {
		return fmt.Errorf("failed to encode run classes: %w", err)
	}
	rec := RunRecord{
		RunID:           r.RunID,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		DurationSeconds: r.DurationSeconds,
		Cancelled:       r.Cancelled,
		Classes:         string(classes),
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to store run %s: %w", r.RunID, err)
	}
	return nil
}

func (l *GormRunLog) Recent(ctx context.Context, limit int) ([]SessionResult, error) {
	if limit <= 0 {
		limit = DefaultRunLogCapacity
	}

	var recs []RunRecord
	if err := l.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}

	out := make([]SessionResult, 0, len(recs))
	for _, rec := range recs {
		r := SessionResult{
			RunID:           rec.RunID,
			StartedAt:       rec.StartedAt,
			FinishedAt:      rec.FinishedAt,
			DurationSeconds: rec.DurationSeconds,
			Cancelled:       rec.Cancelled,
		}
		if rec.Classes != "" {
			if err := json.Unmarshal([]byte(rec.Classes), &r.Classes); err != nil {
				return nil, fmt.Errorf("failed to decode run %s: %w", rec.RunID, err)
			}
		}
		out = append(out, r)
	}
	return out, nil
}
