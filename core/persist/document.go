package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// BackupTimeLayout is the suffix format used when a corrupt file is moved aside.
const BackupTimeLayout = "20060102150405"

// Document is a single JSON document on disk holding a value of type T.
// Reads never fail and writes replace the file atomically.
type Document[T any] struct {
	fs       afero.Fs
	path     string
	logger   *zap.Logger
	defaults func() T
	now      func() time.Time
}

// Option configures a Document.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used to name backup files.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewDocument creates a Document stored at path on fs.
// defaults must return a fresh, fully initialized empty value on each call.
func NewDocument[T any](fs afero.Fs, path string, logger *zap.Logger, defaults func() T, opts ...Option) *Document[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Document[T]{
		fs:       fs,
		path:     path,
		logger:   logger.With(zap.String("file", path)),
		defaults: defaults,
		now:      o.now,
	}
}

// Path returns the location of the backing file.
func (d *Document[T]) Path() string {
	return d.path
}

// Load reads the backing file.
// A missing file yields the default value. A malformed file is renamed to
// <path>.bak.<timestamp> and the default value is returned.
func (d *Document[T]) Load() T {
	data, err := afero.ReadFile(d.fs, d.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			d.logger.Error("Failed to read store file", zap.Error(err))
		}
		return d.defaults()
	}

	value := d.defaults()
	if err := json.Unmarshal(data, &value); err != nil {
		d.logger.Error("Store file is corrupt, starting empty", zap.Error(err))
		d.backup()
		return d.defaults()
	}
	return value
}

func (d *Document[T]) backup() {
	target := fmt.Sprintf("%s.bak.%s", d.path, d.now().Format(BackupTimeLayout))
	if err := d.fs.Rename(d.path, target); err != nil {
		d.logger.Error("Failed to back up corrupt store file", zap.String("backup", target), zap.Error(err))
		return
	}
	d.logger.Info("Corrupt store file backed up", zap.String("backup", target))
}

// Save writes value to <path>.tmp and renames it over the backing file.
// The previous file stays untouched until the rename succeeds.
func (d *Document[T]) Save(value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}

	if dir := filepath.Dir(d.path); dir != "" {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmp := d.path + ".tmp"
	if err := d.writeFile(tmp, data); err != nil {
		_ = d.fs.Remove(tmp)
		return err
	}

	if err := d.fs.Rename(tmp, d.path); err != nil {
		_ = d.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}

func (d *Document[T]) writeFile(name string, data []byte) error {
	f, err := d.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	return f.Close()
}

// Commit saves value and logs any failure instead of returning it.
// It reports whether the write reached disk.
func (d *Document[T]) Commit(value T) bool {
	if err := d.Save(value); err != nil {
		d.logger.Error("Failed to persist store, keeping in-memory state", zap.Error(err))
		return false
	}
	return true
}
