package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"commerce-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Snapshot is one archived copy of the state documents.
type Snapshot struct {
	RunID    string    `json:"run_id"`
	Files    []string  `json:"files"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`

	objects []minio.ObjectInfo
}

// Options configures an Uploader.
type Options struct {
	Bucket string
	Region string
	// Prefix defaults to "snapshots".
	Prefix string
	// Keep is how many snapshots Archive leaves behind. Zero disables pruning.
	Keep int
	// Files are the local documents to archive.
	Files []string
}

// Uploader archives the state documents to object storage.
type Uploader struct {
	client storage.Client
	fs     afero.Fs
	opts   Options
	logger *zap.Logger
}

// NewUploader creates an uploader reading documents from fs.
func NewUploader(client storage.Client, fs afero.Fs, opts Options, logger *zap.Logger) *Uploader {
	if opts.Prefix == "" {
		opts.Prefix = "snapshots"
	}
	opts.Prefix = strings.Trim(opts.Prefix, "/")
	return &Uploader{client: client, fs: fs, opts: opts, logger: logger}
}

func (u *Uploader) key(runID, file string) string {
	return path.Join(u.opts.Prefix, runID, filepath.Base(file))
}

// Archive uploads every document to <prefix>/<runID>/ and prunes old
// snapshots. Documents that do not exist yet are skipped.
func (u *Uploader) Archive(ctx context.Context, runID string) error {
	if runID == "" {
		return errors.New("snapshot needs a run id")
	}
	if err := storage.EnsureBucket(ctx, u.client, u.opts.Bucket, u.opts.Region); err != nil {
		return err
	}

	l := u.logger.With(zap.String("run_id", runID))
	uploaded := 0
	for _, file := range u.opts.Files {
		data, err := afero.ReadFile(u.fs, file)
		if errors.Is(err, os.ErrNotExist) {
			l.Debug("Document not written yet, skipping", zap.String("file", file))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		key := u.key(runID, file)
		_, err = u.client.PutObject(ctx, u.opts.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		uploaded++
	}
	l.Info("State snapshot archived", zap.Int("files", uploaded), zap.String("bucket", u.opts.Bucket))

	if u.opts.Keep > 0 {
		if _, err := u.Prune(ctx, u.opts.Keep); err != nil {
			l.Warn("Failed to prune old snapshots", zap.Error(err))
		}
	}
	return nil
}

// List returns the archived snapshots, newest first.
func (u *Uploader) List(ctx context.Context) ([]Snapshot, error) {
	byRun := make(map[string]*Snapshot)
	for obj := range u.client.ListObjects(ctx, u.opts.Bucket, minio.ListObjectsOptions{
		Prefix:    u.opts.Prefix + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		rest := strings.TrimPrefix(obj.Key, u.opts.Prefix+"/")
		runID, name, ok := strings.Cut(rest, "/")
		if !ok || runID == "" {
			continue
		}

		s, exists := byRun[runID]
		if !exists {
			s = &Snapshot{RunID: runID}
			byRun[runID] = s
		}
		s.Files = append(s.Files, name)
		s.Size += obj.Size
		if obj.LastModified.After(s.Modified) {
			s.Modified = obj.LastModified
		}
		s.objects = append(s.objects, obj)
	}

	out := make([]Snapshot, 0, len(byRun))
	for _, s := range byRun {
		slices.Sort(s.Files)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b Snapshot) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return strings.Compare(b.RunID, a.RunID)
	})
	return out, nil
}

// Prune deletes every snapshot but the newest keep and returns how many were
// removed.
func (u *Uploader) Prune(ctx context.Context, keep int) (int, error) {
	snapshots, err := u.List(ctx)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(snapshots) <= keep {
		return 0, nil
	}
	stale := snapshots[keep:]

	objectsCh := make(chan minio.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for _, s := range stale {
			for _, obj := range s.objects {
				select {
				case objectsCh <- obj:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var errs []error
	for rerr := range u.client.RemoveObjects(ctx, u.opts.Bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("%s: %w", rerr.ObjectName, rerr.Err))
	}
	if len(errs) > 0 {
		return 0, fmt.Errorf("failed to remove snapshots: %w", errors.Join(errs...))
	}

	u.logger.Info("Old snapshots pruned", zap.Int("removed", len(stale)), zap.Int("kept", keep))
	return len(stale), nil
}

// Restore downloads the snapshot of runID over the local documents. Only
// documents present in the snapshot are replaced.
func (u *Uploader) Restore(ctx context.Context, runID string) ([]string, error) {
	snapshots, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(snapshots, func(s Snapshot) bool { return s.RunID == runID })
	if idx < 0 {
		return nil, fmt.Errorf("snapshot %s not found", runID)
	}
	available := snapshots[idx].Files

	var restored []string
	for _, file := range u.opts.Files {
		if !slices.Contains(available, filepath.Base(file)) {
			continue
		}
		if err := u.download(ctx, u.key(runID, file), file); err != nil {
			return restored, err
		}
		restored = append(restored, file)
	}
	u.logger.Info("State snapshot restored", zap.String("run_id", runID), zap.Strings("files", restored))
	return restored, nil
}

func (u *Uploader) download(ctx context.Context, key, file string) error {
	obj, err := u.client.GetObject(ctx, u.opts.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := u.fs.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(file), err)
	}
	if err := afero.WriteFile(u.fs, file, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}
