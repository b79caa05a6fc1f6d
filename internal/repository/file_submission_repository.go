package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/58nights/backend/internal/model"
)

// FileSubmissionRepository keeps the submission log as a single
// pretty-printed JSON array on local disk.
//
// Every Append reads the whole file, appends, and rewrites it through a
// temp file + rename, so a reader never observes a truncated log. Appends
// within one process are serialised; separate processes sharing the file
// can still lose updates.
type FileSubmissionRepository struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewFileSubmissionRepository creates a repository backed by the file at path.
// The file is created on first Append.
func NewFileSubmissionRepository(path string) *FileSubmissionRepository {
	return &FileSubmissionRepository{path: path, now: time.Now}
}

// Ensure FileSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*FileSubmissionRepository)(nil)

// Path returns the location of the backing file.
func (r *FileSubmissionRepository) Path() string {
	return r.path
}

func (r *FileSubmissionRepository) Append(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, err := r.read()
	if errors.Is(err, ErrCorruptStore) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	// Timestamps never go backwards within the log, even if the wall clock does.
	ts := model.FormatTimestamp(r.now())
	if n := len(subs); n > 0 && ts < subs[n-1].Timestamp {
		ts = subs[n-1].Timestamp
	}

	// sub only gets its timestamp once the record is on disk.
	rec := *sub
	rec.Timestamp = ts
	if err := r.write(append(subs, &rec)); err != nil {
		return err
	}
	sub.Timestamp = ts
	return nil
}

func (r *FileSubmissionRepository) List(_ context.Context) ([]*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *FileSubmissionRepository) read() ([]*model.Submission, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*model.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: read %s: %w", r.path, err)
	}

	var subs []*model.Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptStore, r.path, err)
	}
	if subs == nil {
		subs = []*model.Submission{}
	}
	return subs, nil
}

func (r *FileSubmissionRepository) write(subs []*model.Submission) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir: %w", ErrPersist, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", ErrPersist, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %w", ErrPersist, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync: %w", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrPersist, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: chmod: %w", ErrPersist, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrPersist, err)
	}
	return nil
}
