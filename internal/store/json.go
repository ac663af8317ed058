package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/papapumpkin/habitflow/internal/habit"
)

// JSONStore keeps the registry in a single JSON document on disk.
type JSONStore struct {
	path string
	opts Options
	log  *zap.Logger
}

// NewJSONStore returns a store backed by the JSON file at path. The file
// is not touched until the first Load or Save.
func NewJSONStore(path string, opts Options) *JSONStore {
	return &JSONStore{
		path: path,
		opts: opts,
		log:  opts.logger().With(zap.String("store", BackendJSON), zap.String("path", path)),
	}
}

// Path returns the data file location.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the data file. A missing file yields an empty registry; a
// file that cannot be parsed yields a recovered empty registry and leaves
// the file in place until the next Save.
func (s *JSONStore) Load(ctx context.Context) (LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("data file not found, starting empty")
		return LoadResult{Registry: habit.NewRegistry(s.opts.Clock)}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("store: open %s: %w", s.path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return LoadResult{}, fmt.Errorf("store: read %s: %w", s.path, err)
	}

	reg, err := DecodeDocument(data, s.opts.Clock)
	if err != nil {
		s.log.Warn("data file is corrupt, substituting an empty registry", zap.Error(err))
		return recovered(s.opts, err), nil
	}
	s.log.Debug("loaded registry", zap.Int("habits", reg.Len()))
	return LoadResult{Registry: reg}, nil
}

// Save writes reg atomically: the document goes to a synced temp file in
// the same directory which then replaces the data file.
func (s *JSONStore) Save(ctx context.Context, reg *habit.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeDocument(reg)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("store: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("store: rename %s: %w", s.path, err)
	}
	committed = true

	s.log.Debug("saved registry", zap.Int("habits", reg.Len()))
	return nil
}

// Close is a no-op; the file is only held open inside Load and Save.
func (s *JSONStore) Close() error {
	return nil
}
