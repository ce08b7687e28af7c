package dumpstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"scoutnet/internal/roster/fetcher"
)

const fileExt = ".json"

// FileStore keeps one JSON document per dump in a directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes the dump through a temporary file so a reader never sees a
// partial document.
func (s *FileStore) Save(ctx context.Context, name string, d *fetcher.Dump) error {
	if err := validateName(name); err != nil {
		return err
	}
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode dump %s: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dump %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write dump %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to save dump %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, name string) (*fetcher.Dump, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read dump %s: %w", name, err)
	}
	return fetcher.UnmarshalDump(data)
}
