package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/rogersnm/todo/internal/model"
)

const lockFileName = ".lock"

// FileBackend stores one file per key under Dir. Writes go to a temp file
// that is renamed over the record, under an exclusive lock on Dir/.lock so
// two processes never interleave writes. A positive Quota bounds the total
// size of all records.
type FileBackend struct {
	Dir   string
	Quota int64

	flk *flock.Flock
}

var _ Backend = (*FileBackend)(nil)

func NewFile(dir string, quota int64) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileBackend{
		Dir:   dir,
		Quota: quota,
		flk:   flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

func (f *FileBackend) Path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *FileBackend) Get(key string) ([]byte, error) {
	if err := f.flk.RLock(); err != nil {
		return nil, fmt.Errorf("locking data dir: %w", err)
	}
	defer func() { _ = f.flk.Unlock() }()

	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNoRecord)
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

func (f *FileBackend) Put(key string, data []byte) error {
	if err := f.flk.Lock(); err != nil {
		return fmt.Errorf("locking data dir: %w", err)
	}
	defer func() { _ = f.flk.Unlock() }()

	path := f.Path(key)
	if f.Quota > 0 {
		used, err := f.usage(path)
		if err != nil {
			return err
		}
		if used+int64(len(data)) > f.Quota {
			return fmt.Errorf("writing %s (%d bytes): %w", key, len(data), model.ErrQuotaExceeded)
		}
	}

	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return mapWriteErr(key, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return mapWriteErr(key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return mapWriteErr(key, err)
	}
	if err := tmp.Close(); err != nil {
		return mapWriteErr(key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

func (f *FileBackend) Delete(key string) error {
	if err := f.flk.Lock(); err != nil {
		return fmt.Errorf("locking data dir: %w", err)
	}
	defer func() { _ = f.flk.Unlock() }()

	if err := os.Remove(f.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// usage sums the size of every record except the one at skip.
func (f *FileBackend) usage(skip string) (int64, error) {
	matches, err := filepath.Glob(filepath.Join(f.Dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("globbing %s: %w", f.Dir, err)
	}
	var total int64
	for _, m := range matches {
		if m == skip {
			continue
		}
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func mapWriteErr(key string, err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return fmt.Errorf("writing %s: %w", key, model.ErrQuotaExceeded)
	}
	return fmt.Errorf("writing %s: %w", key, err)
}
