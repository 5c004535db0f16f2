package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var _ Store = (*FileStore)(nil)

// FileStore persists tokens as a JSON document in a single file.
// Writes go to a temporary file that is renamed over the target, so readers
// never observe a partially written pair.
type FileStore struct {
	path string
	lock sync.RWMutex
}

// NewFileStore creates a store backed by path. The file and its directory are
// created on the first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) SetTokens(_ context.Context, access, refresh string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.write(Tokens{Access: access, Refresh: refresh})
}

func (f *FileStore) AccessToken(_ context.Context) (string, error) {
	t, err := f.read()
	if err != nil {
		return "", err
	}
	return t.Access, nil
}

func (f *FileStore) RefreshToken(_ context.Context) (string, error) {
	t, err := f.read()
	if err != nil {
		return "", err
	}
	return t.Refresh, nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("[FileStore Clear] %w", err)
	}
	return nil
}

func (f *FileStore) read() (Tokens, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Tokens{}, nil
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("[FileStore read] %w", err)
	}
	if len(data) == 0 {
		return Tokens{}, nil
	}

	var t Tokens
	if err := json.Unmarshal(data, &t); err != nil {
		return Tokens{}, fmt.Errorf("[FileStore read] %s: %w: %v", f.path, ErrCorrupt, err)
	}
	return t, nil
}

func (f *FileStore) write(t Tokens) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[FileStore write] mkdir: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("[FileStore write] marshal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("[FileStore write] create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore write] chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore write] write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileStore write] close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("[FileStore write] rename: %w", err)
	}
	return nil
}
