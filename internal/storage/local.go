package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps documents on the local filesystem under a root
// directory. The default for single-node deployments.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Upload(_ context.Context, objectName string, _ string, r io.Reader) (string, error) {
	path, err := s.resolve(objectName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return objectName, nil
}

func (s *LocalStore) Fetch(_ context.Context, storedPath string) (string, func(), error) {
	path, err := s.resolve(storedPath)
	if err != nil {
		return "", func() {}, err
	}
	if _, err := os.Stat(path); err != nil {
		return "", func() {}, err
	}
	return path, func() {}, nil
}

// resolve keeps object keys inside the root.
func (s *LocalStore) resolve(objectName string) (string, error) {
	clean := filepath.Clean("/" + objectName)
	if strings.Contains(objectName, "..") {
		return "", fmt.Errorf("invalid object name %q", objectName)
	}
	return filepath.Join(s.root, clean), nil
}

var _ Store = (*LocalStore)(nil)
