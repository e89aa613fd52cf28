// Package file provides a file-backed blob store: one file per key under a
// root directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bhouston/chat-app/internal/domain"
	"github.com/bhouston/chat-app/internal/ports"
)

const (
	storeDirMode = 0o700
	blobFileMode = 0o600
)

type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.BlobStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(value), blobFileMode); err != nil {
		return fmt.Errorf("write blob %q: %w", key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("blob %q: %w", key, domain.ErrBlobNotFound)
		}
		return "", fmt.Errorf("read blob %q: %w", key, err)
	}

	return string(data), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}

	return nil
}

// pathForKey maps a key to a file under the store root. Keys use ':' as a
// scope separator, which maps to a subdirectory so each prefix gets its own
// directory.
func (s *Store) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("blob key is empty")
	}

	cleaned := filepath.Clean(strings.ReplaceAll(trimmed, ":", string(filepath.Separator)))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}

	return filepath.Join(s.root, cleaned), nil
}
