package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// LocalState is the client-local key/value store for carryover markers,
// one small file per key under a base directory. "dealtWith:2024-01-02" is
// stored as dealtWith/2024-01-02.
type LocalState struct {
	d        *diskv.Diskv
	basePath string
}

// OpenLocalState creates a LocalState rooted at basePath.
func OpenLocalState(basePath string) (*LocalState, error) {
	if basePath == "" {
		return nil, errors.New("store: local state path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure local state path: %w", err)
	}
	return &LocalState{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
	}), basePath: basePath}, nil
}

// Get implements carryover.KV.
func (l *LocalState) Get(key string) (string, bool, error) {
	if !l.d.Has(key) {
		return "", false, nil
	}
	val, err := l.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("store: read %s: %w", key, err)
	}
	return string(val), true, nil
}

// Set implements carryover.KV.
func (l *LocalState) Set(key, value string) error {
	if err := l.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys with the given prefix.
func (l *LocalState) Keys(prefix string) []string {
	var keys []string
	for key := range l.d.KeysPrefix(prefix, nil) {
		keys = append(keys, key)
	}
	return keys
}

// Erase removes key. Missing keys are not an error.
func (l *LocalState) Erase(key string) error {
	if !l.d.Has(key) {
		return nil
	}
	return l.d.Erase(key)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, ":")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s:%s", strings.Join(pathKey.Path, ":"), pathKey.FileName)
}
