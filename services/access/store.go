package access

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// keyFile is the on-disk allowlist format:
//
//	keys:
//	  - first-key
//	  - second-key
type keyFile struct {
	Keys []string `yaml:"keys"`
}

// Store is the process-wide allowlist. It merges a static key list with an
// optional YAML file and swaps the whole set atomically on reload, so
// readers never need a lock.
type Store struct {
	static []string
	path   string
	logger *zap.Logger
	keys   atomic.Pointer[StaticKeys]
}

// NewStore creates a store seeded with static keys. path may be empty.
func NewStore(static []string, path string, logger *zap.Logger) *Store {
	s := &Store{
		static: static,
		path:   path,
		logger: logger,
	}
	initial := NewStaticKeys(static...)
	s.keys.Store(&initial)
	return s
}

// Contains reports membership in the current set
func (s *Store) Contains(key string) bool {
	return s.keys.Load().Contains(key)
}

// Len returns the size of the current set
func (s *Store) Len() int {
	return s.keys.Load().Len()
}

// Path returns the watched allowlist file, if any
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the allowlist file and replaces the current set. On error
// the previous set is kept.
func (s *Store) Reload() error {
	keys := append([]string(nil), s.static...)

	if s.path != "" {
		fromFile, err := loadKeyFile(s.path)
		if err != nil {
			return fmt.Errorf("failed to load allowlist %s: %w", s.path, err)
		}
		keys = append(keys, fromFile...)
	}

	set := NewStaticKeys(keys...)
	s.keys.Store(&set)

	s.logger.Info("allowlist loaded",
		zap.String("path", s.path),
		zap.Int("keys", set.Len()))
	return nil
}

func loadKeyFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var kf keyFile
	if err := dec.Decode(&kf); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	keys := make([]string, 0, len(kf.Keys))
	for _, k := range kf.Keys {
		keys = append(keys, strings.TrimSpace(k))
	}
	return keys, nil
}
