package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	apperrors "github.com/julianstephens/focos/internal/errors"
)

type jsonDocument struct {
	Version int               `json:"version"`
	Data    map[string]string `json:"data"`
}

// JSONStore keeps every key in a single JSON document on disk. Each write
// rewrites the whole file through a temp file and rename.
type JSONStore struct {
	path string
	doc  *jsonDocument
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", apperrors.ErrAlreadyInitialized, s.path)
	}

	s.doc = &jsonDocument{
		Version: 1,
		Data:    make(map[string]string),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Data == nil {
		doc.Data = make(map[string]string)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	s.doc = nil
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) (string, error) {
	if s.doc == nil {
		return "", apperrors.ErrNotLoaded
	}
	v, ok := s.doc.Data[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, apperrors.ErrNotFound)
	}
	return v, nil
}

func (s *JSONStore) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

func (s *JSONStore) SetMany(entries map[string]string) error {
	if s.doc == nil {
		return apperrors.ErrNotLoaded
	}

	previous := make(map[string]*string, len(entries))
	for key, value := range entries {
		if old, ok := s.doc.Data[key]; ok {
			previous[key] = &old
		} else {
			previous[key] = nil
		}
		s.doc.Data[key] = value
	}

	if err := s.save(); err != nil {
		// Keep memory in line with what is on disk.
		for key, old := range previous {
			if old == nil {
				delete(s.doc.Data, key)
			} else {
				s.doc.Data[key] = *old
			}
		}
		return err
	}
	return nil
}

func (s *JSONStore) Delete(key string) error {
	if s.doc == nil {
		return apperrors.ErrNotLoaded
	}
	if _, ok := s.doc.Data[key]; !ok {
		return nil
	}
	delete(s.doc.Data, key)
	return s.save()
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.doc == nil {
		return nil, apperrors.ErrNotLoaded
	}
	keys := make([]string, 0, len(s.doc.Data))
	for k := range s.doc.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
