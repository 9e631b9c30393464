package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// The mutex serialises writers inside one process; separate processes
// sharing a file are not coordinated.

// DefaultFileName is used when the configured path is a directory.
const DefaultFileName = "todos.json"

// Store keeps the whole list in one JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ store.Store = (*Store)(nil)

// New returns a store backed by path. A directory path gets DefaultFileName appended.
func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = wd
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, DefaultFileName)
	}
	return &Store{path: path}, nil
}

// Path is the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) List(ctx context.Context) (store.Response[[]model.Item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return store.Response[[]model.Item]{}, err
	}
	return store.OK(items), nil
}

func (s *Store) Create(ctx context.Context, f model.Fields) (store.Response[model.Item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return store.Response[model.Item]{}, err
	}
	it := model.Item{ID: uuid.NewString(), Title: f.Title, Completed: f.Completed}
	items = append(items, it)
	if err := s.save(items); err != nil {
		return store.Response[model.Item]{}, err
	}
	return store.OK(it), nil
}

func (s *Store) Update(ctx context.Context, id string, f model.Fields) (store.Response[model.Item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return store.Response[model.Item]{}, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Title = f.Title
		items[i].Completed = f.Completed
		if err := s.save(items); err != nil {
			return store.Response[model.Item]{}, err
		}
		return store.OK(items[i]), nil
	}
	return store.Response[model.Item]{}, fmt.Errorf("update %s: %w", id, store.ErrNotFound)
}

func (s *Store) load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (s *Store) save(items []model.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
