// Package sqlitestore keeps todo items in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	title     TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0
);`

// Store is a SQLite-backed item store. Rows keep insertion order through seq.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) List(ctx context.Context) (store.Response[[]model.Item], error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, completed FROM todos ORDER BY seq`)
	if err != nil {
		return store.Response[[]model.Item]{}, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Completed); err != nil {
			return store.Response[[]model.Item]{}, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return store.Response[[]model.Item]{}, fmt.Errorf("iterate todos: %w", err)
	}
	return store.OK(items), nil
}

func (s *Store) Create(ctx context.Context, f model.Fields) (store.Response[model.Item], error) {
	it := model.Item{ID: uuid.NewString(), Title: f.Title, Completed: f.Completed}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, completed) VALUES (?, ?, ?)`,
		it.ID, it.Title, it.Completed)
	if err != nil {
		return store.Response[model.Item]{}, fmt.Errorf("insert todo: %w", err)
	}
	return store.OK(it), nil
}

func (s *Store) Update(ctx context.Context, id string, f model.Fields) (store.Response[model.Item], error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ? WHERE id = ?`,
		f.Title, f.Completed, id)
	if err != nil {
		return store.Response[model.Item]{}, fmt.Errorf("update todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.Response[model.Item]{}, fmt.Errorf("update todo: %w", err)
	}
	if n == 0 {
		return store.Response[model.Item]{}, fmt.Errorf("update %s: %w", id, store.ErrNotFound)
	}
	return store.OK(model.Item{ID: id, Title: f.Title, Completed: f.Completed}), nil
}
