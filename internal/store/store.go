// Package store defines the Item Store contract the list controller talks to.
// Backends live in subpackages. There is no delete: removal is local to the client.
package store

import (
	"context"
	"errors"

	"github.com/idilsaglam/todosync/internal/model"
)

// ErrNotFound is returned by backends when an update names an unknown id.
var ErrNotFound = errors.New("item not found")

// Response is the envelope every store call answers with.
// Success=false with a nil error is a rejection: the store answered but refused.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// OK wraps data in a successful response.
func OK[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: data}
}

// Rejected builds a failed response carrying msg.
func Rejected[T any](msg string) Response[T] {
	return Response[T]{Message: msg}
}

// Store is the create/read/update data-access object.
type Store interface {
	List(ctx context.Context) (Response[[]model.Item], error)
	Create(ctx context.Context, f model.Fields) (Response[model.Item], error)
	Update(ctx context.Context, id string, f model.Fields) (Response[model.Item], error)
}

// Closer is implemented by backends holding resources (files, db handles).
type Closer interface {
	Close() error
}

// Close releases s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
