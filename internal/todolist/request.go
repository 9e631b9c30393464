package todolist

import (
	"context"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

// Each Request function performs exactly one store call and returns its
// result as an Event. They block until the store answers; run them on their
// own goroutine (a tea.Cmd) to keep the caller responsive.

// RequestLoad lists the whole collection.
func RequestLoad(ctx context.Context, st store.Store) Event {
	resp, err := st.List(ctx)
	return LoadDone{Resp: resp, Err: err}
}

// RequestCreate creates one item from f.
func RequestCreate(ctx context.Context, st store.Store, f model.Fields) Event {
	resp, err := st.Create(ctx, f)
	return Created{Resp: resp, Err: err}
}

// RequestToggle sends the update built by PrepareToggle for it.
func RequestToggle(ctx context.Context, st store.Store, it model.Item) Event {
	id, f := PrepareToggle(it)
	resp, err := st.Update(ctx, id, f)
	return Toggled{ID: id, Resp: resp, Err: err}
}
