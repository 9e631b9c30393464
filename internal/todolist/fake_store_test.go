package todolist

import (
	"context"
	"errors"
	"strconv"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

var errNetwork = errors.New("network down")

// fakeStore records calls and answers from canned fields.
type fakeStore struct {
	items []model.Item
	next  int

	listErr, createErr, updateErr          error
	rejectList, rejectCreate, rejectUpdate bool

	calls []string
}

func (f *fakeStore) List(ctx context.Context) (store.Response[[]model.Item], error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return store.Response[[]model.Item]{}, f.listErr
	}
	if f.rejectList {
		return store.Rejected[[]model.Item]("nope"), nil
	}
	out := append([]model.Item{}, f.items...)
	return store.OK(out), nil
}

func (f *fakeStore) Create(ctx context.Context, fl model.Fields) (store.Response[model.Item], error) {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return store.Response[model.Item]{}, f.createErr
	}
	if f.rejectCreate {
		return store.Rejected[model.Item]("nope"), nil
	}
	f.next++
	it := model.Item{ID: strconv.Itoa(f.next), Title: fl.Title, Completed: fl.Completed}
	f.items = append(f.items, it)
	return store.OK(it), nil
}

func (f *fakeStore) Update(ctx context.Context, id string, fl model.Fields) (store.Response[model.Item], error) {
	f.calls = append(f.calls, "update:"+id)
	if f.updateErr != nil {
		return store.Response[model.Item]{}, f.updateErr
	}
	if f.rejectUpdate {
		return store.Rejected[model.Item]("nope"), nil
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Title = fl.Title
			f.items[i].Completed = fl.Completed
			return store.OK(f.items[i]), nil
		}
	}
	return store.Response[model.Item]{}, store.ErrNotFound
}
