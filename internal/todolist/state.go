// Package todolist keeps a local todo list in step with a remote item store.
//
// State is a plain value. Requests are prepared from it, sent to the store by
// whoever owns the event loop, and their results come back as events that
// Apply folds into the next State. Nothing here blocks or locks.
//
// Remove never reaches the store (it has no delete), so a removed item comes
// back on the next Load.
package todolist

import (
	"errors"
	"slices"
	"strings"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

// ErrInvalidItem is reported when the store hands back an item with a blank title.
var ErrInvalidItem = errors.New("item has an empty title")

// State is the list view state: items in store order, the pending input
// buffer, and a busy flag that is only set during a load.
type State struct {
	Items []model.Item
	Input string
	Busy  bool
}

// Event is the result of one store request.
type Event interface{ event() }

// LoadDone carries the answer to a list request.
type LoadDone struct {
	Resp store.Response[[]model.Item]
	Err  error
}

// Created carries the answer to a create request.
type Created struct {
	Resp store.Response[model.Item]
	Err  error
}

// Toggled carries the answer to the update request sent for item ID.
type Toggled struct {
	ID   string
	Resp store.Response[model.Item]
	Err  error
}

func (LoadDone) event() {}
func (Created) event()  {}
func (Toggled) event()  {}

// Report describes what Apply could not apply cleanly.
type Report struct {
	// Failure is set when the request failed; state was left as it was.
	Failure *Failure
	// Dropped lists loaded items discarded for having a blank title.
	Dropped []model.Item
}

// OK reports whether the event applied without failure.
func (r Report) OK() bool { return r.Failure == nil }

// SetInput replaces the pending input buffer.
func SetInput(s State, text string) State {
	s.Input = text
	return s
}

// BeginLoad marks the list busy before the initial list request is sent.
func BeginLoad(s State) State {
	s.Busy = true
	return s
}

// PrepareAdd returns the create request for text. ok is false when the
// trimmed text is empty, in which case nothing must be sent.
func PrepareAdd(text string) (f model.Fields, ok bool) {
	title := strings.TrimSpace(text)
	if title == "" {
		return model.Fields{}, false
	}
	return model.Fields{Title: title, Completed: false}, true
}

// PrepareToggle returns the update request flipping the item's completed flag.
func PrepareToggle(it model.Item) (id string, f model.Fields) {
	f = it.Fields()
	f.Completed = !f.Completed
	return it.ID, f
}

// Remove drops the item with the given id from local state only.
func Remove(s State, id string) State {
	i := indexOf(s.Items, id)
	if i < 0 {
		return s
	}
	s.Items = slices.Delete(slices.Clone(s.Items), i, i+1)
	return s
}

// Find returns the local item with the given id.
func Find(s State, id string) (model.Item, bool) {
	i := indexOf(s.Items, id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.Items[i], true
}

// Stats returns the completion counts for the current items.
func Stats(s State) model.Stats {
	return model.Count(s.Items)
}

// Apply folds the result of one request into s.
func Apply(s State, ev Event) (State, Report) {
	switch ev := ev.(type) {
	case LoadDone:
		return applyLoad(s, ev)
	case Created:
		return applyCreated(s, ev)
	case Toggled:
		return applyToggled(s, ev)
	}
	return s, Report{}
}

func applyLoad(s State, ev LoadDone) (State, Report) {
	s.Busy = false
	if err := failed(ev.Err, ev.Resp.Success, ev.Resp.Message); err != nil {
		return s, Report{Failure: &Failure{Op: OpLoad, Err: err}}
	}
	var rep Report
	items := make([]model.Item, 0, len(ev.Resp.Data))
	for _, it := range ev.Resp.Data {
		if !it.Valid() {
			rep.Dropped = append(rep.Dropped, it)
			continue
		}
		items = append(items, it)
	}
	s.Items = items
	return s, rep
}

func applyCreated(s State, ev Created) (State, Report) {
	if err := failed(ev.Err, ev.Resp.Success, ev.Resp.Message); err != nil {
		return s, Report{Failure: &Failure{Op: OpCreate, Err: err}}
	}
	it := ev.Resp.Data
	if !it.Valid() {
		return s, Report{Failure: &Failure{Op: OpCreate, ID: it.ID, Err: ErrInvalidItem}}
	}
	s.Items = append(slices.Clone(s.Items), it)
	s.Input = ""
	return s, Report{}
}

func applyToggled(s State, ev Toggled) (State, Report) {
	if err := failed(ev.Err, ev.Resp.Success, ev.Resp.Message); err != nil {
		return s, Report{Failure: &Failure{Op: OpUpdate, ID: ev.ID, Err: err}}
	}
	i := indexOf(s.Items, ev.ID)
	if i < 0 {
		// Removed locally while the request was in flight.
		return s, Report{}
	}
	s.Items = slices.Clone(s.Items)
	s.Items[i].Completed = !s.Items[i].Completed
	return s, Report{}
}

func failed(err error, success bool, msg string) error {
	if err != nil {
		return err
	}
	if !success {
		return rejection(msg)
	}
	return nil
}

func indexOf(items []model.Item, id string) int {
	return slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
}
