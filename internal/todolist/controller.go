package todolist

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
)

// Controller drives a State against a store one request at a time.
// It is the synchronous counterpart of the TUI loop, used by one-shot
// commands. Not safe for concurrent use.
type Controller struct {
	store store.Store
	log   *log.Logger
	state State
}

// NewController returns a controller with an empty list. A nil logger
// discards failure logs.
func NewController(st store.Store, l *log.Logger) *Controller {
	return &Controller{store: st, log: l}
}

// State returns the current list state.
func (c *Controller) State() State { return c.state }

// Stats returns the completion counts of the current list.
func (c *Controller) Stats() model.Stats { return Stats(c.state) }

// SetInput replaces the pending input buffer.
func (c *Controller) SetInput(text string) { c.state = SetInput(c.state, text) }

// Load replaces the list with the store's collection.
func (c *Controller) Load(ctx context.Context) error {
	c.state = BeginLoad(c.state)
	return c.apply(RequestLoad(ctx, c.store))
}

// Add creates an item from the input buffer. Blank input is a no-op.
func (c *Controller) Add(ctx context.Context) error {
	f, ok := PrepareAdd(c.state.Input)
	if !ok {
		return nil
	}
	return c.apply(RequestCreate(ctx, c.store, f))
}

// AddText sets the input buffer to text and adds it.
func (c *Controller) AddText(ctx context.Context, text string) error {
	c.SetInput(text)
	return c.Add(ctx)
}

// Toggle flips the completed flag of it once the store accepts the update.
func (c *Controller) Toggle(ctx context.Context, it model.Item) error {
	return c.apply(RequestToggle(ctx, c.store, it))
}

// Remove drops id from the local list. The store is not told.
func (c *Controller) Remove(id string) {
	c.state = Remove(c.state, id)
}

func (c *Controller) apply(ev Event) error {
	next, rep := Apply(c.state, ev)
	c.state = next
	LogReport(c.log, rep)
	if rep.Failure != nil {
		return rep.Failure
	}
	return nil
}
