package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todosync/internal/logging"
	"github.com/idilsaglam/todosync/internal/model"
	"github.com/idilsaglam/todosync/internal/store"
	"github.com/idilsaglam/todosync/internal/todolist"
	"github.com/idilsaglam/todosync/internal/tui"
	"github.com/idilsaglam/todosync/internal/ui"
)

func newUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list (default)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), app)
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items with completion stats",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("group") {
				group = app.Config.UI.Group
			}
			return app.withController(cmd.Context(), func(ctx context.Context, c *todolist.Controller) error {
				if err := c.Load(ctx); err != nil {
					return err
				}
				fmt.Fprintln(app.stdout, ui.Panel(listLines(c.State().Items, group)))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: todosync add <title...>")
			}
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				return usagef("add: empty title")
			}
			return app.withController(cmd.Context(), func(ctx context.Context, c *todolist.Controller) error {
				if err := c.AddText(ctx, title); err != nil {
					return err
				}
				items := c.State().Items
				ui.OK(app.stdout, "added "+items[len(items)-1].Title)
				return nil
			})
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle completion of the item at a 1-based index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("usage: todosync done <index>")
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return usagef("done: not a number: %s", args[0])
			}
			return app.withController(cmd.Context(), func(ctx context.Context, c *todolist.Controller) error {
				if err := c.Load(ctx); err != nil {
					return err
				}
				items := c.State().Items
				if n < 1 || n > len(items) {
					return usagef("index out of range: have %d, got %d (run `todosync ls` to see valid indexes)", len(items), n)
				}
				it := items[n-1]
				if err := c.Toggle(ctx, it); err != nil {
					return err
				}
				verb := "completed"
				if it.Completed {
					verb = "reopened"
				}
				ui.OK(app.stdout, verb+" "+it.Title)
				return nil
			})
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completed/remaining/total counts",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withController(cmd.Context(), func(ctx context.Context, c *todolist.Controller) error {
				if err := c.Load(ctx); err != nil {
					return err
				}
				s := c.Stats()
				fmt.Fprintf(app.stdout, "Total: %d  Completed: %d  Remaining: %d\n", s.Total, s.Completed, s.Remaining)
				return nil
			})
		},
	}
}

// withController opens the configured store and hands fn a controller over it.
func (app *App) withController(ctx context.Context, fn func(context.Context, *todolist.Controller) error) error {
	l, err := app.logger()
	if err != nil {
		return err
	}
	defer l.Close()

	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(st)

	return fn(ctx, todolist.NewController(st, l.Logger))
}

func runUI(ctx context.Context, app *App) error {
	l, err := app.uiLogger()
	if err != nil {
		return err
	}
	defer l.Close()

	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(st)

	sum, err := tui.Run(ctx, st, l.Logger)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	t := ui.Current()
	fmt.Fprintf(app.stdout, "%d of %d tasks completed\n", sum.Stats.Completed, sum.Stats.Total)
	if sum.Removed > 0 {
		fmt.Fprintln(app.stdout, t.Muted.Render(fmt.Sprintf(
			"%d item(s) were removed from this view only; they return on the next load.", sum.Removed)))
	}
	return nil
}

// uiLogger is the operator log while the TUI owns the terminal. It goes to
// log.file; with no file configured it is dropped rather than drawn over
// the screen.
func (app *App) uiLogger() (*logging.Logger, error) {
	opts := logging.Options{
		Level:  app.Config.Log.Level,
		File:   strings.TrimSpace(app.Config.Log.File),
		Prefix: "todosync",
	}
	if opts.File == "" {
		opts.Output = io.Discard
	}
	return logging.New(opts)
}

// -------------- rendering helpers --------------

func listLines(items []model.Item, group bool) []string {
	t := ui.Current()
	s := model.Count(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), s.Completed,
		t.Pending.Render(t.SymPending), s.Remaining,
		t.Accent.Render("Total"), s.Total,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(s.Completed, s.Total, 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todosync add \"Buy milk\"`"))
	return lines
}

// flatLines numbers items from first; the numbers are what `done` takes.
func flatLines(items []model.Item, first int) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("No todos yet. Add one above!")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+first)
		box, style := t.BoxUnchecked, t.Muted
		title := it.Title
		if len([]rune(title)) > 80 {
			title = string([]rune(title)[:77]) + "..."
		}
		if it.Completed {
			box, style = t.BoxChecked, t.Success
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), style.Render(box), title))
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	var lines []string
	section := func(name string, completed bool) {
		lines = append(lines, t.Accent.Render(name))
		n := 0
		for i, it := range items {
			if it.Completed != completed {
				continue
			}
			// Keep list positions so the numbers still work with `done`.
			lines = append(lines, flatLines([]model.Item{it}, i+1)...)
			n++
		}
		if n == 0 {
			lines = append(lines, t.Muted.Render("(none)"))
		}
	}
	section("Pending", false)
	lines = append(lines, "")
	section("Done", true)
	return lines
}
