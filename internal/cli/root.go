package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todosync/internal/config"
	"github.com/idilsaglam/todosync/internal/logging"
	"github.com/idilsaglam/todosync/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// App carries root flags and the loaded configuration to subcommands.
type App struct {
	ConfigPath string
	Backend    string
	URL        string
	DataPath   string
	LogLevel   string
	Theme      string

	Config *config.Config

	stdout io.Writer
	stderr io.Writer
}

// usageError marks errors that should exit with ExitUsage.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// NewRootCmd builds the todosync command tree.
func NewRootCmd() *cobra.Command {
	app := &App{stdout: os.Stdout, stderr: os.Stderr}

	cmd := &cobra.Command{
		Use:           "todosync",
		Short:         "A todo list kept in step with a remote item store",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  todosync

  # Scriptable commands
  todosync add "Buy milk"
  todosync ls
  todosync done 2

  # Talk to a remote store
  todosync --backend http --url http://127.0.0.1:8080 ls
`),
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return runUI(cmd.Context(), app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.stdout = cmd.OutOrStdout()
		app.stderr = cmd.ErrOrStderr()
		return app.loadConfig(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default ~/.todosync/config.toml)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Item store backend (http|json|sqlite)")
	cmd.PersistentFlags().StringVar(&app.URL, "url", "", "Base URL of the remote item store (http backend)")
	cmd.PersistentFlags().StringVar(&app.DataPath, "data", "", "Data file for the json/sqlite backends")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Theme (classic|neon|mono)")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	cmd.AddCommand(newUICmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// loadConfig reads file + env settings, then applies any root flags given.
func (app *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Store.Backend = app.Backend
	}
	if flags.Changed("url") {
		cfg.Store.URL = app.URL
	}
	if flags.Changed("data") {
		cfg.Store.Path = app.DataPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = app.LogLevel
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = app.Theme
	}
	if err := cfg.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}
	ui.SetTheme(cfg.UI.Theme)
	app.Config = cfg
	return nil
}

// logger returns the operator log for one-shot commands (stderr).
func (app *App) logger() (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:  app.Config.Log.Level,
		Output: app.stderr,
		Prefix: "todosync",
	})
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	return run(ctx, NewRootCmd(), args)
}

func run(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	ui.Fail(cmd.ErrOrStderr(), err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	return ExitError
}

// noArgs rejects positional arguments with a usage error. On a command with
// subcommands a stray word is a mistyped subcommand.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if cmd.HasSubCommands() {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return usagef("%s takes no arguments, got %q", cmd.CommandPath(), args[0])
}
