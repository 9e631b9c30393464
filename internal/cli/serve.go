package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todosync/internal/server"
	"github.com/idilsaglam/todosync/internal/store"
)

func newServeCmd(app *App) *cobra.Command {
	var addr, backend, path, token string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an item store over HTTP for the http backend",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := app.Config.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			if cmd.Flags().Changed("backend-store") {
				sc.Backend = backend
			}
			if cmd.Flags().Changed("path") {
				sc.Path = path
			}
			if cmd.Flags().Changed("token") {
				sc.Token = token
			}
			if err := sc.Validate(); err != nil {
				return usageError{msg: err.Error()}
			}

			l, err := app.logger()
			if err != nil {
				return err
			}
			defer l.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openLocal(ctx, sc.Backend, sc.Path)
			if err != nil {
				return err
			}
			defer store.Close(st)

			var opts []server.Option
			if sc.Token != "" {
				opts = append(opts, server.WithToken(sc.Token))
			}
			l.Info("opened backing store", "backend", sc.Backend, "path", sc.Path)
			return server.Serve(ctx, sc.Addr, server.New(st, l.Logger, opts...), l.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&backend, "backend-store", "", "Backing store for the server (json|sqlite)")
	cmd.Flags().StringVar(&path, "path", "", "Data file for the backing store")
	cmd.Flags().StringVar(&token, "token", "", "Require this bearer token from clients")
	return cmd
}
