package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todosync/internal/auth"
	"github.com/idilsaglam/todosync/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token sent to a remote item store",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: todosync auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Save a token (read from stdin)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, "Paste your token: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && strings.TrimSpace(line) == "" {
				return fmt.Errorf("read token: %w", err)
			}
			fmt.Fprintln(app.stdout)
			if err := app.keyring().Set(line, nil); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK(app.stdout, "logged in")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Delete the saved token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := app.keyring()
			ti, _ := k.Get()
			if ti != nil && ti.Source == auth.SourceEnv {
				ui.OK(app.stdout, "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
				return nil
			}
			if err := k.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(app.stdout, "logged out")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := app.keyring().Get()
			if err != nil {
				return err
			}
			if ti == nil {
				fmt.Fprintln(app.stdout, ui.Current().Muted.Render("not logged in"))
				fmt.Fprintln(app.stdout, "Run: todosync auth login")
				return nil
			}
			fmt.Fprintf(app.stdout, "source: %s\n", ti.Source)
			if ti.ExpiresAt != nil {
				fmt.Fprintf(app.stdout, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
			} else {
				fmt.Fprintln(app.stdout, "expires: (unknown)")
			}
			fmt.Fprintln(app.stdout, "env override: "+auth.EnvToken)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Decode the token's JWT payload locally (unverified)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := app.keyring().Get()
			if err != nil {
				return err
			}
			if ti == nil {
				return usagef("not logged in. Run: todosync auth login")
			}
			claims, err := auth.DecodeClaims(ti.Token)
			if errors.Is(err, auth.ErrOpaque) {
				fmt.Fprintln(app.stdout, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(app.stdout, "source:", ti.Source)
				return nil
			}
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, "JWT payload:")
			fmt.Fprintln(app.stdout, string(b))
			return nil
		},
	})
	return cmd
}
