package cli

import (
	"context"
	"fmt"

	"github.com/idilsaglam/todosync/internal/auth"
	"github.com/idilsaglam/todosync/internal/config"
	"github.com/idilsaglam/todosync/internal/store"
	"github.com/idilsaglam/todosync/internal/store/httpstore"
	"github.com/idilsaglam/todosync/internal/store/jsonstore"
	"github.com/idilsaglam/todosync/internal/store/sqlitestore"
)

// openStore builds the item store the client talks to. Callers release it
// with store.Close.
func (app *App) openStore(ctx context.Context) (store.Store, error) {
	sc := app.Config.Store
	switch sc.Backend {
	case config.BackendHTTP:
		var opts []httpstore.Option
		ti, err := app.keyring().Get()
		if err != nil {
			return nil, err
		}
		if ti != nil {
			opts = append(opts, httpstore.WithToken(ti.Token))
		}
		return httpstore.New(sc.URL, opts...)
	default:
		return openLocal(ctx, sc.Backend, sc.Path)
	}
}

// openLocal opens a file-backed store (json or sqlite).
func openLocal(ctx context.Context, backend, path string) (store.Store, error) {
	switch backend {
	case config.BackendJSON:
		return jsonstore.New(path)
	case config.BackendSQLite:
		return sqlitestore.Open(ctx, path)
	}
	return nil, fmt.Errorf("backend %q cannot be opened locally", backend)
}

func (app *App) keyring() auth.Keyring {
	dir, err := config.Dir()
	if err != nil {
		dir = "."
	}
	return auth.Keyring{Dir: dir}
}
