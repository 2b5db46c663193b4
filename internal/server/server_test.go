package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/plantbot/internal/config"
	"github.com/HendryAvila/plantbot/internal/store"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Backend = backend
	cfg.Database = filepath.Join(cfg.DataDir, "plants.db")
	cfg.AllowedUsers = []int64{1}
	cfg.Log.Level = "error"
	return &cfg
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendFiles, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			app, cleanup, err := New(testConfig(t, backend))
			require.NoError(t, err)
			defer cleanup()

			switch backend {
			case config.BackendFiles:
				assert.IsType(t, &store.FileStore{}, app.Store)
			case config.BackendSQLite:
				assert.IsType(t, &store.SQLStore{}, app.Store)
				assert.FileExists(t, filepath.Join(app.Config.DataDir, "plants.db"))
			}

			out, err := app.Dispatcher.HandleMessage(context.Background(), 1, "/help")
			require.NoError(t, err)
			assert.Contains(t, out.Reply, "Possible commands")

			assert.NotNil(t, NewMCP(app, func() {}))
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, "postgres")

	_, err := OpenStore(cfg, nil)
	assert.ErrorContains(t, err, `unknown backend "postgres"`)
}
