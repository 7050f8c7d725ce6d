package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/controlfin/internal/config"
	"github.com/MrJamesThe3rd/controlfin/internal/database"
	"github.com/MrJamesThe3rd/controlfin/internal/local"
	"github.com/MrJamesThe3rd/controlfin/internal/store"
)

func newConfig(mode config.Mode, url, key string) *config.Config {
	var cfg config.Config
	cfg.App.Mode = mode
	cfg.Backend.URL = url
	cfg.Backend.Key = key

	return &cfg
}

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Local", func(t *testing.T) {
		conn, err := database.Connect(ctx, newConfig(config.ModeLocal, "https://x.supabase.co", "key"))
		require.NoError(t, err)

		assert.Equal(t, "local", conn.Kind)
		assert.IsType(t, &local.Store{}, conn.Repository)
		assert.NoError(t, conn.Close())
	})

	t.Run("REST", func(t *testing.T) {
		conn, err := database.Connect(ctx, newConfig(config.ModeRemote, "https://x.supabase.co", "key"))
		require.NoError(t, err)

		assert.Equal(t, string(config.DriverREST), conn.Kind)
		assert.IsType(t, &store.Store{}, conn.Repository)
		assert.NoError(t, conn.Close())
	})

	t.Run("MalformedKey", func(t *testing.T) {
		_, err := database.Connect(ctx, newConfig(config.ModeRemote, "https://x.supabase.co", "a.b.c"))
		assert.ErrorContains(t, err, "malformed access key")
	})

	t.Run("UnsupportedScheme", func(t *testing.T) {
		_, err := database.Connect(ctx, newConfig(config.ModeRemote, "ftp://x.supabase.co", "key"))
		assert.ErrorContains(t, err, "unsupported scheme")
	})
}
