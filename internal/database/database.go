// Package database opens the record store selected by the configuration.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/controlfin/internal/config"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
	"github.com/MrJamesThe3rd/controlfin/internal/local"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore/postgres"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore/rest"
	"github.com/MrJamesThe3rd/controlfin/internal/store"
)

// Connection is an open record store.
type Connection struct {
	Repository ledger.Repository
	// Kind is "local" or the backend driver name.
	Kind  string
	close func() error
}

func (c *Connection) Close() error {
	if c.close == nil {
		return nil
	}

	return c.close()
}

// Connect returns the in-memory store in local mode. In remote mode the
// backend URL scheme selects the REST client or a direct Postgres
// connection, whose schema is created when missing.
func Connect(ctx context.Context, cfg *config.Config) (*Connection, error) {
	log := logging.FromContext(ctx)

	if cfg.App.Mode == config.ModeLocal {
		log.Info("using local store, records are not persisted")
		return &Connection{Repository: local.New(), Kind: string(config.ModeLocal)}, nil
	}

	info, err := config.InspectKey(cfg.Backend.Key, time.Now())
	if err != nil {
		return nil, err
	}

	if info.JWT {
		log.Info("access key loaded", slog.String("role", info.Role))
	}

	driver, err := cfg.Driver()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverPostgres:
		connStr, err := postgres.ConnString(cfg.Backend.URL, cfg.Backend.Key)
		if err != nil {
			return nil, err
		}

		db, err := postgres.Open(ctx, connStr)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		pg := postgres.New(db)
		if err := pg.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}

		return &Connection{Repository: store.New(pg), Kind: string(driver), close: db.Close}, nil
	default:
		client := rest.New(cfg.Backend.URL, cfg.Backend.Key, cfg.Backend.Timeout)
		return &Connection{Repository: store.New(client), Kind: string(driver)}, nil
	}
}
