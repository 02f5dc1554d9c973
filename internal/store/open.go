package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/dumpimport/internal/config"
)

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool), nil
	case config.DriverSQLite:
		st, err := OpenSQLite(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}
