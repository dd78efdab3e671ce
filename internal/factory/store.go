package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edakseva/grievance-server/internal/config"
	storepkg "github.com/edakseva/grievance-server/internal/store"
	"github.com/edakseva/grievance-server/internal/store/docstore"
	"github.com/edakseva/grievance-server/internal/store/kv"
	"github.com/edakseva/grievance-server/internal/store/postgreskv"
	"github.com/edakseva/grievance-server/internal/store/sqlitekv"
)

// NewStore selects the KV backend per config and loads the document store.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	var (
		backend kv.KV
		err     error
	)
	switch cfg.DBDriver {
	case "sqlite":
		backend, err = sqlitekv.New(cfg.SQLitePath)
	case "postgres":
		backend, err = postgreskv.New(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}
	return docstore.New(ctx, backend, log)
}
