package router

import (
	"context"
	"fmt"

	mem "pet-lost-found/internal/adapters/storage/memory"
	mdb "pet-lost-found/internal/adapters/storage/mongodb"
	pg "pet-lost-found/internal/adapters/storage/postgres"
	"pet-lost-found/internal/config"
	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/logger"
)

// OpenStore abre el store elegido por config; la func devuelta libera conexiones.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger) (pets.Store, func(context.Context) error, error) {
	if log == nil {
		log = logger.Nop()
	}
	noop := func(context.Context) error { return nil }

	switch cfg.Store {
	case config.StorePostgres:
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("store ready", map[string]any{"store": "postgres"})
		return pg.NewPetsRepo(db), func(context.Context) error { return db.Close() }, nil

	case config.StoreMongo:
		client, err := mdb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if _, err := mdb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		log.Info("store ready", map[string]any{"store": "mongo", "database": cfg.MongoDatabase})
		return mdb.NewPetsRepo(db), client.Disconnect, nil

	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart", nil)
		return mem.NewPetRepo(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
