package app

import (
	"context"
	"time"

	"referral-radar/internal/cache"
	"referral-radar/internal/config"
	"referral-radar/internal/csvimport"
	"referral-radar/internal/database"
	dbpostgres "referral-radar/internal/database/postgres"
	"referral-radar/internal/feed"
	"referral-radar/internal/matching"
	"referral-radar/internal/store"
	"referral-radar/internal/usecase"

	"go.uber.org/zap"
)

// Container wires the whole dependency graph: config, storage, the matching
// engine, the feed service and the usecases the HTTP layer serves.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Store store.Store

	Engine      *matching.Engine
	Connections *usecase.Connections
	Jobs        *usecase.Jobs
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		c.Store = store.NewMemory()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		c.DB = db

		pg := store.NewPostgres(db, c.Cache, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		c.Store = pg
	}

	c.Engine = matching.NewEngine(c.Store)

	pipeline := csvimport.NewPipeline(c.Store, logger)
	c.Connections = usecase.NewConnections(c.Store, pipeline, c.Engine, logger)

	feedClient := feed.NewClient(logger)
	feedSvc := feed.NewService(feedClient, c.Cache, cfg.Feed.URL, cfg.Feed.CacheTTL, logger)
	c.Jobs = usecase.NewJobs(feedSvc, c.Engine, c.Store, logger)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
