package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-graph/internal/config"
	"skill-graph/internal/database"
	"skill-graph/internal/database/neo4jdb"
	dbpostgres "skill-graph/internal/database/postgres"
	"skill-graph/internal/delivery/http/handler"
	"skill-graph/internal/domain/matching"
	"skill-graph/internal/infrastructure/cache"
	"skill-graph/internal/logging"
	"skill-graph/internal/repository"
	"skill-graph/internal/usecase"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       database.DB
	Neo4j    neo4j.DriverWithContext
	Cache    *cache.Redis
	Store    repository.SkillGraphStore
	Matching *usecase.MatchingService
}

func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := c.openStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		c.Cache = cache.NewRedis(cfg.Redis, logger)
		store = repository.NewCachedSkillGraphRepository(store, c.Cache, cfg.Redis.TTL, logging.Component(logger, "store_cache"))
	}
	if cfg.Graph.BreakerEnabled && cfg.Graph.Backend != config.BackendMemory {
		store = repository.NewBreakerSkillGraphRepository(store, repository.BreakerSettings{
			Name:        "skill-graph-" + cfg.Graph.Backend,
			MaxFailures: cfg.Graph.BreakerMaxFailures,
			OpenTimeout: cfg.Graph.BreakerOpenTimeout,
		}, logging.Component(logger, "store_breaker"))
	}
	c.Store = store

	c.Matching = usecase.NewMatchingService(store, MatchingConfig(cfg.Matching), logger)
	return c, nil
}

func (c *Container) openStore(ctx context.Context) (repository.SkillGraphStore, error) {
	cfg := c.Config
	switch cfg.Graph.Backend {
	case config.BackendPostgres:
		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.DB = db
		return repository.NewPostgresSkillGraphRepository(db), nil

	case config.BackendNeo4j:
		driver, err := neo4jdb.Connect(ctx, cfg.Neo4j)
		if err != nil {
			return nil, fmt.Errorf("connect neo4j: %w", err)
		}
		c.Neo4j = driver
		return repository.NewNeo4jSkillGraphRepository(driver, cfg.Neo4j.Database), nil

	case config.BackendMemory:
		snap, err := repository.LoadSnapshotFile(cfg.Graph.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		return repository.NewMemorySkillGraphRepository(snap)

	default:
		return nil, fmt.Errorf("unknown graph backend %q", cfg.Graph.Backend)
	}
}

// MatchingConfig maps the configured knobs onto the service settings.
func MatchingConfig(m config.MatchingConfig) usecase.MatchingConfig {
	return usecase.MatchingConfig{
		Scorer: matching.ScorerConfig{
			IndirectDiscount:  m.IndirectDiscount,
			SecondaryDiscount: m.SecondaryDiscount,
			DefaultWeights: matching.Weights{
				Skills:   m.Weights.Skills,
				Location: m.Weights.Location,
				Semantic: m.Weights.Semantic,
			},
		},
		MaxPathDepth: m.MaxPathDepth,
		Workers:      m.Workers,
		DefaultLimit: m.DefaultLimit,
		MaxLimit:     m.MaxLimit,
	}
}

func (c *Container) HealthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{}
	if c.DB != nil {
		checks["database"] = c.DB
	}
	if c.Neo4j != nil {
		checks["neo4j"] = neo4jPinger{driver: c.Neo4j}
	}
	if c.Cache != nil && c.Cache.Enabled() {
		checks["cache"] = c.Cache
	}
	return checks
}

type neo4jPinger struct {
	driver neo4j.DriverWithContext
}

func (p neo4jPinger) Ping(ctx context.Context) error {
	return p.driver.VerifyConnectivity(ctx)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.Neo4j != nil {
		errs = append(errs, c.Neo4j.Close(context.Background()))
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
