package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skill-graph/internal/config"
	"skill-graph/internal/database/migration"
	dbpostgres "skill-graph/internal/database/postgres"
	"skill-graph/internal/database/seeder"
	"skill-graph/internal/infrastructure/cache"
	"skill-graph/internal/logging"
	"skill-graph/internal/repository"

	"go.uber.org/zap"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "path to a skill graph snapshot YAML (defaults to graph.snapshot_path)")
	migrationsDir := flag.String("migrations", "migrations", "directory holding V<n>__<name>.sql files")
	reset := flag.Bool("reset", false, "truncate graph tables before seeding")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	r := migration.Runner{Dir: *migrationsDir, Logger: logger}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if *migrateOnly {
		return
	}

	path := *snapshotPath
	if path == "" {
		path = cfg.Graph.SnapshotPath
	}
	if path == "" {
		logger.Fatal("provide -snapshot or GRAPH_SNAPSHOT_PATH")
	}

	snap, err := repository.LoadSnapshotFile(path)
	if err != nil {
		logger.Fatal("failed to load snapshot", zap.String("path", path), zap.Error(err))
	}

	runner := seeder.Runner{Seeders: seeder.Defaults(snap, *reset), Logger: logger}
	if err := runner.Run(ctx, db); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete",
		zap.String("snapshot", path),
		zap.Int("skills", len(snap.Skills)),
		zap.Int("relationships", len(snap.Relationships)),
		zap.Int("entities", len(snap.Entities)),
	)

	if !cfg.Redis.Enabled {
		return
	}
	rc := cache.NewRedis(cfg.Redis, logger)
	defer func() {
		_ = rc.Close()
	}()
	if err := repository.InvalidateSkillGraphCache(ctx, rc); err != nil {
		logger.Warn("skill graph cache invalidation failed", zap.Error(err))
		return
	}
	logger.Info("skill graph cache invalidated")
}
