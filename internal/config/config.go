package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Neo4j    Neo4jConfig    `koanf:"neo4j"`
	Graph    GraphConfig    `koanf:"graph"`
	Matching MatchingConfig `koanf:"matching"`
	Log      LogConfig      `koanf:"log"`
}

type AppConfig struct {
	AppName         string        `koanf:"name"`
	Environment     string        `koanf:"env"`
	HTTPPort        string        `koanf:"http_port"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DBHost     string `koanf:"host"`
	DBPort     string `koanf:"port"`
	DBName     string `koanf:"name"`
	DBUser     string `koanf:"user"`
	DBPassword string `koanf:"password"`
	DBSSLMode  string `koanf:"ssl_mode"`

	ConnectTimeout        time.Duration `koanf:"connect_timeout"`
	PoolMaxConns          int32         `koanf:"pool_max_conns"`
	PoolMinConns          int32         `koanf:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `koanf:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `koanf:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `koanf:"pool_health_check_period"`
}

type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Host     string        `koanf:"host"`
	Port     string        `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type Neo4jConfig struct {
	URI      string `koanf:"uri"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
}

// GraphConfig selects and decorates the skill graph backend.
type GraphConfig struct {
	// Backend is one of postgres, neo4j or memory.
	Backend      string `koanf:"backend"`
	SnapshotPath string `koanf:"snapshot_path"`

	BreakerEnabled     bool          `koanf:"breaker_enabled"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

type WeightsConfig struct {
	Skills   float64 `koanf:"skills"`
	Location float64 `koanf:"location"`
	Semantic float64 `koanf:"semantic"`
}

type MatchingConfig struct {
	IndirectDiscount  float64       `koanf:"indirect_discount"`
	SecondaryDiscount float64       `koanf:"secondary_discount"`
	Weights           WeightsConfig `koanf:"weights"`
	MaxPathDepth      int           `koanf:"max_path_depth"`
	Workers           int           `koanf:"workers"`
	DefaultLimit      int           `koanf:"default_limit"`
	MaxLimit          int           `koanf:"max_limit"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

const (
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
	BackendMemory   = "memory"
)

var errInvalidConfig = errors.New("invalid configuration")

func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.App.HTTPPort) == "" {
		add("app.http_port is required")
	}

	switch strings.ToLower(strings.TrimSpace(c.Graph.Backend)) {
	case BackendPostgres, BackendNeo4j:
	case BackendMemory:
		if strings.TrimSpace(c.Graph.SnapshotPath) == "" {
			add("graph.snapshot_path is required for the memory backend")
		}
	default:
		add("graph.backend must be one of postgres, neo4j, memory (got %q)", c.Graph.Backend)
	}
	if c.Graph.Backend == BackendNeo4j && strings.TrimSpace(c.Neo4j.URI) == "" {
		add("neo4j.uri is required for the neo4j backend")
	}

	m := c.Matching
	if m.IndirectDiscount < 0 || m.IndirectDiscount > 1 {
		add("matching.indirect_discount must be in [0,1]")
	}
	if m.SecondaryDiscount < 0 || m.SecondaryDiscount > 1 {
		add("matching.secondary_discount must be in [0,1]")
	}
	if m.Weights.Skills < 0 || m.Weights.Location < 0 || m.Weights.Semantic < 0 {
		add("matching.weights must be non-negative")
	}
	if m.MaxPathDepth < 1 {
		add("matching.max_path_depth must be >= 1")
	}
	if m.Workers < 1 {
		add("matching.workers must be >= 1")
	}
	if m.DefaultLimit < 1 || m.MaxLimit < m.DefaultLimit {
		add("matching.default_limit must be >= 1 and <= matching.max_limit")
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		add("log.format must be json or console")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
