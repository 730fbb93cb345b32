package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			AppName:         "skill-graph",
			Environment:     "development",
			HTTPPort:        "8080",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DBHost:                "localhost",
			DBPort:                "5432",
			DBName:                "skill_graph",
			DBUser:                "postgres",
			DBSSLMode:             "disable",
			ConnectTimeout:        5 * time.Second,
			PoolMaxConns:          10,
			PoolMaxConnLifetime:   time.Hour,
			PoolMaxConnIdleTime:   30 * time.Minute,
			PoolHealthCheckPeriod: time.Minute,
		},
		Redis: RedisConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    "6379",
			TTL:     600 * time.Second,
		},
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Graph: GraphConfig{
			Backend:            BackendPostgres,
			BreakerEnabled:     true,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Matching: MatchingConfig{
			IndirectDiscount:  0.4,
			SecondaryDiscount: 0.5,
			Weights:           WeightsConfig{Skills: 0.75, Location: 0.15, Semantic: 0.10},
			MaxPathDepth:      4,
			Workers:           8,
			DefaultLimit:      20,
			MaxLimit:          100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load layers defaults, an optional YAML file and environment variables, in
// that order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Graph.Backend = strings.ToLower(strings.TrimSpace(cfg.Graph.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"app_name":             "app.name",
	"app_env":              "app.env",
	"http_port":            "app.http_port",
	"app_request_timeout":  "app.request_timeout",
	"app_shutdown_timeout": "app.shutdown_timeout",

	"db_host":                     "database.host",
	"db_port":                     "database.port",
	"db_name":                     "database.name",
	"db_user":                     "database.user",
	"db_password":                 "database.password",
	"db_ssl_mode":                 "database.ssl_mode",
	"db_connect_timeout":          "database.connect_timeout",
	"db_pool_max_conns":           "database.pool_max_conns",
	"db_pool_min_conns":           "database.pool_min_conns",
	"db_pool_max_conn_lifetime":   "database.pool_max_conn_lifetime",
	"db_pool_max_conn_idle_time":  "database.pool_max_conn_idle_time",
	"db_pool_health_check_period": "database.pool_health_check_period",

	"redis_enabled":  "redis.enabled",
	"redis_host":     "redis.host",
	"redis_port":     "redis.port",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",
	"redis_ttl":      "redis.ttl",

	"neo4j_uri":      "neo4j.uri",
	"neo4j_username": "neo4j.username",
	"neo4j_password": "neo4j.password",
	"neo4j_database": "neo4j.database",

	"graph_backend":              "graph.backend",
	"graph_snapshot_path":        "graph.snapshot_path",
	"graph_breaker_enabled":      "graph.breaker_enabled",
	"graph_breaker_max_failures": "graph.breaker_max_failures",
	"graph_breaker_open_timeout": "graph.breaker_open_timeout",

	"matching_indirect_discount":  "matching.indirect_discount",
	"matching_secondary_discount": "matching.secondary_discount",
	"matching_weight_skills":      "matching.weights.skills",
	"matching_weight_location":    "matching.weights.location",
	"matching_weight_semantic":    "matching.weights.semantic",
	"matching_max_path_depth":     "matching.max_path_depth",
	"matching_workers":            "matching.workers",
	"matching_default_limit":      "matching.default_limit",
	"matching_max_limit":          "matching.max_limit",

	"log_level":  "log.level",
	"log_format": "log.format",
}

// envTransformFunc maps known environment variables to config paths and
// drops everything else.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
