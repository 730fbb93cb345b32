package neo4jdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skill-graph/internal/config"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Connect opens a driver and verifies connectivity before returning it.
func Connect(ctx context.Context, cfg config.Neo4jConfig) (neo4j.DriverWithContext, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, fmt.Errorf("neo4j: empty uri")
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, fmt.Errorf("neo4j: %w", err)
	}

	verifyCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		verifyCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: %w", err)
	}
	return driver, nil
}
