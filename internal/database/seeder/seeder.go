// Package seeder loads skill graph fixtures into the Postgres tables.
package seeder

import (
	"context"

	"skill-graph/internal/database"
)

// Seeder writes one fixture set. Implementations must be idempotent.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
