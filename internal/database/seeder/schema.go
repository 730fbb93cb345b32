package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"skill-graph/internal/database"
)

// ErrSchemaMismatch is returned when a seeded table lacks columns the seeder writes.
var ErrSchemaMismatch = errors.New("schema mismatch")

// TableColumns maps a table name to the columns a seeder writes.
type TableColumns map[string][]string

// graphSchema lists the columns SnapshotSeeder writes.
var graphSchema = TableColumns{
	"skills":              {"id", "name", "category", "domain"},
	"skill_relationships": {"source_skill_id", "target_skill_id", "type", "weight"},
	"entities":            {"id", "kind", "title", "location", "summary", "embedding"},
	"skill_possessions":   {"entity_id", "skill_id", "role", "proficiency", "level", "magnitude"},
}

// EnsureSchema checks every table and reports all missing columns at once,
// so an operator sees the full drift after a single run.
func EnsureSchema(ctx context.Context, db database.DB, schema TableColumns) error {
	tables := make([]string, 0, len(schema))
	for t := range schema {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var errs []error
	for _, t := range tables {
		if err := EnsureTableColumns(ctx, db, t, schema[t]...); err != nil {
			if !errors.Is(err, ErrSchemaMismatch) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return fmt.Errorf("empty table")
	}
	for _, col := range columns {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("table %s: empty column", table)
		}
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return fmt.Errorf("table %s: list columns: %w", table, err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return fmt.Errorf("table %s: scan column: %w", table, err)
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("table %s: list columns: %w", table, err)
	}
	if len(existing) == 0 {
		return fmt.Errorf("%w: table %s does not exist", ErrSchemaMismatch, table)
	}

	var missing []string
	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: table %s is missing columns %s", ErrSchemaMismatch, table, strings.Join(missing, ", "))
	}
	return nil
}
