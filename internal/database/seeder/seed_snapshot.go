package seeder

import (
	"context"
	"fmt"
	"strings"

	"skill-graph/internal/database"
	"skill-graph/internal/domain/skill"
	"skill-graph/internal/repository"

	"github.com/pgvector/pgvector-go"
)

// SnapshotSeeder upserts a snapshot document into the Postgres skill graph tables.
type SnapshotSeeder struct {
	Snapshot repository.Snapshot
	// Reset truncates the graph tables before loading.
	Reset bool
}

func (SnapshotSeeder) Name() string { return "snapshot" }

func (s SnapshotSeeder) Run(ctx context.Context, db database.DB) error {
	// the in-memory store applies the same structural checks the tables would
	if _, err := repository.NewMemorySkillGraphRepository(s.Snapshot); err != nil {
		return err
	}

	if err := EnsureSchema(ctx, db, graphSchema); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if s.Reset {
		if _, err := tx.Exec(ctx, `TRUNCATE skill_possessions, skill_relationships, entities, skills`); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	for _, sk := range s.Snapshot.Skills {
		id := strings.TrimSpace(sk.ID)
		name := strings.TrimSpace(sk.Name)
		if name == "" {
			name = id
		}
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, category, domain) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, domain = EXCLUDED.domain`,
			id, name, sk.Category, sk.Domain,
		)
		if err != nil {
			return fmt.Errorf("skill %s: %w", id, err)
		}
	}

	for _, rel := range s.Snapshot.Relationships {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skill_relationships (source_skill_id, target_skill_id, type, weight) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (source_skill_id, target_skill_id, type) DO UPDATE SET weight = EXCLUDED.weight`,
			strings.TrimSpace(rel.Source),
			strings.TrimSpace(rel.Target),
			strings.ToUpper(strings.TrimSpace(rel.Type)),
			skill.Clamp01(rel.Weight),
		)
		if err != nil {
			return fmt.Errorf("relationship %s->%s: %w", rel.Source, rel.Target, err)
		}
	}

	for _, e := range s.Snapshot.Entities {
		id := strings.TrimSpace(e.ID)
		var embedding any
		if len(e.Embedding) > 0 {
			embedding = pgvector.NewVector(e.Embedding)
		}
		_, err := tx.Exec(
			ctx,
			`INSERT INTO entities (id, kind, title, location, summary, embedding)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6)
			 ON CONFLICT (id) DO UPDATE SET kind = EXCLUDED.kind, title = EXCLUDED.title,
			   location = EXCLUDED.location, summary = EXCLUDED.summary, embedding = EXCLUDED.embedding`,
			id,
			strings.ToLower(strings.TrimSpace(e.Kind)),
			e.Title, e.Location, e.Summary,
			embedding,
		)
		if err != nil {
			return fmt.Errorf("entity %s: %w", id, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM skill_possessions WHERE entity_id = $1`, id); err != nil {
			return fmt.Errorf("entity %s: clear possessions: %w", id, err)
		}
		for _, p := range e.Skills {
			// out-of-range levels are clamped, never rejected
			var level *int
			if p.Level != nil {
				v := skill.ClampLevel(*p.Level)
				level = &v
			}
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skill_possessions (entity_id, skill_id, role, proficiency, level, magnitude)
				 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)`,
				id, p.Skill, p.Role, p.Proficiency, level, p.Magnitude,
			)
			if err != nil {
				return fmt.Errorf("entity %s skill %s: %w", id, p.Skill, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
