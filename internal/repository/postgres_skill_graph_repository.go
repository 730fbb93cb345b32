package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"skill-graph/internal/database"
	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// PostgresSkillGraphRepository reads the skill graph from these tables:
//
//	skills(id, name, category, domain)
//	skill_relationships(source_skill_id, target_skill_id, type, weight)  -- unique (source, target, type)
//	entities(id, kind, title, location, summary, embedding vector NULL)
//	skill_possessions(entity_id, skill_id, role, proficiency, level NULL, magnitude)
type PostgresSkillGraphRepository struct {
	db database.DB
}

func NewPostgresSkillGraphRepository(db database.DB) *PostgresSkillGraphRepository {
	return &PostgresSkillGraphRepository{db: db}
}

func (r *PostgresSkillGraphRepository) GetSkill(ctx context.Context, id string) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(category, ''), COALESCE(domain, '')
		 FROM skills
		 WHERE id = $1`,
		id,
	)

	var s skill.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Domain); err != nil {
		if isNoRows(err) {
			return skill.Skill{}, matching.NewNotFound("skill", id)
		}
		return skill.Skill{}, storeError("get skill", err)
	}
	return s, nil
}

func (r *PostgresSkillGraphRepository) GetRelationships(ctx context.Context, skillID string) ([]skill.Relationship, error) {
	rows, err := r.db.Query(ctx,
		`SELECT source_skill_id, target_skill_id, type, COALESCE(weight, 0)
		 FROM skill_relationships
		 WHERE source_skill_id = $1
		 ORDER BY target_skill_id ASC, type ASC`,
		skillID,
	)
	if err != nil {
		return nil, storeError("get relationships", err)
	}
	defer rows.Close()

	out := make([]skill.Relationship, 0)
	for rows.Next() {
		var rel skill.Relationship
		var typ string
		if err := rows.Scan(&rel.SourceID, &rel.TargetID, &typ, &rel.Weight); err != nil {
			return nil, decodeError("scan relationship", err)
		}
		t, ok := skill.ParseRelationType(typ)
		if !ok {
			continue
		}
		rel.Type = t
		out = append(out, rel.Normalized())
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("get relationships", err)
	}
	return out, nil
}

func (r *PostgresSkillGraphRepository) GetPossessions(ctx context.Context, entityID string) ([]skill.Possession, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM entities WHERE id = $1)`, entityID).Scan(&exists); err != nil {
		return nil, storeError("check entity", err)
	}
	if !exists {
		return nil, matching.NewNotFound("entity", entityID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT sp.skill_id, s.name, COALESCE(sp.role, ''), COALESCE(sp.proficiency, ''), sp.level, COALESCE(sp.magnitude, 0)
		 FROM skill_possessions sp
		 JOIN skills s ON s.id = sp.skill_id
		 WHERE sp.entity_id = $1
		 ORDER BY sp.skill_id ASC`,
		entityID,
	)
	if err != nil {
		return nil, storeError("get possessions", err)
	}
	defer rows.Close()

	out := make([]skill.Possession, 0)
	for rows.Next() {
		var p skill.Possession
		var role, prof string
		var level *int
		if err := rows.Scan(&p.SkillID, &p.SkillName, &role, &prof, &level, &p.Magnitude); err != nil {
			return nil, decodeError("scan possession", err)
		}
		p.Role = skill.ParseRole(role)
		p.Proficiency = skill.ParseLabel(prof)
		p.Level = level
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("get possessions", err)
	}
	return out, nil
}

func (r *PostgresSkillGraphRepository) ListCandidates(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.listEntities(ctx, matching.KindCandidate, filter)
}

func (r *PostgresSkillGraphRepository) ListJobs(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.listEntities(ctx, matching.KindJob, filter)
}

func (r *PostgresSkillGraphRepository) GetEntity(ctx context.Context, id string) (matching.Entity, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, kind, COALESCE(title, ''), COALESCE(location, ''), COALESCE(summary, ''), embedding
		 FROM entities
		 WHERE id = $1`,
		id,
	)

	e, err := scanEntity(row)
	if err != nil {
		if isNoRows(err) {
			return matching.Entity{}, matching.NewNotFound("entity", id)
		}
		return matching.Entity{}, storeError("get entity", err)
	}

	ps, err := r.GetPossessions(ctx, id)
	if err != nil {
		return matching.Entity{}, err
	}
	e.Possessions = ps
	return e, nil
}

func (r *PostgresSkillGraphRepository) listEntities(ctx context.Context, kind matching.EntityKind, filter EntityFilter) ([]matching.Entity, error) {
	filter = filter.normalized()

	var sb strings.Builder
	args := []any{string(kind)}
	sb.WriteString(`SELECT e.id, e.kind, COALESCE(e.title, ''), COALESCE(e.location, ''), COALESCE(e.summary, ''), e.embedding
		 FROM entities e
		 WHERE e.kind = $1`)

	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		fmt.Fprintf(&sb, " AND e.location ILIKE $%d", len(args))
	}
	if len(filter.SkillIDs) > 0 {
		args = append(args, filter.SkillIDs)
		fmt.Fprintf(&sb, " AND EXISTS (SELECT 1 FROM skill_possessions sp WHERE sp.entity_id = e.id AND sp.skill_id = ANY($%d))", len(args))
	}
	sb.WriteString(" ORDER BY e.id ASC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, storeError("list entities", err)
	}
	defer rows.Close()

	out := make([]matching.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, decodeError("scan entity", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list entities", err)
	}
	return out, nil
}

func scanEntity(row database.Row) (matching.Entity, error) {
	var e matching.Entity
	var kind string
	var emb *pgvector.Vector
	if err := row.Scan(&e.ID, &kind, &e.Title, &e.Location, &e.Summary, &emb); err != nil {
		return matching.Entity{}, err
	}
	e.Kind = matching.EntityKind(strings.ToLower(strings.TrimSpace(kind)))
	if emb != nil {
		e.Embedding = emb.Slice()
	}
	return e, nil
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows)
}

// storeError marks connection, pool and server availability failures as
// ErrGraphUnavailable. Row decoding and statement errors stay plain so a
// single bad entity is skipped by callers instead of failing the batch.
func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isDecodeError(err) {
		return decodeError(op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && !unavailableSQLState(pgErr.Code) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return matching.Unavailable(op, err)
}

func decodeError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDecodeError(err error) bool {
	var v pgx.ScanArgError
	var p *pgx.ScanArgError
	return errors.As(err, &v) || errors.As(err, &p)
}

// unavailableSQLState covers connection exceptions (08), insufficient
// resources (53) and operator intervention such as shutdown (57).
func unavailableSQLState(code string) bool {
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "53") || strings.HasPrefix(code, "57")
}
