package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jSkillGraphRepository reads the graph modelled as
//
//	(:Skill {id, name, category, domain})
//	(:Skill)-[:REQUIRES|RELATED_TO|SUBSET_OF|COMPLEMENTARY_TO {weight}]->(:Skill)
//	(:Job|:Candidate {id, title, location, summary, embedding})-[:HAS_SKILL {role, proficiency, level, magnitude}]->(:Skill)
type Neo4jSkillGraphRepository struct {
	run cypherReader
}

// cypherReader runs a read query and collects every record.
type cypherReader func(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)

func NewNeo4jSkillGraphRepository(driver neo4j.DriverWithContext, database string) *Neo4jSkillGraphRepository {
	return &Neo4jSkillGraphRepository{run: sessionReader(driver, strings.TrimSpace(database))}
}

func sessionReader(driver neo4j.DriverWithContext, database string) cypherReader {
	return func(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead, DatabaseName: database})
		defer session.Close(ctx)

		out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, query, params)
			if err != nil {
				return nil, err
			}
			return res.Collect(ctx)
		})
		if err != nil {
			return nil, err
		}
		records, _ := out.([]*neo4j.Record)
		return records, nil
	}
}

func (r *Neo4jSkillGraphRepository) read(ctx context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	records, err := r.run(ctx, query, params)
	if err != nil {
		return nil, neo4jStoreError(op, err)
	}
	return records, nil
}

// neo4jStoreError keeps client errors such as Cypher syntax or constraint
// failures plain; everything else from the driver is an availability failure.
func neo4jStoreError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var nErr *neo4j.Neo4jError
	if errors.As(err, &nErr) && strings.HasPrefix(nErr.Code, "Neo.ClientError.") {
		return fmt.Errorf("%s: %w", op, err)
	}
	return matching.Unavailable(op, err)
}

func (r *Neo4jSkillGraphRepository) GetSkill(ctx context.Context, id string) (skill.Skill, error) {
	records, err := r.read(ctx, "get skill",
		`MATCH (s:Skill {id: $id})
		 RETURN s.id AS id, s.name AS name, s.category AS category, s.domain AS domain`,
		map[string]any{"id": id},
	)
	if err != nil {
		return skill.Skill{}, err
	}
	if len(records) == 0 {
		return skill.Skill{}, matching.NewNotFound("skill", id)
	}
	rec := records[0]
	return skill.Skill{
		ID:       recordString(rec, "id"),
		Name:     recordString(rec, "name"),
		Category: recordString(rec, "category"),
		Domain:   recordString(rec, "domain"),
	}, nil
}

func (r *Neo4jSkillGraphRepository) GetRelationships(ctx context.Context, skillID string) ([]skill.Relationship, error) {
	records, err := r.read(ctx, "get relationships",
		`MATCH (s:Skill {id: $id})-[rel:REQUIRES|RELATED_TO|SUBSET_OF|COMPLEMENTARY_TO]->(t:Skill)
		 RETURN s.id AS source, t.id AS target, type(rel) AS type, coalesce(rel.weight, 0.0) AS weight
		 ORDER BY target ASC, type ASC`,
		map[string]any{"id": skillID},
	)
	if err != nil {
		return nil, err
	}

	out := make([]skill.Relationship, 0, len(records))
	for _, rec := range records {
		t, ok := skill.ParseRelationType(recordString(rec, "type"))
		if !ok {
			continue
		}
		out = append(out, skill.Relationship{
			SourceID: recordString(rec, "source"),
			TargetID: recordString(rec, "target"),
			Type:     t,
			Weight:   recordFloat(rec, "weight"),
		}.Normalized())
	}
	return out, nil
}

func (r *Neo4jSkillGraphRepository) GetPossessions(ctx context.Context, entityID string) ([]skill.Possession, error) {
	records, err := r.read(ctx, "get possessions",
		`MATCH (e {id: $id}) WHERE e:Job OR e:Candidate
		 OPTIONAL MATCH (e)-[h:HAS_SKILL]->(s:Skill)
		 RETURN e.id AS entity, s.id AS skill_id, s.name AS skill_name,
		        h.role AS role, h.proficiency AS proficiency, h.level AS level, coalesce(h.magnitude, 0.0) AS magnitude
		 ORDER BY skill_id ASC`,
		map[string]any{"id": entityID},
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, matching.NewNotFound("entity", entityID)
	}

	return possessionsFromRecords(records), nil
}

// possessionsFromRecords skips the single null-skill row OPTIONAL MATCH
// yields for an entity without skills.
func possessionsFromRecords(records []*neo4j.Record) []skill.Possession {
	out := make([]skill.Possession, 0, len(records))
	for _, rec := range records {
		id := recordString(rec, "skill_id")
		if id == "" {
			continue
		}
		p := skill.Possession{
			SkillID:     id,
			SkillName:   recordString(rec, "skill_name"),
			Role:        skill.ParseRole(recordString(rec, "role")),
			Proficiency: skill.ParseLabel(recordString(rec, "proficiency")),
			Magnitude:   recordFloat(rec, "magnitude"),
		}
		if lvl, ok := recordInt(rec, "level"); ok {
			p.Level = &lvl
		}
		out = append(out, p)
	}
	return out
}

func (r *Neo4jSkillGraphRepository) ListCandidates(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.listEntities(ctx, "Candidate", matching.KindCandidate, filter)
}

func (r *Neo4jSkillGraphRepository) ListJobs(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.listEntities(ctx, "Job", matching.KindJob, filter)
}

func (r *Neo4jSkillGraphRepository) GetEntity(ctx context.Context, id string) (matching.Entity, error) {
	records, err := r.read(ctx, "get entity",
		`MATCH (e {id: $id}) WHERE e:Job OR e:Candidate
		 RETURN e.id AS id, CASE WHEN e:Job THEN 'job' ELSE 'candidate' END AS kind,
		        e.title AS title, e.location AS location, e.summary AS summary, e.embedding AS embedding`,
		map[string]any{"id": id},
	)
	if err != nil {
		return matching.Entity{}, err
	}
	if len(records) == 0 {
		return matching.Entity{}, matching.NewNotFound("entity", id)
	}

	e := entityFromRecord(records[0])
	ps, err := r.GetPossessions(ctx, id)
	if err != nil {
		return matching.Entity{}, err
	}
	e.Possessions = ps
	return e, nil
}

func (r *Neo4jSkillGraphRepository) listEntities(ctx context.Context, label string, kind matching.EntityKind, filter EntityFilter) ([]matching.Entity, error) {
	query, params := listEntitiesQuery(label, kind, filter)
	records, err := r.read(ctx, "list entities", query, params)
	if err != nil {
		return nil, err
	}
	out := make([]matching.Entity, 0, len(records))
	for _, rec := range records {
		out = append(out, entityFromRecord(rec))
	}
	return out, nil
}

func listEntitiesQuery(label string, kind matching.EntityKind, filter EntityFilter) (string, map[string]any) {
	filter = filter.normalized()

	params := map[string]any{
		"location": filter.Location,
		"skills":   filter.SkillIDs,
		"offset":   int64(filter.Offset),
	}
	query := `MATCH (e:` + label + `)
		 WHERE ($location = '' OR toLower(e.location) CONTAINS toLower($location))
		   AND (size($skills) = 0 OR EXISTS { MATCH (e)-[:HAS_SKILL]->(s:Skill) WHERE s.id IN $skills })
		 RETURN e.id AS id, '` + string(kind) + `' AS kind, e.title AS title, e.location AS location,
		        e.summary AS summary, e.embedding AS embedding
		 ORDER BY id ASC
		 SKIP $offset`
	if filter.Limit > 0 {
		query += ` LIMIT $limit`
		params["limit"] = int64(filter.Limit)
	}
	return query, params
}

func entityFromRecord(rec *neo4j.Record) matching.Entity {
	return matching.Entity{
		ID:        recordString(rec, "id"),
		Kind:      matching.EntityKind(recordString(rec, "kind")),
		Title:     recordString(rec, "title"),
		Location:  recordString(rec, "location"),
		Summary:   recordString(rec, "summary"),
		Embedding: recordVector(rec, "embedding"),
	}
}

func recordString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func recordFloat(rec *neo4j.Record, key string) float64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func recordInt(rec *neo4j.Record, key string) (int, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func recordVector(rec *neo4j.Record, key string) []float32 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]float32, 0, len(list))
	for _, it := range list {
		switch n := it.(type) {
		case float64:
			out = append(out, float32(n))
		case int64:
			out = append(out, float32(n))
		default:
			return nil
		}
	}
	return out
}
