package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"

	"gopkg.in/yaml.v3"
)

// Snapshot is the YAML document served by MemorySkillGraphRepository.
type Snapshot struct {
	Skills        []SnapshotSkill        `yaml:"skills"`
	Relationships []SnapshotRelationship `yaml:"relationships"`
	Entities      []SnapshotEntity       `yaml:"entities"`
}

type SnapshotSkill struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Domain   string `yaml:"domain"`
}

type SnapshotRelationship struct {
	Source string  `yaml:"source"`
	Target string  `yaml:"target"`
	Type   string  `yaml:"type"`
	Weight float64 `yaml:"weight"`
}

type SnapshotEntity struct {
	ID        string               `yaml:"id"`
	Kind      string               `yaml:"kind"`
	Title     string               `yaml:"title"`
	Location  string               `yaml:"location"`
	Summary   string               `yaml:"summary"`
	Embedding []float32            `yaml:"embedding"`
	Skills    []SnapshotPossession `yaml:"skills"`
}

type SnapshotPossession struct {
	Skill       string  `yaml:"skill"`
	Role        string  `yaml:"role"`
	Proficiency string  `yaml:"proficiency"`
	Level       *int    `yaml:"level"`
	Magnitude   float64 `yaml:"magnitude"`
}

func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return s, nil
}

func LoadSnapshotFile(path string) (Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	return ParseSnapshot(b)
}

// MemorySkillGraphRepository serves an immutable snapshot. It is safe for concurrent use.
type MemorySkillGraphRepository struct {
	skills   map[string]skill.Skill
	outgoing map[string][]skill.Relationship
	entities map[string]matching.Entity
	// raw possessions keep unresolved skill ids so reads can report them
	possessions map[string][]SnapshotPossession
}

func NewMemorySkillGraphRepository(s Snapshot) (*MemorySkillGraphRepository, error) {
	r := &MemorySkillGraphRepository{
		skills:      make(map[string]skill.Skill, len(s.Skills)),
		outgoing:    make(map[string][]skill.Relationship),
		entities:    make(map[string]matching.Entity, len(s.Entities)),
		possessions: make(map[string][]SnapshotPossession, len(s.Entities)),
	}

	for _, sk := range s.Skills {
		id := strings.TrimSpace(sk.ID)
		if id == "" {
			return nil, fmt.Errorf("snapshot: skill with empty id")
		}
		if _, dup := r.skills[id]; dup {
			return nil, fmt.Errorf("snapshot: duplicate skill id %q", id)
		}
		name := strings.TrimSpace(sk.Name)
		if name == "" {
			name = id
		}
		r.skills[id] = skill.Skill{ID: id, Name: name, Category: sk.Category, Domain: sk.Domain}
	}

	rels := make([]skill.Relationship, 0, len(s.Relationships))
	for _, rel := range s.Relationships {
		t, ok := skill.ParseRelationType(rel.Type)
		if !ok {
			return nil, fmt.Errorf("snapshot: unknown relationship type %q", rel.Type)
		}
		rels = append(rels, skill.Relationship{
			SourceID: strings.TrimSpace(rel.Source),
			TargetID: strings.TrimSpace(rel.Target),
			Type:     t,
			Weight:   rel.Weight,
		})
	}
	g := matching.NewSkillGraph(rels)
	for id := range r.skills {
		if out := g.Outgoing(id); len(out) > 0 {
			r.outgoing[id] = out
		}
	}

	for _, e := range s.Entities {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("snapshot: entity with empty id")
		}
		if _, dup := r.entities[id]; dup {
			return nil, fmt.Errorf("snapshot: duplicate entity id %q", id)
		}
		kind := matching.EntityKind(strings.ToLower(strings.TrimSpace(e.Kind)))
		if kind != matching.KindJob && kind != matching.KindCandidate {
			return nil, fmt.Errorf("snapshot: entity %q has unknown kind %q", id, e.Kind)
		}
		seen := make(map[string]struct{}, len(e.Skills))
		for _, p := range e.Skills {
			if _, dup := seen[p.Skill]; dup {
				return nil, fmt.Errorf("snapshot: entity %q lists skill %q twice", id, p.Skill)
			}
			seen[p.Skill] = struct{}{}
		}
		r.entities[id] = matching.Entity{
			ID:        id,
			Kind:      kind,
			Title:     e.Title,
			Location:  e.Location,
			Summary:   e.Summary,
			Embedding: e.Embedding,
		}
		r.possessions[id] = e.Skills
	}

	return r, nil
}

func (r *MemorySkillGraphRepository) GetSkill(ctx context.Context, id string) (skill.Skill, error) {
	if err := ctx.Err(); err != nil {
		return skill.Skill{}, err
	}
	s, ok := r.skills[id]
	if !ok {
		return skill.Skill{}, matching.NewNotFound("skill", id)
	}
	return s, nil
}

func (r *MemorySkillGraphRepository) GetRelationships(ctx context.Context, skillID string) ([]skill.Relationship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := r.skills[skillID]; !ok {
		return nil, matching.NewNotFound("skill", skillID)
	}
	out := make([]skill.Relationship, len(r.outgoing[skillID]))
	copy(out, r.outgoing[skillID])
	return out, nil
}

func (r *MemorySkillGraphRepository) GetPossessions(ctx context.Context, entityID string) ([]skill.Possession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, ok := r.possessions[entityID]
	if !ok {
		return nil, matching.NewNotFound("entity", entityID)
	}

	out := make([]skill.Possession, 0, len(raw))
	for _, p := range raw {
		s, ok := r.skills[p.Skill]
		if !ok {
			return nil, matching.NewNotFound("skill", p.Skill)
		}
		var level *int
		if p.Level != nil {
			v := *p.Level
			level = &v
		}
		out = append(out, skill.Possession{
			SkillID:     s.ID,
			SkillName:   s.Name,
			Role:        skill.ParseRole(p.Role),
			Proficiency: skill.ParseLabel(p.Proficiency),
			Level:       level,
			Magnitude:   p.Magnitude,
		})
	}
	return out, nil
}

func (r *MemorySkillGraphRepository) ListCandidates(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.list(ctx, matching.KindCandidate, filter)
}

func (r *MemorySkillGraphRepository) ListJobs(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.list(ctx, matching.KindJob, filter)
}

func (r *MemorySkillGraphRepository) GetEntity(ctx context.Context, id string) (matching.Entity, error) {
	e, ok := r.entities[id]
	if !ok {
		return matching.Entity{}, matching.NewNotFound("entity", id)
	}
	ps, err := r.GetPossessions(ctx, id)
	if err != nil {
		return matching.Entity{}, err
	}
	e.Possessions = ps
	return e, nil
}

func (r *MemorySkillGraphRepository) list(ctx context.Context, kind matching.EntityKind, filter EntityFilter) ([]matching.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter = filter.normalized()
	loc := strings.ToLower(filter.Location)

	ids := make([]string, 0, len(r.entities))
	for id, e := range r.entities {
		if e.Kind != kind {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(e.Location), loc) {
			continue
		}
		if len(filter.SkillIDs) > 0 && !r.holdsAny(id, filter.SkillIDs) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if filter.Offset >= len(ids) {
		return []matching.Entity{}, nil
	}
	ids = ids[filter.Offset:]
	if filter.Limit > 0 && len(ids) > filter.Limit {
		ids = ids[:filter.Limit]
	}

	out := make([]matching.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.entities[id])
	}
	return out, nil
}

func (r *MemorySkillGraphRepository) holdsAny(entityID string, skillIDs []string) bool {
	for _, p := range r.possessions[entityID] {
		for _, id := range skillIDs {
			if p.Skill == id {
				return true
			}
		}
	}
	return false
}
