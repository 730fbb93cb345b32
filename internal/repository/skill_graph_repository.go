package repository

import (
	"context"
	"strings"

	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"
)

// EntityFilter narrows the population considered by a ranking call.
type EntityFilter struct {
	// Location matches entities whose location contains this text, case-insensitively.
	Location string
	// SkillIDs keeps entities holding at least one of these skills.
	SkillIDs []string
	Limit    int
	Offset   int
}

func (f EntityFilter) normalized() EntityFilter {
	f.Location = strings.TrimSpace(f.Location)
	ids := make([]string, 0, len(f.SkillIDs))
	for _, id := range f.SkillIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	f.SkillIDs = ids
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// SkillGraphStore is read access to the skill graph. Implementations return
// *matching.NotFoundError for missing skills or entities and wrap connectivity
// failures with matching.ErrGraphUnavailable.
//
// GetEntity returns the entity with its possessions. List calls may leave
// Possessions empty; callers load them with GetPossessions.
type SkillGraphStore interface {
	GetSkill(ctx context.Context, id string) (skill.Skill, error)
	// GetRelationships returns the outgoing edges of a skill.
	GetRelationships(ctx context.Context, skillID string) ([]skill.Relationship, error)
	GetPossessions(ctx context.Context, entityID string) ([]skill.Possession, error)
	ListCandidates(ctx context.Context, filter EntityFilter) ([]matching.Entity, error)
	ListJobs(ctx context.Context, filter EntityFilter) ([]matching.Entity, error)
	GetEntity(ctx context.Context, id string) (matching.Entity, error)
}
