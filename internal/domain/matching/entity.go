package matching

import "skill-graph/internal/domain/skill"

type EntityKind string

const (
	KindJob       EntityKind = "job"
	KindCandidate EntityKind = "candidate"
)

// Entity is a job or a candidate as seen by the matching core: a read-only snapshot
// taken for the duration of one request.
type Entity struct {
	ID       string
	Kind     EntityKind
	Title    string
	Location string
	Summary  string
	// Embedding is nil until the annotator has processed the entity.
	Embedding   []float32
	Possessions []skill.Possession
}

// SkillIDs returns the ids of every possessed skill, in possession order.
func (e Entity) SkillIDs() []string {
	out := make([]string, 0, len(e.Possessions))
	for _, p := range e.Possessions {
		if p.SkillID == "" {
			continue
		}
		out = append(out, p.SkillID)
	}
	return out
}

func (e Entity) possessionIndex() map[string]skill.Possession {
	out := make(map[string]skill.Possession, len(e.Possessions))
	for _, p := range e.Possessions {
		if p.SkillID == "" {
			continue
		}
		if _, dup := out[p.SkillID]; dup {
			continue
		}
		out[p.SkillID] = p
	}
	return out
}
