package skill

import "strings"

type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

type RelationType string

const (
	RelationRequires        RelationType = "REQUIRES"
	RelationRelatedTo       RelationType = "RELATED_TO"
	RelationSubsetOf        RelationType = "SUBSET_OF"
	RelationComplementaryTo RelationType = "COMPLEMENTARY_TO"
)

func (t RelationType) Valid() bool {
	switch t {
	case RelationRequires, RelationRelatedTo, RelationSubsetOf, RelationComplementaryTo:
		return true
	default:
		return false
	}
}

// ParseRelationType accepts any casing and surrounding whitespace.
func ParseRelationType(s string) (RelationType, bool) {
	t := RelationType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Relationship is a directed edge. "A REQUIRES B" means holding A implies exposure to B.
type Relationship struct {
	SourceID string       `json:"source_id"`
	TargetID string       `json:"target_id"`
	Type     RelationType `json:"type"`
	Weight   float64      `json:"weight"`
}

// Normalized returns the relationship with its weight clamped to [0,1].
func (r Relationship) Normalized() Relationship {
	r.Weight = Clamp01(r.Weight)
	return r
}

type Role string

const (
	RoleCore      Role = "CORE"
	RoleSecondary Role = "SECONDARY"
	RolePrimary   Role = "PRIMARY"
)

func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleCore:
		return RoleCore
	case RolePrimary:
		return RolePrimary
	default:
		return RoleSecondary
	}
}

// IsPrimary reports whether the role is the high-importance partition for its holder:
// PRIMARY for jobs, CORE for candidates.
func (r Role) IsPrimary() bool {
	return r == RolePrimary || r == RoleCore
}

// Possession is the edge from a job or candidate to a skill.
// Magnitude is importance in [0,1] for jobs and years of experience for candidates.
type Possession struct {
	SkillID     string
	SkillName   string
	Role        Role
	Proficiency Label
	// Level overrides the label-derived level when set.
	Level     *int
	Magnitude float64
}

// NumericLevel resolves the proficiency of the possession on the 0..10 scale.
func (p Possession) NumericLevel() int {
	if p.Level != nil {
		return ClampLevel(*p.Level)
	}
	return LevelOf(p.Proficiency)
}

func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
