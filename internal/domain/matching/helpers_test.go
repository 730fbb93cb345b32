package matching

import "skill-graph/internal/domain/skill"

func jobReq(id string, importance float64, label skill.Label) skill.Possession {
	return skill.Possession{SkillID: id, SkillName: id, Role: skill.RolePrimary, Proficiency: label, Magnitude: importance}
}

func jobSecondary(id string, importance float64, label skill.Label) skill.Possession {
	p := jobReq(id, importance, label)
	p.Role = skill.RoleSecondary
	return p
}

func held(id string, label skill.Label) skill.Possession {
	return skill.Possession{SkillID: id, SkillName: id, Role: skill.RoleCore, Proficiency: label, Magnitude: 3}
}

func job(id string, reqs ...skill.Possession) Entity {
	return Entity{ID: id, Kind: KindJob, Possessions: reqs}
}

func candidate(id string, skills ...skill.Possession) Entity {
	return Entity{ID: id, Kind: KindCandidate, Possessions: skills}
}

func edge(src, dst string, t skill.RelationType, w float64) skill.Relationship {
	return skill.Relationship{SourceID: src, TargetID: dst, Type: t, Weight: w}
}
