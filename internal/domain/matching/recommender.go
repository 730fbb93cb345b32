package matching

import (
	"sort"

	"skill-graph/internal/domain/skill"
)

type BridgeSkill struct {
	SkillID   string
	SkillName string
	Type      skill.RelationType
	Weight    float64
	// Outgoing is true when the edge points from the missing skill to the held one.
	Outgoing bool
}

type SkillRecommendation struct {
	SkillID             string
	SkillName           string
	Category            string
	Domain              string
	Importance          float64
	RequiredProficiency skill.Label
	// BridgeScore is 1 when a held skill is graph-adjacent to this one, else 0.
	BridgeScore  int
	EasyWin      bool
	BridgeSkills []BridgeSkill
}

// Recommend lists the job's primary skills the candidate does not hold, ranked by
// importance, then easy wins first, then skill id. topN <= 0 returns every gap.
func Recommend(job, candidate Entity, graph *SkillGraph, topN int) []SkillRecommendation {
	held := candidate.possessionIndex()

	out := make([]SkillRecommendation, 0)
	seen := make(map[string]struct{})
	for _, req := range job.Possessions {
		if req.SkillID == "" || !req.Role.IsPrimary() {
			continue
		}
		if _, ok := held[req.SkillID]; ok {
			continue
		}
		if _, dup := seen[req.SkillID]; dup {
			continue
		}
		seen[req.SkillID] = struct{}{}

		rec := SkillRecommendation{
			SkillID:             req.SkillID,
			SkillName:           req.SkillName,
			Importance:          skill.Clamp01(req.Magnitude),
			RequiredProficiency: skill.LabelOf(req.NumericLevel()),
		}
		for _, l := range graph.Links(req.SkillID) {
			h, ok := held[l.OtherID]
			if !ok || l.OtherID == req.SkillID {
				continue
			}
			rec.BridgeSkills = append(rec.BridgeSkills, BridgeSkill{
				SkillID:   l.OtherID,
				SkillName: h.SkillName,
				Type:      l.Type,
				Weight:    l.Weight,
				Outgoing:  l.Outgoing,
			})
		}
		if len(rec.BridgeSkills) > 0 {
			rec.BridgeScore = 1
			rec.EasyWin = true
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		if out[i].EasyWin != out[j].EasyWin {
			return out[i].EasyWin
		}
		return out[i].SkillID < out[j].SkillID
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
