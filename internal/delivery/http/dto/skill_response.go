package dto

import (
	"skill-graph/internal/domain/matching"
	"skill-graph/internal/usecase"
)

type BridgeSkillResponse struct {
	SkillID      string  `json:"skill_id"`
	SkillName    string  `json:"skill_name"`
	RelationType string  `json:"relation_type"`
	Weight       float64 `json:"weight"`
	Outgoing     bool    `json:"outgoing"`
}

type SkillRecommendationResponse struct {
	SkillID             string                `json:"skill_id"`
	SkillName           string                `json:"skill_name"`
	Category            string                `json:"category,omitempty"`
	Domain              string                `json:"domain,omitempty"`
	Importance          float64               `json:"importance"`
	RequiredProficiency string                `json:"required_proficiency"`
	BridgeScore         int                   `json:"bridge_score"`
	EasyWin             bool                  `json:"easy_win"`
	BridgeSkills        []BridgeSkillResponse `json:"bridge_skills"`
}

type PathStepResponse struct {
	FromID       string  `json:"from_id"`
	ToID         string  `json:"to_id"`
	RelationType string  `json:"relation_type"`
	Weight       float64 `json:"weight"`
}

type PathSkillResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SkillPathResponse struct {
	SourceID string              `json:"source_id"`
	TargetID string              `json:"target_id"`
	MaxDepth int                 `json:"max_depth"`
	Found    bool                `json:"found"`
	Hops     int                 `json:"hops"`
	Cost     float64             `json:"cost"`
	Skills   []PathSkillResponse `json:"skills"`
	Steps    []PathStepResponse  `json:"steps"`
}

func NewSkillRecommendationsResponse(recs []matching.SkillRecommendation) []SkillRecommendationResponse {
	out := make([]SkillRecommendationResponse, 0, len(recs))
	for _, r := range recs {
		item := SkillRecommendationResponse{
			SkillID:             r.SkillID,
			SkillName:           r.SkillName,
			Category:            r.Category,
			Domain:              r.Domain,
			Importance:          r.Importance,
			RequiredProficiency: string(r.RequiredProficiency),
			BridgeScore:         r.BridgeScore,
			EasyWin:             r.EasyWin,
			BridgeSkills:        make([]BridgeSkillResponse, 0, len(r.BridgeSkills)),
		}
		for _, b := range r.BridgeSkills {
			item.BridgeSkills = append(item.BridgeSkills, BridgeSkillResponse{
				SkillID:      b.SkillID,
				SkillName:    b.SkillName,
				RelationType: string(b.Type),
				Weight:       b.Weight,
				Outgoing:     b.Outgoing,
			})
		}
		out = append(out, item)
	}
	return out
}

func NewSkillPathResponse(p usecase.SkillPath) SkillPathResponse {
	out := SkillPathResponse{
		SourceID: p.SourceID,
		TargetID: p.TargetID,
		MaxDepth: p.MaxDepth,
		Found:    p.Found,
		Hops:     p.Hops(),
		Cost:     p.Cost,
		Skills:   make([]PathSkillResponse, 0, len(p.Skills)),
		Steps:    make([]PathStepResponse, 0, len(p.Steps)),
	}
	for _, s := range p.Skills {
		out.Skills = append(out.Skills, PathSkillResponse{ID: s.ID, Name: s.Name})
	}
	for _, s := range p.Steps {
		out.Steps = append(out.Steps, PathStepResponse{
			FromID:       s.FromID,
			ToID:         s.ToID,
			RelationType: string(s.Type),
			Weight:       s.Weight,
		})
	}
	return out
}
