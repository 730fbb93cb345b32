package dto

import (
	"skill-graph/internal/domain/matching"
	"skill-graph/internal/usecase"
)

type WeightsResponse struct {
	Skills   float64 `json:"skills"`
	Location float64 `json:"location"`
	Semantic float64 `json:"semantic"`
}

type MatchedSkillResponse struct {
	SkillID      string  `json:"skill_id"`
	SkillName    string  `json:"skill_name"`
	Kind         string  `json:"kind"`
	Primary      bool    `json:"primary"`
	ViaSkillID   string  `json:"via_skill_id,omitempty"`
	RelationType string  `json:"relation_type,omitempty"`
	Importance   float64 `json:"importance"`
	Contribution float64 `json:"contribution"`
}

type MissingSkillResponse struct {
	SkillID    string  `json:"skill_id"`
	SkillName  string  `json:"skill_name"`
	Primary    bool    `json:"primary"`
	Importance float64 `json:"importance"`
}

type RankedMatchResponse struct {
	Rank                 int                    `json:"rank"`
	ID                   string                 `json:"id"`
	Title                string                 `json:"title,omitempty"`
	Location             string                 `json:"location,omitempty"`
	MatchPercentage      float64                `json:"match_percentage"`
	GraphPercentage      float64                `json:"graph_percentage"`
	TextPercentage       float64                `json:"text_percentage"`
	LocationScore        float64                `json:"location_score"`
	SemanticAvailable    bool                   `json:"semantic_available"`
	AppliedWeights       WeightsResponse        `json:"applied_weights"`
	DirectPrimaryMatches int                    `json:"direct_primary_matches"`
	MatchedSkills        []MatchedSkillResponse `json:"matched_skills"`
	MissingSkills        []MissingSkillResponse `json:"missing_skills"`
}

type SkippedEntityResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type MatchPageResponse struct {
	SubjectID string                  `json:"subject_id"`
	Weights   WeightsResponse         `json:"weights"`
	Total     int                     `json:"total"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
	Results   []RankedMatchResponse   `json:"results"`
	Skipped   []SkippedEntityResponse `json:"skipped"`
}

func NewWeightsResponse(w matching.Weights) WeightsResponse {
	return WeightsResponse{Skills: w.Skills, Location: w.Location, Semantic: w.Semantic}
}

func NewMatchPageResponse(p usecase.MatchPage) MatchPageResponse {
	out := MatchPageResponse{
		SubjectID: p.SubjectID,
		Weights:   NewWeightsResponse(p.Weights),
		Total:     p.Total,
		Limit:     p.Limit,
		Offset:    p.Offset,
		Results:   make([]RankedMatchResponse, 0, len(p.Results)),
		Skipped:   make([]SkippedEntityResponse, 0, len(p.Skipped)),
	}
	for _, r := range p.Results {
		out.Results = append(out.Results, newRankedMatchResponse(r))
	}
	for _, s := range p.Skipped {
		out.Skipped = append(out.Skipped, SkippedEntityResponse{ID: s.EntityID, Reason: s.Reason})
	}
	return out
}

func newRankedMatchResponse(r usecase.RankedMatch) RankedMatchResponse {
	s := r.Score
	out := RankedMatchResponse{
		Rank:                 r.Rank,
		ID:                   r.EntityID,
		Title:                r.Title,
		Location:             r.Location,
		MatchPercentage:      s.MatchPercentage,
		GraphPercentage:      s.GraphPercentage,
		TextPercentage:       s.TextPercentage,
		LocationScore:        s.LocationScore,
		SemanticAvailable:    s.SemanticAvailable,
		AppliedWeights:       NewWeightsResponse(s.AppliedWeights),
		DirectPrimaryMatches: s.DirectPrimaryMatches,
		MatchedSkills:        make([]MatchedSkillResponse, 0, len(s.MatchedSkills)),
		MissingSkills:        make([]MissingSkillResponse, 0, len(s.MissingSkills)),
	}
	for _, m := range s.MatchedSkills {
		out.MatchedSkills = append(out.MatchedSkills, MatchedSkillResponse{
			SkillID:      m.SkillID,
			SkillName:    m.SkillName,
			Kind:         string(m.Kind),
			Primary:      m.Primary,
			ViaSkillID:   m.ViaSkillID,
			RelationType: string(m.RelationType),
			Importance:   m.Importance,
			Contribution: m.Contribution,
		})
	}
	for _, m := range s.MissingSkills {
		out.MissingSkills = append(out.MissingSkills, MissingSkillResponse{
			SkillID:    m.SkillID,
			SkillName:  m.SkillName,
			Primary:    m.Primary,
			Importance: m.Importance,
		})
	}
	return out
}
