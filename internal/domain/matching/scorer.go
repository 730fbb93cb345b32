package matching

import (
	"math"

	"skill-graph/internal/domain/skill"
)

const (
	DefaultIndirectDiscount  = 0.4
	DefaultSecondaryDiscount = 0.5
)

type ScorerConfig struct {
	// IndirectDiscount scales the credit given for a graph-adjacent skill.
	IndirectDiscount float64
	// SecondaryDiscount scales the importance of SECONDARY requirements.
	SecondaryDiscount float64
	DefaultWeights    Weights
}

func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		IndirectDiscount:  DefaultIndirectDiscount,
		SecondaryDiscount: DefaultSecondaryDiscount,
		DefaultWeights:    DefaultWeights,
	}
}

type MatchKind string

const (
	MatchDirect   MatchKind = "direct"
	MatchIndirect MatchKind = "indirect"
)

type MatchedSkill struct {
	SkillID   string
	SkillName string
	Kind      MatchKind
	Primary   bool
	// ViaSkillID is the held skill that bridges an indirect match.
	ViaSkillID   string
	RelationType skill.RelationType
	Importance   float64
	Contribution float64
}

type MissingSkill struct {
	SkillID    string
	SkillName  string
	Primary    bool
	Importance float64
}

type ScoreResult struct {
	RequirementID string
	EntityID      string

	MatchPercentage float64
	GraphPercentage float64
	TextPercentage  float64

	SkillScore        float64
	LocationScore     float64
	SemanticScore     float64
	SemanticAvailable bool
	AppliedWeights    Weights

	DirectPrimaryMatches int
	MatchedSkills        []MatchedSkill
	MissingSkills        []MissingSkill
}

type Scorer struct {
	cfg ScorerConfig
}

func NewScorer(cfg ScorerConfig) *Scorer {
	if cfg.IndirectDiscount < 0 || cfg.IndirectDiscount > 1 || math.IsNaN(cfg.IndirectDiscount) {
		cfg.IndirectDiscount = DefaultIndirectDiscount
	}
	if cfg.SecondaryDiscount < 0 || cfg.SecondaryDiscount > 1 || math.IsNaN(cfg.SecondaryDiscount) {
		cfg.SecondaryDiscount = DefaultSecondaryDiscount
	}
	if cfg.DefaultWeights.Validate() != nil || cfg.DefaultWeights.Sum() == 0 {
		cfg.DefaultWeights = DefaultWeights
	}
	return &Scorer{cfg: cfg}
}

func (s *Scorer) Config() ScorerConfig {
	return s.cfg
}

// Score rates how well other satisfies req. req's possessions are the requirements;
// other's possessions are what is held. graph may be nil, in which case no indirect
// credit is given.
func (s *Scorer) Score(req, other Entity, graph *SkillGraph, weights Weights) (ScoreResult, error) {
	if req.ID == "" {
		return ScoreResult{}, NewNotFound("requirement entity", req.ID)
	}
	if other.ID == "" {
		return ScoreResult{}, NewNotFound("entity", other.ID)
	}

	w, err := weights.Normalize(s.cfg.DefaultWeights)
	if err != nil {
		return ScoreResult{}, err
	}

	res := ScoreResult{RequirementID: req.ID, EntityID: other.ID}
	res.SkillScore = s.skillScore(req, other, graph, &res)
	res.LocationScore = LocationScore(req.Location, other.Location)

	sem, ok := SemanticScore(req.Embedding, other.Embedding)
	res.SemanticAvailable = ok
	if ok {
		res.SemanticScore = sem
	} else {
		w = w.withoutSemantic()
	}
	res.AppliedWeights = w

	combined := w.Skills*res.SkillScore + w.Location*res.LocationScore + w.Semantic*res.SemanticScore
	res.MatchPercentage = clampPercent(100 * combined)
	res.GraphPercentage = clampPercent(100 * res.SkillScore)
	res.TextPercentage = clampPercent(100 * res.SemanticScore)
	return res, nil
}

// RequirementWeight is the importance a requirement contributes to the skill sub-score.
func (s *Scorer) RequirementWeight(p skill.Possession, holder EntityKind) float64 {
	base := 1.0
	if holder == KindJob {
		base = skill.Clamp01(p.Magnitude)
	}
	if !p.Role.IsPrimary() {
		base *= s.cfg.SecondaryDiscount
	}
	return base
}

func (s *Scorer) skillScore(req, other Entity, graph *SkillGraph, res *ScoreResult) float64 {
	held := other.possessionIndex()
	isHeld := func(id string) bool {
		_, ok := held[id]
		return ok
	}

	seen := make(map[string]struct{}, len(req.Possessions))
	var total, earned float64

	for _, r := range req.Possessions {
		if r.SkillID == "" {
			continue
		}
		if _, dup := seen[r.SkillID]; dup {
			continue
		}
		seen[r.SkillID] = struct{}{}

		importance := s.RequirementWeight(r, req.Kind)
		total += importance
		primary := r.Role.IsPrimary()

		h, direct := held[r.SkillID]
		link, linked := graph.StrongestLinkTo(r.SkillID, isHeld)
		if !direct && !linked {
			res.MissingSkills = append(res.MissingSkills, MissingSkill{
				SkillID:    r.SkillID,
				SkillName:  r.SkillName,
				Primary:    primary,
				Importance: importance,
			})
			continue
		}

		match := MatchedSkill{
			SkillID:    r.SkillID,
			SkillName:  r.SkillName,
			Kind:       MatchDirect,
			Primary:    primary,
			Importance: importance,
		}

		var best float64
		if direct {
			best = importance * levelRatio(h.NumericLevel(), r.NumericLevel())
			if primary {
				res.DirectPrimaryMatches++
			}
		}
		// Credit is the larger of the direct and the bridged contribution.
		if linked {
			if indirect := importance * link.Weight * s.cfg.IndirectDiscount; !direct || indirect > best {
				best = indirect
				match.ViaSkillID = link.OtherID
				match.RelationType = link.Type
				if !direct {
					match.Kind = MatchIndirect
				}
			}
		}

		match.Contribution = best
		earned += best
		res.MatchedSkills = append(res.MatchedSkills, match)
	}

	if total == 0 {
		return 1
	}
	score := earned / total
	if score > 1 {
		return 1
	}
	return score
}

func levelRatio(have, want int) float64 {
	if want <= 0 {
		return 1
	}
	if have <= 0 {
		return 0
	}
	r := float64(have) / float64(want)
	if r > 1 {
		return 1
	}
	return r
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
