package matching

import (
	"context"
	"sort"

	"skill-graph/internal/domain/skill"
)

type edgeKey struct {
	source string
	target string
	typ    skill.RelationType
}

// SkillGraph is an immutable in-memory snapshot of relationship edges.
type SkillGraph struct {
	out map[string][]skill.Relationship
	in  map[string][]skill.Relationship
	n   int
}

// NewSkillGraph indexes the given edges. Only one edge per (source, target, type)
// is kept; a later duplicate replaces an earlier one. Weights are clamped to [0,1].
func NewSkillGraph(rels []skill.Relationship) *SkillGraph {
	order := make([]edgeKey, 0, len(rels))
	byKey := make(map[edgeKey]skill.Relationship, len(rels))
	for _, r := range rels {
		if r.SourceID == "" || r.TargetID == "" || !r.Type.Valid() {
			continue
		}
		k := edgeKey{source: r.SourceID, target: r.TargetID, typ: r.Type}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = r.Normalized()
	}

	g := &SkillGraph{
		out: make(map[string][]skill.Relationship),
		in:  make(map[string][]skill.Relationship),
		n:   len(order),
	}
	for _, k := range order {
		r := byKey[k]
		g.out[r.SourceID] = append(g.out[r.SourceID], r)
		g.in[r.TargetID] = append(g.in[r.TargetID], r)
	}
	return g
}

func (g *SkillGraph) Len() int {
	if g == nil {
		return 0
	}
	return g.n
}

func (g *SkillGraph) Outgoing(skillID string) []skill.Relationship {
	if g == nil {
		return nil
	}
	return g.out[skillID]
}

func (g *SkillGraph) Incoming(skillID string) []skill.Relationship {
	if g == nil {
		return nil
	}
	return g.in[skillID]
}

// Link is an edge touching a skill, seen from that skill.
type Link struct {
	OtherID  string
	Type     skill.RelationType
	Weight   float64
	Outgoing bool
}

// Links returns every edge touching skillID in either direction, strongest first,
// ties broken by the other skill's id and then the relation type.
func (g *SkillGraph) Links(skillID string) []Link {
	if g == nil {
		return nil
	}
	out := make([]Link, 0, len(g.out[skillID])+len(g.in[skillID]))
	for _, r := range g.out[skillID] {
		out = append(out, Link{OtherID: r.TargetID, Type: r.Type, Weight: r.Weight, Outgoing: true})
	}
	for _, r := range g.in[skillID] {
		out = append(out, Link{OtherID: r.SourceID, Type: r.Type, Weight: r.Weight, Outgoing: false})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		if out[i].OtherID != out[j].OtherID {
			return out[i].OtherID < out[j].OtherID
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// StrongestLinkTo returns the strongest edge, in either direction, between skillID and
// any skill accepted by held.
func (g *SkillGraph) StrongestLinkTo(skillID string, held func(string) bool) (Link, bool) {
	for _, l := range g.Links(skillID) {
		if l.OtherID == skillID {
			continue
		}
		if held(l.OtherID) {
			return l, true
		}
	}
	return Link{}, false
}

// Edges adapts the snapshot to the EdgeFunc used by path search.
func (g *SkillGraph) Edges() EdgeFunc {
	return func(_ context.Context, skillID string) ([]skill.Relationship, error) {
		return g.Outgoing(skillID), nil
	}
}
