package matching

import (
	"testing"

	"skill-graph/internal/domain/skill"

	"github.com/stretchr/testify/assert"
)

func TestNewSkillGraph_DedupesAndClamps(t *testing.T) {
	g := NewSkillGraph([]skill.Relationship{
		edge("a", "b", skill.RelationRelatedTo, 0.2),
		edge("a", "b", skill.RelationRelatedTo, 1.5),
		edge("a", "b", skill.RelationRequires, 0.4),
		edge("a", "", skill.RelationRequires, 0.4),
		edge("a", "c", "KNOWS", 0.4),
	})

	assert.Equal(t, 2, g.Len())
	out := g.Outgoing("a")
	assert.Len(t, out, 2)
	assert.Equal(t, 1.0, out[0].Weight)
	assert.Len(t, g.Incoming("b"), 2)
}

func TestSkillGraph_Links(t *testing.T) {
	g := NewSkillGraph([]skill.Relationship{
		edge("a", "b", skill.RelationRelatedTo, 0.3),
		edge("c", "a", skill.RelationRequires, 0.8),
	})

	links := g.Links("a")
	assert.Len(t, links, 2)
	assert.Equal(t, "c", links[0].OtherID)
	assert.False(t, links[0].Outgoing)

	l, ok := g.StrongestLinkTo("a", func(id string) bool { return id == "b" })
	assert.True(t, ok)
	assert.Equal(t, 0.3, l.Weight)

	var nilGraph *SkillGraph
	_, ok = nilGraph.StrongestLinkTo("a", func(string) bool { return true })
	assert.False(t, ok)
}
