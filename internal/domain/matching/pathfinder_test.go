package matching

import (
	"context"
	"errors"
	"testing"

	"skill-graph/internal/domain/skill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(ids ...string) []skill.Relationship {
	out := make([]skill.Relationship, 0, len(ids))
	for i := 0; i+1 < len(ids); i++ {
		out = append(out, edge(ids[i], ids[i+1], skill.RelationRelatedTo, 0.5))
	}
	return out
}

func assertEdgesExist(t *testing.T, g *SkillGraph, res PathResult) {
	t.Helper()
	require.Len(t, res.SkillIDs, len(res.Steps)+1)
	for i, step := range res.Steps {
		assert.Equal(t, res.SkillIDs[i], step.FromID)
		assert.Equal(t, res.SkillIDs[i+1], step.ToID)
		found := false
		for _, r := range g.Outgoing(step.FromID) {
			if r.TargetID == step.ToID && r.Type == step.Type {
				found = true
			}
		}
		assert.True(t, found, "no stored edge %s -> %s", step.FromID, step.ToID)
	}
}

func TestFindPath_PrefersHeavierEdges(t *testing.T) {
	g := NewSkillGraph([]skill.Relationship{
		edge("a", "d", skill.RelationRelatedTo, 0.1),
		edge("a", "b", skill.RelationRequires, 0.9),
		edge("b", "c", skill.RelationSubsetOf, 0.9),
		edge("c", "d", skill.RelationComplementaryTo, 0.9),
	})
	f := NewPathFinder(4)

	res, err := f.FindPath(context.Background(), g.Edges(), "a", "d", 0)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []string{"a", "b", "c", "d"}, res.SkillIDs)
	assert.Equal(t, 3, res.Hops())
	assert.InDelta(t, 0.3, res.Cost, 1e-9)
	assert.Equal(t, skill.RelationRequires, res.Steps[0].Type)
	assertEdgesExist(t, g, res)
}

func TestFindPath_RespectsMaxDepth(t *testing.T) {
	g := NewSkillGraph(chain("a", "b", "c", "d", "e", "f"))
	f := NewPathFinder(4)

	res, err := f.FindPath(context.Background(), g.Edges(), "a", "f", 0)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.SkillIDs)

	res, err = f.FindPath(context.Background(), g.Edges(), "a", "e", 0)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 4, res.Hops())
}

func TestFindPath_CheaperLongPathBeyondDepthFallsBackToShorter(t *testing.T) {
	g := NewSkillGraph([]skill.Relationship{
		edge("a", "x", skill.RelationRelatedTo, 0.0),
		edge("a", "b", skill.RelationRelatedTo, 1.0),
		edge("b", "c", skill.RelationRelatedTo, 1.0),
		edge("c", "x", skill.RelationRelatedTo, 1.0),
	})
	f := NewPathFinder(4)

	res, err := f.FindPath(context.Background(), g.Edges(), "a", "x", 2)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []string{"a", "x"}, res.SkillIDs)

	res, err = f.FindPath(context.Background(), g.Edges(), "a", "x", 3)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []string{"a", "b", "c", "x"}, res.SkillIDs)
	assert.Zero(t, res.Cost)
}

func TestFindPath_FollowsStoredDirectionOnly(t *testing.T) {
	g := NewSkillGraph([]skill.Relationship{edge("ml", "stats", skill.RelationRequires, 0.9)})
	f := NewPathFinder(4)

	res, err := f.FindPath(context.Background(), g.Edges(), "ml", "stats", 0)
	require.NoError(t, err)
	assert.True(t, res.Found)

	res, err = f.FindPath(context.Background(), g.Edges(), "stats", "ml", 0)
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestFindPath_SameSkill(t *testing.T) {
	f := NewPathFinder(4)
	res, err := f.FindPath(context.Background(), NewSkillGraph(nil).Edges(), "go", "go", 0)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"go"}, res.SkillIDs)
	assert.Zero(t, res.Hops())
}

func TestFindPath_Cycles(t *testing.T) {
	g := NewSkillGraph([]skill.Relationship{
		edge("a", "b", skill.RelationRelatedTo, 0.9),
		edge("b", "a", skill.RelationRelatedTo, 0.9),
		edge("b", "c", skill.RelationRelatedTo, 0.2),
	})
	f := NewPathFinder(4)
	res, err := f.FindPath(context.Background(), g.Edges(), "a", "c", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.SkillIDs)
	assertEdgesExist(t, g, res)
}

func TestFindPath_DepthCappedByFinder(t *testing.T) {
	g := NewSkillGraph(chain("a", "b", "c", "d"))
	f := NewPathFinder(2)

	res, err := f.FindPath(context.Background(), g.Edges(), "a", "d", 10)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 2, res.MaxDepth)
}

func TestFindPath_EdgeError(t *testing.T) {
	boom := errors.New("boom")
	f := NewPathFinder(4)
	_, err := f.FindPath(context.Background(), func(context.Context, string) ([]skill.Relationship, error) {
		return nil, boom
	}, "a", "b", 0)
	assert.ErrorIs(t, err, boom)
}

func TestFindPath_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewPathFinder(4)
	_, err := f.FindPath(ctx, NewSkillGraph(chain("a", "b")).Edges(), "a", "b", 0)
	assert.ErrorIs(t, err, context.Canceled)
}
