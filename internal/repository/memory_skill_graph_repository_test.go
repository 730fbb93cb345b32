package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshot = `
skills:
  - {id: python, name: Python, category: language, domain: data}
  - {id: ml, name: Machine Learning, category: discipline, domain: data}
  - {id: docker, name: Docker, category: tool, domain: infra}
  - {id: k8s, name: Kubernetes, category: tool, domain: infra}
relationships:
  - {source: ml, target: python, type: related_to, weight: 0.8}
  - {source: k8s, target: docker, type: REQUIRES, weight: 1.4}
entities:
  - id: job-1
    kind: job
    title: ML Engineer
    location: Austin, TX, USA
    embedding: [1, 0, 0]
    skills:
      - {skill: ml, role: PRIMARY, proficiency: advanced, magnitude: 0.9}
      - {skill: docker, role: SECONDARY, proficiency: intermediate, magnitude: 0.4}
  - id: cand-1
    kind: candidate
    title: Data Analyst
    location: Dallas, TX, USA
    skills:
      - {skill: python, role: CORE, proficiency: expert, magnitude: 5}
  - id: cand-2
    kind: candidate
    title: Platform Engineer
    location: Berlin, Germany
    skills:
      - {skill: k8s, role: CORE, proficiency: advanced, level: 8, magnitude: 3}
  - id: cand-broken
    kind: candidate
    title: Ghost
    skills:
      - {skill: cobol, role: CORE, proficiency: expert}
`

func newTestMemoryRepo(t *testing.T) *MemorySkillGraphRepository {
	t.Helper()
	snap, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)
	repo, err := NewMemorySkillGraphRepository(snap)
	require.NoError(t, err)
	return repo
}

func TestMemoryRepository_GetSkill(t *testing.T) {
	repo := newTestMemoryRepo(t)

	s, err := repo.GetSkill(context.Background(), "ml")
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", s.Name)
	assert.Equal(t, "data", s.Domain)

	_, err = repo.GetSkill(context.Background(), "rust")
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestMemoryRepository_GetRelationships(t *testing.T) {
	repo := newTestMemoryRepo(t)

	rels, err := repo.GetRelationships(context.Background(), "k8s")
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, skill.RelationRequires, rels[0].Type)
	assert.Equal(t, 1.0, rels[0].Weight)

	rels, err = repo.GetRelationships(context.Background(), "python")
	require.NoError(t, err)
	assert.Empty(t, rels)

	_, err = repo.GetRelationships(context.Background(), "rust")
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestMemoryRepository_GetEntity(t *testing.T) {
	repo := newTestMemoryRepo(t)

	e, err := repo.GetEntity(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, matching.KindJob, e.Kind)
	assert.Equal(t, []float32{1, 0, 0}, e.Embedding)
	require.Len(t, e.Possessions, 2)
	assert.Equal(t, skill.RolePrimary, e.Possessions[0].Role)
	assert.Equal(t, skill.Advanced, e.Possessions[0].Proficiency)

	c, err := repo.GetEntity(context.Background(), "cand-2")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Possessions[0].NumericLevel())

	_, err = repo.GetEntity(context.Background(), "nobody")
	assert.ErrorIs(t, err, matching.ErrNotFound)

	_, err = repo.GetEntity(context.Background(), "cand-broken")
	var nf *matching.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "skill", nf.Kind)
	assert.Equal(t, "cobol", nf.ID)
}

func TestMemoryRepository_List(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx := context.Background()

	all, err := repo.ListCandidates(ctx, EntityFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cand-1", "cand-2", "cand-broken"}, ids(all))

	jobs, err := repo.ListJobs(ctx, EntityFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"job-1"}, ids(jobs))

	tx, err := repo.ListCandidates(ctx, EntityFilter{Location: "tx"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cand-1"}, ids(tx))

	bySkill, err := repo.ListCandidates(ctx, EntityFilter{SkillIDs: []string{" k8s "}})
	require.NoError(t, err)
	assert.Equal(t, []string{"cand-2"}, ids(bySkill))

	page, err := repo.ListCandidates(ctx, EntityFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"cand-2"}, ids(page))

	empty, err := repo.ListCandidates(ctx, EntityFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListCandidates(ctx, EntityFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewMemoryRepository_RejectsBadSnapshots(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate skill", "skills: [{id: a}, {id: a}]"},
		{"empty skill id", "skills: [{id: ''}]"},
		{"unknown relation", "skills: [{id: a}, {id: b}]\nrelationships: [{source: a, target: b, type: LIKES, weight: 1}]"},
		{"unknown kind", "entities: [{id: e, kind: company}]"},
		{"duplicate entity", "entities: [{id: e, kind: job}, {id: e, kind: job}]"},
		{"skill listed twice", "skills: [{id: a}]\nentities: [{id: e, kind: job, skills: [{skill: a}, {skill: a}]}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := ParseSnapshot([]byte(tt.doc))
			require.NoError(t, err)
			_, err = NewMemorySkillGraphRepository(snap)
			assert.Error(t, err)
		})
	}
}

func TestLoadSnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSnapshot), 0o600))

	snap, err := LoadSnapshotFile(path)
	require.NoError(t, err)
	assert.Len(t, snap.Skills, 4)
	assert.Len(t, snap.Entities, 4)

	_, err = LoadSnapshotFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseSnapshot([]byte("skills: [unterminated"))
	assert.Error(t, err)
}

func ids(es []matching.Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func TestLoadSnapshotFile_Example(t *testing.T) {
	snap, err := LoadSnapshotFile(filepath.Join("..", "..", "configs", "graph.example.yaml"))
	require.NoError(t, err)

	repo, err := NewMemorySkillGraphRepository(snap)
	require.NoError(t, err)

	jobs, err := repo.ListJobs(context.Background(), EntityFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}
