package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"skill-graph/internal/database"
	"skill-graph/internal/repository"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type columnRows struct {
	cols []string
	i    int
}

func (r *columnRows) Close()     {}
func (r *columnRows) Next() bool { r.i++; return r.i <= len(r.cols) }
func (r *columnRows) Err() error { return nil }
func (r *columnRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.cols[r.i-1]
	return nil
}

type execCall struct {
	query string
	args  []any
}

// recordingDB reports every column as present and records statements run inside transactions.
type recordingDB struct {
	execs     []execCall
	committed bool
	failOn    string
}

func (d *recordingDB) Ping(context.Context) error { return nil }
func (d *recordingDB) Close() error               { return nil }
func (d *recordingDB) SQLDB() *sql.DB             { return nil }

func (d *recordingDB) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	if d.failOn != "" && strings.Contains(q, d.failOn) {
		return 0, errors.New("boom")
	}
	d.execs = append(d.execs, execCall{query: q, args: args})
	return 1, nil
}

func (d *recordingDB) Query(_ context.Context, _ string, _ ...any) (database.Rows, error) {
	return &columnRows{cols: []string{
		"id", "name", "category", "domain",
		"source_skill_id", "target_skill_id", "type", "weight",
		"kind", "title", "location", "summary", "embedding",
		"entity_id", "skill_id", "role", "proficiency", "level", "magnitude",
	}}, nil
}

func (d *recordingDB) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (d *recordingDB) Begin(context.Context) (database.Tx, error) { return &recordingTx{db: d}, nil }

type recordingTx struct{ db *recordingDB }

func (t *recordingTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.db.Exec(ctx, q, args...)
}
func (t *recordingTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}
func (t *recordingTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.db.QueryRow(ctx, q, args...)
}
func (t *recordingTx) Commit(context.Context) error   { t.db.committed = true; return nil }
func (t *recordingTx) Rollback(context.Context) error { return nil }

const seedSnapshot = `
skills:
  - {id: python, name: Python}
  - {id: ml, name: Machine Learning, category: ai}
relationships:
  - {source: ml, target: python, type: requires, weight: 0.9}
entities:
  - id: job-1
    kind: Job
    title: ML Engineer
    embedding: [0.1, 0.2]
    skills:
      - {skill: ml, role: primary, proficiency: advanced}
  - id: cand-1
    kind: candidate
    skills:
      - {skill: python, level: 7}
`

func (d *recordingDB) matching(fragment string) []execCall {
	var out []execCall
	for _, c := range d.execs {
		if strings.Contains(c.query, fragment) {
			out = append(out, c)
		}
	}
	return out
}

func TestSnapshotSeeder_UpsertsGraph(t *testing.T) {
	snap, err := repository.ParseSnapshot([]byte(seedSnapshot))
	require.NoError(t, err)

	db := &recordingDB{}
	require.NoError(t, Runner{Seeders: Defaults(snap, false)}.Run(context.Background(), db))
	assert.True(t, db.committed)

	assert.Len(t, db.matching("INSERT INTO skills"), 2)
	assert.Empty(t, db.matching("TRUNCATE"))

	rels := db.matching("INSERT INTO skill_relationships")
	require.Len(t, rels, 1)
	assert.Equal(t, []any{"ml", "python", "REQUIRES", 0.9}, rels[0].args)

	ents := db.matching("INSERT INTO entities")
	require.Len(t, ents, 2)
	assert.Equal(t, "job", ents[0].args[1])
	assert.Equal(t, pgvector.NewVector([]float32{0.1, 0.2}), ents[0].args[5])
	assert.Nil(t, ents[1].args[5])

	poss := db.matching("INSERT INTO skill_possessions")
	require.Len(t, poss, 2)
	level, ok := poss[1].args[4].(*int)
	require.True(t, ok)
	require.NotNil(t, level)
	assert.Equal(t, 7, *level)
}

func TestSnapshotSeeder_ClampsOutOfRangeValues(t *testing.T) {
	snap, err := repository.ParseSnapshot([]byte(`
skills:
  - {id: go}
  - {id: k8s}
relationships:
  - {source: k8s, target: go, type: related_to, weight: 1.7}
entities:
  - id: cand-1
    kind: candidate
    skills:
      - {skill: go, level: 12}
      - {skill: k8s, level: -3}
`))
	require.NoError(t, err)

	db := &recordingDB{}
	require.NoError(t, SnapshotSeeder{Snapshot: snap}.Run(context.Background(), db))

	rels := db.matching("INSERT INTO skill_relationships")
	require.Len(t, rels, 1)
	assert.Equal(t, 1.0, rels[0].args[3])

	poss := db.matching("INSERT INTO skill_possessions")
	require.Len(t, poss, 2)
	levels := make([]int, 0, len(poss))
	for _, c := range poss {
		l, ok := c.args[4].(*int)
		require.True(t, ok)
		require.NotNil(t, l)
		levels = append(levels, *l)
	}
	assert.Equal(t, []int{10, 0}, levels)
}

func TestSnapshotSeeder_Reset(t *testing.T) {
	snap, err := repository.ParseSnapshot([]byte(seedSnapshot))
	require.NoError(t, err)

	db := &recordingDB{}
	require.NoError(t, SnapshotSeeder{Snapshot: snap, Reset: true}.Run(context.Background(), db))
	require.NotEmpty(t, db.execs)
	assert.Contains(t, db.execs[0].query, "TRUNCATE")
}

func TestSnapshotSeeder_RejectsInvalidSnapshot(t *testing.T) {
	snap := repository.Snapshot{Skills: []repository.SnapshotSkill{{ID: "a"}, {ID: "a"}}}
	db := &recordingDB{}
	err := SnapshotSeeder{Snapshot: snap}.Run(context.Background(), db)
	assert.ErrorContains(t, err, "duplicate skill id")
	assert.Empty(t, db.execs)
}

func TestRunner_WrapsSeederName(t *testing.T) {
	snap, err := repository.ParseSnapshot([]byte(seedSnapshot))
	require.NoError(t, err)

	db := &recordingDB{failOn: "INSERT INTO entities"}
	err = Runner{Seeders: Defaults(snap, false)}.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed snapshot: entity job-1")
	assert.False(t, db.committed)
}
