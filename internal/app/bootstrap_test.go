package app

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"skill-graph/internal/config"
	"skill-graph/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const appSnapshot = `
skills:
  - {id: go, name: Go}
  - {id: sql, name: SQL}
  - {id: postgres, name: PostgreSQL}
relationships:
  - {source: postgres, target: sql, type: REQUIRES, weight: 0.9}
entities:
  - id: job-backend
    kind: job
    title: Backend Engineer
    location: Jakarta, Indonesia
    skills:
      - {skill: go, role: primary, proficiency: advanced}
      - {skill: sql, role: secondary, proficiency: intermediate}
  - id: cand-gopher
    kind: candidate
    location: Jakarta, Indonesia
    skills:
      - {skill: go, proficiency: expert}
      - {skill: postgres, proficiency: advanced}
  - id: cand-new
    kind: candidate
    location: Surabaya, Indonesia
    skills:
      - {skill: sql, proficiency: beginner}
`

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(appSnapshot), 0o600))

	return &config.Config{
		App:   config.AppConfig{AppName: "skill-graph-test", HTTPPort: "0"},
		Graph: config.GraphConfig{Backend: config.BackendMemory, SnapshotPath: path, BreakerEnabled: true},
		Matching: config.MatchingConfig{
			IndirectDiscount:  0.4,
			SecondaryDiscount: 0.5,
			Weights:           config.WeightsConfig{Skills: 0.75, Location: 0.15, Semantic: 0.10},
			MaxPathDepth:      4,
			Workers:           2,
			DefaultLimit:      20,
			MaxLimit:          100,
		},
	}
}

type body struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, f *fiber.App, target string) (int, body) {
	t.Helper()
	resp, err := f.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var b body
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	return resp.StatusCode, b
}

func TestBootstrap_MemoryBackendServesMatching(t *testing.T) {
	a, cleanup, err := Bootstrap(memoryConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	// the breaker only guards remote stores
	_, wrapped := a.Container.Store.(*repository.BreakerSkillGraphRepository)
	assert.False(t, wrapped)

	status, b := call(t, a.Fiber, "/api/v1/jobs/job-backend/candidates")
	require.Equal(t, fiber.StatusOK, status)

	var page struct {
		Total   int `json:"total"`
		Results []struct {
			Rank int    `json:"rank"`
			ID   string `json:"id"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(b.Data, &page))
	require.Equal(t, 2, page.Total)
	assert.Equal(t, "cand-gopher", page.Results[0].ID)
	assert.Equal(t, 1, page.Results[0].Rank)

	status, _ = call(t, a.Fiber, "/api/v1/skills/postgres/path/sql")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, a.Fiber, "/api/v1/jobs/cand-gopher/candidates")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestBootstrap_HealthAndMetrics(t *testing.T) {
	a, cleanup, err := Bootstrap(memoryConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	status, b := call(t, a.Fiber, "/health")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, fiber.StatusOK, b.Status)

	_, _ = call(t, a.Fiber, "/api/v1/jobs/job-backend/candidates")

	resp, err := a.Fiber.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "skillgraph_operations_total")
}

func TestBootstrap_Errors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		cfg := memoryConfig(t)
		cfg.Graph.Backend = "cassandra"
		_, _, err := Bootstrap(cfg, nil)
		assert.ErrorContains(t, err, "unknown graph backend")
	})
	t.Run("missing snapshot", func(t *testing.T) {
		cfg := memoryConfig(t)
		cfg.Graph.SnapshotPath = filepath.Join(t.TempDir(), "absent.yaml")
		_, _, err := Bootstrap(cfg, nil)
		assert.ErrorContains(t, err, "load snapshot")
	})
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr(" 8080 ")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9090")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr("")
	assert.Error(t, err)
}

func TestMatchingConfig(t *testing.T) {
	mc := MatchingConfig(memoryConfig(t).Matching)
	assert.Equal(t, 0.4, mc.Scorer.IndirectDiscount)
	assert.Equal(t, 0.75, mc.Scorer.DefaultWeights.Skills)
	assert.Equal(t, 4, mc.MaxPathDepth)
	assert.Equal(t, 100, mc.MaxLimit)
}
