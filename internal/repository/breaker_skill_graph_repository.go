package repository

import (
	"context"
	"errors"
	"time"

	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"
	"skill-graph/internal/metrics"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type BreakerSettings struct {
	Name string
	// MaxFailures is the number of consecutive connectivity failures that opens the breaker.
	MaxFailures uint32
	OpenTimeout time.Duration
}

// BreakerSkillGraphRepository fails fast with ErrGraphUnavailable once the
// underlying store keeps reporting ErrGraphUnavailable. Any other error,
// including not-found, decode errors and caller cancellation, counts as success.
type BreakerSkillGraphRepository struct {
	next   SkillGraphStore
	cb     *gobreaker.CircuitBreaker[any]
	logger *zap.Logger
}

func NewBreakerSkillGraphRepository(next SkillGraphStore, s BreakerSettings, logger *zap.Logger) *BreakerSkillGraphRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s.Name == "" {
		s.Name = "skill-graph-store"
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	maxFailures := s.MaxFailures
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// only store outages count; missing rows, bad rows and caller
		// cancellation say nothing about the store's health
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, matching.ErrGraphUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("graph store breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetBreakerState(name, breakerGauge(to))
		},
	})
	metrics.SetBreakerState(s.Name, 0)

	return &BreakerSkillGraphRepository{next: next, cb: cb, logger: logger}
}

func breakerGauge(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (r *BreakerSkillGraphRepository) State() gobreaker.State {
	return r.cb.State()
}

func execute[T any](r *BreakerSkillGraphRepository, op string, fn func() (T, error)) (T, error) {
	out, err := r.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, matching.Unavailable(op, err)
		}
		return zero, err
	}
	return out.(T), nil
}

func (r *BreakerSkillGraphRepository) GetSkill(ctx context.Context, id string) (skill.Skill, error) {
	return execute(r, "get skill", func() (skill.Skill, error) {
		return r.next.GetSkill(ctx, id)
	})
}

func (r *BreakerSkillGraphRepository) GetRelationships(ctx context.Context, skillID string) ([]skill.Relationship, error) {
	return execute(r, "get relationships", func() ([]skill.Relationship, error) {
		return r.next.GetRelationships(ctx, skillID)
	})
}

func (r *BreakerSkillGraphRepository) GetPossessions(ctx context.Context, entityID string) ([]skill.Possession, error) {
	return execute(r, "get possessions", func() ([]skill.Possession, error) {
		return r.next.GetPossessions(ctx, entityID)
	})
}

func (r *BreakerSkillGraphRepository) ListCandidates(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return execute(r, "list candidates", func() ([]matching.Entity, error) {
		return r.next.ListCandidates(ctx, filter)
	})
}

func (r *BreakerSkillGraphRepository) ListJobs(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return execute(r, "list jobs", func() ([]matching.Entity, error) {
		return r.next.ListJobs(ctx, filter)
	})
}

func (r *BreakerSkillGraphRepository) GetEntity(ctx context.Context, id string) (matching.Entity, error) {
	return execute(r, "get entity", func() (matching.Entity, error) {
		return r.next.GetEntity(ctx, id)
	})
}
