package repository

import (
	"context"
	"time"

	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"
	"skill-graph/internal/metrics"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "skillgraph:"

// JSONCache is the subset of the Redis cache used by the store decorator.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CachedSkillGraphRepository caches skills and outgoing relationships, which
// change far less often than entities. Entity reads pass through.
type CachedSkillGraphRepository struct {
	next   SkillGraphStore
	cache  JSONCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedSkillGraphRepository(next SkillGraphStore, cache JSONCache, ttl time.Duration, logger *zap.Logger) *CachedSkillGraphRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSkillGraphRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedSkillGraphRepository) GetSkill(ctx context.Context, id string) (skill.Skill, error) {
	key := cacheKeyPrefix + "skill:" + id

	var s skill.Skill
	if r.load(ctx, "skill", key, &s) {
		return s, nil
	}

	s, err := r.next.GetSkill(ctx, id)
	if err != nil {
		return skill.Skill{}, err
	}
	r.store(ctx, key, s)
	return s, nil
}

func (r *CachedSkillGraphRepository) GetRelationships(ctx context.Context, skillID string) ([]skill.Relationship, error) {
	key := cacheKeyPrefix + "rels:" + skillID

	var rels []skill.Relationship
	if r.load(ctx, "relationships", key, &rels) {
		return rels, nil
	}

	rels, err := r.next.GetRelationships(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if rels == nil {
		rels = []skill.Relationship{}
	}
	r.store(ctx, key, rels)
	return rels, nil
}

func (r *CachedSkillGraphRepository) GetPossessions(ctx context.Context, entityID string) ([]skill.Possession, error) {
	return r.next.GetPossessions(ctx, entityID)
}

func (r *CachedSkillGraphRepository) ListCandidates(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.next.ListCandidates(ctx, filter)
}

func (r *CachedSkillGraphRepository) ListJobs(ctx context.Context, filter EntityFilter) ([]matching.Entity, error) {
	return r.next.ListJobs(ctx, filter)
}

func (r *CachedSkillGraphRepository) GetEntity(ctx context.Context, id string) (matching.Entity, error) {
	return r.next.GetEntity(ctx, id)
}

// Invalidate drops every cached skill and relationship entry.
func (r *CachedSkillGraphRepository) Invalidate(ctx context.Context) error {
	return InvalidateSkillGraphCache(ctx, r.cache)
}

// InvalidateSkillGraphCache drops the entries written by any
// CachedSkillGraphRepository sharing the cache. Writers call it after
// changing skills or relationships in the backing store.
func InvalidateSkillGraphCache(ctx context.Context, cache JSONCache) error {
	if cache == nil {
		return nil
	}
	return cache.DeleteByPattern(ctx, cacheKeyPrefix+"*")
}

func (r *CachedSkillGraphRepository) load(ctx context.Context, kind, key string, out any) bool {
	ok, err := r.cache.GetJSON(ctx, key, out)
	if err != nil {
		r.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		metrics.RecordCacheHit(kind)
		return true
	}
	metrics.RecordCacheMiss(kind)
	return false
}

func (r *CachedSkillGraphRepository) store(ctx context.Context, key string, value any) {
	if err := r.cache.SetJSON(ctx, key, value, r.ttl); err != nil {
		r.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
