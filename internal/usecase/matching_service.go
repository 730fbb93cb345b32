package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"skill-graph/internal/domain/matching"
	"skill-graph/internal/domain/skill"
	"skill-graph/internal/metrics"
	"skill-graph/internal/pkg/workerpool"
	"skill-graph/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	OpMatchJobToCandidates = "match_job_to_candidates"
	OpMatchCandidateToJobs = "match_candidate_to_jobs"
	OpRecommendSkills      = "recommend_skills"
	OpSkillPath            = "skill_path"
)

type MatchingConfig struct {
	Scorer       matching.ScorerConfig
	MaxPathDepth int
	Workers      int
	DefaultLimit int
	MaxLimit     int
}

func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Scorer:       matching.DefaultScorerConfig(),
		MaxPathDepth: matching.DefaultMaxPathDepth,
		Workers:      8,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// MatchParams controls a ranking call. Limit and Offset page the ranked
// result; Filter narrows the population that gets scored.
type MatchParams struct {
	Limit   int
	Offset  int
	Weights matching.Weights
	Filter  repository.EntityFilter
}

type RankedMatch struct {
	Rank     int
	EntityID string
	Title    string
	Location string
	Score    matching.ScoreResult
}

type SkippedEntity struct {
	EntityID string
	Reason   string
}

type MatchPage struct {
	SubjectID string
	Weights   matching.Weights
	// Total is the number of entities ranked before paging.
	Total   int
	Limit   int
	Offset  int
	Results []RankedMatch
	Skipped []SkippedEntity
}

// SkillPath is a path result with the skills along it resolved.
type SkillPath struct {
	matching.PathResult
	Skills []skill.Skill
}

type MatchingUsecase interface {
	MatchJobToCandidates(ctx context.Context, jobID string, params MatchParams) (MatchPage, error)
	MatchCandidateToJobs(ctx context.Context, candidateID string, params MatchParams) (MatchPage, error)
	RecommendSkillsForJob(ctx context.Context, candidateID, jobID string, topN int) ([]matching.SkillRecommendation, error)
	GetSkillPath(ctx context.Context, sourceID, targetID string, maxDepth int) (SkillPath, error)
}

// MatchingService reads a fresh snapshot from the store on every call and
// keeps no state between calls.
type MatchingService struct {
	store  repository.SkillGraphStore
	scorer *matching.Scorer
	paths  *matching.PathFinder
	cfg    MatchingConfig
	logger *zap.Logger
}

func NewMatchingService(store repository.SkillGraphStore, cfg MatchingConfig, logger *zap.Logger) *MatchingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	scorer := matching.NewScorer(cfg.Scorer)
	cfg.Scorer = scorer.Config()

	paths := matching.NewPathFinder(cfg.MaxPathDepth)
	cfg.MaxPathDepth = paths.MaxDepth()

	return &MatchingService{
		store:  store,
		scorer: scorer,
		paths:  paths,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "matching")),
	}
}

func (s *MatchingService) MatchJobToCandidates(ctx context.Context, jobID string, params MatchParams) (page MatchPage, err error) {
	defer s.observe(OpMatchJobToCandidates, time.Now(), &err)
	return s.rank(ctx, OpMatchJobToCandidates, jobID, matching.KindJob, params)
}

func (s *MatchingService) MatchCandidateToJobs(ctx context.Context, candidateID string, params MatchParams) (page MatchPage, err error) {
	defer s.observe(OpMatchCandidateToJobs, time.Now(), &err)
	return s.rank(ctx, OpMatchCandidateToJobs, candidateID, matching.KindCandidate, params)
}

func (s *MatchingService) RecommendSkillsForJob(ctx context.Context, candidateID, jobID string, topN int) (recs []matching.SkillRecommendation, err error) {
	defer s.observe(OpRecommendSkills, time.Now(), &err)

	job, err := s.getEntityOfKind(ctx, jobID, matching.KindJob)
	if err != nil {
		return nil, err
	}
	candidate, err := s.getEntityOfKind(ctx, candidateID, matching.KindCandidate)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(job.Possessions)+len(candidate.Possessions))
	for _, p := range job.Possessions {
		if p.Role.IsPrimary() {
			ids = append(ids, p.SkillID)
		}
	}
	ids = append(ids, candidate.SkillIDs()...)

	graph, err := s.loadGraph(ctx, ids)
	if err != nil {
		return nil, err
	}

	recs = matching.Recommend(job, candidate, graph, topN)
	for i := range recs {
		sk, err := s.store.GetSkill(ctx, recs[i].SkillID)
		if err != nil {
			if errors.Is(err, matching.ErrNotFound) {
				continue
			}
			return nil, err
		}
		recs[i].Category = sk.Category
		recs[i].Domain = sk.Domain
		if recs[i].SkillName == "" {
			recs[i].SkillName = sk.Name
		}
	}
	return recs, nil
}

// GetSkillPath follows stored edge direction only. maxDepth <= 0 uses the
// configured depth, and larger values are capped to it. A missing path is
// reported through SkillPath.Found, not as an error.
func (s *MatchingService) GetSkillPath(ctx context.Context, sourceID, targetID string, maxDepth int) (path SkillPath, err error) {
	defer s.observe(OpSkillPath, time.Now(), &err)

	source, err := s.store.GetSkill(ctx, sourceID)
	if err != nil {
		return SkillPath{}, err
	}
	target, err := s.store.GetSkill(ctx, targetID)
	if err != nil {
		return SkillPath{}, err
	}

	res, err := s.paths.FindPath(ctx, s.storeEdges(), source.ID, target.ID, maxDepth)
	if err != nil {
		return SkillPath{}, err
	}
	path = SkillPath{PathResult: res}
	if !res.Found {
		return path, nil
	}

	known := map[string]skill.Skill{source.ID: source, target.ID: target}
	path.Skills = make([]skill.Skill, 0, len(res.SkillIDs))
	for _, id := range res.SkillIDs {
		sk, ok := known[id]
		if !ok {
			sk, err = s.store.GetSkill(ctx, id)
			if err != nil {
				if !errors.Is(err, matching.ErrNotFound) {
					return SkillPath{}, err
				}
				sk = skill.Skill{ID: id, Name: id}
			}
			known[id] = sk
		}
		path.Skills = append(path.Skills, sk)
	}
	return path, nil
}

func (s *MatchingService) rank(ctx context.Context, op, subjectID string, subjectKind matching.EntityKind, params MatchParams) (MatchPage, error) {
	weights, err := params.Weights.Normalize(s.cfg.Scorer.DefaultWeights)
	if err != nil {
		return MatchPage{}, err
	}

	subject, err := s.getEntityOfKind(ctx, subjectID, subjectKind)
	if err != nil {
		return MatchPage{}, err
	}

	filter := params.Filter
	filter.Limit, filter.Offset = 0, 0
	var population []matching.Entity
	if subjectKind == matching.KindJob {
		population, err = s.store.ListCandidates(ctx, filter)
	} else {
		population, err = s.store.ListJobs(ctx, filter)
	}
	if err != nil {
		return MatchPage{}, err
	}

	population, skipped, err := s.loadPossessions(ctx, op, population)
	if err != nil {
		return MatchPage{}, err
	}

	ids := subject.SkillIDs()
	for _, e := range population {
		ids = append(ids, e.SkillIDs()...)
	}
	graph, err := s.loadGraph(ctx, ids)
	if err != nil {
		return MatchPage{}, err
	}

	scores := make([]matching.ScoreResult, len(population))
	errs := workerpool.ForEach(ctx, s.cfg.Workers, len(population), func(_ context.Context, i int) error {
		req, other := subject, population[i]
		if subjectKind == matching.KindCandidate {
			req, other = population[i], subject
		}
		res, err := s.scorer.Score(req, other, graph, weights)
		if err != nil {
			return err
		}
		scores[i] = res
		return nil
	})
	if err := ctx.Err(); err != nil {
		return MatchPage{}, err
	}

	ranked := make([]RankedMatch, 0, len(population))
	for i, e := range population {
		if errs[i] != nil {
			skipped = append(skipped, s.skip(op, e.ID, errs[i]))
			continue
		}
		ranked = append(ranked, RankedMatch{
			EntityID: e.ID,
			Title:    e.Title,
			Location: e.Location,
			Score:    scores[i],
		})
	}
	sortRanked(ranked)
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].EntityID < skipped[j].EntityID })
	metrics.RecordSkipped(op, len(skipped))

	limit, offset := s.pageBounds(params.Limit, params.Offset)
	return MatchPage{
		SubjectID: subject.ID,
		Weights:   weights,
		Total:     len(ranked),
		Limit:     limit,
		Offset:    offset,
		Results:   paginate(ranked, limit, offset),
		Skipped:   skipped,
	}, nil
}

// loadPossessions fetches each entity's possessions in parallel. Entities
// whose possessions cannot be read are returned as skipped; a store outage or
// a done context fails the whole call.
func (s *MatchingService) loadPossessions(ctx context.Context, op string, entities []matching.Entity) ([]matching.Entity, []SkippedEntity, error) {
	loaded := make([]matching.Entity, len(entities))
	copy(loaded, entities)

	errs := workerpool.ForEach(ctx, s.cfg.Workers, len(loaded), func(ctx context.Context, i int) error {
		ps, err := s.store.GetPossessions(ctx, loaded[i].ID)
		if err != nil {
			return err
		}
		loaded[i].Possessions = ps
		return nil
	})
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := make([]matching.Entity, 0, len(loaded))
	skipped := make([]SkippedEntity, 0)
	for i, e := range loaded {
		if err := errs[i]; err != nil {
			if errors.Is(err, matching.ErrGraphUnavailable) {
				return nil, nil, err
			}
			skipped = append(skipped, s.skip(op, e.ID, err))
			continue
		}
		out = append(out, e)
	}
	return out, skipped, nil
}

// loadGraph prefetches the outgoing edges of every listed skill. Skills the
// store does not know contribute no edges.
func (s *MatchingService) loadGraph(ctx context.Context, skillIDs []string) (*matching.SkillGraph, error) {
	seen := make(map[string]struct{}, len(skillIDs))
	unique := make([]string, 0, len(skillIDs))
	for _, id := range skillIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var (
		mu   sync.Mutex
		rels []skill.Relationship
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, id := range unique {
		g.Go(func() error {
			out, err := s.store.GetRelationships(gctx, id)
			if err != nil {
				if errors.Is(err, matching.ErrNotFound) {
					s.logger.Debug("skill missing from graph", zap.String("skill_id", id))
					return nil
				}
				return err
			}
			mu.Lock()
			rels = append(rels, out...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matching.NewSkillGraph(rels), nil
}

// storeEdges reads relationships on demand, once per skill per call.
func (s *MatchingService) storeEdges() matching.EdgeFunc {
	memo := make(map[string][]skill.Relationship)
	return func(ctx context.Context, skillID string) ([]skill.Relationship, error) {
		if rels, ok := memo[skillID]; ok {
			return rels, nil
		}
		rels, err := s.store.GetRelationships(ctx, skillID)
		if err != nil {
			if !errors.Is(err, matching.ErrNotFound) {
				return nil, err
			}
			rels = nil
		}
		memo[skillID] = rels
		return rels, nil
	}
}

func (s *MatchingService) getEntityOfKind(ctx context.Context, id string, kind matching.EntityKind) (matching.Entity, error) {
	if id == "" {
		return matching.Entity{}, matching.NewNotFound(string(kind), id)
	}
	e, err := s.store.GetEntity(ctx, id)
	if err != nil {
		return matching.Entity{}, err
	}
	if e.Kind != kind {
		return matching.Entity{}, matching.NewNotFound(string(kind), id)
	}
	return e, nil
}

func (s *MatchingService) pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *MatchingService) skip(op, entityID string, err error) SkippedEntity {
	s.logger.Warn("entity skipped",
		zap.String("operation", op),
		zap.String("entity_id", entityID),
		zap.Error(err),
	)
	return SkippedEntity{EntityID: entityID, Reason: err.Error()}
}

func (s *MatchingService) observe(op string, start time.Time, errp *error) {
	metrics.RecordOperation(op, outcomeOf(*errp), time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, matching.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, matching.ErrInvalidWeights):
		return metrics.OutcomeInvalid
	case errors.Is(err, matching.ErrGraphUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}
