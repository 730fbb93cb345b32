package handler

import (
	"errors"
	"strconv"
	"strings"

	"skill-graph/internal/delivery/http/dto"
	"skill-graph/internal/delivery/http/middleware"
	"skill-graph/internal/domain/matching"
	"skill-graph/internal/pkg/response"
	"skill-graph/internal/repository"
	"skill-graph/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/:job_id/candidates", h.MatchJobToCandidates)
	r.Get("/candidates/:candidate_id/jobs", h.MatchCandidateToJobs)
	r.Get("/candidates/:candidate_id/jobs/:job_id/recommendations", h.RecommendSkills)
	r.Get("/skills/:source_id/path/:target_id", h.GetSkillPath)
}

func (h *MatchHandler) MatchJobToCandidates(c fiber.Ctx) error {
	params, err := parseMatchParams(c)
	if err != nil {
		return err
	}
	page, err := h.uc.MatchJobToCandidates(c.Context(), c.Params("job_id"), params)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchPageResponse(page))
}

func (h *MatchHandler) MatchCandidateToJobs(c fiber.Ctx) error {
	params, err := parseMatchParams(c)
	if err != nil {
		return err
	}
	page, err := h.uc.MatchCandidateToJobs(c.Context(), c.Params("candidate_id"), params)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchPageResponse(page))
}

func (h *MatchHandler) RecommendSkills(c fiber.Ctx) error {
	topN, err := parseQueryIntStrict(c, "top", 0)
	if err != nil || topN < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "top must be a non-negative integer", nil, err)
	}
	recs, err := h.uc.RecommendSkillsForJob(c.Context(), c.Params("candidate_id"), c.Params("job_id"), topN)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillRecommendationsResponse(recs))
}

func (h *MatchHandler) GetSkillPath(c fiber.Ctx) error {
	maxDepth, err := parseQueryIntStrict(c, "max_depth", 0)
	if err != nil || maxDepth < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "max_depth must be a non-negative integer", nil, err)
	}
	path, err := h.uc.GetSkillPath(c.Context(), c.Params("source_id"), c.Params("target_id"), maxDepth)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillPathResponse(path))
}

func parseMatchParams(c fiber.Ctx) (usecase.MatchParams, error) {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil || limit < 0 {
		return usecase.MatchParams{}, middleware.NewAppError(fiber.StatusBadRequest, "limit must be a non-negative integer", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil || offset < 0 {
		return usecase.MatchParams{}, middleware.NewAppError(fiber.StatusBadRequest, "offset must be a non-negative integer", nil, err)
	}

	var w matching.Weights
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"w_skills", &w.Skills},
		{"w_location", &w.Location},
		{"w_semantic", &w.Semantic},
	} {
		raw := strings.TrimSpace(c.Query(f.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return usecase.MatchParams{}, middleware.NewAppError(fiber.StatusBadRequest, f.key+" must be a number", nil, err)
		}
		*f.dst = v
	}

	return usecase.MatchParams{
		Limit:   limit,
		Offset:  offset,
		Weights: w,
		Filter: repository.EntityFilter{
			Location: c.Query("location"),
			SkillIDs: parseSkillsQuery(c.Query("skills")),
		},
	}, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func parseSkillsQuery(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func mapMatchingError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, matching.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, matching.ErrInvalidWeights):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, matching.ErrGraphUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
