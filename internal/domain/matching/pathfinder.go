package matching

import (
	"container/heap"
	"context"

	"skill-graph/internal/domain/skill"
)

const DefaultMaxPathDepth = 4

// EdgeFunc returns the outgoing relationships of a skill.
type EdgeFunc func(ctx context.Context, skillID string) ([]skill.Relationship, error)

type PathStep struct {
	FromID string
	ToID   string
	Type   skill.RelationType
	Weight float64
}

// PathResult is the outcome of a path search. Found is false when no path of at most
// MaxDepth hops exists; that is a normal result, not an error.
type PathResult struct {
	SourceID string
	TargetID string
	MaxDepth int
	Found    bool
	SkillIDs []string
	Steps    []PathStep
	// Cost is the sum of (1 - weight) over the traversed edges.
	Cost float64
}

func (r PathResult) Hops() int {
	return len(r.Steps)
}

type PathFinder struct {
	maxDepth int
}

func NewPathFinder(maxDepth int) *PathFinder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxPathDepth
	}
	return &PathFinder{maxDepth: maxDepth}
}

func (f *PathFinder) MaxDepth() int {
	return f.maxDepth
}

type pathState struct {
	skillID string
	hops    int
	cost    float64
	prev    *pathState
	via     skill.Relationship
	index   int
}

type pathQueue []*pathState

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if q[i].hops != q[j].hops {
		return q[i].hops < q[j].hops
	}
	return q[i].skillID < q[j].skillID
}

func (q pathQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *pathQueue) Push(x any) {
	s := x.(*pathState)
	s.index = len(*q)
	*q = append(*q, s)
}

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return s
}

// FindPath runs a hop-bounded Dijkstra from source to target following stored edge
// direction, with edge cost 1 - weight. maxDepth <= 0 uses the finder's default and
// larger values are capped at it.
func (f *PathFinder) FindPath(ctx context.Context, edges EdgeFunc, sourceID, targetID string, maxDepth int) (PathResult, error) {
	if maxDepth <= 0 || maxDepth > f.maxDepth {
		maxDepth = f.maxDepth
	}
	res := PathResult{SourceID: sourceID, TargetID: targetID, MaxDepth: maxDepth}

	if sourceID == targetID {
		res.Found = true
		res.SkillIDs = []string{sourceID}
		return res, nil
	}

	// A skill settled at h hops with cost c dominates any later state at >= h hops,
	// since states leave the queue in cost order.
	settledHops := make(map[string]int)
	outgoing := make(map[string][]skill.Relationship)

	q := &pathQueue{}
	heap.Push(q, &pathState{skillID: sourceID})

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cur := heap.Pop(q).(*pathState)
		if h, ok := settledHops[cur.skillID]; ok && h <= cur.hops {
			continue
		}
		settledHops[cur.skillID] = cur.hops

		if cur.skillID == targetID {
			res.Found = true
			res.Cost = cur.cost
			res.SkillIDs, res.Steps = unwindPath(cur)
			return res, nil
		}
		if cur.hops >= maxDepth {
			continue
		}

		rels, ok := outgoing[cur.skillID]
		if !ok {
			var err error
			rels, err = edges(ctx, cur.skillID)
			if err != nil {
				return res, err
			}
			outgoing[cur.skillID] = rels
		}

		for _, r := range rels {
			if r.TargetID == "" || r.SourceID != cur.skillID || !r.Type.Valid() {
				continue
			}
			r = r.Normalized()
			next := &pathState{
				skillID: r.TargetID,
				hops:    cur.hops + 1,
				cost:    cur.cost + (1 - r.Weight),
				prev:    cur,
				via:     r,
			}
			if h, ok := settledHops[next.skillID]; ok && h <= next.hops {
				continue
			}
			heap.Push(q, next)
		}
	}

	return res, nil
}

func unwindPath(end *pathState) ([]string, []PathStep) {
	ids := make([]string, end.hops+1)
	steps := make([]PathStep, end.hops)
	for s := end; s != nil; s = s.prev {
		ids[s.hops] = s.skillID
		if s.prev != nil {
			steps[s.hops-1] = PathStep{
				FromID: s.via.SourceID,
				ToID:   s.via.TargetID,
				Type:   s.via.Type,
				Weight: s.via.Weight,
			}
		}
	}
	return ids, steps
}
