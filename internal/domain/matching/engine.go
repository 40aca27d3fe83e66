package matching

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"signal-radar/internal/domain/signal"
	"signal-radar/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// complementary lists, per category, the categories a signal is matched against.
var complementary = map[int][]int{
	signal.CategoryFreelancer:  {signal.CategoryStartupIdea},
	signal.CategoryStartupIdea: {signal.CategoryFreelancer, signal.CategoryInvestor},
	signal.CategoryInvestor:    {signal.CategoryStartupIdea},
}

func ComplementaryCategories(categoryID int) []int {
	ids := complementary[categoryID]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

type Score struct {
	SignalID uuid.UUID
	Accurate float64
}

type Result struct {
	SignalID uuid.UUID       `json:"signal_id"`
	Accurate float64         `json:"accurate"`
	Details  json.RawMessage `json:"details"`
}

// Scorer rates the source signal against every target in a single call.
// Targets it leaves out are treated as a zero score.
type Scorer interface {
	Score(ctx context.Context, source signal.Signal, targets []signal.Signal) ([]Score, error)
}

type CandidateSource interface {
	ListActiveCandidates(ctx context.Context, categoryIDs []int, excludeUserID uuid.UUID) ([]signal.Signal, error)
}

type Engine struct {
	candidates CandidateSource
	scorer     Scorer
	logger     *zap.Logger
}

func NewEngine(candidates CandidateSource, scorer Scorer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{candidates: candidates, scorer: scorer, logger: logger}
}

// MatchOne scores source against every active signal in its complementary
// categories owned by other users. Only candidate lookup failures are
// returned as errors.
func (e *Engine) MatchOne(ctx context.Context, source signal.Signal, minAccurate float64) ([]Result, error) {
	cats := ComplementaryCategories(source.CategoryID)
	if len(cats) == 0 {
		return []Result{}, nil
	}

	cands, err := e.candidates.ListActiveCandidates(ctx, cats, source.UserID)
	if err != nil {
		return nil, err
	}

	return e.MatchBulk(ctx, source, cands, minAccurate), nil
}

// MatchBulk issues one scorer call for all candidates. A failing scorer
// degrades every candidate to 0 instead of failing the request.
func (e *Engine) MatchBulk(ctx context.Context, source signal.Signal, candidates []signal.Signal, minAccurate float64) []Result {
	candidates = eligible(source, candidates)
	if len(candidates) == 0 {
		return []Result{}
	}

	scores := map[uuid.UUID]float64{}

	start := time.Now()
	out, err := e.scorer.Score(ctx, source, candidates)
	observability.ScorerLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ScorerCallsTotal.WithLabelValues("error").Inc()
		e.logger.Warn("scorer failed, falling back to zero scores",
			zap.String("source_signal_id", source.ID.String()),
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
	} else {
		observability.ScorerCallsTotal.WithLabelValues("ok").Inc()
		for _, s := range out {
			if _, seen := scores[s.SignalID]; seen {
				continue
			}
			scores[s.SignalID] = clamp(s.Accurate)
		}
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		acc := scores[c.ID]
		if acc < minAccurate {
			continue
		}
		results = append(results, Result{SignalID: c.ID, Accurate: acc, Details: c.Details})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Accurate > results[j].Accurate })
	return results
}

// eligible drops candidates the complementary table or ownership rules
// exclude, so callers passing their own candidate list get the same
// guarantees as MatchOne.
func eligible(source signal.Signal, candidates []signal.Signal) []signal.Signal {
	allowed := map[int]bool{}
	for _, id := range complementary[source.CategoryID] {
		allowed[id] = true
	}

	out := make([]signal.Signal, 0, len(candidates))
	seen := map[uuid.UUID]bool{}
	for _, c := range candidates {
		if !c.IsActive || c.UserID == source.UserID || !allowed[c.CategoryID] || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
