package matching

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"signal-radar/internal/domain/signal"
	"signal-radar/internal/search"
)

// OverlapScorer is a deterministic offline Scorer: the score is the Jaccard
// overlap of the words found in both payloads, scaled to 0-100. It is used
// when no completion API is configured.
type OverlapScorer struct{}

func (OverlapScorer) Score(_ context.Context, source signal.Signal, targets []signal.Signal) ([]Score, error) {
	src := tokens(source.Details)
	out := make([]Score, 0, len(targets))
	for _, t := range targets {
		out = append(out, Score{SignalID: t.ID, Accurate: jaccard(src, tokens(t.Details))})
	}
	return out, nil
}

func tokens(raw json.RawMessage) map[string]struct{} {
	set := map[string]struct{}{}
	if len(raw) == 0 {
		return set
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return set
	}
	collect(v, set)
	return set
}

func collect(v any, set map[string]struct{}) {
	switch t := v.(type) {
	case string:
		for _, w := range search.Words(t) {
			set[w] = struct{}{}
		}
	case float64:
		set[strconv.FormatFloat(t, 'f', -1, 64)] = struct{}{}
	case bool:
		set[strconv.FormatBool(t)] = struct{}{}
	case []any:
		for _, it := range t {
			collect(it, set)
		}
	case map[string]any:
		for k, it := range t {
			collect(k, set)
			collect(it, set)
		}
	}
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return math.Round(float64(inter)/float64(union)*1000) / 10
}
