package usecase

import (
	"context"
	"errors"
	"testing"

	"signal-radar/internal/domain/matching"
	"signal-radar/internal/domain/signal"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScorer struct {
	calls int
	fixed float64
	err   error
}

func (s *countingScorer) Score(_ context.Context, _ signal.Signal, targets []signal.Signal) ([]matching.Score, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]matching.Score, 0, len(targets))
	for _, t := range targets {
		out = append(out, matching.Score{SignalID: t.ID, Accurate: s.fixed})
	}
	return out, nil
}

func TestMatchingUsecase_MatchSignal(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	repo := &memSignals{}
	src := repo.add(me, signal.CategoryFreelancer, `{"role":"dev"}`)
	idea := repo.add(other, signal.CategoryStartupIdea, `{"idea":"x"}`)
	repo.add(other, signal.CategoryInvestor, `{}`)
	repo.add(me, signal.CategoryStartupIdea, `{}`)

	scorer := &countingScorer{fixed: 80}
	uc := NewMatchingUsecase(repo, matching.NewEngine(repo, scorer, nil))
	ctx := context.Background()

	res, err := uc.MatchSignal(ctx, me, src.ID, 50)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, idea.ID, res[0].SignalID)
	assert.Equal(t, 1, scorer.calls)

	res, err = uc.MatchSignal(ctx, me, src.ID, 90)
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = uc.MatchSignal(ctx, other, src.ID, 0)
	assert.ErrorIs(t, err, ErrNotSignalOwner)

	_, err = uc.MatchSignal(ctx, me, uuid.New(), 0)
	assert.ErrorIs(t, err, ErrSignalNotFound)

	_, err = uc.MatchSignal(ctx, me, src.ID, 101)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = uc.MatchSignal(ctx, me, src.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestMatchingUsecase_ScorerOutageYieldsZeros(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	repo := &memSignals{}
	src := repo.add(me, signal.CategoryInvestor, `{}`)
	repo.add(other, signal.CategoryStartupIdea, `{}`)

	uc := NewMatchingUsecase(repo, matching.NewEngine(repo, &countingScorer{err: errors.New("timeout")}, nil))
	res, err := uc.MatchSignal(context.Background(), me, src.ID, 0)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 0.0, res[0].Accurate)
}

func TestMatchingUsecase_MatchAll(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	repo := &memSignals{}
	repo.add(me, signal.CategoryFreelancer, `{}`)
	repo.add(me, signal.CategoryInvestor, `{}`)
	repo.add(other, signal.CategoryStartupIdea, `{}`)
	repo.add(other, signal.CategoryStartupIdea, `{}`)

	scorer := &countingScorer{fixed: 60}
	uc := NewMatchingUsecase(repo, matching.NewEngine(repo, scorer, nil))

	out, err := uc.MatchAll(context.Background(), me, 0)
	require.NoError(t, err)
	assert.Equal(t, me, out.UserID)
	assert.Equal(t, 2, out.TotalSignals)
	assert.Equal(t, 4, out.TotalMatches)
	require.Len(t, out.Results, 2)
	assert.Equal(t, 2, scorer.calls, "one scorer call per source signal")

	repo.err = errors.New("db down")
	_, err = uc.MatchAll(context.Background(), me, 0)
	assert.ErrorIs(t, err, ErrInternal)
}
