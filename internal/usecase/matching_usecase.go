package usecase

import (
	"context"
	"errors"
	"math"

	"signal-radar/internal/domain/matching"
	"signal-radar/internal/domain/signal"

	"github.com/google/uuid"
)

var ErrInvalidThreshold = errors.New("min_accurate must be between 0 and 100")

type SignalMatches struct {
	SourceSignalID uuid.UUID         `json:"source_signal_id"`
	Matches        []matching.Result `json:"matches"`
}

type MatchAllResult struct {
	UserID       uuid.UUID       `json:"user_id"`
	TotalSignals int             `json:"total_signals"`
	TotalMatches int             `json:"total_matches"`
	Results      []SignalMatches `json:"results"`
}

type MatchingUsecase interface {
	MatchSignal(ctx context.Context, userID, signalID uuid.UUID, minAccurate float64) ([]matching.Result, error)
	MatchAll(ctx context.Context, userID uuid.UUID, minAccurate float64) (MatchAllResult, error)
}

type Matching struct {
	signals signal.Repository
	engine  *matching.Engine
}

func NewMatchingUsecase(signals signal.Repository, engine *matching.Engine) *Matching {
	return &Matching{signals: signals, engine: engine}
}

// MatchSignal scores one of the caller's active signals against its
// complementary categories.
func (u *Matching) MatchSignal(ctx context.Context, userID, signalID uuid.UUID, minAccurate float64) ([]matching.Result, error) {
	if err := checkThreshold(minAccurate); err != nil {
		return nil, err
	}

	src, err := u.signals.GetByID(ctx, signalID)
	if err != nil {
		if errors.Is(err, signal.ErrNotFound) {
			return nil, ErrSignalNotFound
		}
		return nil, ErrInternal
	}
	if src.UserID != userID {
		return nil, ErrNotSignalOwner
	}
	if !src.IsActive {
		return nil, ErrSignalNotFound
	}

	res, err := u.engine.MatchOne(ctx, src, minAccurate)
	if err != nil {
		return nil, ErrInternal
	}
	return res, nil
}

// MatchAll runs MatchSignal for every active signal the caller owns, one
// scorer call per source signal.
func (u *Matching) MatchAll(ctx context.Context, userID uuid.UUID, minAccurate float64) (MatchAllResult, error) {
	if err := checkThreshold(minAccurate); err != nil {
		return MatchAllResult{}, err
	}

	mine, err := u.signals.ListActiveByUser(ctx, userID)
	if err != nil {
		return MatchAllResult{}, ErrInternal
	}

	out := MatchAllResult{
		UserID:       userID,
		TotalSignals: len(mine),
		Results:      make([]SignalMatches, 0, len(mine)),
	}
	for _, src := range mine {
		res, err := u.engine.MatchOne(ctx, src, minAccurate)
		if err != nil {
			return MatchAllResult{}, ErrInternal
		}
		out.TotalMatches += len(res)
		out.Results = append(out.Results, SignalMatches{SourceSignalID: src.ID, Matches: res})
	}
	return out, nil
}

func checkThreshold(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return ErrInvalidThreshold
	}
	return nil
}
