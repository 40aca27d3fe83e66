package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"signal-radar/internal/delivery/http/dto"
	"signal-radar/internal/domain/matching"
	"signal-radar/internal/domain/signal"
	"signal-radar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSignalUC struct {
	items     map[uuid.UUID]signal.Signal
	gotCreate usecase.CreateSignalInput
	gotUpdate usecase.UpdateSignalInput
}

func (f *fakeSignalUC) Create(_ context.Context, userID uuid.UUID, in usecase.CreateSignalInput) (signal.Signal, error) {
	f.gotCreate = in
	if !signal.ValidCategory(in.CategoryID) {
		return signal.Signal{}, usecase.ErrInvalidCategory
	}
	s := signal.Signal{ID: uuid.New(), UserID: userID, CategoryID: in.CategoryID, Details: in.Details, IsActive: true}
	f.items[s.ID] = s
	return s, nil
}

func (f *fakeSignalUC) ListMine(ctx context.Context, userID uuid.UUID) ([]signal.Signal, error) {
	return f.ListByUser(ctx, userID)
}

func (f *fakeSignalUC) ListByUser(_ context.Context, userID uuid.UUID) ([]signal.Signal, error) {
	var out []signal.Signal
	for _, s := range f.items {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSignalUC) Get(_ context.Context, id uuid.UUID) (signal.Signal, error) {
	s, ok := f.items[id]
	if !ok {
		return signal.Signal{}, usecase.ErrSignalNotFound
	}
	return s, nil
}

func (f *fakeSignalUC) Update(ctx context.Context, userID, id uuid.UUID, in usecase.UpdateSignalInput) (signal.Signal, error) {
	f.gotUpdate = in
	s, err := f.owned(ctx, userID, id)
	if err != nil {
		return signal.Signal{}, err
	}
	if in.SetDetails {
		s.Details = in.Details
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	f.items[id] = s
	return s, nil
}

func (f *fakeSignalUC) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s, err := f.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	s.IsActive = false
	f.items[id] = s
	return nil
}

func (f *fakeSignalUC) owned(ctx context.Context, userID, id uuid.UUID) (signal.Signal, error) {
	s, err := f.Get(ctx, id)
	if err != nil {
		return signal.Signal{}, err
	}
	if s.UserID != userID {
		return signal.Signal{}, usecase.ErrNotSignalOwner
	}
	return s, nil
}

type fakeMatchingUC struct {
	gotMin float64
	err    error
	result []matching.Result
}

func (f *fakeMatchingUC) MatchSignal(_ context.Context, _, _ uuid.UUID, minAccurate float64) ([]matching.Result, error) {
	f.gotMin = minAccurate
	return f.result, f.err
}

func (f *fakeMatchingUC) MatchAll(_ context.Context, userID uuid.UUID, minAccurate float64) (usecase.MatchAllResult, error) {
	f.gotMin = minAccurate
	if f.err != nil {
		return usecase.MatchAllResult{}, f.err
	}
	return usecase.MatchAllResult{UserID: userID, Results: []usecase.SignalMatches{}}, nil
}

func newSignalEnv(t *testing.T) (*testEnv, *fakeSignalUC, *fakeMatchingUC) {
	t.Helper()
	env := newTestEnv()
	signals := &fakeSignalUC{items: map[uuid.UUID]signal.Signal{}}
	match := &fakeMatchingUC{}
	NewSignalHandler(signals, match).RegisterRoutes(env.app.Group("/signals", env.protect))
	return env, signals, match
}

func TestSignalHandler_CreateAndRead(t *testing.T) {
	env, signals, _ := newSignalEnv(t)
	uid, token := env.login(t, "alice")

	resp, body := env.do(t, http.MethodPost, "/signals/", token, `{"signal_category_id":1,"details":{"role":"Backend"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"role":"Backend"}`, string(signals.gotCreate.Details))

	var created dto.SignalResponse
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, uid, created.UserID)
	assert.Equal(t, 1, created.SignalCategoryID)

	resp, _ = env.do(t, http.MethodPost, "/signals/", token, `{"signal_category_id":7}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/signals/me", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []dto.SignalResponse
	require.NoError(t, json.Unmarshal(body.Data, &mine))
	assert.Len(t, mine, 1)

	resp, _ = env.do(t, http.MethodGet, "/signals/user/"+uid.String(), token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/signals/"+created.ID.String(), token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/signals/"+uuid.NewString(), token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/signals/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignalHandler_UpdateDistinguishesNullFromAbsent(t *testing.T) {
	env, signals, _ := newSignalEnv(t)
	uid, token := env.login(t, "alice")
	s := signal.Signal{ID: uuid.New(), UserID: uid, CategoryID: 2, Details: json.RawMessage(`{"a":1}`), IsActive: true}
	signals.items[s.ID] = s

	resp, _ := env.do(t, http.MethodPatch, "/signals/"+s.ID.String(), token, `{"is_active":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, signals.gotUpdate.SetDetails)
	require.NotNil(t, signals.gotUpdate.IsActive)
	assert.False(t, *signals.gotUpdate.IsActive)

	resp, _ = env.do(t, http.MethodPatch, "/signals/"+s.ID.String(), token, `{"details":null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, signals.gotUpdate.SetDetails)
	assert.Nil(t, signals.gotUpdate.Details)

	resp, _ = env.do(t, http.MethodPatch, "/signals/"+s.ID.String(), token, `{"is_active":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignalHandler_OwnershipAndDelete(t *testing.T) {
	env, signals, _ := newSignalEnv(t)
	owner, ownerToken := env.login(t, "alice")
	_, otherToken := env.login(t, "mallory")
	s := signal.Signal{ID: uuid.New(), UserID: owner, CategoryID: 3, IsActive: true}
	signals.items[s.ID] = s

	resp, body := env.do(t, http.MethodDelete, "/signals/"+s.ID.String(), otherToken, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized to access this signal", body.Message)

	resp, _ = env.do(t, http.MethodDelete, "/signals/"+s.ID.String(), ownerToken, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, signals.items[s.ID].IsActive)

	// soft-deleted signals remain publicly readable
	resp, _ = env.do(t, http.MethodGet, "/signals/"+s.ID.String(), otherToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignalHandler_Match(t *testing.T) {
	env, _, match := newSignalEnv(t)
	_, token := env.login(t, "alice")
	target := uuid.New()
	match.result = []matching.Result{{SignalID: target, Accurate: 87, Details: json.RawMessage(`{"x":1}`)}}

	resp, body := env.do(t, http.MethodGet, "/signals/match/"+uuid.NewString()+"?min_accurate=42.5", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 42.5, match.gotMin)

	var got []dto.MatchResultResponse
	require.NoError(t, json.Unmarshal(body.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, target, got[0].SignalID)
	assert.Equal(t, 87.0, got[0].Accurate)

	resp, _ = env.do(t, http.MethodGet, "/signals/match/"+uuid.NewString(), token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, match.gotMin)

	resp, _ = env.do(t, http.MethodGet, "/signals/match-all?min_accurate=high", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	match.err = usecase.ErrInvalidThreshold
	resp, _ = env.do(t, http.MethodGet, "/signals/match-all?min_accurate=150", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	match.err = usecase.ErrNotSignalOwner
	resp, _ = env.do(t, http.MethodGet, "/signals/match/"+uuid.NewString(), token, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	match.err = nil
	resp, body = env.do(t, http.MethodGet, "/signals/match-all", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &all))
	assert.Contains(t, all, "total_matches")
	assert.Contains(t, all, "results")
}
