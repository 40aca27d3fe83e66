package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"signal-radar/internal/domain/signal"
	"signal-radar/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrSignalNotFound  = errors.New("signal not found")
	ErrNotSignalOwner  = errors.New("signal belongs to another user")
	ErrInvalidCategory = errors.New("invalid signal category")
	ErrInvalidDetails  = errors.New("details must be valid JSON of at most 16 KiB")
	ErrUserNotFound    = errors.New("user not found")
)

type CreateSignalInput struct {
	CategoryID int
	Details    json.RawMessage
}

// UpdateSignalInput changes only the fields that are set. SetDetails
// distinguishes "clear details" from "leave details alone".
type UpdateSignalInput struct {
	SetDetails bool
	Details    json.RawMessage
	IsActive   *bool
}

type SignalUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateSignalInput) (signal.Signal, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]signal.Signal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]signal.Signal, error)
	Get(ctx context.Context, id uuid.UUID) (signal.Signal, error)
	Update(ctx context.Context, userID, id uuid.UUID, in UpdateSignalInput) (signal.Signal, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Signal struct {
	signals signal.Repository
	users   user.Repository
}

func NewSignalUsecase(signals signal.Repository, users user.Repository) *Signal {
	return &Signal{signals: signals, users: users}
}

func (u *Signal) Create(ctx context.Context, userID uuid.UUID, in CreateSignalInput) (signal.Signal, error) {
	if userID == uuid.Nil {
		return signal.Signal{}, ErrUnauthorized
	}
	if !signal.ValidCategory(in.CategoryID) {
		return signal.Signal{}, ErrInvalidCategory
	}
	details, err := normalizeDetails(in.Details)
	if err != nil {
		return signal.Signal{}, err
	}

	created, err := u.signals.Create(ctx, signal.Signal{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: in.CategoryID,
		Details:    details,
		IsActive:   true,
	})
	if err != nil {
		return signal.Signal{}, ErrInternal
	}
	return created, nil
}

func (u *Signal) ListMine(ctx context.Context, userID uuid.UUID) ([]signal.Signal, error) {
	items, err := u.signals.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Signal) ListByUser(ctx context.Context, userID uuid.UUID) ([]signal.Signal, error) {
	if u.users != nil {
		if _, err := u.users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, ErrInternal
		}
	}
	return u.ListMine(ctx, userID)
}

func (u *Signal) Get(ctx context.Context, id uuid.UUID) (signal.Signal, error) {
	s, err := u.signals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, signal.ErrNotFound) {
			return signal.Signal{}, ErrSignalNotFound
		}
		return signal.Signal{}, ErrInternal
	}
	return s, nil
}

func (u *Signal) Update(ctx context.Context, userID, id uuid.UUID, in UpdateSignalInput) (signal.Signal, error) {
	s, err := u.owned(ctx, userID, id)
	if err != nil {
		return signal.Signal{}, err
	}

	if in.SetDetails {
		details, err := normalizeDetails(in.Details)
		if err != nil {
			return signal.Signal{}, err
		}
		s.Details = details
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}

	updated, err := u.signals.Update(ctx, s)
	if err != nil {
		if errors.Is(err, signal.ErrNotFound) {
			return signal.Signal{}, ErrSignalNotFound
		}
		return signal.Signal{}, ErrInternal
	}
	return updated, nil
}

// Delete deactivates the signal; rows are never removed.
func (u *Signal) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s, err := u.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if !s.IsActive {
		return nil
	}
	s.IsActive = false
	if _, err := u.signals.Update(ctx, s); err != nil {
		return ErrInternal
	}
	return nil
}

func (u *Signal) owned(ctx context.Context, userID, id uuid.UUID) (signal.Signal, error) {
	s, err := u.Get(ctx, id)
	if err != nil {
		return signal.Signal{}, err
	}
	if s.UserID != userID {
		return signal.Signal{}, ErrNotSignalOwner
	}
	return s, nil
}

// normalizeDetails validates a details payload. Absent and JSON null both
// mean "no details".
func normalizeDetails(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	if len(trimmed) > signal.MaxDetailsBytes || !json.Valid(trimmed) {
		return nil, ErrInvalidDetails
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, ErrInvalidDetails
	}
	return json.RawMessage(buf.Bytes()), nil
}
