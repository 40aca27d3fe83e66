package dto

import (
	"encoding/json"
	"time"

	"signal-radar/internal/domain/signal"

	"github.com/google/uuid"
)

type SignalResponse struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	SignalCategoryID int             `json:"signal_category_id"`
	Details          json.RawMessage `json:"details"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

type CategoryResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

func NewSignalResponse(s signal.Signal) SignalResponse {
	details := s.Details
	if len(details) == 0 {
		details = json.RawMessage("null")
	}
	return SignalResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		SignalCategoryID: s.CategoryID,
		Details:          details,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
	}
}

func NewSignalListResponse(items []signal.Signal) []SignalResponse {
	out := make([]SignalResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewSignalResponse(s))
	}
	return out
}

func NewCategoryResponse(c signal.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Label: c.Label}
}
