package dto

import (
	"encoding/json"

	"signal-radar/internal/domain/matching"

	"github.com/google/uuid"
)

type MatchResultResponse struct {
	SignalID uuid.UUID       `json:"signal_id"`
	Accurate float64         `json:"accurate"`
	Details  json.RawMessage `json:"details"`
}

func NewMatchResultsResponse(items []matching.Result) []MatchResultResponse {
	out := make([]MatchResultResponse, 0, len(items))
	for _, r := range items {
		details := r.Details
		if len(details) == 0 {
			details = json.RawMessage("null")
		}
		out = append(out, MatchResultResponse{SignalID: r.SignalID, Accurate: r.Accurate, Details: details})
	}
	return out
}
