package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"signal-radar/internal/domain/matching"

	"github.com/google/uuid"
)

type rawScore struct {
	SignalID flexString `json:"signal_id"`
	Accurate *flexFloat `json:"accurate"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// ParseScores decodes the model output, tolerating a fenced code block and a
// single object in place of an array. Entries whose id is not a valid signal
// id are skipped; a missing score reads as 0.
func ParseScores(text string) ([]matching.Score, error) {
	body := stripFence(strings.TrimSpace(text))
	if body == "" {
		return nil, ErrEmptyCompletion
	}

	var items []rawScore
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		var one rawScore
		if err2 := json.Unmarshal([]byte(body), &one); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedScores, err)
		}
		items = []rawScore{one}
	}

	out := make([]matching.Score, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(strings.TrimSpace(string(it.SignalID)))
		if err != nil {
			continue
		}
		var acc float64
		if it.Accurate != nil {
			acc = float64(*it.Accurate)
		}
		out = append(out, matching.Score{SignalID: id, Accurate: acc})
	}
	return out, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return ""
	}
	body := strings.TrimSpace(parts[1])
	body = strings.TrimPrefix(body, "json")
	body = strings.TrimPrefix(body, "JSON")
	return strings.TrimSpace(body)
}
