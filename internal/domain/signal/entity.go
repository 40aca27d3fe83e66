package signal

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	CategoryFreelancer  = 1
	CategoryStartupIdea = 2
	CategoryInvestor    = 3
)

// MaxDetailsBytes bounds the encoded size of a signal payload.
const MaxDetailsBytes = 16 << 10

type Category struct {
	ID    int
	Name  string
	Label string
}

// Categories is the fixed category set, seeded once and never mutated.
var Categories = []Category{
	{ID: CategoryFreelancer, Name: "FREELANCER", Label: "Freelancer"},
	{ID: CategoryStartupIdea, Name: "STARTUP_IDEA", Label: "Startup Idea"},
	{ID: CategoryInvestor, Name: "INVESTOR", Label: "Investor"},
}

func ValidCategory(id int) bool {
	return id == CategoryFreelancer || id == CategoryStartupIdea || id == CategoryInvestor
}

// Signal carries an opaque JSON payload. The server never interprets
// Details beyond validity and size.
type Signal struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID int
	Details    json.RawMessage
	IsActive   bool
	CreatedAt  time.Time
}
