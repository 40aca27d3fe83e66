package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        *string
	PasswordHash string
	IsActive     bool
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Profile struct {
	FirstName       *string
	LastName        *string
	Bio             *string
	AvatarURL       *string
	Location        *string
	LinkedInURL     *string
	GitHubURL       *string
	Website         *string
	Skills          []string
	ExperienceYears *int
}
