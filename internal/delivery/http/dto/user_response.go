package dto

import (
	"time"

	"signal-radar/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           *string   `json:"email"`
	IsActive        bool      `json:"is_active"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	Bio             *string   `json:"bio"`
	AvatarURL       *string   `json:"avatar_url"`
	Location        *string   `json:"location"`
	LinkedInURL     *string   `json:"linkedin_url"`
	GitHubURL       *string   `json:"github_url"`
	Website         *string   `json:"website"`
	Skills          []string  `json:"skills"`
	ExperienceYears *int      `json:"experience_years"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PublicUserResponse is what other users see; it omits contact and
// account-state fields.
type PublicUserResponse struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	Bio             *string   `json:"bio"`
	AvatarURL       *string   `json:"avatar_url"`
	Location        *string   `json:"location"`
	LinkedInURL     *string   `json:"linkedin_url"`
	GitHubURL       *string   `json:"github_url"`
	Website         *string   `json:"website"`
	Skills          []string  `json:"skills"`
	ExperienceYears *int      `json:"experience_years"`
	CreatedAt       time.Time `json:"created_at"`
}

type UserListResponse struct {
	Items []PublicUserResponse `json:"items"`
	Total int                  `json:"total"`
	Skip  int                  `json:"skip"`
	Limit int                  `json:"limit"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func NewUserResponse(u user.User) UserResponse {
	p := u.Profile
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		IsActive:        u.IsActive,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Bio:             p.Bio,
		AvatarURL:       p.AvatarURL,
		Location:        p.Location,
		LinkedInURL:     p.LinkedInURL,
		GitHubURL:       p.GitHubURL,
		Website:         p.Website,
		Skills:          skillsOrEmpty(p.Skills),
		ExperienceYears: p.ExperienceYears,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func NewPublicUserResponse(u user.User) PublicUserResponse {
	p := u.Profile
	return PublicUserResponse{
		ID:              u.ID,
		Username:        u.Username,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Bio:             p.Bio,
		AvatarURL:       p.AvatarURL,
		Location:        p.Location,
		LinkedInURL:     p.LinkedInURL,
		GitHubURL:       p.GitHubURL,
		Website:         p.Website,
		Skills:          skillsOrEmpty(p.Skills),
		ExperienceYears: p.ExperienceYears,
		CreatedAt:       u.CreatedAt,
	}
}

func skillsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
