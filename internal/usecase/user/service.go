package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"signal-radar/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternal      = errors.New("internal error")
)

const (
	maxBioLen          = 500
	maxExperienceYears = 50
	maxListLimit       = 100
	defaultListLimit   = 20
)

// UpdateInput is a partial profile update; nil fields are left unchanged.
// An empty Email clears the address.
type UpdateInput struct {
	Username        *string
	Email           *string
	FirstName       *string
	LastName        *string
	Bio             *string
	AvatarURL       *string
	Location        *string
	LinkedInURL     *string
	GitHubURL       *string
	Website         *string
	Skills          *[]string
	ExperienceYears *int
}

type ListInput struct {
	Query string
	Skip  int
	Limit int
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	usr, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (user.User, error) {
	usr, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
			return user.User{}, ErrInvalidInput
		}
		if name != usr.Username {
			exists, err := s.users.ExistsByUsername(ctx, name, id)
			if err != nil {
				return user.User{}, ErrInternal
			}
			if exists {
				return user.User{}, ErrUsernameTaken
			}
		}
		usr.Username = name
	}

	if in.Email != nil {
		raw := strings.TrimSpace(*in.Email)
		if raw == "" {
			usr.Email = nil
		} else {
			email, ok := normalizeEmail(raw)
			if !ok {
				return user.User{}, ErrInvalidInput
			}
			exists, err := s.users.ExistsByEmail(ctx, email, id)
			if err != nil {
				return user.User{}, ErrInternal
			}
			if exists {
				return user.User{}, ErrEmailTaken
			}
			usr.Email = &email
		}
	}

	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > maxBioLen {
		return user.User{}, ErrInvalidInput
	}
	if in.ExperienceYears != nil && (*in.ExperienceYears < 0 || *in.ExperienceYears > maxExperienceYears) {
		return user.User{}, ErrInvalidInput
	}

	p := &usr.Profile
	applyText(&p.FirstName, in.FirstName)
	applyText(&p.LastName, in.LastName)
	applyText(&p.Bio, in.Bio)
	applyText(&p.AvatarURL, in.AvatarURL)
	applyText(&p.Location, in.Location)
	applyText(&p.LinkedInURL, in.LinkedInURL)
	applyText(&p.GitHubURL, in.GitHubURL)
	applyText(&p.Website, in.Website)
	if in.Skills != nil {
		p.Skills = cleanSkills(*in.Skills)
	}
	if in.ExperienceYears != nil {
		v := *in.ExperienceYears
		p.ExperienceYears = &v
	}

	if err := s.users.Update(ctx, usr); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateUsername):
			return user.User{}, ErrUsernameTaken
		case errors.Is(err, user.ErrDuplicateEmail):
			return user.User{}, ErrEmailTaken
		case errors.Is(err, user.ErrNotFound):
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	updated, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (s *Service) List(ctx context.Context, in ListInput) ([]user.User, int, error) {
	if in.Skip < 0 || in.Limit < 0 || in.Limit > maxListLimit {
		return nil, 0, ErrInvalidInput
	}
	limit := in.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	items, total, err := s.users.List(ctx, user.ListFilter{Query: strings.TrimSpace(in.Query), Skip: in.Skip, Limit: limit})
	if err != nil {
		return nil, 0, ErrInternal
	}
	for i := range items {
		items[i] = sanitizeUser(items[i])
	}
	return items, total, nil
}

// applyText sets *dst from src when src is non-nil; blank text clears it.
func applyText(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
