package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"signal-radar/internal/domain/user"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	maxPasswordLen = 72
)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput identifies the account by email when Login contains "@",
// by username otherwise.
type LoginInput struct {
	Login    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (user.User, error)
	Login(ctx context.Context, in LoginInput) (user.User, error)
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	username := strings.TrimSpace(in.Username)
	if !isValidUsername(username) {
		return user.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}

	var email *string
	if raw := strings.TrimSpace(in.Email); raw != "" {
		e, ok := normalizeEmail(raw)
		if !ok {
			return user.User{}, ErrInvalidInput
		}
		email = &e
	}

	exists, err := s.users.ExistsByUsername(ctx, username, uuid.Nil)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrUsernameTaken
	}
	if email != nil {
		exists, err := s.users.ExistsByEmail(ctx, *email, uuid.Nil)
		if err != nil {
			return user.User{}, ErrInternal
		}
		if exists {
			return user.User{}, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		Profile: user.Profile{
			FirstName: optional(in.FirstName),
			LastName:  optional(in.LastName),
			Skills:    []string{},
		},
	}

	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateUsername):
			return user.User{}, ErrUsernameTaken
		case errors.Is(err, user.ErrDuplicateEmail):
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, ErrInternal
	}

	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	var (
		u   user.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.users.GetByEmail(ctx, strings.ToLower(login))
	} else {
		u, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return user.User{}, ErrInactiveUser
	}

	return sanitizeUser(u), nil
}

func isValidUsername(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= minUsernameLen && n <= maxUsernameLen
}

func isValidPassword(pw string) bool {
	return len(pw) >= minPasswordLen && len(pw) <= maxPasswordLen
}

func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
