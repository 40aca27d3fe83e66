package handler

import (
	"errors"
	"strconv"

	"signal-radar/internal/delivery/http/dto"
	"signal-radar/internal/delivery/http/middleware"
	"signal-radar/internal/pkg/response"
	"signal-radar/internal/usecase"
	useruc "signal-radar/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateProfileRequest struct {
	Username        *string   `json:"username"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	Bio             *string   `json:"bio"`
	AvatarURL       *string   `json:"avatar_url"`
	Location        *string   `json:"location"`
	LinkedInURL     *string   `json:"linkedin_url"`
	GitHubURL       *string   `json:"github_url"`
	Website         *string   `json:"website"`
	Skills          *[]string `json:"skills"`
	ExperienceYears *int      `json:"experience_years"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Delete("/me", h.DeleteMe)
	r.Get("/:id", h.GetByID)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	usr, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	usr, err := h.uc.UpdateMe(c.Context(), userID, useruc.UpdateInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
		Location:        req.Location,
		LinkedInURL:     req.LinkedInURL,
		GitHubURL:       req.GitHubURL,
		Website:         req.Website,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", dto.NewUserResponse(usr))
}

func (h *UserHandler) DeleteMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	if err := h.uc.DeleteMe(c.Context(), userID); err != nil {
		return mapUserUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
	}

	usr, err := h.uc.GetProfile(c.Context(), id)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPublicUserResponse(usr))
}

func (h *UserHandler) List(c fiber.Ctx) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skip", nil, err)
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	items, total, err := h.uc.List(c.Context(), useruc.ListInput{Query: c.Query("q"), Skip: skip, Limit: limit})
	if err != nil {
		return mapUserUsecaseError(err)
	}

	out := dto.UserListResponse{
		Items: make([]dto.PublicUserResponse, 0, len(items)),
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
	for _, u := range items {
		out.Items = append(out.Items, dto.NewPublicUserResponse(u))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func mapUserUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, useruc.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, useruc.ErrUsernameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Username already taken", nil, err)
	case errors.Is(err, useruc.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
