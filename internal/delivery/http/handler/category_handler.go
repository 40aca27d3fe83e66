package handler

import (
	"errors"
	"strconv"

	"signal-radar/internal/delivery/http/dto"
	"signal-radar/internal/delivery/http/middleware"
	"signal-radar/internal/pkg/response"
	"signal-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CategoryHandler struct {
	uc usecase.CategoryUsecase
}

func NewCategoryHandler(uc usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

func (h *CategoryHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	out := make([]dto.CategoryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewCategoryResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *CategoryHandler) Get(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid category id", nil, err)
	}

	cat, err := h.uc.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrCategoryNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Category not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryResponse(cat))
}
