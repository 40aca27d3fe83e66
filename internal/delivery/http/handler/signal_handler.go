package handler

import (
	"encoding/json"
	"errors"
	"strconv"

	"signal-radar/internal/delivery/http/dto"
	"signal-radar/internal/delivery/http/middleware"
	"signal-radar/internal/pkg/response"
	"signal-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SignalHandler struct {
	signals  usecase.SignalUsecase
	matching usecase.MatchingUsecase
}

type createSignalRequest struct {
	SignalCategoryID int             `json:"signal_category_id"`
	Details          json.RawMessage `json:"details"`
}

func NewSignalHandler(signals usecase.SignalUsecase, matching usecase.MatchingUsecase) *SignalHandler {
	return &SignalHandler{signals: signals, matching: matching}
}

func (h *SignalHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/me", h.ListMine)
	r.Get("/user/:user_id", h.ListByUser)
	r.Get("/match-all", h.MatchAll)
	r.Get("/match/:id", h.Match)
	r.Get("/:id", h.Get)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func (h *SignalHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	var req createSignalRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	s, err := h.signals.Create(c.Context(), userID, usecase.CreateSignalInput{
		CategoryID: req.SignalCategoryID,
		Details:    req.Details,
	})
	if err != nil {
		return mapSignalUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Signal created", dto.NewSignalResponse(s))
}

func (h *SignalHandler) ListMine(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	items, err := h.signals.ListMine(c.Context(), userID)
	if err != nil {
		return mapSignalUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSignalListResponse(items))
}

func (h *SignalHandler) ListByUser(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
	}

	items, err := h.signals.ListByUser(c.Context(), userID)
	if err != nil {
		return mapSignalUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSignalListResponse(items))
}

func (h *SignalHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid signal id", nil, err)
	}

	s, err := h.signals.Get(c.Context(), id)
	if err != nil {
		return mapSignalUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSignalResponse(s))
}

// Update treats an explicit "details": null as clearing the payload, and
// an absent key as leaving it untouched.
func (h *SignalHandler) Update(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid signal id", nil, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	var in usecase.UpdateSignalInput
	if raw, ok := fields["details"]; ok {
		in.SetDetails = true
		if string(raw) != "null" {
			in.Details = raw
		}
	}
	if raw, ok := fields["is_active"]; ok && string(raw) != "null" {
		var active bool
		if err := json.Unmarshal(raw, &active); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "is_active must be a boolean", nil, err)
		}
		in.IsActive = &active
	}

	s, err := h.signals.Update(c.Context(), userID, id, in)
	if err != nil {
		return mapSignalUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Signal updated", dto.NewSignalResponse(s))
}

func (h *SignalHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid signal id", nil, err)
	}

	if err := h.signals.Delete(c.Context(), userID, id); err != nil {
		return mapSignalUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SignalHandler) Match(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid signal id", nil, err)
	}
	minAccurate, err := minAccurateParam(c)
	if err != nil {
		return err
	}

	res, err := h.matching.MatchSignal(c.Context(), userID, id, minAccurate)
	if err != nil {
		return mapSignalUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultsResponse(res))
}

func (h *SignalHandler) MatchAll(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}
	minAccurate, err := minAccurateParam(c)
	if err != nil {
		return err
	}

	res, err := h.matching.MatchAll(c.Context(), userID, minAccurate)
	if err != nil {
		return mapSignalUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func minAccurateParam(c fiber.Ctx) (float64, error) {
	raw := c.Query("min_accurate")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "min_accurate must be a number", nil, err)
	}
	return v, nil
}

func mapSignalUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrSignalNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Signal not found", nil, err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrNotSignalOwner):
		return middleware.NewAppError(fiber.StatusForbidden, "Not authorized to access this signal", nil, err)
	case errors.Is(err, usecase.ErrInvalidCategory):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid signal category", nil, err)
	case errors.Is(err, usecase.ErrInvalidDetails):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInvalidThreshold):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
