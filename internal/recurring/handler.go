package recurring

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
)

type Store interface {
	List(ctx context.Context, userID string) ([]RecurringExpense, error)
	Insert(ctx context.Context, re *RecurringExpense) (*RecurringExpense, error)
	Update(ctx context.Context, userID, id string, f UpdateFields) (*RecurringExpense, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleActive(ctx context.Context, userID, id string) (*RecurringExpense, error)
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Store.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch recurring expenses")
	}
	return c.JSON(fiber.Map{"recurringExpenses": items})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)

	var issues []fieldError
	if req.Description == "" {
		issues = append(issues, fieldError{"description", "description is required"})
	}
	if req.Amount == nil {
		issues = append(issues, fieldError{"amount", "amount is required"})
	} else if *req.Amount < 0 {
		issues = append(issues, fieldError{"amount", "amount cannot be negative"})
	}
	if req.Category == "" {
		issues = append(issues, fieldError{"category", "category is required"})
	}
	if !frequencies[req.Frequency] {
		issues = append(issues, fieldError{"frequency", "frequency must be daily, weekly, monthly or yearly"})
	}

	var startDate time.Time
	if req.StartDate == "" {
		issues = append(issues, fieldError{"startDate", "startDate is required"})
	} else if parsed, err := parseDate(req.StartDate); err != nil {
		issues = append(issues, fieldError{"startDate", "startDate must be YYYY-MM-DD or RFC 3339"})
	} else {
		startDate = parsed
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := parseDate(req.EndDate)
		if err != nil {
			issues = append(issues, fieldError{"endDate", "endDate must be YYYY-MM-DD or RFC 3339"})
		} else {
			endDate = &parsed
		}
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	re := &RecurringExpense{
		UserID:      userID,
		Description: req.Description,
		Amount:      *req.Amount,
		Category:    req.Category,
		Frequency:   req.Frequency,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	created, err := h.Store.Insert(c.UserContext(), re)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create recurring expense")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":          "recurring expense created successfully",
		"recurringExpense": created,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "recurring expense not found")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var issues []fieldError
	f := UpdateFields{Amount: req.Amount}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			issues = append(issues, fieldError{"description", "description cannot be empty"})
		}
		f.Description = &trimmed
	}
	if req.Amount != nil && *req.Amount < 0 {
		issues = append(issues, fieldError{"amount", "amount cannot be negative"})
	}
	if req.Category != nil {
		trimmed := strings.TrimSpace(*req.Category)
		if trimmed == "" {
			issues = append(issues, fieldError{"category", "category cannot be empty"})
		}
		f.Category = &trimmed
	}
	if req.Frequency != nil {
		if !frequencies[*req.Frequency] {
			issues = append(issues, fieldError{"frequency", "frequency must be daily, weekly, monthly or yearly"})
		}
		f.Frequency = req.Frequency
	}
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			issues = append(issues, fieldError{"startDate", "startDate must be YYYY-MM-DD or RFC 3339"})
		} else {
			f.StartDate = &parsed
		}
	}
	if req.EndDate != nil {
		// An explicit empty endDate clears it back to open-ended.
		if strings.TrimSpace(*req.EndDate) == "" {
			f.ClearEndDate = true
		} else if parsed, err := parseDate(*req.EndDate); err != nil {
			issues = append(issues, fieldError{"endDate", "endDate must be YYYY-MM-DD or RFC 3339"})
		} else {
			f.EndDate = &parsed
		}
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	re, err := h.Store.Update(c.UserContext(), userID, id, f)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "recurring expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update recurring expense")
	}

	return c.JSON(fiber.Map{
		"message":          "recurring expense updated successfully",
		"recurringExpense": re,
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "recurring expense not found")
	}

	if err := h.Store.Delete(c.UserContext(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "recurring expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete recurring expense")
	}
	return c.JSON(fiber.Map{"message": "recurring expense deleted successfully"})
}

// ToggleActive flips the active flag and returns the new state.
func (h *Handler) ToggleActive(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "recurring expense not found")
	}

	re, err := h.Store.ToggleActive(c.UserContext(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "recurring expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to toggle recurring expense")
	}

	return c.JSON(fiber.Map{
		"message":          "recurring expense updated",
		"recurringExpense": re,
	})
}
