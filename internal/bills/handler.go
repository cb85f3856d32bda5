package bills

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
	List(ctx context.Context, userID string) ([]BillReminder, error)
	Insert(ctx context.Context, b *BillReminder) (*BillReminder, error)
	Update(ctx context.Context, userID, id string, f UpdateFields) (*BillReminder, error)
	Delete(ctx context.Context, userID, id string) error
	MarkPaid(ctx context.Context, userID, id string) (*BillReminder, error)
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
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch bills")
	}
	return c.JSON(fiber.Map{"bills": items})
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

	req.BillName = strings.TrimSpace(req.BillName)
	req.Category = strings.TrimSpace(req.Category)

	var issues []fieldError
	if req.BillName == "" {
		issues = append(issues, fieldError{"billName", "bill name is required"})
	}
	if req.Amount == nil {
		issues = append(issues, fieldError{"amount", "amount is required"})
	} else if *req.Amount < 0 {
		issues = append(issues, fieldError{"amount", "amount cannot be negative"})
	}
	if req.Category == "" {
		issues = append(issues, fieldError{"category", "category is required"})
	}

	var dueDate time.Time
	if req.DueDate == "" {
		issues = append(issues, fieldError{"dueDate", "dueDate is required"})
	} else if parsed, err := parseDate(req.DueDate); err != nil {
		issues = append(issues, fieldError{"dueDate", "dueDate must be YYYY-MM-DD or RFC 3339"})
	} else {
		dueDate = parsed
	}

	reminderDays := 3
	if req.ReminderDays != nil {
		if *req.ReminderDays < 0 {
			issues = append(issues, fieldError{"reminderDays", "reminderDays cannot be negative"})
		} else {
			reminderDays = *req.ReminderDays
		}
	}

	var frequency *string
	if req.IsRecurring {
		if !recurringFrequencies[req.RecurringFrequency] {
			issues = append(issues, fieldError{"recurringFrequency", "recurringFrequency must be monthly, quarterly or yearly"})
		} else {
			frequency = &req.RecurringFrequency
		}
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	b := &BillReminder{
		UserID:             userID,
		BillName:           req.BillName,
		Amount:             *req.Amount,
		Category:           req.Category,
		DueDate:            dueDate,
		ReminderDays:       reminderDays,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: frequency,
	}

	created, err := h.Store.Insert(c.UserContext(), b)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create bill reminder")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "bill reminder created successfully",
		"bill":    created,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "bill reminder not found")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var issues []fieldError
	f := UpdateFields{
		Amount:       req.Amount,
		ReminderDays: req.ReminderDays,
		IsRecurring:  req.IsRecurring,
	}
	if req.BillName != nil {
		trimmed := strings.TrimSpace(*req.BillName)
		if trimmed == "" {
			issues = append(issues, fieldError{"billName", "bill name cannot be empty"})
		}
		f.BillName = &trimmed
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
	if req.DueDate != nil {
		parsed, err := parseDate(*req.DueDate)
		if err != nil {
			issues = append(issues, fieldError{"dueDate", "dueDate must be YYYY-MM-DD or RFC 3339"})
		} else {
			f.DueDate = &parsed
		}
	}
	if req.ReminderDays != nil && *req.ReminderDays < 0 {
		issues = append(issues, fieldError{"reminderDays", "reminderDays cannot be negative"})
	}
	if req.RecurringFrequency != nil {
		if !recurringFrequencies[*req.RecurringFrequency] {
			issues = append(issues, fieldError{"recurringFrequency", "recurringFrequency must be monthly, quarterly or yearly"})
		}
		f.RecurringFrequency = req.RecurringFrequency
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	b, err := h.Store.Update(c.UserContext(), userID, id, f)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "bill reminder not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update bill reminder")
	}

	return c.JSON(fiber.Map{
		"message": "bill reminder updated successfully",
		"bill":    b,
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "bill reminder not found")
	}

	if err := h.Store.Delete(c.UserContext(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "bill reminder not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete bill reminder")
	}
	return c.JSON(fiber.Map{"message": "bill reminder deleted successfully"})
}

// MarkPaid is idempotent: paying an already-paid bill leaves it paid.
func (h *Handler) MarkPaid(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "bill reminder not found")
	}

	b, err := h.Store.MarkPaid(c.UserContext(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "bill reminder not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to mark bill as paid")
	}

	return c.JSON(fiber.Map{
		"message": "bill marked as paid",
		"bill":    b,
	})
}
