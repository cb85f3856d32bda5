package expense

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
)

type Store interface {
	List(ctx context.Context, userID string, f ListFilter) ([]Expense, error)
	Get(ctx context.Context, userID, id string) (*Expense, error)
	Insert(ctx context.Context, e *Expense) (*Expense, error)
	Update(ctx context.Context, userID, id string, f UpdateFields) (*Expense, error)
	Delete(ctx context.Context, userID, id string) error
	Total(ctx context.Context, userID string, from, to *time.Time) (float64, error)
	Summary(ctx context.Context, userID string, from, to *time.Time) (*Summary, error)
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// monthRange expands YYYY-MM to the first and last instant of that calendar
// month, both inclusive.
func monthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
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

	f := ListFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Type:     strings.TrimSpace(c.Query("type")),
	}

	if month := c.Query("month"); month != "" {
		from, to, err := monthRange(month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
		}
		f.From, f.To = &from, &to
	} else {
		if s := c.Query("startDate"); s != "" {
			from, err := parseDate(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD or RFC 3339")
			}
			f.From = &from
		}
		if s := c.Query("endDate"); s != "" {
			to, err := parseDate(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD or RFC 3339")
			}
			// Inclusive: cover the whole end day.
			to = to.AddDate(0, 0, 1).Add(-time.Second)
			f.To = &to
		}
	}

	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 || limit > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
		}
		f.Limit = limit
	}

	expenses, err := h.Store.List(c.UserContext(), userID, f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch expenses")
	}

	return c.JSON(fiber.Map{"expenses": expenses})
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
	if req.Type != "" && !expenseTypes[req.Type] {
		issues = append(issues, fieldError{"type", "type must be income or expense"})
	}
	if req.PaymentMethod != "" && !paymentMethods[req.PaymentMethod] {
		issues = append(issues, fieldError{"paymentMethod", "unknown payment method"})
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			issues = append(issues, fieldError{"date", "date must be YYYY-MM-DD or RFC 3339"})
		} else {
			date = parsed
		}
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	if req.Category == "" {
		req.Category = "Other"
	}
	if req.Type == "" {
		req.Type = "expense"
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}

	// Owner comes from the verified token; any owner in the payload is
	// ignored.
	e := &Expense{
		UserID:        userID,
		Description:   req.Description,
		Amount:        *req.Amount,
		Category:      req.Category,
		Date:          date,
		Type:          req.Type,
		Notes:         strings.TrimSpace(req.Notes),
		PaymentMethod: req.PaymentMethod,
	}

	created, err := h.Store.Insert(c.UserContext(), e)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create expense")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "expense created successfully",
		"expense": created,
	})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "expense not found")
	}

	e, err := h.Store.Get(c.UserContext(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch expense")
	}
	return c.JSON(fiber.Map{"expense": e})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "expense not found")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var issues []fieldError
	f := UpdateFields{
		Amount: req.Amount,
		Notes:  req.Notes,
	}
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
	if req.Type != nil {
		if !expenseTypes[*req.Type] {
			issues = append(issues, fieldError{"type", "type must be income or expense"})
		}
		f.Type = req.Type
	}
	if req.PaymentMethod != nil {
		if !paymentMethods[*req.PaymentMethod] {
			issues = append(issues, fieldError{"paymentMethod", "unknown payment method"})
		}
		f.PaymentMethod = req.PaymentMethod
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			issues = append(issues, fieldError{"date", "date must be YYYY-MM-DD or RFC 3339"})
		} else {
			f.Date = &parsed
		}
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	e, err := h.Store.Update(c.UserContext(), userID, id, f)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update expense")
	}

	return c.JSON(fiber.Map{
		"message": "expense updated successfully",
		"expense": e,
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "expense not found")
	}

	if err := h.Store.Delete(c.UserContext(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete expense")
	}
	return c.JSON(fiber.Map{"message": "expense deleted successfully"})
}

// StatsTotal returns the sum of expense amounts over an optional date range.
func (h *Handler) StatsTotal(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var from, to *time.Time
	if s := c.Query("startDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD or RFC 3339")
		}
		from = &t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD or RFC 3339")
		}
		t = t.AddDate(0, 0, 1).Add(-time.Second)
		to = &t
	}

	total, err := h.Store.Total(c.UserContext(), userID, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute total")
	}
	return c.JSON(fiber.Map{"total": total})
}

// StatsSummary returns per-type and per-category totals, optionally
// restricted to one calendar month.
func (h *Handler) StatsSummary(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var from, to *time.Time
	monthStr, yearStr := c.Query("month"), c.Query("year")
	if monthStr != "" && yearStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month must be between 1 and 12")
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1970 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid year")
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		from, to = &start, &end
	}

	summary, err := h.Store.Summary(c.UserContext(), userID, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute summary")
	}
	return c.JSON(summary)
}
