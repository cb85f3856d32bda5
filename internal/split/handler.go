package split

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
)

type Store interface {
	List(ctx context.Context, userID string) ([]SplitExpense, error)
	Insert(ctx context.Context, s *SplitExpense) (*SplitExpense, error)
	Update(ctx context.Context, userID, id string, f UpdateFields) (*SplitExpense, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleMemberPaid(ctx context.Context, userID, id string, index int) (*SplitExpense, error)
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

// validateMembers checks each member and, for equal and exact splits, that
// the member amounts add up to the total.
func validateMembers(members []Member, method string, total float64) []fieldError {
	var issues []fieldError
	if len(members) == 0 {
		return append(issues, fieldError{"members", "at least one member is required"})
	}

	var sum float64
	for i := range members {
		members[i].Name = strings.TrimSpace(members[i].Name)
		if members[i].Name == "" {
			issues = append(issues, fieldError{"members", "member names are required"})
			break
		}
		if members[i].Amount < 0 {
			issues = append(issues, fieldError{"members", "member amounts cannot be negative"})
			break
		}
		sum += members[i].Amount
	}

	if (method == "equal" || method == "exact") && math.Abs(sum-total) > amountTolerance {
		issues = append(issues, fieldError{"members", "member amounts must sum to totalAmount"})
	}
	return issues
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Store.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch split expenses")
	}
	return c.JSON(fiber.Map{"splitExpenses": items})
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

	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if req.SplitMethod == "" {
		req.SplitMethod = "equal"
	}

	var issues []fieldError
	if req.Title == "" {
		issues = append(issues, fieldError{"title", "title is required"})
	}
	if req.TotalAmount == nil {
		issues = append(issues, fieldError{"totalAmount", "totalAmount is required"})
	} else if *req.TotalAmount < 0 {
		issues = append(issues, fieldError{"totalAmount", "totalAmount cannot be negative"})
	}
	if req.Category == "" {
		issues = append(issues, fieldError{"category", "category is required"})
	}
	if !splitMethods[req.SplitMethod] {
		issues = append(issues, fieldError{"splitMethod", "splitMethod must be equal, percentage, exact or shares"})
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

	if req.TotalAmount != nil {
		issues = append(issues, validateMembers(req.Members, req.SplitMethod, *req.TotalAmount)...)
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	s := &SplitExpense{
		UserID:      userID,
		Title:       req.Title,
		TotalAmount: *req.TotalAmount,
		Category:    req.Category,
		SplitMethod: req.SplitMethod,
		Members:     req.Members,
		Date:        date,
	}

	created, err := h.Store.Insert(c.UserContext(), s)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create split expense")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "split expense created successfully",
		"splitExpense": created,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "split expense not found")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var issues []fieldError
	f := UpdateFields{
		TotalAmount: req.TotalAmount,
		Members:     req.Members,
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			issues = append(issues, fieldError{"title", "title cannot be empty"})
		}
		f.Title = &trimmed
	}
	if req.TotalAmount != nil && *req.TotalAmount < 0 {
		issues = append(issues, fieldError{"totalAmount", "totalAmount cannot be negative"})
	}
	if req.Category != nil {
		trimmed := strings.TrimSpace(*req.Category)
		if trimmed == "" {
			issues = append(issues, fieldError{"category", "category cannot be empty"})
		}
		f.Category = &trimmed
	}
	if req.SplitMethod != nil {
		if !splitMethods[*req.SplitMethod] {
			issues = append(issues, fieldError{"splitMethod", "splitMethod must be equal, percentage, exact or shares"})
		}
		f.SplitMethod = req.SplitMethod
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			issues = append(issues, fieldError{"date", "date must be YYYY-MM-DD or RFC 3339"})
		} else {
			f.Date = &parsed
		}
	}
	// Replacing the member list re-runs the full member validation. The sum
	// check needs the total and method for the new list, so a members
	// replacement must carry both.
	if req.Members != nil {
		if req.TotalAmount == nil || req.SplitMethod == nil {
			issues = append(issues, fieldError{"members", "replacing members requires totalAmount and splitMethod"})
		} else {
			issues = append(issues, validateMembers(req.Members, *req.SplitMethod, *req.TotalAmount)...)
		}
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	s, err := h.Store.Update(c.UserContext(), userID, id, f)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "split expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update split expense")
	}

	return c.JSON(fiber.Map{
		"message":      "split expense updated successfully",
		"splitExpense": s,
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "split expense not found")
	}

	if err := h.Store.Delete(c.UserContext(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "split expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete split expense")
	}
	return c.JSON(fiber.Map{"message": "split expense deleted successfully"})
}

// ToggleMemberPaid flips the paid flag of the member at the path index.
func (h *Handler) ToggleMemberPaid(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "split expense not found")
	}

	index, err := strconv.Atoi(c.Params("memberIndex"))
	if err != nil || index < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid member index")
	}

	s, err := h.Store.ToggleMemberPaid(c.UserContext(), userID, id, index)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "split expense not found")
		case errors.Is(err, ErrInvalidIndex):
			return fiber.NewError(fiber.StatusBadRequest, "invalid member index")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update member payment")
		}
	}

	return c.JSON(fiber.Map{
		"message":      "member payment status updated",
		"splitExpense": s,
	})
}
