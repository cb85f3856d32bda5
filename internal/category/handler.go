package category

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
)

type Store interface {
	List(ctx context.Context, userID string) ([]Category, error)
	Insert(ctx context.Context, cat *Category) (*Category, error)
	Update(ctx context.Context, userID, id string, req UpdateRequest) (*Category, error)
	Delete(ctx context.Context, userID, id string) error
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Store.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch categories")
	}
	return c.JSON(fiber.Map{"categories": items})
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

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  []fieldError{{"name", "category name is required"}},
		})
	}
	if req.Icon == "" {
		req.Icon = defaultIcon
	}
	if req.Color == "" {
		req.Color = defaultColor
	}

	cat := &Category{
		UserID: userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	}

	created, err := h.Store.Insert(c.UserContext(), cat)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create category")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "category created successfully",
		"category": created,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  []fieldError{{"name", "category name cannot be empty"}},
			})
		}
		req.Name = &trimmed
	}

	cat, err := h.Store.Update(c.UserContext(), userID, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update category")
	}

	return c.JSON(fiber.Map{
		"message":  "category updated successfully",
		"category": cat,
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}

	if err := h.Store.Delete(c.UserContext(), userID, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		case errors.Is(err, ErrProtected):
			return fiber.NewError(fiber.StatusBadRequest, "default categories cannot be deleted")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete category")
		}
	}
	return c.JSON(fiber.Map{"message": "category deleted successfully"})
}
