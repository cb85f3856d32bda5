package user

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
)

type Store interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type Handler struct {
	Store  Store
	Tokens *auth.Service
}

func NewHandler(store Store, tokens *auth.Service) *Handler {
	return &Handler{Store: store, Tokens: tokens}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	var issues []fieldError
	if req.Name == "" {
		issues = append(issues, fieldError{"name", "name is required"})
	}
	if len(req.Name) > 50 {
		issues = append(issues, fieldError{"name", "name must be at most 50 characters"})
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		issues = append(issues, fieldError{"email", "a valid email is required"})
	}
	if len(req.Password) < 6 {
		issues = append(issues, fieldError{"password", "password must be at least 6 characters"})
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	u := &User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		Name:         req.Name,
	}
	if err := h.Store.Create(c.UserContext(), u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusBadRequest, "email already registered")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered successfully",
		"user":    u,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	// Unknown email and wrong password return the same message so login
	// cannot be used to probe which emails are registered.
	u, err := h.Store.GetByEmail(c.UserContext(), strings.TrimSpace(req.Email))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.Tokens.Generate(u.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  u,
	})
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	u, err := h.Store.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch profile")
	}

	return c.JSON(fiber.Map{"user": u})
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var issues []fieldError
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
		if *req.Name == "" {
			issues = append(issues, fieldError{"name", "name cannot be empty"})
		}
	}
	if req.MonthlyIncome != nil && *req.MonthlyIncome < 0 {
		issues = append(issues, fieldError{"monthlyIncome", "monthly income cannot be negative"})
	}
	if req.MonthlyBudget != nil && *req.MonthlyBudget < 0 {
		issues = append(issues, fieldError{"monthlyBudget", "monthly budget cannot be negative"})
	}
	if req.Currency != nil && !currencies[*req.Currency] {
		issues = append(issues, fieldError{"currency", "currency must be one of INR, USD, EUR, GBP"})
	}
	for _, name := range req.Categories {
		if strings.TrimSpace(name) == "" {
			issues = append(issues, fieldError{"categories", "category names cannot be empty"})
			break
		}
	}
	if len(issues) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "validation failed", "errors": issues})
	}

	u, err := h.Store.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update profile")
	}

	return c.JSON(fiber.Map{
		"message": "profile updated successfully",
		"user":    u,
	})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "please provide current and new password")
	}
	if len(req.NewPassword) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "new password must be at least 6 characters")
	}

	u, err := h.Store.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to change password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to change password")
	}
	if err := h.Store.UpdatePassword(c.UserContext(), userID, string(hashed)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to change password")
	}

	return c.JSON(fiber.Map{"message": "password updated successfully"})
}
