package user

import "time"

// Currencies accepted on the profile.
var currencies = map[string]bool{
	"INR": true,
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// Categories seeded for every new user. Deletion of these is refused.
var defaultCategories = []string{
	"Food",
	"Transport",
	"Bills",
	"Shopping",
	"Entertainment",
	"Healthcare",
	"Education",
	"Other",
}

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	MonthlyIncome float64   `json:"monthlyIncome"`
	MonthlyBudget float64   `json:"monthlyBudget"`
	Currency      string    `json:"currency"`
	Categories    []string  `json:"categories"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name          *string  `json:"name"`
	MonthlyIncome *float64 `json:"monthlyIncome"`
	MonthlyBudget *float64 `json:"monthlyBudget"`
	Currency      *string  `json:"currency"`
	Categories    []string `json:"categories"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
