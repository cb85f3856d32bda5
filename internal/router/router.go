package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/bills"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/category"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/expense"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/recurring"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/split"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/user"
)

type Router struct {
	Users      *user.Handler
	Expenses   *expense.Handler
	Recurring  *recurring.Handler
	Bills      *bills.Handler
	Split      *split.Handler
	Categories *category.Handler

	AuthMW      fiber.Handler
	AuthLimiter fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	if r.AuthLimiter != nil {
		authGroup.Use(r.AuthLimiter)
	}
	authGroup.Post("/register", r.Users.Register)
	authGroup.Post("/login", r.Users.Login)

	userGroup := api.Group("/user", r.AuthMW)
	userGroup.Get("/profile", r.Users.Profile)
	userGroup.Put("/profile", r.Users.UpdateProfile)
	userGroup.Put("/password", r.Users.ChangePassword)

	expenses := api.Group("/expenses", r.AuthMW)
	// Static paths before :id so /stats and /report never match as ids.
	expenses.Get("/stats/summary", r.Expenses.StatsSummary)
	expenses.Get("/stats/total", r.Expenses.StatsTotal)
	expenses.Get("/report", r.Expenses.MonthlyReport)
	expenses.Get("/", r.Expenses.List)
	expenses.Post("/", r.Expenses.Create)
	expenses.Get("/:id", r.Expenses.Get)
	expenses.Put("/:id", r.Expenses.Update)
	expenses.Delete("/:id", r.Expenses.Delete)

	recurringGroup := api.Group("/recurring", r.AuthMW)
	recurringGroup.Get("/", r.Recurring.List)
	recurringGroup.Post("/", r.Recurring.Create)
	recurringGroup.Put("/:id", r.Recurring.Update)
	recurringGroup.Delete("/:id", r.Recurring.Delete)
	recurringGroup.Patch("/:id/toggle", r.Recurring.ToggleActive)

	billsGroup := api.Group("/bills", r.AuthMW)
	billsGroup.Get("/", r.Bills.List)
	billsGroup.Post("/", r.Bills.Create)
	billsGroup.Put("/:id", r.Bills.Update)
	billsGroup.Delete("/:id", r.Bills.Delete)
	billsGroup.Patch("/:id/pay", r.Bills.MarkPaid)

	splitGroup := api.Group("/split", r.AuthMW)
	splitGroup.Get("/", r.Split.List)
	splitGroup.Post("/", r.Split.Create)
	splitGroup.Put("/:id", r.Split.Update)
	splitGroup.Delete("/:id", r.Split.Delete)
	splitGroup.Patch("/:id/member/:memberIndex/pay", r.Split.ToggleMemberPaid)

	categories := api.Group("/categories", r.AuthMW)
	categories.Get("/", r.Categories.List)
	categories.Post("/", r.Categories.Create)
	categories.Put("/:id", r.Categories.Update)
	categories.Delete("/:id", r.Categories.Delete)
}
