package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/bills"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/category"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/config"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/expense"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/recurring"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/router"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/split"
	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/user"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ctx := context.Background()
	pool := connectWithRetry(ctx, cfg.DatabaseURL)
	defer pool.Close()
	log.Println("database connected")

	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(cfg),
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	started := time.Now()
	app.Get("/api/health", healthHandler(pool, cfg, started))

	r := &router.Router{
		Users:       user.NewHandler(user.NewRepository(pool), tokens),
		Expenses:    expense.NewHandler(expense.NewRepository(pool)),
		Recurring:   recurring.NewHandler(recurring.NewRepository(pool)),
		Bills:       bills.NewHandler(bills.NewRepository(pool)),
		Split:       split.NewHandler(split.NewRepository(pool)),
		Categories:  category.NewHandler(category.NewRepository(pool)),
		AuthMW:      auth.Middleware(tokens),
		AuthLimiter: rateLimitAuth(cfg.AuthRateMax),
	}
	r.RegisterRoutes(app)

	app.Use("/api", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("route %s not found", c.Path()),
		})
	})

	log.Println("listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// connectWithRetry keeps trying the database until it answers; a backend
// without its store has nothing to serve.
func connectWithRetry(ctx context.Context, dsn string) *pgxpool.Pool {
	for {
		pool, err := pgxpool.New(ctx, dsn)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				return pool
			}
			pool.Close()
		}
		log.Printf("database connection failed: %v, retrying in 5s", err)
		time.Sleep(5 * time.Second)
	}
}

func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code == fiber.StatusInternalServerError {
			log.Printf("error: %v", err)
			if cfg.Production() {
				message = "server error"
			}
		}

		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}

func rateLimitAuth(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
	})
}

func healthHandler(pool *pgxpool.Pool, cfg *config.Config, started time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		database := "connected"
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		if err := pool.Ping(pingCtx); err != nil {
			database = "disconnected"
		}
		cancel()

		return c.JSON(fiber.Map{
			"status":      "OK",
			"message":     "FinFlow API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(started).Seconds(),
			"database":    database,
			"environment": cfg.Env,
			"version":     version,
		})
	}
}
