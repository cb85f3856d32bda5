package expense

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anujshukla115/Finflow-Expense-Tracker-backend/internal/auth"
)

type fakeStore struct {
	expenses []Expense
}

func (s *fakeStore) List(_ context.Context, userID string, f ListFilter) ([]Expense, error) {
	out := []Expense{}
	for _, e := range s.expenses {
		if e.UserID != userID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		out = append(out, e)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, userID, id string) (*Expense, error) {
	for i := range s.expenses {
		if s.expenses[i].ID == id && s.expenses[i].UserID == userID {
			return &s.expenses[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) Insert(_ context.Context, e *Expense) (*Expense, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	s.expenses = append(s.expenses, *e)
	return e, nil
}

func (s *fakeStore) Update(_ context.Context, userID, id string, f UpdateFields) (*Expense, error) {
	e, err := s.Get(context.Background(), userID, id)
	if err != nil {
		return nil, err
	}
	if f.Description != nil {
		e.Description = *f.Description
	}
	if f.Amount != nil {
		e.Amount = *f.Amount
	}
	if f.Category != nil {
		e.Category = *f.Category
	}
	if f.Date != nil {
		e.Date = *f.Date
	}
	if f.Type != nil {
		e.Type = *f.Type
	}
	if f.Notes != nil {
		e.Notes = *f.Notes
	}
	if f.PaymentMethod != nil {
		e.PaymentMethod = *f.PaymentMethod
	}
	return e, nil
}

func (s *fakeStore) Delete(_ context.Context, userID, id string) error {
	for i := range s.expenses {
		if s.expenses[i].ID == id && s.expenses[i].UserID == userID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeStore) Total(_ context.Context, userID string, from, to *time.Time) (float64, error) {
	var total float64
	for _, e := range s.expenses {
		if e.UserID != userID || e.Type != "expense" {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		total += e.Amount
	}
	return total, nil
}

func (s *fakeStore) Summary(_ context.Context, userID string, from, to *time.Time) (*Summary, error) {
	byType := map[string]*TypeTotal{}
	for _, e := range s.expenses {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		tt, ok := byType[e.Type]
		if !ok {
			tt = &TypeTotal{Type: e.Type}
			byType[e.Type] = tt
		}
		tt.Total += e.Amount
		tt.Count++
	}
	out := &Summary{Stats: []TypeTotal{}, CategoryStats: []CategoryTotal{}}
	for _, tt := range byType {
		out.Stats = append(out.Stats, *tt)
	}
	return out, nil
}

func newApp(store Store, tokens *auth.Service) *fiber.App {
	h := NewHandler(store)

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	api := app.Group("/api/expenses", auth.Middleware(tokens))
	api.Get("/stats/total", h.StatsTotal)
	api.Get("/stats/summary", h.StatsSummary)
	api.Get("/", h.List)
	api.Post("/", h.Create)
	api.Get("/:id", h.Get)
	api.Put("/:id", h.Update)
	api.Delete("/:id", h.Delete)
	return app
}

// testErrorHandler mirrors the API's JSON error shape.
func testErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func testToken(t *testing.T, tokens *auth.Service, userID string) string {
	t.Helper()
	token, err := tokens.Generate(userID)
	require.NoError(t, err)
	return token
}

func seed(store *fakeStore, userID string, amount float64, category, typ string, date time.Time) Expense {
	e := Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: category + " spend",
		Amount:      amount,
		Category:    category,
		Date:        date,
		Type:        typ,
	}
	store.expenses = append(store.expenses, e)
	return e
}

func TestMonthRange(t *testing.T) {
	from, to, err := monthRange("2025-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), to)

	_, _, err = monthRange("2025-13")
	assert.Error(t, err)
	_, _, err = monthRange("feb-2025")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2025-06-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = parseDate("15/06/2025")
	assert.Error(t, err)
}

func TestCreateDefaultsAndOwner(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)
	token := testToken(t, tokens, "user-1")

	// The payload's user field must be ignored; the owner comes from the
	// token.
	status, body := doJSON(t, app, "POST", "/api/expenses/", token, fiber.Map{
		"description": "coffee",
		"amount":      120.0,
		"user":        "someone-else",
	})
	require.Equal(t, fiber.StatusCreated, status)

	created := body["expense"].(map[string]any)
	assert.Equal(t, "user-1", created["user"])
	assert.Equal(t, "Other", created["category"])
	assert.Equal(t, "expense", created["type"])
	assert.Equal(t, "cash", created["paymentMethod"])
}

func TestCreateValidation(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	app := newApp(&fakeStore{}, tokens)
	token := testToken(t, tokens, "user-1")

	status, body := doJSON(t, app, "POST", "/api/expenses/", token, fiber.Map{
		"description": "", "amount": -5.0, "type": "loan",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Len(t, body["errors"], 3)
}

func TestListMonthFilter(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)
	token := testToken(t, tokens, "user-1")

	seed(store, "user-1", 10, "Food", "expense", time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC))
	seed(store, "user-1", 20, "Food", "expense", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	seed(store, "user-1", 30, "Food", "expense", time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC))
	seed(store, "user-1", 40, "Food", "expense", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	seed(store, "user-2", 50, "Food", "expense", time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))

	status, body := doJSON(t, app, "GET", "/api/expenses/?month=2025-02", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["expenses"], 2)
}

func TestListLimitValidation(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	app := newApp(&fakeStore{}, tokens)
	token := testToken(t, tokens, "user-1")

	for _, limit := range []string{"0", "101", "-1", "abc"} {
		status, _ := doJSON(t, app, "GET", "/api/expenses/?limit="+limit, token, nil)
		assert.Equal(t, fiber.StatusBadRequest, status, "limit %s", limit)
	}

	status, _ := doJSON(t, app, "GET", "/api/expenses/?limit=5", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestGetMasksForeignExpense(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)

	foreign := seed(store, "user-2", 99, "Food", "expense", time.Now())

	token := testToken(t, tokens, "user-1")
	status, body := doJSON(t, app, "GET", "/api/expenses/"+foreign.ID, token, nil)

	// Someone else's expense looks exactly like a missing one.
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "expense not found", body["message"])
}

func TestGetMalformedID(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	app := newApp(&fakeStore{}, tokens)
	token := testToken(t, tokens, "user-1")

	status, _ := doJSON(t, app, "GET", "/api/expenses/not-a-uuid", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateForeignExpense(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)

	foreign := seed(store, "user-2", 99, "Food", "expense", time.Now())
	token := testToken(t, tokens, "user-1")

	amount := 1.0
	status, _ := doJSON(t, app, "PUT", "/api/expenses/"+foreign.ID, token, fiber.Map{"amount": amount})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, 99.0, store.expenses[0].Amount)
}

func TestStatsTotal(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)
	token := testToken(t, tokens, "user-1")

	status, body := doJSON(t, app, "GET", "/api/expenses/stats/total", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, body["total"])

	now := time.Now()
	seed(store, "user-1", 10, "Food", "expense", now)
	seed(store, "user-1", 20, "Transport", "expense", now)
	seed(store, "user-1", 30, "Bills", "expense", now)
	// Income and other users stay out of the total.
	seed(store, "user-1", 500, "Salary", "income", now)
	seed(store, "user-2", 70, "Food", "expense", now)

	status, body = doJSON(t, app, "GET", "/api/expenses/stats/total", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 60.0, body["total"])
}

func TestStatsSummaryMonthValidation(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	app := newApp(&fakeStore{}, tokens)
	token := testToken(t, tokens, "user-1")

	status, _ := doJSON(t, app, "GET", "/api/expenses/stats/summary?month=13&year=2025", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "GET", "/api/expenses/stats/summary?month=6&year=2025", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestDeleteThenGet(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)
	token := testToken(t, tokens, "user-1")

	e := seed(store, "user-1", 10, "Food", "expense", time.Now())

	status, _ := doJSON(t, app, "DELETE", "/api/expenses/"+e.ID, token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, "GET", "/api/expenses/"+e.ID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
