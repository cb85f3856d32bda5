package bills

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
	items []BillReminder
}

func (s *fakeStore) List(_ context.Context, userID string) ([]BillReminder, error) {
	out := []BillReminder{}
	for _, b := range s.items {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, b *BillReminder) (*BillReminder, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	s.items = append(s.items, *b)
	return b, nil
}

func (s *fakeStore) find(userID, id string) *BillReminder {
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			return &s.items[i]
		}
	}
	return nil
}

func (s *fakeStore) Update(_ context.Context, userID, id string, f UpdateFields) (*BillReminder, error) {
	b := s.find(userID, id)
	if b == nil {
		return nil, ErrNotFound
	}
	if f.BillName != nil {
		b.BillName = *f.BillName
	}
	if f.Amount != nil {
		b.Amount = *f.Amount
	}
	if f.Category != nil {
		b.Category = *f.Category
	}
	if f.DueDate != nil {
		b.DueDate = *f.DueDate
	}
	if f.ReminderDays != nil {
		b.ReminderDays = *f.ReminderDays
	}
	if f.IsRecurring != nil {
		b.IsRecurring = *f.IsRecurring
	}
	if f.RecurringFrequency != nil {
		b.RecurringFrequency = f.RecurringFrequency
	}
	return b, nil
}

func (s *fakeStore) Delete(_ context.Context, userID, id string) error {
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeStore) MarkPaid(_ context.Context, userID, id string) (*BillReminder, error) {
	b := s.find(userID, id)
	if b == nil {
		return nil, ErrNotFound
	}
	b.IsPaid = true
	return b, nil
}

func newApp(store Store, tokens *auth.Service) *fiber.App {
	h := NewHandler(store)

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "server error"
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}})

	api := app.Group("/api/bills", auth.Middleware(tokens))
	api.Get("/", h.List)
	api.Post("/", h.Create)
	api.Put("/:id", h.Update)
	api.Delete("/:id", h.Delete)
	api.Patch("/:id/pay", h.MarkPaid)
	return app
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

func TestCreateDefaultsReminderDays(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)
	token := testToken(t, tokens, "user-1")

	status, body := doJSON(t, app, "POST", "/api/bills/", token, fiber.Map{
		"billName": "Electricity",
		"amount":   1200.0,
		"category": "Bills",
		"dueDate":  "2025-09-10",
	})
	require.Equal(t, fiber.StatusCreated, status)

	bill := body["bill"].(map[string]any)
	assert.Equal(t, 3.0, bill["reminderDays"])
	assert.Equal(t, false, bill["isPaid"])
	assert.NotContains(t, bill, "recurringFrequency")
}

func TestCreateRecurringNeedsFrequency(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	app := newApp(&fakeStore{}, tokens)
	token := testToken(t, tokens, "user-1")

	status, body := doJSON(t, app, "POST", "/api/bills/", token, fiber.Map{
		"billName":    "Netflix",
		"amount":      649.0,
		"category":    "Entertainment",
		"dueDate":     "2025-09-10",
		"isRecurring": true,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["errors"])

	status, body = doJSON(t, app, "POST", "/api/bills/", token, fiber.Map{
		"billName":           "Netflix",
		"amount":             649.0,
		"category":           "Entertainment",
		"dueDate":            "2025-09-10",
		"isRecurring":        true,
		"recurringFrequency": "monthly",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "monthly", body["bill"].(map[string]any)["recurringFrequency"])
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)
	token := testToken(t, tokens, "user-1")

	b := BillReminder{ID: uuid.NewString(), UserID: "user-1", BillName: "Electricity"}
	store.items = append(store.items, b)

	for i := 0; i < 2; i++ {
		status, body := doJSON(t, app, "PATCH", "/api/bills/"+b.ID+"/pay", token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, body["bill"].(map[string]any)["isPaid"])
	}
}

func TestMarkPaidForeignBill(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)

	b := BillReminder{ID: uuid.NewString(), UserID: "user-2"}
	store.items = append(store.items, b)

	token := testToken(t, tokens, "user-1")
	status, body := doJSON(t, app, "PATCH", "/api/bills/"+b.ID+"/pay", token, nil)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "bill reminder not found", body["message"])
	assert.False(t, store.items[0].IsPaid)
}

func TestUpdateNegativeReminderDays(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	store := &fakeStore{}
	app := newApp(store, tokens)
	token := testToken(t, tokens, "user-1")

	b := BillReminder{ID: uuid.NewString(), UserID: "user-1", ReminderDays: 3}
	store.items = append(store.items, b)

	status, _ := doJSON(t, app, "PUT", "/api/bills/"+b.ID, token, fiber.Map{
		"reminderDays": -1,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, 3, store.items[0].ReminderDays)
}
