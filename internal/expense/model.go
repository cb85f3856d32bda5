package expense

import "time"

var expenseTypes = map[string]bool{
	"income":  true,
	"expense": true,
}

var paymentMethods = map[string]bool{
	"cash":          true,
	"card":          true,
	"upi":           true,
	"bank-transfer": true,
	"other":         true,
}

type Expense struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	Date          time.Time `json:"date"`
	Type          string    `json:"type"`
	Notes         string    `json:"notes,omitempty"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	Description   string   `json:"description"`
	Amount        *float64 `json:"amount"`
	Category      string   `json:"category"`
	Date          string   `json:"date"`
	Type          string   `json:"type"`
	Notes         string   `json:"notes"`
	PaymentMethod string   `json:"paymentMethod"`
}

type UpdateRequest struct {
	Description   *string  `json:"description"`
	Amount        *float64 `json:"amount"`
	Category      *string  `json:"category"`
	Date          *string  `json:"date"`
	Type          *string  `json:"type"`
	Notes         *string  `json:"notes"`
	PaymentMethod *string  `json:"paymentMethod"`
}

// UpdateFields is the validated form of UpdateRequest handed to the store.
// Nil fields are left unchanged.
type UpdateFields struct {
	Description   *string
	Amount        *float64
	Category      *string
	Date          *time.Time
	Type          *string
	Notes         *string
	PaymentMethod *string
}

// ListFilter narrows List queries. From/To are inclusive; a zero Limit means
// no cap.
type ListFilter struct {
	Category string
	Type     string
	From     *time.Time
	To       *time.Time
	Limit    int
}

type TypeTotal struct {
	Type  string  `json:"type"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

type Summary struct {
	Stats         []TypeTotal     `json:"stats"`
	CategoryStats []CategoryTotal `json:"categoryStats"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
