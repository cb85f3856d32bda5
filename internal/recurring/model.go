package recurring

import "time"

var frequencies = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

// RecurringExpense is a template for expenses generated on a schedule.
// Materialization is handled by an external job; lastProcessed is stored and
// reported but never advanced here.
type RecurringExpense struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user"`
	Description   string     `json:"description"`
	Amount        float64    `json:"amount"`
	Category      string     `json:"category"`
	Frequency     string     `json:"frequency"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	IsActive      bool       `json:"isActive"`
	LastProcessed *time.Time `json:"lastProcessed,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CreateRequest struct {
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Frequency   string   `json:"frequency"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
}

type UpdateRequest struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Frequency   *string  `json:"frequency"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
}

// UpdateFields is the validated form of UpdateRequest. ClearEndDate wins
// over EndDate and resets the expense to open-ended.
type UpdateFields struct {
	Description  *string
	Amount       *float64
	Category     *string
	Frequency    *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
