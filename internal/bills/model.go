package bills

import "time"

var recurringFrequencies = map[string]bool{
	"monthly":   true,
	"quarterly": true,
	"yearly":    true,
}

type BillReminder struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user"`
	BillName           string    `json:"billName"`
	Amount             float64   `json:"amount"`
	Category           string    `json:"category"`
	DueDate            time.Time `json:"dueDate"`
	ReminderDays       int       `json:"reminderDays"`
	IsPaid             bool      `json:"isPaid"`
	IsRecurring        bool      `json:"isRecurring"`
	RecurringFrequency *string   `json:"recurringFrequency,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	BillName           string   `json:"billName"`
	Amount             *float64 `json:"amount"`
	Category           string   `json:"category"`
	DueDate            string   `json:"dueDate"`
	ReminderDays       *int     `json:"reminderDays"`
	IsRecurring        bool     `json:"isRecurring"`
	RecurringFrequency string   `json:"recurringFrequency"`
}

type UpdateRequest struct {
	BillName           *string  `json:"billName"`
	Amount             *float64 `json:"amount"`
	Category           *string  `json:"category"`
	DueDate            *string  `json:"dueDate"`
	ReminderDays       *int     `json:"reminderDays"`
	IsRecurring        *bool    `json:"isRecurring"`
	RecurringFrequency *string  `json:"recurringFrequency"`
}

// UpdateFields is the validated form of UpdateRequest.
type UpdateFields struct {
	BillName           *string
	Amount             *float64
	Category           *string
	DueDate            *time.Time
	ReminderDays       *int
	IsRecurring        *bool
	RecurringFrequency *string
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
