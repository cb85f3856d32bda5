package split

import "time"

var splitMethods = map[string]bool{
	"equal":      true,
	"percentage": true,
	"exact":      true,
	"shares":     true,
}

// amountTolerance absorbs float rounding when checking that member amounts
// add up to the total.
const amountTolerance = 0.01

type Member struct {
	Name       string   `json:"name"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
	Shares     *float64 `json:"shares,omitempty"`
	IsPaid     bool     `json:"isPaid"`
}

type SplitExpense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user"`
	Title       string    `json:"title"`
	TotalAmount float64   `json:"totalAmount"`
	Category    string    `json:"category"`
	SplitMethod string    `json:"splitMethod"`
	Members     []Member  `json:"members"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	Title       string   `json:"title"`
	TotalAmount *float64 `json:"totalAmount"`
	Category    string   `json:"category"`
	SplitMethod string   `json:"splitMethod"`
	Members     []Member `json:"members"`
	Date        string   `json:"date"`
}

type UpdateRequest struct {
	Title       *string  `json:"title"`
	TotalAmount *float64 `json:"totalAmount"`
	Category    *string  `json:"category"`
	SplitMethod *string  `json:"splitMethod"`
	Members     []Member `json:"members"`
	Date        *string  `json:"date"`
}

// UpdateFields is the validated form of UpdateRequest. A nil Members slice
// leaves the stored members untouched.
type UpdateFields struct {
	Title       *string
	TotalAmount *float64
	Category    *string
	SplitMethod *string
	Members     []Member
	Date        *time.Time
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
