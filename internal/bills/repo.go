package bills

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("bill reminder not found")

const columns = `id, user_id, bill_name, amount, category, due_date, reminder_days, is_paid, is_recurring, recurring_frequency, created_at, updated_at`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func scanBill(row pgx.Row) (*BillReminder, error) {
	var b BillReminder
	err := row.Scan(
		&b.ID, &b.UserID, &b.BillName, &b.Amount, &b.Category, &b.DueDate,
		&b.ReminderDays, &b.IsPaid, &b.IsRecurring, &b.RecurringFrequency,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns bills soonest-due first.
func (r *Repository) List(ctx context.Context, userID string) ([]BillReminder, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+columns+` FROM bill_reminders WHERE user_id = $1::uuid ORDER BY due_date ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BillReminder, 0)
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, b *BillReminder) (*BillReminder, error) {
	return scanBill(r.Pool.QueryRow(ctx,
		`INSERT INTO bill_reminders (user_id, bill_name, amount, category, due_date, reminder_days, is_recurring, recurring_frequency)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columns,
		b.UserID, b.BillName, b.Amount, b.Category, b.DueDate, b.ReminderDays, b.IsRecurring, b.RecurringFrequency,
	))
}

func (r *Repository) Update(ctx context.Context, userID, id string, f UpdateFields) (*BillReminder, error) {
	b, err := scanBill(r.Pool.QueryRow(ctx,
		`UPDATE bill_reminders
		 SET bill_name = COALESCE($3, bill_name),
		     amount = COALESCE($4, amount),
		     category = COALESCE($5, category),
		     due_date = COALESCE($6, due_date),
		     reminder_days = COALESCE($7, reminder_days),
		     is_recurring = COALESCE($8, is_recurring),
		     recurring_frequency = COALESCE($9, recurring_frequency),
		     updated_at = now()
		 WHERE id = $1::uuid AND user_id = $2::uuid
		 RETURNING `+columns,
		id, userID, f.BillName, f.Amount, f.Category, f.DueDate, f.ReminderDays, f.IsRecurring, f.RecurringFrequency,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	ct, err := r.Pool.Exec(ctx,
		`DELETE FROM bill_reminders WHERE id = $1::uuid AND user_id = $2::uuid`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid sets is_paid in one owner-scoped statement; repeating the call is
// a no-op.
func (r *Repository) MarkPaid(ctx context.Context, userID, id string) (*BillReminder, error) {
	b, err := scanBill(r.Pool.QueryRow(ctx,
		`UPDATE bill_reminders
		 SET is_paid = TRUE, updated_at = now()
		 WHERE id = $1::uuid AND user_id = $2::uuid
		 RETURNING `+columns,
		id, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}
