package recurring

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("recurring expense not found")

const columns = `id, user_id, description, amount, category, frequency, start_date, end_date, is_active, last_processed, created_at, updated_at`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func scanRecurring(row pgx.Row) (*RecurringExpense, error) {
	var r RecurringExpense
	err := row.Scan(
		&r.ID, &r.UserID, &r.Description, &r.Amount, &r.Category, &r.Frequency,
		&r.StartDate, &r.EndDate, &r.IsActive, &r.LastProcessed, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Repository) List(ctx context.Context, userID string) ([]RecurringExpense, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+columns+` FROM recurring_expenses WHERE user_id = $1::uuid ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecurringExpense, 0)
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *re)
	}
	return out, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, re *RecurringExpense) (*RecurringExpense, error) {
	return scanRecurring(r.Pool.QueryRow(ctx,
		`INSERT INTO recurring_expenses (user_id, description, amount, category, frequency, start_date, end_date)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		 RETURNING `+columns,
		re.UserID, re.Description, re.Amount, re.Category, re.Frequency, re.StartDate, re.EndDate,
	))
}

func (r *Repository) Update(ctx context.Context, userID, id string, f UpdateFields) (*RecurringExpense, error) {
	re, err := scanRecurring(r.Pool.QueryRow(ctx,
		`UPDATE recurring_expenses
		 SET description = COALESCE($3, description),
		     amount = COALESCE($4, amount),
		     category = COALESCE($5, category),
		     frequency = COALESCE($6, frequency),
		     start_date = COALESCE($7, start_date),
		     end_date = CASE WHEN $9 THEN NULL ELSE COALESCE($8, end_date) END,
		     updated_at = now()
		 WHERE id = $1::uuid AND user_id = $2::uuid
		 RETURNING `+columns,
		id, userID, f.Description, f.Amount, f.Category, f.Frequency, f.StartDate, f.EndDate, f.ClearEndDate,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return re, err
}

func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	ct, err := r.Pool.Exec(ctx,
		`DELETE FROM recurring_expenses WHERE id = $1::uuid AND user_id = $2::uuid`,
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

// ToggleActive flips is_active in one owner-scoped statement, so two
// concurrent toggles serialize at the row level instead of racing through a
// read-modify-write.
func (r *Repository) ToggleActive(ctx context.Context, userID, id string) (*RecurringExpense, error) {
	re, err := scanRecurring(r.Pool.QueryRow(ctx,
		`UPDATE recurring_expenses
		 SET is_active = NOT is_active, updated_at = now()
		 WHERE id = $1::uuid AND user_id = $2::uuid
		 RETURNING `+columns,
		id, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return re, err
}
