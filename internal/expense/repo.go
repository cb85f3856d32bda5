package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("expense not found")

const expenseColumns = `id, user_id, description, amount, category, date, type, notes, payment_method, created_at, updated_at`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Category,
		&e.Date, &e.Type, &e.Notes, &e.PaymentMethod, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) List(ctx context.Context, userID string, f ListFilter) ([]Expense, error) {
	conds := []string{"user_id = $1::uuid"}
	args := []any{userID}

	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	q := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY date DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, userID, id string) (*Expense, error) {
	e, err := scanExpense(r.Pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1::uuid AND user_id = $2::uuid`,
		id, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *Repository) Insert(ctx context.Context, e *Expense) (*Expense, error) {
	return scanExpense(r.Pool.QueryRow(ctx,
		`INSERT INTO expenses (user_id, description, amount, category, date, type, notes, payment_method)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+expenseColumns,
		e.UserID, e.Description, e.Amount, e.Category, e.Date, e.Type, e.Notes, e.PaymentMethod,
	))
}

// Update applies the non-nil fields in a single owner-scoped statement. The
// owner column is never touched.
func (r *Repository) Update(ctx context.Context, userID, id string, f UpdateFields) (*Expense, error) {
	e, err := scanExpense(r.Pool.QueryRow(ctx,
		`UPDATE expenses
		 SET description = COALESCE($3, description),
		     amount = COALESCE($4, amount),
		     category = COALESCE($5, category),
		     date = COALESCE($6, date),
		     type = COALESCE($7, type),
		     notes = COALESCE($8, notes),
		     payment_method = COALESCE($9, payment_method),
		     updated_at = now()
		 WHERE id = $1::uuid AND user_id = $2::uuid
		 RETURNING `+expenseColumns,
		id, userID, f.Description, f.Amount, f.Category, f.Date, f.Type, f.Notes, f.PaymentMethod,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	ct, err := r.Pool.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1::uuid AND user_id = $2::uuid`,
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

// Total sums expense amounts over an optional inclusive date range. No rows
// means zero, not an error.
func (r *Repository) Total(ctx context.Context, userID string, from, to *time.Time) (float64, error) {
	conds := []string{"user_id = $1::uuid", "type = 'expense'"}
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	var total float64
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE `+strings.Join(conds, " AND "),
		args...,
	).Scan(&total)
	return total, err
}

// Summary groups by type and, for expenses only, by category. Category
// buckets order by total descending with the name as a deterministic
// tie-break.
func (r *Repository) Summary(ctx context.Context, userID string, from, to *time.Time) (*Summary, error) {
	conds := []string{"user_id = $1::uuid"}
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	s := &Summary{
		Stats:         make([]TypeTotal, 0, 2),
		CategoryStats: make([]CategoryTotal, 0),
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT type, COALESCE(SUM(amount), 0), COUNT(*)
		 FROM expenses
		 WHERE `+where+`
		 GROUP BY type
		 ORDER BY type`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t TypeTotal
		if err := rows.Scan(&t.Type, &t.Total, &t.Count); err != nil {
			return nil, err
		}
		s.Stats = append(s.Stats, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := r.Pool.Query(ctx,
		`SELECT category, COALESCE(SUM(amount), 0) AS total, COUNT(*)
		 FROM expenses
		 WHERE `+where+` AND type = 'expense'
		 GROUP BY category
		 ORDER BY total DESC, category ASC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var ct CategoryTotal
		if err := catRows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		s.CategoryStats = append(s.CategoryStats, ct)
	}
	return s, catRows.Err()
}
