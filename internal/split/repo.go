package split

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("split expense not found")
	ErrInvalidIndex = errors.New("invalid member index")
)

const columns = `id, user_id, title, total_amount, category, split_method, members, date, created_at, updated_at`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func scanSplit(row pgx.Row) (*SplitExpense, error) {
	var s SplitExpense
	var members []byte
	err := row.Scan(
		&s.ID, &s.UserID, &s.Title, &s.TotalAmount, &s.Category,
		&s.SplitMethod, &members, &s.Date, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(members, &s.Members); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) List(ctx context.Context, userID string) ([]SplitExpense, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+columns+` FROM split_expenses WHERE user_id = $1::uuid ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SplitExpense, 0)
	for rows.Next() {
		s, err := scanSplit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, s *SplitExpense) (*SplitExpense, error) {
	members, err := json.Marshal(s.Members)
	if err != nil {
		return nil, err
	}
	return scanSplit(r.Pool.QueryRow(ctx,
		`INSERT INTO split_expenses (user_id, title, total_amount, category, split_method, members, date)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6::jsonb, $7)
		 RETURNING `+columns,
		s.UserID, s.Title, s.TotalAmount, s.Category, s.SplitMethod, members, s.Date,
	))
}

func (r *Repository) Update(ctx context.Context, userID, id string, f UpdateFields) (*SplitExpense, error) {
	var members []byte
	if f.Members != nil {
		var err error
		members, err = json.Marshal(f.Members)
		if err != nil {
			return nil, err
		}
	}
	s, err := scanSplit(r.Pool.QueryRow(ctx,
		`UPDATE split_expenses
		 SET title = COALESCE($3, title),
		     total_amount = COALESCE($4, total_amount),
		     category = COALESCE($5, category),
		     split_method = COALESCE($6, split_method),
		     members = COALESCE($7::jsonb, members),
		     date = COALESCE($8, date),
		     updated_at = now()
		 WHERE id = $1::uuid AND user_id = $2::uuid
		 RETURNING `+columns,
		id, userID, f.Title, f.TotalAmount, f.Category, f.SplitMethod, members, f.Date,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	ct, err := r.Pool.Exec(ctx,
		`DELETE FROM split_expenses WHERE id = $1::uuid AND user_id = $2::uuid`,
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

// ToggleMemberPaid flips one member's isPaid flag inside the database with a
// single jsonb_set statement, so concurrent toggles on different members can
// never overwrite each other. The bound check rides in the same predicate;
// on a miss a follow-up owner-scoped lookup distinguishes a bad index from a
// missing record.
func (r *Repository) ToggleMemberPaid(ctx context.Context, userID, id string, index int) (*SplitExpense, error) {
	s, err := scanSplit(r.Pool.QueryRow(ctx,
		`UPDATE split_expenses
		 SET members = jsonb_set(
		         members,
		         ARRAY[$3::text, 'isPaid'],
		         to_jsonb(NOT COALESCE((members->$3::int->>'isPaid')::boolean, FALSE))
		     ),
		     updated_at = now()
		 WHERE id = $1::uuid AND user_id = $2::uuid
		   AND $3::int >= 0 AND jsonb_array_length(members) > $3::int
		 RETURNING `+columns,
		id, userID, index,
	))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var length int
	err = r.Pool.QueryRow(ctx,
		`SELECT jsonb_array_length(members) FROM split_expenses WHERE id = $1::uuid AND user_id = $2::uuid`,
		id, userID,
	).Scan(&length)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrInvalidIndex
}
