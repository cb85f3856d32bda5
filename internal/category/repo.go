package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrProtected = errors.New("default categories cannot be deleted")
)

const columns = `id, user_id, name, icon, color, is_default, created_at`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func scanCategory(row pgx.Row) (*Category, error) {
	var cat Category
	err := row.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.Color, &cat.IsDefault, &cat.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// List returns categories in creation order.
func (r *Repository) List(ctx context.Context, userID string) ([]Category, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+columns+` FROM categories WHERE user_id = $1::uuid ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cat)
	}
	return out, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, cat *Category) (*Category, error) {
	return scanCategory(r.Pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, icon, color)
		 VALUES ($1::uuid, $2, $3, $4)
		 RETURNING `+columns,
		cat.UserID, cat.Name, cat.Icon, cat.Color,
	))
}

func (r *Repository) Update(ctx context.Context, userID, id string, req UpdateRequest) (*Category, error) {
	cat, err := scanCategory(r.Pool.QueryRow(ctx,
		`UPDATE categories
		 SET name = COALESCE($3, name),
		     icon = COALESCE($4, icon),
		     color = COALESCE($5, color)
		 WHERE id = $1::uuid AND user_id = $2::uuid
		 RETURNING `+columns,
		id, userID, req.Name, req.Icon, req.Color,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cat, err
}

// Delete refuses to remove default categories. The is_default guard sits in
// the DELETE predicate itself; a follow-up owner-scoped lookup tells a
// protected row apart from a missing one.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	ct, err := r.Pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1::uuid AND user_id = $2::uuid AND is_default = FALSE`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	var isDefault bool
	err = r.Pool.QueryRow(ctx,
		`SELECT is_default FROM categories WHERE id = $1::uuid AND user_id = $2::uuid`,
		id, userID,
	).Scan(&isDefault)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrProtected
}
