package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

// Create inserts the user and seeds the default categories in one
// transaction. Emails are stored lowercased; the unique index on
// lower(email) maps to ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, u *User) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name)
		 VALUES (lower($1), $2, $3)
		 RETURNING id, email, monthly_income, monthly_budget, currency, categories, created_at, updated_at`,
		u.Email, u.PasswordHash, u.Name,
	).Scan(&u.ID, &u.Email, &u.MonthlyIncome, &u.MonthlyBudget, &u.Currency, &u.Categories, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	for _, name := range defaultCategories {
		if _, err := tx.Exec(ctx,
			`INSERT INTO categories (user_id, name, is_default) VALUES ($1::uuid, $2, TRUE)`,
			u.ID, name,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, monthly_income, monthly_budget, currency, categories, created_at, updated_at
		 FROM users
		 WHERE email = lower($1)`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.MonthlyIncome, &u.MonthlyBudget, &u.Currency, &u.Categories, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, monthly_income, monthly_budget, currency, categories, created_at, updated_at
		 FROM users
		 WHERE id = $1::uuid`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.MonthlyIncome, &u.MonthlyBudget, &u.Currency, &u.Categories, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile applies the non-nil fields. A nil Categories slice leaves the
// stored list untouched.
func (r *Repository) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error) {
	var u User
	err := r.Pool.QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     monthly_income = COALESCE($3, monthly_income),
		     monthly_budget = COALESCE($4, monthly_budget),
		     currency = COALESCE($5, currency),
		     categories = COALESCE($6, categories),
		     updated_at = now()
		 WHERE id = $1::uuid
		 RETURNING id, email, name, monthly_income, monthly_budget, currency, categories, created_at, updated_at`,
		id, req.Name, req.MonthlyIncome, req.MonthlyBudget, req.Currency, req.Categories,
	).Scan(&u.ID, &u.Email, &u.Name, &u.MonthlyIncome, &u.MonthlyBudget, &u.Currency, &u.Categories, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ct, err := r.Pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1::uuid`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
