package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lending_service/internal/models"

	"github.com/google/uuid"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserSQLite)(nil)

const (
	insertUserSQL     = `INSERT INTO users (id, name, email) VALUES (?, ?, ?)`
	selectUsersSQL    = `SELECT id, name, email FROM users ORDER BY rowid`
	selectUserByIDSQL = `SELECT id, name, email FROM users WHERE id = ?`
	updateUserSQL     = `UPDATE users SET name = COALESCE(?, name), email = COALESCE(?, email) WHERE id = ?`
	deleteUserSQL     = `DELETE FROM users WHERE id = ? RETURNING id, name, email`
)

// Insert stores a new user and assigns its generated ID.
func (r *UserSQLite) Insert(ctx context.Context, u *models.User) error {
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, insertUserSQL, id, u.Name, u.Email); err != nil {
		return fmt.Errorf("insert user %q: %w", u.Name, err)
	}
	u.ID = id
	return nil
}

func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a user by ID. Returns ErrNotFound if absent.
func (r *UserSQLite) Get(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user %q: %w", id, err)
	}
	return u, nil
}

// Update applies the non-nil patch fields. An empty patch only checks existence.
func (r *UserSQLite) Update(ctx context.Context, id string, p models.UserPatch) error {
	res, err := r.db.ExecContext(ctx, updateUserSQL, nullableArg(p.Name), nullableArg(p.Email), id)
	if err != nil {
		return fmt.Errorf("update user %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserSQLite) Delete(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, deleteUserSQL, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("delete user %q: %w", id, err)
	}
	return u, nil
}
