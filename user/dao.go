package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"room-booking/database"

	"github.com/google/uuid"
)

var ErrDuplicateEmail = errors.New("a user with this email already exists")

func (a *Accessor) CreateUser(ctx context.Context, user User) (*User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	name := strings.TrimSpace(user.Name)
	email := strings.ToLower(strings.TrimSpace(user.Email))

	query := `INSERT INTO users (id, name, email, is_admin) VALUES ($1, $2, $3, $4)`
	if _, err := a.db.ExecContext(ctx, query, id, name, email, user.IsAdmin); err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &User{
		ID:      id,
		Name:    name,
		Email:   email,
		IsAdmin: user.IsAdmin,
	}, nil
}

// RegisterUser inserts a regular user, or an administrator when the table is
// still empty. The table lock serialises concurrent first registrations.
func (a *Accessor) RegisterUser(ctx context.Context, user User) (*User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	name := strings.TrimSpace(user.Name)
	email := strings.ToLower(strings.TrimSpace(user.Email))

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, fmt.Errorf("lock users: %w", err)
	}

	var isAdmin bool
	query := `INSERT INTO users (id, name, email, is_admin) SELECT $1, $2, $3, NOT EXISTS (SELECT 1 FROM users) RETURNING is_admin`
	if err := tx.QueryRowContext(ctx, query, id, name, email).Scan(&isAdmin); err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &User{
		ID:      id,
		Name:    name,
		Email:   email,
		IsAdmin: isAdmin,
	}, nil
}

func (a *Accessor) GetUsers(ctx context.Context) ([]User, error) {
	var users []User

	query := `SELECT id, name, email, is_admin FROM users ORDER BY name`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.IsAdmin); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetUser returns nil, nil when no user has the given id.
func (a *Accessor) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User

	query := `SELECT id, name, email, is_admin FROM users WHERE id = $1`
	row := a.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	return &user, nil
}

func (a *Accessor) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan: %w", err)
	}
	return count, nil
}
