package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/sirupsen/logrus"
)

// UserRepository provides read access to users
type UserRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewUserRepository initializes a new user repository
func NewUserRepository(db *sql.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		user models.User
		role string
	)
	query := `
		SELECT id, username, email, password_hash, role
		FROM bank.users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, translateError(err, "failed to find user")
	}
	user.Role = models.Role(role)
	return user, nil
}

// FindEmail returns the email address of a user
func (r *UserRepository) FindEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `SELECT email FROM bank.users WHERE id = $1`, userID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrUserNotFound
	}
	if err != nil {
		return "", translateError(err, "failed to find user email")
	}
	return email, nil
}
