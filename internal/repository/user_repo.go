package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hangman/internal/database"
	"hangman/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, name, email, created_at"

// CreateUser inserts a new user. A taken name yields ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	createdAt := time.Now().UTC()
	query := `
		INSERT INTO users (name, email, created_at)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, name, email, createdAt)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
	}, nil
}

// GetUserByName retrieves a user by exact display name. It returns nil, nil
// when no such user exists.
func (r *UserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE name = ?"
	return r.getUser(ctx, query, name)
}

// GetUserByID retrieves a user by ID. It returns nil, nil when no such user exists.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.getUser(ctx, query, id)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetAllUsers retrieves all users in creation order
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY id"
	return r.listUsers(ctx, query)
}

// GetUsersWithUnfinishedGames returns users that have an email address and
// at least one game with game_over false
func (r *UserRepository) GetUsersWithUnfinishedGames(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.created_at
		FROM users u
		WHERE u.email <> ''
		  AND EXISTS (SELECT 1 FROM games g WHERE g.user_id = u.id AND g.game_over = ?)
		ORDER BY u.id
	`
	return r.listUsers(ctx, query, false)
}

func (r *UserRepository) listUsers(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// RestoreUser inserts a user with its original ID, used when importing a backup
func (r *UserRepository) RestoreUser(ctx context.Context, tx database.DBTX, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.CreatedAt.UTC()); err != nil {
		if tx.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to restore user %s: %w", user.Name, err)
	}
	return nil
}
