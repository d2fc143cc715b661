package users_repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"comicforge/internal/domain"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateTx(ctx context.Context, querier domain.Querier, user *domain.User) (int64, error) {
	query := `
		INSERT INTO users (email, username, credits, scene_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := querier.QueryRowContext(ctx, query,
		user.Email, user.Username, user.Credits, user.SceneLimit, user.CreatedAt, user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return 0, domain.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return id, nil
}

func (r *userRepository) GetByEmailTx(ctx context.Context, querier domain.Querier, email string) (*domain.User, error) {
	query := `
		SELECT id, email, username, credits, scene_limit, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return scanUser(querier.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByIDTx(ctx context.Context, querier domain.Querier, id int64) (*domain.User, error) {
	query := `
		SELECT id, email, username, credits, scene_limit, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return scanUser(querier.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GrantCreditsTx(ctx context.Context, querier domain.Querier, userID int64, credits, sceneLimit int) error {
	query := `
		UPDATE users
		SET credits = credits + $1, scene_limit = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := querier.ExecContext(ctx, query, credits, sceneLimit, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to grant credits to user %d: %w", userID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for credit grant: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Credits,
		&user.SceneLimit,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}
