package images_repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"comicforge/internal/domain"
)

type imageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) *imageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) SaveTx(ctx context.Context, querier domain.Querier, userID int64, imageURL string) error {
	query := `
		INSERT INTO user_images (user_id, image_url, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := querier.ExecContext(ctx, query, userID, imageURL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save image for user %d: %w", userID, err)
	}
	return nil
}

func (r *imageRepository) ListByUserTx(ctx context.Context, querier domain.Querier, userID int64) ([]domain.UserImage, error) {
	query := `
		SELECT id, user_id, image_url, created_at
		FROM user_images
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images for user %d: %w", userID, err)
	}
	defer rows.Close()

	var images []domain.UserImage
	for rows.Next() {
		img := domain.UserImage{}
		if err := rows.Scan(&img.ID, &img.UserID, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user images: %w", err)
	}
	return images, nil
}
