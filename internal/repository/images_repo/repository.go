package images_repo

import (
	"context"

	"comicforge/internal/domain"
)

type ImageRepository interface {
	SaveTx(ctx context.Context, querier domain.Querier, userID int64, imageURL string) error
	ListByUserTx(ctx context.Context, querier domain.Querier, userID int64) ([]domain.UserImage, error)
}
