package users_repo

import (
	"context"

	"comicforge/internal/domain"
)

type UserRepository interface {
	CreateTx(ctx context.Context, querier domain.Querier, user *domain.User) (int64, error)
	GetByEmailTx(ctx context.Context, querier domain.Querier, email string) (*domain.User, error)
	GetByIDTx(ctx context.Context, querier domain.Querier, id int64) (*domain.User, error)
	GrantCreditsTx(ctx context.Context, querier domain.Querier, userID int64, credits, sceneLimit int) error
}
