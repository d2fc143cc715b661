package orders_repo

import (
	"context"

	"comicforge/internal/domain"
)

type OrderRepository interface {
	CreateTx(ctx context.Context, querier domain.Querier, order *domain.Order) error
	GetByGatewayIDTx(ctx context.Context, querier domain.Querier, gatewayID string) (*domain.Order, error)
	CompleteTx(ctx context.Context, querier domain.Querier, id, paymentID string) error
}
