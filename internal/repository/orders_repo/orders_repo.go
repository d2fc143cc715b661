package orders_repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"comicforge/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *orderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateTx(ctx context.Context, querier domain.Querier, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, gateway_id, user_id, plan_type, amount_minor, currency, payment_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := querier.ExecContext(ctx, query,
		order.ID,
		order.GatewayID,
		order.UserID,
		order.PlanType,
		order.AmountMinor,
		order.Currency,
		order.PaymentID,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.GatewayID, err)
	}
	return nil
}

func (r *orderRepository) GetByGatewayIDTx(ctx context.Context, querier domain.Querier, gatewayID string) (*domain.Order, error) {
	query := `
		SELECT id, gateway_id, user_id, plan_type, amount_minor, currency, payment_id, status, created_at, updated_at
		FROM orders
		WHERE gateway_id = $1
		FOR UPDATE
	`
	order := &domain.Order{}
	err := querier.QueryRowContext(ctx, query, gatewayID).Scan(
		&order.ID,
		&order.GatewayID,
		&order.UserID,
		&order.PlanType,
		&order.AmountMinor,
		&order.Currency,
		&order.PaymentID,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by gateway id %s: %w", gatewayID, err)
	}
	return order, nil
}

func (r *orderRepository) CompleteTx(ctx context.Context, querier domain.Querier, id, paymentID string) error {
	query := `
		UPDATE orders
		SET status = $1, payment_id = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := querier.ExecContext(ctx, query, domain.OrderStatusCompleted, paymentID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to complete order %s: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for order completion: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
