package payments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"comicforge/internal/domain"
	"comicforge/internal/gateway/razorpay"
	"comicforge/internal/repository/orders_repo"
	"comicforge/internal/repository/outbox_repo"
	"comicforge/internal/repository/users_repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the slice of the Razorpay client the service needs.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*razorpay.GatewayOrder, error)
	KeyID() string
}

// OrderQuote is what the browser needs to open the gateway checkout UI.
type OrderQuote struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
}

type PaymentService interface {
	CreateOrder(ctx context.Context, userID int64, planType string) (*OrderQuote, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (int, error)
}

type paymentService struct {
	db         *sql.DB
	userRepo   users_repo.UserRepository
	orderRepo  orders_repo.OrderRepository
	outboxRepo outbox_repo.OutboxRepository
	gateway    Gateway
	secret     string
	configured bool
	logger     *zap.Logger
}

func NewPaymentService(
	db *sql.DB,
	userRepo users_repo.UserRepository,
	orderRepo orders_repo.OrderRepository,
	outboxRepo outbox_repo.OutboxRepository,
	gateway Gateway,
	secret string,
	configured bool,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		db:         db,
		userRepo:   userRepo,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		gateway:    gateway,
		secret:     secret,
		configured: configured,
		logger:     logger,
	}
}

// CreateOrder registers a gateway order for the plan and records it pending.
// The remote call and the local insert are not atomic: a crash in between
// leaves a remote order with no local row, reconciled out of band.
func (s *paymentService) CreateOrder(ctx context.Context, userID int64, planType string) (*OrderQuote, error) {
	if planType == "" {
		planType = domain.DefaultPlanType
	}
	plan, err := domain.PlanByType(planType)
	if err != nil {
		return nil, err
	}

	if !s.configured {
		s.logger.Error("Order creation rejected, gateway credentials missing")
		return nil, domain.ErrGatewayNotConfigured
	}

	receipt := fmt.Sprintf("receipt_%s", uuid.NewString())
	gatewayOrder, err := s.gateway.CreateOrder(ctx, plan.AmountMinor(), domain.PlanCurrency, receipt)
	if err != nil {
		s.logger.Error("Gateway order creation failed",
			zap.Int64("user_id", userID),
			zap.String("plan_type", planType),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.NewString(),
		GatewayID:   gatewayOrder.ID,
		UserID:      userID,
		PlanType:    plan.Type,
		AmountMinor: plan.AmountMinor(),
		Currency:    domain.PlanCurrency,
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orderRepo.CreateTx(ctx, s.db, order); err != nil {
		return nil, fmt.Errorf("failed to persist pending order %s: %w", gatewayOrder.ID, err)
	}

	s.logger.Info("Order created",
		zap.String("order_id", gatewayOrder.ID),
		zap.Int64("user_id", userID),
		zap.String("plan_type", plan.Type),
		zap.Int64("amount_minor", plan.AmountMinor()))

	return &OrderQuote{
		OrderID:  gatewayOrder.ID,
		Amount:   plan.AmountMinor(),
		Currency: domain.PlanCurrency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment authenticates a gateway callback by its HMAC signature and,
// exactly once per order, credits the user. The signature is the sole trust
// boundary; an already completed order is rejected rather than re-credited.
// Returns the credits granted by this transaction, not the running total.
func (s *paymentService) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (int, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return 0, domain.ErrMissingParameters
	}

	if !razorpay.VerifySignature(s.secret, orderID, paymentID, signature) {
		s.logger.Warn("Payment verification rejected, signature mismatch", zap.String("order_id", orderID))
		return 0, domain.ErrInvalidSignature
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	credits, err := s.verifyPaymentTx(ctx, tx, orderID, paymentID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back payment verification", zap.String("order_id", orderID), zap.Error(rbErr))
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit payment verification: %w", err)
	}

	completed, err := s.orderRepo.GetByGatewayIDTx(ctx, s.db, orderID)
	if err != nil || completed.Status != domain.OrderStatusCompleted {
		s.logger.Error("Payment completion did not apply", zap.String("order_id", orderID), zap.Error(err))
		return 0, domain.ErrPersistenceFailure
	}

	s.logger.Info("Payment verified and credited",
		zap.String("order_id", orderID),
		zap.String("payment_id", paymentID),
		zap.Int64("user_id", completed.UserID),
		zap.Int("credits", credits))
	return credits, nil
}

func (s *paymentService) verifyPaymentTx(ctx context.Context, tx *sql.Tx, orderID, paymentID string) (int, error) {
	order, err := s.orderRepo.GetByGatewayIDTx(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.Warn("Payment verification for unknown order", zap.String("order_id", orderID))
			return 0, domain.ErrOrderNotFound
		}
		return 0, fmt.Errorf("failed to look up order %s: %w", orderID, err)
	}

	if order.Status == domain.OrderStatusCompleted {
		s.logger.Info("Payment already processed for order",
			zap.String("order_id", orderID),
			zap.String("payment_id", order.PaymentID))
		return 0, domain.ErrOrderAlreadyProcessed
	}

	plan, err := domain.PlanByType(order.PlanType)
	if err != nil {
		return 0, fmt.Errorf("order %s references unknown plan %s: %w", orderID, order.PlanType, err)
	}

	if err := s.orderRepo.CompleteTx(ctx, tx, order.ID, paymentID); err != nil {
		return 0, fmt.Errorf("failed to complete order %s: %w", orderID, err)
	}

	if err := s.userRepo.GrantCreditsTx(ctx, tx, order.UserID, plan.Credits, plan.SceneLimit); err != nil {
		return 0, fmt.Errorf("failed to grant credits to user %d: %w", order.UserID, err)
	}

	now := time.Now()
	payload, err := json.Marshal(domain.PaymentCompletedEvent{
		OrderID:        order.GatewayID,
		PaymentID:      paymentID,
		UserID:         order.UserID,
		PlanType:       order.PlanType,
		AmountMinor:    order.AmountMinor,
		Currency:       order.Currency,
		CreditsGranted: plan.Credits,
		Timestamp:      now,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode payment event: %w", err)
	}

	outboxMsg := &domain.OutboxMessage{
		ID:        uuid.NewString(),
		OrderID:   order.GatewayID,
		EventType: domain.EventTypePaymentCompleted,
		Payload:   payload,
		Status:    domain.OutboxStatusPending,
		CreatedAt: now,
	}
	if err := s.outboxRepo.CreateMessageTx(ctx, tx, outboxMsg); err != nil {
		return 0, fmt.Errorf("failed to create outbox message for order %s: %w", orderID, err)
	}

	return plan.Credits, nil
}
