package outbox

import (
	"context"
	"database/sql"
	"time"

	"comicforge/internal/domain"
	kafka_infra "comicforge/internal/infrastructure/kafka"
	"comicforge/internal/repository/outbox_repo"

	"go.uber.org/zap"
)

const batchSize = 10

// Processor polls pending outbox rows and publishes them to Kafka, marking
// each row SENT in its own transaction. A crash between publish and mark
// yields at-least-once delivery; consumers dedupe on order id.
type Processor struct {
	db           *sql.DB
	outboxRepo   outbox_repo.OutboxRepository
	producer     kafka_infra.Producer
	topic        string
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *zap.Logger
}

func NewProcessor(
	db *sql.DB,
	outboxRepo outbox_repo.OutboxRepository,
	producer kafka_infra.Producer,
	topic string,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		db:           db,
		outboxRepo:   outboxRepo,
		producer:     producer,
		topic:        topic,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       logger,
	}
}

// Start blocks until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("Starting outbox processor", zap.String("topic", p.topic))
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox processor stopping")
			return
		case <-ticker.C:
			p.processOutboxMessages(ctx)
		}
	}
}

func (p *Processor) processOutboxMessages(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	defer cancel()

	messages, err := p.outboxRepo.GetPendingMessages(queryCtx, p.db, batchSize)
	if err != nil {
		p.logger.Error("Failed to get pending outbox messages", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		return
	}

	p.logger.Info("Found pending outbox messages", zap.Int("count", len(messages)))

	for _, msg := range messages {
		tx, err := p.db.BeginTx(ctx, nil)
		if err != nil {
			p.logger.Error("Failed to begin transaction for outbox message", zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}

		if err := p.producer.Produce(ctx, p.topic, msg.Payload); err != nil {
			p.logger.Error("Failed to send message to Kafka",
				zap.String("message_id", msg.ID),
				zap.String("topic", p.topic),
				zap.Error(err))
			tx.Rollback()
			continue
		}

		if err := p.outboxRepo.UpdateMessageStatusTx(ctx, tx, msg.ID, domain.OutboxStatusSent); err != nil {
			p.logger.Error("Failed to update outbox message status to SENT", zap.String("message_id", msg.ID), zap.Error(err))
			tx.Rollback()
			continue
		}

		if err := tx.Commit(); err != nil {
			p.logger.Error("Failed to commit transaction for outbox message", zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}

		p.logger.Info("Outbox message published", zap.String("message_id", msg.ID), zap.String("topic", p.topic))
	}
}
