package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/metrics"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/storage"
)

const defaultClaimTimeout = 2 * time.Minute

var errPublisherStopped = errors.New("publisher shutdown during batch processing")

// PublisherConfig controls the outbox polling loop. A task left in
// PROCESSING for longer than ClaimTimeout is claimed again.
type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	ClaimTimeout time.Duration
}

// Publisher drains the outbox of lifecycle events into the producer.
type Publisher struct {
	db             db.DB
	repo           storage.OutboxTaskRepository
	producer       Producer
	config         PublisherConfig
	logger         *zap.Logger
	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
	timeNow        func() time.Time
}

func NewPublisher(db db.DB, repo storage.OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	if config.ClaimTimeout <= 0 {
		config.ClaimTimeout = defaultClaimTimeout
	}
	return &Publisher{
		db:             db,
		repo:           repo,
		producer:       producer,
		config:         config,
		logger:         logger,
		shutdownSignal: make(chan struct{}),
		timeNow:        time.Now,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("Starting outbox publisher",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize))
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error("Outbox publisher failed to process batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.logger.Info("Outbox publisher received shutdown signal, stopping")
			return
		case <-ctx.Done():
			p.logger.Info("Outbox publisher context cancelled, stopping")
			return
		}
	}
}

func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		p.logger.Info("Initiating outbox publisher shutdown")
		close(p.shutdownSignal)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.logger.Info("Outbox publisher shutdown complete")
		case <-shutdownCtx.Done():
			p.logger.Warn("Outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.logger.Error("Failed to close producer", zap.Error(err))
		}
	})
}

// processBatch claims tasks under row locks, marks them PROCESSING and sends
// them after the claim is committed. Tasks not sent before a shutdown are
// handed back as CREATED.
func (p *Publisher) processBatch(ctx context.Context) error {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for fetching tasks: %w", err)
	}

	staleBefore := p.timeNow().Add(-p.config.ClaimTimeout)
	tasks, err := p.repo.GetProcessableTasksTx(ctx, tx, p.config.BatchSize, p.config.MaxAttempts, staleBefore)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to get processable tasks: %w", err)
	}

	if len(tasks) == 0 {
		return tx.Commit(ctx)
	}

	p.logger.Debug("Fetched outbox tasks", zap.Int("count", len(tasks)))

	for _, task := range tasks {
		err := p.repo.UpdateTaskStatusTx(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction after marking tasks as PROCESSING: %w", err)
	}

	for i, task := range tasks {
		select {
		case <-p.shutdownSignal:
			p.logger.Info("Shutdown during batch processing", zap.Stringer("task_id", task.ID))
			p.release(ctx, tasks[i:])
			return errPublisherStopped
		case <-ctx.Done():
			p.release(ctx, tasks[i:])
			return ctx.Err()
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Warn("Failed to process outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}

	return nil
}

// release returns claimed but unsent tasks to CREATED. It runs on a context
// that outlives the cancelled one.
func (p *Publisher) release(ctx context.Context, tasks []*repository.OutboxTask) {
	ctx = context.WithoutCancel(ctx)
	for _, task := range tasks {
		err := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusCreated, task.Attempts, task.LastError, nil)
		if err != nil {
			p.logger.Error("Failed to release outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}
	p.logger.Info("Released unsent outbox tasks", zap.Int("count", len(tasks)))
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	err := p.producer.SendMessage(ctx, task.Topic, messageKey(task), task.Payload)

	// the outcome is recorded even when ctx was cancelled during the send
	ctx = context.WithoutCancel(ctx)
	if err != nil {
		metrics.OutboxPublishedTotal.WithLabelValues("failed").Inc()
		attempts := task.Attempts + 1
		errMsg := err.Error()

		if attempts >= p.config.MaxAttempts {
			p.logger.Error("Outbox task reached max attempts",
				zap.Stringer("task_id", task.ID), zap.Int("attempts", attempts))
		}

		updateErr := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusFailed, attempts, &errMsg, nil)
		if updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w", updateErr)
		}
		return err
	}

	metrics.OutboxPublishedTotal.WithLabelValues("done").Inc()
	now := p.timeNow().UTC()
	if err := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}
	return nil
}

// messageKey keys lifecycle events by subject so one subject's events stay
// ordered within a partition.
func messageKey(task *repository.OutboxTask) []byte {
	var payload repository.LifecycleEventPayload
	if err := json.Unmarshal(task.Payload, &payload); err == nil && payload.SubjectID != "" {
		return []byte(payload.SubjectID)
	}
	return []byte(task.ID.String())
}
