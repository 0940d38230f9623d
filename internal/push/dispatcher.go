package push

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/metrics"
)

type invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type Dispatcher struct {
	tokens    TokenSource
	gateway   Gateway
	batchSize int
	logger    *zap.Logger
}

// NewDispatcher caps batchSize at MaxBatchSize; non-positive values use
// DefaultBatchSize.
func NewDispatcher(tokens TokenSource, gateway Gateway, batchSize int, logger *zap.Logger) *Dispatcher {
	switch {
	case batchSize <= 0:
		batchSize = DefaultBatchSize
	case batchSize > MaxBatchSize:
		logger.Warn("Push batch size above gateway limit, capping",
			zap.Int("requested", batchSize), zap.Int("max", MaxBatchSize))
		batchSize = MaxBatchSize
	}
	return &Dispatcher{
		tokens:    tokens,
		gateway:   gateway,
		batchSize: batchSize,
		logger:    logger,
	}
}

// SendBatched delivers n to every active device of userID.
//
// A user without devices gets an empty result. Batches are posted one after
// another and a failed batch is recorded without stopping the rest. The
// returned error is only set when the tokens could not be resolved.
func (d *Dispatcher) SendBatched(ctx context.Context, userID string, n Notification) ([]BatchResult, error) {
	l := d.logger.With(zap.String("user_id", userID))

	tokens, err := d.tokens.ActiveTokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve device tokens: %w", err)
	}
	if len(tokens) == 0 {
		l.Debug("No active devices, skipping push")
		return []BatchResult{}, nil
	}

	messages := make([]Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, newMessage(token, n))
	}

	results := make([]BatchResult, 0, (len(messages)+d.batchSize-1)/d.batchSize)
	var stale []string

	for i, start := 0, 0; start < len(messages); i, start = i+1, start+d.batchSize {
		end := min(start+d.batchSize, len(messages))
		batch := messages[start:end]

		res := BatchResult{Index: i, Size: len(batch)}
		tickets, err := d.gateway.Send(ctx, batch)
		if err != nil {
			res.Err = fmt.Errorf("%w: batch %d: %w", ErrBatchFailed, i, err)
			metrics.PushBatchesTotal.WithLabelValues("failed").Inc()
			l.Warn("Push batch failed", zap.Int("batch", i), zap.Int("size", len(batch)), zap.Error(err))
		} else {
			res.InvalidTokens = invalidTokens(batch, tickets)
			stale = append(stale, res.InvalidTokens...)
			metrics.PushBatchesTotal.WithLabelValues("ok").Inc()
			metrics.PushMessagesTotal.Add(float64(len(batch)))
		}
		results = append(results, res)
	}

	if len(stale) > 0 {
		l.Info("Gateway reported unregistered devices", zap.Int("count", len(stale)))
		if inv, ok := d.tokens.(invalidator); ok {
			if err := inv.Invalidate(ctx, userID); err != nil {
				l.Warn("Failed to invalidate cached tokens", zap.Error(err))
			}
		}
	}

	return results, nil
}
