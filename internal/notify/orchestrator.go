//go:generate mockgen -source ./orchestrator.go -destination=./mocks/orchestrator.go -package=mock_notify
package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/metrics"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/push"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
)

const fanOutLimit = 16

var ErrRecipientNotFound = repository.ErrRecipientNotFound

type Store interface {
	Create(ctx context.Context, n *repository.Notification) error
}

type Pusher interface {
	SendBatched(ctx context.Context, userID string, n push.Notification) ([]push.BatchResult, error)
}

// Result reports the outcome of notifying one recipient. Push problems never
// fail a notification and only show up in PushErrors.
type Result struct {
	UserID         string  `json:"userId"`
	NotificationID int64   `json:"notificationId,omitempty"`
	PushAttempted  bool    `json:"pushAttempted"`
	PushErrors     []error `json:"-"`
	Err            error   `json:"-"`
}

func (r Result) OK() bool { return r.Err == nil }

type Orchestrator struct {
	store  Store
	pusher Pusher
	logger *zap.Logger
	now    func() time.Time
}

func NewOrchestrator(store Store, pusher Pusher, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:  store,
		pusher: pusher,
		logger: logger,
		now:    time.Now,
	}
}

// Notify stores an in-app notification for userID and then pushes it to the
// user's devices.
func (o *Orchestrator) Notify(ctx context.Context, userID string, ev Event) (Result, error) {
	res := Result{UserID: userID}
	l := o.logger.With(zap.String("user_id", userID))

	content, err := Render(ev)
	if err != nil {
		res.Err = err
		return res, err
	}
	l = l.With(zap.String("event", string(ev.Kind())))

	n := &repository.Notification{
		UserID:    userID,
		Type:      string(content.Type),
		Title:     content.Title,
		Message:   content.Message,
		CreatedAt: o.now().UTC(),
	}
	if content.Link != "" {
		link := content.Link
		n.Link = &link
	}

	if err := o.store.Create(ctx, n); err != nil {
		reason := "store"
		if errors.Is(err, ErrRecipientNotFound) {
			reason = "recipient_not_found"
		}
		metrics.NotificationFailuresTotal.WithLabelValues(reason).Inc()
		l.Error("Failed to create notification", zap.Error(err))

		res.Err = fmt.Errorf("failed to create notification: %w", err)
		return res, res.Err
	}
	res.NotificationID = n.ID
	metrics.NotificationsCreatedTotal.WithLabelValues(n.Type).Inc()

	data, err := Payload(ev)
	if err != nil {
		data = map[string]any{"event": string(ev.Kind())}
	}
	data["type"] = n.Type
	data["notificationId"] = strconv.FormatInt(n.ID, 10)
	if n.Link != nil {
		data["link"] = *n.Link
	}

	batches, err := o.pusher.SendBatched(ctx, userID, push.Notification{
		Title: content.Title,
		Body:  content.Message,
		Data:  data,
	})
	if err != nil {
		res.PushErrors = append(res.PushErrors, err)
	}
	for _, b := range batches {
		if !b.OK() {
			res.PushErrors = append(res.PushErrors, b.Err)
		}
	}
	res.PushAttempted = len(batches) > 0

	if len(res.PushErrors) > 0 {
		l.Warn("Push delivery incomplete", zap.Int64("notification_id", n.ID), zap.Errors("push_errors", res.PushErrors))
	} else {
		l.Debug("Notification delivered", zap.Int64("notification_id", n.ID), zap.Bool("push_attempted", res.PushAttempted))
	}

	return res, nil
}

// NotifyMany notifies every recipient concurrently. Results are in the order
// of userIDs; a failure for one recipient is reported in its own Result.
func (o *Orchestrator) NotifyMany(ctx context.Context, userIDs []string, ev Event) []Result {
	results := make([]Result, len(userIDs))

	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for i, userID := range userIDs {
		g.Go(func() error {
			results[i], _ = o.Notify(ctx, userID, ev)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
