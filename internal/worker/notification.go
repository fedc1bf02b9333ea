// Package worker runs background consumers.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"campusevents/internal/domain"
)

// Consumer feeds message bodies to handle until ctx is cancelled.
type Consumer interface {
	Consume(ctx context.Context, handle func(context.Context, []byte) error) error
}

// NotificationWorker decodes registration notifications from a Consumer and
// hands them to a domain.NotificationHandler.
type NotificationWorker struct {
	consumer Consumer
	handler  domain.NotificationHandler
	logger   *slog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewNotificationWorker(consumer Consumer, handler domain.NotificationHandler, logger *slog.Logger) *NotificationWorker {
	return &NotificationWorker{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins consuming in the background. Call Stop to end it.
func (w *NotificationWorker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go func() {
		defer close(w.done)
		w.logger.Info("notification worker started")
		if err := w.consumer.Consume(cctx, w.handle); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("notification worker stopped", "err", err)
			return
		}
		w.logger.Info("notification worker stopped")
	}()
}

// Stop cancels consumption and waits for the consumer to return.
func (w *NotificationWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

func (w *NotificationWorker) handle(ctx context.Context, body []byte) error {
	var n domain.RegistrationNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}
	if err := w.handler.HandleRegistration(ctx, &n); err != nil {
		w.logger.ErrorContext(ctx, "registration notification failed",
			"registration_id", n.RegistrationID, "err", err)
		return err
	}
	w.logger.InfoContext(ctx, "registration notification delivered", "registration_id", n.RegistrationID)
	return nil
}
