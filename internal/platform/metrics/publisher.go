package metrics

import (
	"context"

	"campusevents/internal/domain"
)

type countingPublisher struct {
	next    domain.NotificationPublisher
	metrics *Metrics
}

// CountFailures wraps next so failed publishes increment NotificationsFailed.
func CountFailures(next domain.NotificationPublisher, m *Metrics) domain.NotificationPublisher {
	return &countingPublisher{next: next, metrics: m}
}

func (p *countingPublisher) PublishRegistration(ctx context.Context, n *domain.RegistrationNotification) error {
	err := p.next.PublishRegistration(ctx, n)
	if err != nil {
		p.metrics.IncrementNotificationsFailed()
	}
	return err
}
