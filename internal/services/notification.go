package services

import (
	"context"
	"fmt"

	"campusevents/internal/domain"
)

const eventDateLayout = "Monday, 02 Jan 2006 15:04 MST"

type registrationNotifier struct {
	students domain.StudentRepository
	events   domain.EventRepository
	emails   domain.EmailService
}

// NewRegistrationNotifier returns the handler that turns a registration
// notification into a confirmation email for the student.
func NewRegistrationNotifier(students domain.StudentRepository, events domain.EventRepository, emails domain.EmailService) domain.NotificationHandler {
	return &registrationNotifier{students: students, events: events, emails: emails}
}

func (n *registrationNotifier) HandleRegistration(ctx context.Context, msg *domain.RegistrationNotification) error {
	if msg == nil {
		return fmt.Errorf("registration notification is nil")
	}
	student, err := n.students.GetByID(ctx, msg.StudentID)
	if err != nil {
		return fmt.Errorf("failed to load student %s: %w", msg.StudentID, err)
	}
	event, err := n.events.GetByID(ctx, msg.EventID)
	if err != nil {
		return fmt.Errorf("failed to load event %s: %w", msg.EventID, err)
	}
	return n.emails.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{
		Email:         student.Email,
		StudentName:   student.Name,
		EventTitle:    event.Title,
		EventDate:     event.Date.Format(eventDateLayout),
		EventLocation: event.Location,
		Status:        msg.Status,
	})
}

type inProcessPublisher struct {
	handler domain.NotificationHandler
}

// NewInProcessPublisher delivers notifications synchronously through handler.
// It is used when no message broker is configured.
func NewInProcessPublisher(handler domain.NotificationHandler) domain.NotificationPublisher {
	return &inProcessPublisher{handler: handler}
}

func (p *inProcessPublisher) PublishRegistration(ctx context.Context, n *domain.RegistrationNotification) error {
	return p.handler.HandleRegistration(ctx, n)
}
