package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData holds data for the welcome email sent after admin registration.
type WelcomeEmailData struct {
	Email    string
	Username string
}

// PasswordResetEmailData holds data for the forgot-password email.
type PasswordResetEmailData struct {
	Email            string
	Username         string
	Token            string
	ExpiresInMinutes int
}

// RegistrationEmailData holds data for the registration confirmation email.
type RegistrationEmailData struct {
	Email         string
	StudentName   string
	EventTitle    string
	EventDate     string
	EventLocation string
	Status        string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
	SendPasswordReset(ctx context.Context, data *PasswordResetEmailData) error
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationEmailData) error
}

// RegistrationNotification is the message published when a registration is created.
type RegistrationNotification struct {
	RegistrationID string `json:"registration_id"`
	StudentID      string `json:"student_id"`
	EventID        string `json:"event_id"`
	Status         string `json:"status"`
}

// NotificationPublisher hands registration notifications to whatever delivers them.
type NotificationPublisher interface {
	PublishRegistration(ctx context.Context, n *RegistrationNotification) error
}

// NotificationHandler delivers one registration notification, whether it
// arrived in-process or from the message queue.
type NotificationHandler interface {
	HandleRegistration(ctx context.Context, n *RegistrationNotification) error
}
