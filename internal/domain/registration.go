package domain

import (
	"context"
	"strings"
	"time"
)

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "pending"
	RegistrationConfirmed  RegistrationStatus = "confirmed"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	RegistrationWaitlisted RegistrationStatus = "waitlisted"
)

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationConfirmed, RegistrationCancelled, RegistrationWaitlisted:
		return true
	}
	return false
}

// Registration is a student's claim on a seat at an event.
// swagger:model Registration
type Registration struct {
	ID               string             `json:"id"`
	StudentID        string             `json:"student_id"`
	EventID          string             `json:"event_id"`
	Status           RegistrationStatus `json:"status"`
	RegistrationDate time.Time          `json:"registration_date"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// NewRegistration validates the fields and returns a Registration dated now.
// An empty status defaults to confirmed.
func NewRegistration(studentID, eventID string, status RegistrationStatus, now time.Time) (*Registration, error) {
	r := &Registration{
		StudentID:        strings.TrimSpace(studentID),
		EventID:          strings.TrimSpace(eventID),
		Status:           status,
		RegistrationDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if r.Status == "" {
		r.Status = RegistrationConfirmed
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate re-checks the registration invariants.
func (r *Registration) Validate() error {
	var ck checker
	ck.required("student_id", r.StudentID)
	ck.required("event_id", r.EventID)
	if !r.Status.Valid() {
		ck.add("status", "must be one of pending, confirmed, cancelled, waitlisted")
	}
	return ck.err()
}

// IsActive reports whether the registration still holds or waits for a seat.
func (r *Registration) IsActive() bool {
	return r.Status != RegistrationCancelled
}

// RegistrationFilter narrows registration list queries.
type RegistrationFilter struct {
	EventID    string
	StudentID  string
	Status     RegistrationStatus
	// ActiveOnly drops cancelled registrations.
	ActiveOnly bool
	Since      *time.Time
	Pagination PaginationParams
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, r *Registration) error
	List(ctx context.Context, f RegistrationFilter) ([]*Registration, error)
	Count(ctx context.Context, f RegistrationFilter) (int, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	Update(ctx context.Context, r *Registration) error
	Delete(ctx context.Context, id string) (bool, error)
	// FindActiveByStudentAndEvent returns nil, nil when the student holds no active registration.
	FindActiveByStudentAndEvent(ctx context.Context, studentID, eventID string) (*Registration, error)
	CountActiveByEvent(ctx context.Context, eventID string) (int, error)
	CountByEvent(ctx context.Context) (map[string]int, error)
	CountByStudent(ctx context.Context) (map[string]int, error)
}

// RegistrationService defines registration operations.
type RegistrationService interface {
	Create(ctx context.Context, studentID, eventID string, status RegistrationStatus) (*Registration, error)
	List(ctx context.Context, f RegistrationFilter) ([]*Registration, int, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	UpdateStatus(ctx context.Context, id string, status RegistrationStatus) (*Registration, error)
	Delete(ctx context.Context, id string) error
}
