package domain

import (
	"context"
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventScheduled, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// Event is a campus event hosted by a college.
// swagger:model Event
type Event struct {
	ID           string      `json:"id"`
	CollegeID    string      `json:"college_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Date         time.Time   `json:"date"`
	Location     string      `json:"location"`
	MaxAttendees int         `json:"max_attendees"`
	Status       EventStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// EventParams holds the caller-supplied fields of an event.
type EventParams struct {
	CollegeID    string
	Title        string
	Description  string
	Date         time.Time
	Location     string
	MaxAttendees int
	Status       EventStatus
}

// NewEvent validates p and returns an Event. The date must be strictly after now.
func NewEvent(p EventParams, now time.Time) (*Event, error) {
	e := &Event{
		CollegeID:    strings.TrimSpace(p.CollegeID),
		Title:        strings.TrimSpace(p.Title),
		Description:  strings.TrimSpace(p.Description),
		Date:         p.Date,
		Location:     strings.TrimSpace(p.Location),
		MaxAttendees: p.MaxAttendees,
		Status:       p.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if e.Status == "" {
		e.Status = EventScheduled
	}
	var ck checker
	e.check(&ck)
	if !e.Date.After(now) {
		ck.add("date", "must be in the future")
	}
	if err := ck.err(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate re-checks the invariants that hold for stored events. The future-date
// rule only applies at creation and when the date is changed.
func (e *Event) Validate() error {
	var ck checker
	e.check(&ck)
	return ck.err()
}

func (e *Event) check(ck *checker) {
	ck.required("college_id", e.CollegeID)
	ck.minLen("title", e.Title, 3)
	ck.minLen("description", e.Description, 10)
	ck.required("location", e.Location)
	if e.Date.IsZero() {
		ck.add("date", "is required")
	}
	if e.MaxAttendees <= 0 {
		ck.add("max_attendees", "must be a positive integer")
	}
	if !e.Status.Valid() {
		ck.add("status", "must be one of scheduled, ongoing, completed, cancelled")
	}
}

// IsFull reports whether the event has no seats left given the current registrant count.
func (e *Event) IsFull(registered int) bool {
	return registered >= e.MaxAttendees
}

// SeatsLeft returns the number of free seats, never negative.
func (e *Event) SeatsLeft(registered int) int {
	if registered >= e.MaxAttendees {
		return 0
	}
	return e.MaxAttendees - registered
}

// AcceptsRegistrations reports whether students may still register.
func (e *Event) AcceptsRegistrations() bool {
	return e.Status == EventScheduled || e.Status == EventOngoing
}

// EventUpdate holds optional event fields for a partial update.
type EventUpdate struct {
	CollegeID    *string
	Title        *string
	Description  *string
	Date         *time.Time
	Location     *string
	MaxAttendees *int
	Status       *EventStatus
}

// Apply copies the set fields of u onto e.
func (u EventUpdate) Apply(e *Event) {
	if u.CollegeID != nil {
		e.CollegeID = strings.TrimSpace(*u.CollegeID)
	}
	if u.Title != nil {
		e.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		e.Description = strings.TrimSpace(*u.Description)
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Location != nil {
		e.Location = strings.TrimSpace(*u.Location)
	}
	if u.MaxAttendees != nil {
		e.MaxAttendees = *u.MaxAttendees
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
}

// EventFilter narrows event list queries. DateFrom and DateTo are inclusive.
type EventFilter struct {
	CollegeID  string
	Status     EventStatus
	Search     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Pagination PaginationParams
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	List(ctx context.Context, f EventFilter) ([]*Event, error)
	Count(ctx context.Context, f EventFilter) (int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) (bool, error)
}

// EventStats is the per-event summary returned by GET /events/{id}/stats.
// swagger:model EventStats
type EventStats struct {
	EventID         string  `json:"event_id"`
	Registrations   int     `json:"registrations"`
	SeatsLeft       int     `json:"seats_left"`
	IsFull          bool    `json:"is_full"`
	AttendanceRate  float64 `json:"attendance_rate"`
	FeedbackAverage float64 `json:"feedback_average"`
}

// EventService defines event management operations.
type EventService interface {
	Create(ctx context.Context, p EventParams) (*Event, error)
	List(ctx context.Context, f EventFilter) ([]*Event, int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, u EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*EventStats, error)
}
