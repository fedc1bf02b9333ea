package services

import (
	"context"
	"time"

	"campusevents/internal/domain"
	"campusevents/internal/stats"
)

type eventService struct {
	repo          domain.EventRepository
	colleges      domain.CollegeRepository
	registrations domain.RegistrationRepository
	attendance    domain.AttendanceRepository
	feedback      domain.FeedbackRepository
	now           func() time.Time
}

// NewEventService returns an EventService. The registration, attendance and
// feedback repositories are read by Stats only.
func NewEventService(
	repo domain.EventRepository,
	colleges domain.CollegeRepository,
	registrations domain.RegistrationRepository,
	attendance domain.AttendanceRepository,
	feedback domain.FeedbackRepository,
) domain.EventService {
	return &eventService{
		repo:          repo,
		colleges:      colleges,
		registrations: registrations,
		attendance:    attendance,
		feedback:      feedback,
		now:           time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, p domain.EventParams) (*domain.Event, error) {
	e, err := domain.NewEvent(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := checkRef(ctx, s.colleges.GetByID, e.CollegeID, domain.ErrCollegeNotFound); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *eventService) List(ctx context.Context, f domain.EventFilter) ([]*domain.Event, int, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *eventService) Update(ctx context.Context, id string, u domain.EventUpdate) (*domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCollege := e.CollegeID
	u.Apply(e)
	now := s.now()
	if err := e.Validate(); err != nil {
		return nil, err
	}
	// A new date must still lie in the future; other edits may touch past events.
	if u.Date != nil && !u.Date.After(now) {
		return nil, domain.NewValidationError([]domain.FieldError{{Field: "date", Message: "must be in the future"}})
	}
	if e.CollegeID != previousCollege {
		if err := checkRef(ctx, s.colleges.GetByID, e.CollegeID, domain.ErrCollegeNotFound); err != nil {
			return nil, err
		}
	}
	e.UpdatedAt = now
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	return notFoundUnless(ok, err, "event", id)
}

func (s *eventService) Stats(ctx context.Context, id string) (*domain.EventStats, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	registered, err := s.registrations.Count(ctx, domain.RegistrationFilter{EventID: id, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	seated, err := s.registrations.CountActiveByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.attendance.CountByStatusForEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	ratings, err := s.feedback.ListRatingsByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.EventStats{
		EventID:         e.ID,
		Registrations:   registered,
		SeatsLeft:       e.SeatsLeft(seated),
		IsFull:          e.IsFull(seated),
		AttendanceRate:  stats.Percent(domain.AttendedCount(byStatus), registered),
		FeedbackAverage: stats.Mean(ratings),
	}, nil
}
