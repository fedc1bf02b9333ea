package services

import (
	"context"
	"log/slog"
	"time"

	"campusevents/internal/domain"
)

type registrationService struct {
	repo      domain.RegistrationRepository
	students  domain.StudentRepository
	events    domain.EventRepository
	publisher domain.NotificationPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRegistrationService returns a RegistrationService. publisher may be nil,
// in which case no notification is sent.
func NewRegistrationService(
	repo domain.RegistrationRepository,
	students domain.StudentRepository,
	events domain.EventRepository,
	publisher domain.NotificationPublisher,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		repo:      repo,
		students:  students,
		events:    events,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create registers a student for an event. Registrations that would exceed
// capacity are stored as waitlisted.
func (s *registrationService) Create(ctx context.Context, studentID, eventID string, status domain.RegistrationStatus) (*domain.Registration, error) {
	reg, err := domain.NewRegistration(studentID, eventID, status, s.now())
	if err != nil {
		return nil, err
	}
	if err := checkRef(ctx, s.students.GetByID, reg.StudentID, domain.ErrStudentNotFound); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, refErr(err, domain.ErrEventNotFound)
	}
	if !event.AcceptsRegistrations() {
		return nil, domain.ErrEventClosed
	}

	existing, err := s.repo.FindActiveByStudentAndEvent(ctx, reg.StudentID, reg.EventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateRegistration
	}

	if holdsSeat(reg.Status) {
		seated, err := s.repo.CountActiveByEvent(ctx, reg.EventID)
		if err != nil {
			return nil, err
		}
		if event.IsFull(seated) {
			reg.Status = domain.RegistrationWaitlisted
		}
	}

	// Concurrent duplicates that slip past the check above fail on the partial unique index.
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.notify(ctx, reg)
	return reg, nil
}

func (s *registrationService) notify(ctx context.Context, reg *domain.Registration) {
	if s.publisher == nil {
		return
	}
	n := &domain.RegistrationNotification{
		RegistrationID: reg.ID,
		StudentID:      reg.StudentID,
		EventID:        reg.EventID,
		Status:         string(reg.Status),
	}
	if err := s.publisher.PublishRegistration(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "registration notification not published",
			"registration_id", reg.ID, "err", err)
	}
}

func (s *registrationService) List(ctx context.Context, f domain.RegistrationFilter) ([]*domain.Registration, int, error) {
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

func (s *registrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *registrationService) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError([]domain.FieldError{{
			Field: "status", Message: "must be one of pending, confirmed, cancelled, waitlisted",
		}})
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reactivating := !reg.IsActive() && status != domain.RegistrationCancelled
	takesSeat := holdsSeat(status) && !holdsSeat(reg.Status)
	if reactivating || takesSeat {
		if err := s.checkAdmission(ctx, reg, reactivating, takesSeat); err != nil {
			return nil, err
		}
	}
	reg.Status = status
	reg.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// checkAdmission applies the Create rules to a registration that is being
// reactivated or moved into a seat-holding status. Unlike Create, a full event
// is an error rather than a silent waitlist.
func (s *registrationService) checkAdmission(ctx context.Context, reg *domain.Registration, reactivating, takesSeat bool) error {
	event, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return refErr(err, domain.ErrEventNotFound)
	}
	if !event.AcceptsRegistrations() {
		return domain.ErrEventClosed
	}
	if reactivating {
		existing, err := s.repo.FindActiveByStudentAndEvent(ctx, reg.StudentID, reg.EventID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateRegistration
		}
	}
	if takesSeat {
		seated, err := s.repo.CountActiveByEvent(ctx, reg.EventID)
		if err != nil {
			return err
		}
		if event.IsFull(seated) {
			return domain.ErrEventFull
		}
	}
	return nil
}

func (s *registrationService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	return notFoundUnless(ok, err, "registration", id)
}

// holdsSeat reports whether a registration in status counts against capacity.
func holdsSeat(status domain.RegistrationStatus) bool {
	return status == domain.RegistrationConfirmed || status == domain.RegistrationPending
}
