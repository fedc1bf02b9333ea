package services

import (
	"context"
	"time"

	"campusevents/internal/domain"
)

type attendanceService struct {
	repo     domain.AttendanceRepository
	students domain.StudentRepository
	events   domain.EventRepository
	now      func() time.Time
}

// NewAttendanceService returns an AttendanceService.
func NewAttendanceService(repo domain.AttendanceRepository, students domain.StudentRepository, events domain.EventRepository) domain.AttendanceService {
	return &attendanceService{repo: repo, students: students, events: events, now: time.Now}
}

func (s *attendanceService) Create(ctx context.Context, p domain.AttendanceParams) (*domain.Attendance, error) {
	a, err := domain.NewAttendance(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := checkRef(ctx, s.students.GetByID, a.StudentID, domain.ErrStudentNotFound); err != nil {
		return nil, err
	}
	if err := checkRef(ctx, s.events.GetByID, a.EventID, domain.ErrEventNotFound); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *attendanceService) List(ctx context.Context, f domain.AttendanceFilter) ([]*domain.Attendance, int, error) {
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

func (s *attendanceService) GetByID(ctx context.Context, id string) (*domain.Attendance, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *attendanceService) Update(ctx context.Context, id string, u domain.AttendanceUpdate) (*domain.Attendance, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(a)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *attendanceService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	return notFoundUnless(ok, err, "attendance", id)
}
