package services

import (
	"context"
	"time"

	"campusevents/internal/domain"
)

type feedbackService struct {
	repo     domain.FeedbackRepository
	students domain.StudentRepository
	events   domain.EventRepository
	now      func() time.Time
}

// NewFeedbackService returns a FeedbackService.
func NewFeedbackService(repo domain.FeedbackRepository, students domain.StudentRepository, events domain.EventRepository) domain.FeedbackService {
	return &feedbackService{repo: repo, students: students, events: events, now: time.Now}
}

func (s *feedbackService) Create(ctx context.Context, p domain.FeedbackParams) (*domain.Feedback, error) {
	f, err := domain.NewFeedback(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := checkRef(ctx, s.students.GetByID, f.StudentID, domain.ErrStudentNotFound); err != nil {
		return nil, err
	}
	if err := checkRef(ctx, s.events.GetByID, f.EventID, domain.ErrEventNotFound); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *feedbackService) List(ctx context.Context, f domain.FeedbackFilter) ([]*domain.Feedback, int, error) {
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

func (s *feedbackService) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *feedbackService) Update(ctx context.Context, id string, u domain.FeedbackUpdate) (*domain.Feedback, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(f)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *feedbackService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	return notFoundUnless(ok, err, "feedback", id)
}
