package services

import (
	"context"
	"time"

	"campusevents/internal/domain"
)

type collegeService struct {
	repo domain.CollegeRepository
	now  func() time.Time
}

// NewCollegeService returns a CollegeService backed by repo.
func NewCollegeService(repo domain.CollegeRepository) domain.CollegeService {
	return &collegeService{repo: repo, now: time.Now}
}

func (s *collegeService) Create(ctx context.Context, p domain.CollegeParams) (*domain.College, error) {
	c, err := domain.NewCollege(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *collegeService) List(ctx context.Context, f domain.CollegeFilter) ([]*domain.College, int, error) {
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

func (s *collegeService) GetByID(ctx context.Context, id string) (*domain.College, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *collegeService) Update(ctx context.Context, id string, u domain.CollegeUpdate) (*domain.College, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *collegeService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	return notFoundUnless(ok, err, "college", id)
}
