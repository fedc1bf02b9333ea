package services

import (
	"context"
	"time"

	"campusevents/internal/domain"
)

type studentService struct {
	repo     domain.StudentRepository
	colleges domain.CollegeRepository
	now      func() time.Time
}

// NewStudentService returns a StudentService. Students must reference an existing college.
func NewStudentService(repo domain.StudentRepository, colleges domain.CollegeRepository) domain.StudentService {
	return &studentService{repo: repo, colleges: colleges, now: time.Now}
}

func (s *studentService) Create(ctx context.Context, p domain.StudentParams) (*domain.Student, error) {
	st, err := domain.NewStudent(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := checkRef(ctx, s.colleges.GetByID, st.CollegeID, domain.ErrCollegeNotFound); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *studentService) List(ctx context.Context, f domain.StudentFilter) ([]*domain.Student, int, error) {
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

func (s *studentService) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *studentService) Update(ctx context.Context, id string, u domain.StudentUpdate) (*domain.Student, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCollege := st.CollegeID
	u.Apply(st)
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if st.CollegeID != previousCollege {
		if err := checkRef(ctx, s.colleges.GetByID, st.CollegeID, domain.ErrCollegeNotFound); err != nil {
			return nil, err
		}
	}
	st.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	return notFoundUnless(ok, err, "student", id)
}
