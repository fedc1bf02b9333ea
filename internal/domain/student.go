package domain

import (
	"context"
	"strings"
	"time"
)

// Student is a person enrolled at a college who registers for events.
// swagger:model Student
type Student struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CollegeID string    `json:"college_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentParams holds the caller-supplied fields of a student.
type StudentParams struct {
	Email     string
	Name      string
	Phone     string
	CollegeID string
}

// NewStudent validates p and returns a Student. ID is set by the repository on create.
func NewStudent(p StudentParams, now time.Time) (*Student, error) {
	s := &Student{
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		Name:      strings.TrimSpace(p.Name),
		Phone:     strings.TrimSpace(p.Phone),
		CollegeID: strings.TrimSpace(p.CollegeID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate re-checks the student invariants.
func (s *Student) Validate() error {
	var ck checker
	ck.email("email", s.Email)
	ck.minLen("name", s.Name, 2)
	if s.Phone != "" && !IsPhone(s.Phone) {
		ck.add("phone", "must be a valid phone number")
	}
	ck.required("college_id", s.CollegeID)
	return ck.err()
}

// StudentUpdate holds optional student fields for a partial update.
type StudentUpdate struct {
	Email     *string
	Name      *string
	Phone     *string
	CollegeID *string
}

// Apply copies the set fields of u onto s.
func (u StudentUpdate) Apply(s *Student) {
	if u.Email != nil {
		s.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Name != nil {
		s.Name = strings.TrimSpace(*u.Name)
	}
	if u.Phone != nil {
		s.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.CollegeID != nil {
		s.CollegeID = strings.TrimSpace(*u.CollegeID)
	}
}

// StudentFilter narrows student list queries. Search matches name or email, case-insensitively.
type StudentFilter struct {
	CollegeID  string
	Search     string
	Pagination PaginationParams
}

// StudentRepository defines storage operations for students.
type StudentRepository interface {
	Create(ctx context.Context, s *Student) error
	List(ctx context.Context, f StudentFilter) ([]*Student, error)
	Count(ctx context.Context, f StudentFilter) (int, error)
	GetByID(ctx context.Context, id string) (*Student, error)
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id string) (bool, error)
}

// StudentService defines student management operations.
type StudentService interface {
	Create(ctx context.Context, p StudentParams) (*Student, error)
	List(ctx context.Context, f StudentFilter) ([]*Student, int, error)
	GetByID(ctx context.Context, id string) (*Student, error)
	Update(ctx context.Context, id string, u StudentUpdate) (*Student, error)
	Delete(ctx context.Context, id string) error
}
