package domain

import (
	"context"
	"strings"
	"time"
)

// Rating bounds for feedback.
const (
	MinRating = 1
	MaxRating = 5
	// PositiveRating is the lowest rating counted as satisfied.
	PositiveRating = 4
)

// Feedback is a student's rating of an event.
// swagger:model Feedback
type Feedback struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	EventID   string    `json:"event_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedbackParams holds the caller-supplied fields of a feedback entry.
type FeedbackParams struct {
	StudentID string
	EventID   string
	Rating    int
	Comment   string
}

// NewFeedback validates p and returns a Feedback entry.
func NewFeedback(p FeedbackParams, now time.Time) (*Feedback, error) {
	f := &Feedback{
		StudentID: strings.TrimSpace(p.StudentID),
		EventID:   strings.TrimSpace(p.EventID),
		Rating:    p.Rating,
		Comment:   strings.TrimSpace(p.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	var ck checker
	ck.required("student_id", f.StudentID)
	ck.required("event_id", f.EventID)
	if f.Rating < MinRating || f.Rating > MaxRating {
		ck.add("rating", "must be an integer between 1 and 5")
	}
	if err := ck.err(); err != nil {
		return nil, err
	}
	return f, nil
}

// IsPositiveRating reports whether rating counts toward the satisfaction rate.
func IsPositiveRating(rating int) bool {
	return rating >= PositiveRating
}

// IsPositive reports whether the feedback counts toward the satisfaction rate.
func (f *Feedback) IsPositive() bool {
	return IsPositiveRating(f.Rating)
}

// Validate re-checks the feedback invariants.
func (f *Feedback) Validate() error {
	if f.Rating < MinRating || f.Rating > MaxRating {
		return NewValidationError([]FieldError{{Field: "rating", Message: "must be an integer between 1 and 5"}})
	}
	return nil
}

// FeedbackUpdate holds optional feedback fields for a partial update.
type FeedbackUpdate struct {
	Rating  *int
	Comment *string
}

// Apply copies the set fields of u onto f.
func (u FeedbackUpdate) Apply(f *Feedback) {
	if u.Rating != nil {
		f.Rating = *u.Rating
	}
	if u.Comment != nil {
		f.Comment = strings.TrimSpace(*u.Comment)
	}
}

// FeedbackFilter narrows feedback list queries.
type FeedbackFilter struct {
	EventID    string
	StudentID  string
	MinRating  int
	Since      *time.Time
	Pagination PaginationParams
}

// FeedbackRepository defines storage operations for feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, f *Feedback) error
	List(ctx context.Context, f FeedbackFilter) ([]*Feedback, error)
	Count(ctx context.Context, f FeedbackFilter) (int, error)
	GetByID(ctx context.Context, id string) (*Feedback, error)
	Update(ctx context.Context, f *Feedback) error
	Delete(ctx context.Context, id string) (bool, error)
	ListRatingsByEvent(ctx context.Context, eventID string) ([]int, error)
	CountByStudent(ctx context.Context) (map[string]int, error)
}

// FeedbackService defines feedback operations.
type FeedbackService interface {
	Create(ctx context.Context, p FeedbackParams) (*Feedback, error)
	List(ctx context.Context, f FeedbackFilter) ([]*Feedback, int, error)
	GetByID(ctx context.Context, id string) (*Feedback, error)
	Update(ctx context.Context, id string, u FeedbackUpdate) (*Feedback, error)
	Delete(ctx context.Context, id string) error
}
