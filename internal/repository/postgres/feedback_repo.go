package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

const feedbackColumns = `id, student_id, event_id, rating, comment, created_at, updated_at`

type feedbackRepository struct {
	DB *sql.DB
}

func NewFeedbackRepository(db *sql.DB) domain.FeedbackRepository {
	return &feedbackRepository{DB: db}
}

func scanFeedback(s scanner) (*domain.Feedback, error) {
	f := &domain.Feedback{}
	if err := s.Scan(&f.ID, &f.StudentID, &f.EventID, &f.Rating, &f.Comment, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *feedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedback (student_id, event_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, f.StudentID, f.EventID, f.Rating, f.Comment, f.CreatedAt, f.UpdatedAt).Scan(&f.ID)
	return wrapErr("create feedback", err, domain.ErrDuplicateFeedback)
}

func feedbackFilter(f domain.FeedbackFilter) *filterQuery {
	q := &filterQuery{}
	if f.EventID != "" {
		q.add(`event_id = ?`, f.EventID)
	}
	if f.StudentID != "" {
		q.add(`student_id = ?`, f.StudentID)
	}
	if f.MinRating > 0 {
		q.add(`rating >= ?`, f.MinRating)
	}
	if f.Since != nil {
		q.add(`created_at >= ?`, *f.Since)
	}
	return q
}

func (r *feedbackRepository) List(ctx context.Context, f domain.FeedbackFilter) ([]*domain.Feedback, error) {
	q := feedbackFilter(f)
	query := `SELECT ` + feedbackColumns + ` FROM feedback` + q.where() +
		` ORDER BY created_at DESC, id ASC` + q.page(f.Pagination)
	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapErr("list feedback", err, nil)
	}
	defer rows.Close()

	entries := make([]*domain.Feedback, 0)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, wrapErr("list feedback", err, nil)
		}
		entries = append(entries, fb)
	}
	return entries, wrapErr("list feedback", rows.Err(), nil)
}

func (r *feedbackRepository) Count(ctx context.Context, f domain.FeedbackFilter) (int, error) {
	q := feedbackFilter(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`+q.where(), q.args...).Scan(&n)
	return n, wrapErr("count feedback", err, nil)
}

func (r *feedbackRepository) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	fb, err := scanFeedback(r.DB.QueryRowContext(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("get feedback", err, nil)
	}
	return fb, nil
}

func (r *feedbackRepository) Update(ctx context.Context, f *domain.Feedback) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE feedback SET rating = $1, comment = $2, updated_at = $3 WHERE id = $4`,
		f.Rating, f.Comment, f.UpdatedAt, f.ID,
	)
	return updated("update feedback", res, err, nil)
}

func (r *feedbackRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	return deleted("delete feedback", res, err)
}

func (r *feedbackRepository) ListRatingsByEvent(ctx context.Context, eventID string) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT rating FROM feedback WHERE event_id = $1 ORDER BY created_at ASC, id ASC`, eventID)
	if err != nil {
		return nil, wrapErr("list event ratings", err, nil)
	}
	defer rows.Close()

	ratings := make([]int, 0)
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, wrapErr("list event ratings", err, nil)
		}
		ratings = append(ratings, rating)
	}
	return ratings, wrapErr("list event ratings", rows.Err(), nil)
}

func (r *feedbackRepository) CountByStudent(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, r.DB, "count feedback by student",
		`SELECT student_id, COUNT(*) FROM feedback GROUP BY student_id`)
}
