package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

const eventColumns = `id, college_id, title, description, date, location, max_attendees, status, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(s scanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := s.Scan(
		&e.ID, &e.CollegeID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.MaxAttendees, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (college_id, title, description, date, location, max_attendees, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.CollegeID, e.Title, e.Description, e.Date, e.Location, e.MaxAttendees, e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return wrapErr("create event", err, nil)
}

func eventFilter(f domain.EventFilter) *filterQuery {
	q := &filterQuery{}
	if f.CollegeID != "" {
		q.add(`college_id = ?`, f.CollegeID)
	}
	if f.Status != "" {
		q.add(`status = ?`, string(f.Status))
	}
	if f.Search != "" {
		q.add(`(title ILIKE ? OR description ILIKE ?)`, likePattern(f.Search))
	}
	if f.DateFrom != nil {
		q.add(`date >= ?`, *f.DateFrom)
	}
	if f.DateTo != nil {
		q.add(`date <= ?`, *f.DateTo)
	}
	return q
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter) ([]*domain.Event, error) {
	q := eventFilter(f)
	query := `SELECT ` + eventColumns + ` FROM events` + q.where() + ` ORDER BY date ASC, title ASC, id ASC`
	p := f.Pagination
	if f.Limit > 0 {
		p = domain.FirstN(f.Limit)
	}
	query += q.page(p)

	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapErr("list events", err, nil)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, wrapErr("list events", err, nil)
		}
		events = append(events, e)
	}
	return events, wrapErr("list events", rows.Err(), nil)
}

func (r *eventRepository) Count(ctx context.Context, f domain.EventFilter) (int, error) {
	q := eventFilter(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+q.where(), q.args...).Scan(&n)
	return n, wrapErr("count events", err, nil)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("get event", err, nil)
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET college_id = $1, title = $2, description = $3, date = $4, location = $5,
		    max_attendees = $6, status = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.CollegeID, e.Title, e.Description, e.Date, e.Location, e.MaxAttendees, e.Status, e.UpdatedAt, e.ID,
	)
	return updated("update event", res, err, nil)
}

func (r *eventRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return deleted("delete event", res, err)
}
