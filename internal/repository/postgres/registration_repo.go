package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

const registrationColumns = `id, student_id, event_id, status, registration_date, created_at, updated_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func scanRegistration(s scanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	if err := s.Scan(&reg.ID, &reg.StudentID, &reg.EventID, &reg.Status, &reg.RegistrationDate, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (student_id, event_id, status, registration_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.StudentID, reg.EventID, reg.Status, reg.RegistrationDate, reg.CreatedAt, reg.UpdatedAt).
		Scan(&reg.ID)
	return wrapErr("create registration", err, domain.ErrDuplicateRegistration)
}

func registrationFilter(f domain.RegistrationFilter) *filterQuery {
	q := &filterQuery{}
	if f.EventID != "" {
		q.add(`event_id = ?`, f.EventID)
	}
	if f.StudentID != "" {
		q.add(`student_id = ?`, f.StudentID)
	}
	if f.Status != "" {
		q.add(`status = ?`, string(f.Status))
	}
	if f.ActiveOnly {
		q.conds = append(q.conds, `status <> 'cancelled'`)
	}
	if f.Since != nil {
		q.add(`registration_date >= ?`, *f.Since)
	}
	return q
}

func (r *registrationRepository) List(ctx context.Context, f domain.RegistrationFilter) ([]*domain.Registration, error) {
	q := registrationFilter(f)
	query := `SELECT ` + registrationColumns + ` FROM registrations` + q.where() +
		` ORDER BY registration_date DESC, id ASC` + q.page(f.Pagination)
	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapErr("list registrations", err, nil)
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, wrapErr("list registrations", err, nil)
		}
		regs = append(regs, reg)
	}
	return regs, wrapErr("list registrations", rows.Err(), nil)
}

func (r *registrationRepository) Count(ctx context.Context, f domain.RegistrationFilter) (int, error) {
	q := registrationFilter(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`+q.where(), q.args...).Scan(&n)
	return n, wrapErr("count registrations", err, nil)
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("get registration", err, nil)
	}
	return reg, nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE registrations SET status = $1, updated_at = $2 WHERE id = $3`,
		reg.Status, reg.UpdatedAt, reg.ID,
	)
	return updated("update registration", res, err, domain.ErrDuplicateRegistration)
}

func (r *registrationRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	return deleted("delete registration", res, err)
}

func (r *registrationRepository) FindActiveByStudentAndEvent(ctx context.Context, studentID, eventID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE student_id = $1 AND event_id = $2 AND status <> 'cancelled'
		LIMIT 1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, studentID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("find active registration", err, nil)
	}
	return reg, nil
}

func (r *registrationRepository) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status IN ('confirmed', 'pending')`,
		eventID,
	).Scan(&n)
	return n, wrapErr("count event registrations", err, nil)
}

func (r *registrationRepository) CountByEvent(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, r.DB, "count registrations by event",
		`SELECT event_id, COUNT(*) FROM registrations WHERE status <> 'cancelled' GROUP BY event_id`)
}

func (r *registrationRepository) CountByStudent(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, r.DB, "count registrations by student",
		`SELECT student_id, COUNT(*) FROM registrations WHERE status <> 'cancelled' GROUP BY student_id`)
}

// countGrouped runs a "SELECT key, COUNT(*) ... GROUP BY key" query into a map.
func countGrouped(ctx context.Context, db *sql.DB, op, query string, args ...any) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err, nil)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, wrapErr(op, err, nil)
		}
		counts[key] = n
	}
	return counts, wrapErr(op, rows.Err(), nil)
}
