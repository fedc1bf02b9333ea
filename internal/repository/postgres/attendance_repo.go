package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

const attendanceColumns = `id, student_id, event_id, status, check_in_time, check_out_time, created_at, updated_at`

type attendanceRepository struct {
	DB *sql.DB
}

func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

func scanAttendance(s scanner) (*domain.Attendance, error) {
	a := &domain.Attendance{}
	var checkIn, checkOut sql.NullTime
	if err := s.Scan(&a.ID, &a.StudentID, &a.EventID, &a.Status, &checkIn, &checkOut, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if checkIn.Valid {
		a.CheckInTime = &checkIn.Time
	}
	if checkOut.Valid {
		a.CheckOutTime = &checkOut.Time
	}
	return a, nil
}

func (r *attendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	query := `
		INSERT INTO attendance (student_id, event_id, status, check_in_time, check_out_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.StudentID, a.EventID, a.Status, a.CheckInTime, a.CheckOutTime, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	return wrapErr("create attendance", err, domain.ErrDuplicateAttendance)
}

func attendanceFilter(f domain.AttendanceFilter) *filterQuery {
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
	if f.Since != nil {
		q.add(`created_at >= ?`, *f.Since)
	}
	return q
}

func (r *attendanceRepository) List(ctx context.Context, f domain.AttendanceFilter) ([]*domain.Attendance, error) {
	q := attendanceFilter(f)
	query := `SELECT ` + attendanceColumns + ` FROM attendance` + q.where() +
		` ORDER BY created_at DESC, id ASC` + q.page(f.Pagination)
	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapErr("list attendance", err, nil)
	}
	defer rows.Close()

	records := make([]*domain.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, wrapErr("list attendance", err, nil)
		}
		records = append(records, a)
	}
	return records, wrapErr("list attendance", rows.Err(), nil)
}

func (r *attendanceRepository) Count(ctx context.Context, f domain.AttendanceFilter) (int, error) {
	q := attendanceFilter(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance`+q.where(), q.args...).Scan(&n)
	return n, wrapErr("count attendance", err, nil)
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*domain.Attendance, error) {
	a, err := scanAttendance(r.DB.QueryRowContext(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("get attendance", err, nil)
	}
	return a, nil
}

func (r *attendanceRepository) Update(ctx context.Context, a *domain.Attendance) error {
	query := `
		UPDATE attendance
		SET status = $1, check_in_time = $2, check_out_time = $3, updated_at = $4
		WHERE id = $5
	`
	res, err := r.DB.ExecContext(ctx, query, a.Status, a.CheckInTime, a.CheckOutTime, a.UpdatedAt, a.ID)
	return updated("update attendance", res, err, nil)
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	return deleted("delete attendance", res, err)
}

func (r *attendanceRepository) CountByStatusForEvent(ctx context.Context, eventID string) (map[domain.AttendanceStatus]int, error) {
	raw, err := countGrouped(ctx, r.DB, "count attendance by status",
		`SELECT status, COUNT(*) FROM attendance WHERE event_id = $1 GROUP BY status`, eventID)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.AttendanceStatus]int, len(raw))
	for status, n := range raw {
		counts[domain.AttendanceStatus(status)] = n
	}
	return counts, nil
}

func (r *attendanceRepository) CountByStudent(ctx context.Context, status domain.AttendanceStatus) (map[string]int, error) {
	if status == "" {
		return countGrouped(ctx, r.DB, "count attendance by student",
			`SELECT student_id, COUNT(*) FROM attendance GROUP BY student_id`)
	}
	return countGrouped(ctx, r.DB, "count attendance by student",
		`SELECT student_id, COUNT(*) FROM attendance WHERE status = $1 GROUP BY student_id`, string(status))
}
