package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

const studentColumns = `id, email, name, phone, college_id, created_at, updated_at`

type studentRepository struct {
	DB *sql.DB
}

func NewStudentRepository(db *sql.DB) domain.StudentRepository {
	return &studentRepository{DB: db}
}

func scanStudent(s scanner) (*domain.Student, error) {
	st := &domain.Student{}
	if err := s.Scan(&st.ID, &st.Email, &st.Name, &st.Phone, &st.CollegeID, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	return st, nil
}

func (r *studentRepository) Create(ctx context.Context, s *domain.Student) error {
	query := `
		INSERT INTO students (email, name, phone, college_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, s.Email, s.Name, s.Phone, s.CollegeID, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	return wrapErr("create student", err, domain.ErrDuplicateStudentEmail)
}

func studentFilter(f domain.StudentFilter) *filterQuery {
	q := &filterQuery{}
	if f.CollegeID != "" {
		q.add(`college_id = ?`, f.CollegeID)
	}
	if f.Search != "" {
		q.add(`(name ILIKE ? OR email ILIKE ?)`, likePattern(f.Search))
	}
	return q
}

func (r *studentRepository) List(ctx context.Context, f domain.StudentFilter) ([]*domain.Student, error) {
	q := studentFilter(f)
	query := `SELECT ` + studentColumns + ` FROM students` + q.where() + ` ORDER BY name ASC, id ASC` + q.page(f.Pagination)
	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapErr("list students", err, nil)
	}
	defer rows.Close()

	students := make([]*domain.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, wrapErr("list students", err, nil)
		}
		students = append(students, s)
	}
	return students, wrapErr("list students", rows.Err(), nil)
}

func (r *studentRepository) Count(ctx context.Context, f domain.StudentFilter) (int, error) {
	q := studentFilter(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`+q.where(), q.args...).Scan(&n)
	return n, wrapErr("count students", err, nil)
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	s, err := scanStudent(r.DB.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("get student", err, nil)
	}
	return s, nil
}

func (r *studentRepository) Update(ctx context.Context, s *domain.Student) error {
	query := `
		UPDATE students
		SET email = $1, name = $2, phone = $3, college_id = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.DB.ExecContext(ctx, query, s.Email, s.Name, s.Phone, s.CollegeID, s.UpdatedAt, s.ID)
	return updated("update student", res, err, domain.ErrDuplicateStudentEmail)
}

func (r *studentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return deleted("delete student", res, err)
}
