package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

const collegeColumns = `id, name, address, contact_email, phone, created_at, updated_at`

type collegeRepository struct {
	DB *sql.DB
}

func NewCollegeRepository(db *sql.DB) domain.CollegeRepository {
	return &collegeRepository{DB: db}
}

func scanCollege(s scanner) (*domain.College, error) {
	c := &domain.College{}
	err := s.Scan(&c.ID, &c.Name, &c.Address, &c.ContactEmail, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *collegeRepository) Create(ctx context.Context, c *domain.College) error {
	query := `
		INSERT INTO colleges (name, address, contact_email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.Name, c.Address, c.ContactEmail, c.Phone, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	return wrapErr("create college", err, nil)
}

func collegeFilter(f domain.CollegeFilter) *filterQuery {
	q := &filterQuery{}
	if f.Search != "" {
		q.add(`name ILIKE ?`, likePattern(f.Search))
	}
	return q
}

func (r *collegeRepository) List(ctx context.Context, f domain.CollegeFilter) ([]*domain.College, error) {
	q := collegeFilter(f)
	query := `SELECT ` + collegeColumns + ` FROM colleges` + q.where() + ` ORDER BY name ASC, id ASC` + q.page(f.Pagination)
	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapErr("list colleges", err, nil)
	}
	defer rows.Close()

	colleges := make([]*domain.College, 0)
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, wrapErr("list colleges", err, nil)
		}
		colleges = append(colleges, c)
	}
	return colleges, wrapErr("list colleges", rows.Err(), nil)
}

func (r *collegeRepository) Count(ctx context.Context, f domain.CollegeFilter) (int, error) {
	q := collegeFilter(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM colleges`+q.where(), q.args...).Scan(&n)
	return n, wrapErr("count colleges", err, nil)
}

func (r *collegeRepository) GetByID(ctx context.Context, id string) (*domain.College, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+collegeColumns+` FROM colleges WHERE id = $1`, id)
	c, err := scanCollege(row)
	if err != nil {
		return nil, wrapErr("get college", err, nil)
	}
	return c, nil
}

func (r *collegeRepository) Update(ctx context.Context, c *domain.College) error {
	query := `
		UPDATE colleges
		SET name = $1, address = $2, contact_email = $3, phone = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.DB.ExecContext(ctx, query, c.Name, c.Address, c.ContactEmail, c.Phone, c.UpdatedAt, c.ID)
	return updated("update college", res, err, nil)
}

func (r *collegeRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM colleges WHERE id = $1`, id)
	return deleted("delete college", res, err)
}
