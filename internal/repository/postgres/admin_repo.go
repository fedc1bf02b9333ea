package postgres

import (
	"context"
	"database/sql"
	"time"

	"campusevents/internal/domain"
)

const adminColumns = `id, username, email, full_name, password_hash, salt, role, is_active, last_login, created_at, updated_at`

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func scanAdmin(s scanner) (*domain.Admin, error) {
	a := &domain.Admin{}
	var lastLogin sql.NullTime
	err := s.Scan(&a.ID, &a.Username, &a.Email, &a.FullName, &a.PasswordHash, &a.Salt, &a.Role,
		&a.IsActive, &lastLogin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return a, nil
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `
		INSERT INTO admins (username, email, full_name, password_hash, salt, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.Username, a.Email, a.FullName, a.PasswordHash, a.Salt, a.Role, a.IsActive, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	return wrapErr("create admin", err, domain.ErrDuplicateAdmin)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	a, err := scanAdmin(r.DB.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr("get admin", err, nil)
	}
	return a, nil
}

func (r *adminRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1 OR username = $1 LIMIT 1`
	a, err := scanAdmin(r.DB.QueryRowContext(ctx, query, identifier))
	if err != nil {
		return nil, wrapErr("get admin by identifier", err, nil)
	}
	return a, nil
}

func (r *adminRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE username = $1 OR email = $2)`,
		username, email,
	).Scan(&exists)
	return exists, wrapErr("check admin exists", err, nil)
}

func adminFilter(f domain.AdminFilter) *filterQuery {
	q := &filterQuery{}
	if f.Role != "" {
		q.add(`role = ?`, string(f.Role))
	}
	if f.Active != nil {
		q.add(`is_active = ?`, *f.Active)
	}
	return q
}

func (r *adminRepository) List(ctx context.Context, f domain.AdminFilter) ([]*domain.Admin, error) {
	q := adminFilter(f)
	query := `SELECT ` + adminColumns + ` FROM admins` + q.where() + ` ORDER BY created_at DESC, id ASC` + q.page(f.Pagination)
	rows, err := r.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapErr("list admins", err, nil)
	}
	defer rows.Close()

	admins := make([]*domain.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, wrapErr("list admins", err, nil)
		}
		admins = append(admins, a)
	}
	return admins, wrapErr("list admins", rows.Err(), nil)
}

func (r *adminRepository) Count(ctx context.Context, f domain.AdminFilter) (int, error) {
	q := adminFilter(f)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`+q.where(), q.args...).Scan(&n)
	return n, wrapErr("count admins", err, nil)
}

func (r *adminRepository) Update(ctx context.Context, a *domain.Admin) error {
	query := `
		UPDATE admins
		SET email = $1, full_name = $2, password_hash = $3, salt = $4, role = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := r.DB.ExecContext(ctx, query,
		a.Email, a.FullName, a.PasswordHash, a.Salt, a.Role, a.IsActive, a.UpdatedAt, a.ID,
	)
	return updated("update admin", res, err, domain.ErrDuplicateAdmin)
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE admins SET last_login = $1 WHERE id = $2`, at, id)
	return updated("update admin last login", res, err, nil)
}
