package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

var adminCols = []string{"id", "username", "email", "full_name", "password_hash", "salt", "role", "is_active", "last_login", "created_at", "updated_at"}

func TestAdminRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO admins`).
					WithArgs("ops", "ops@campus.edu", "", "hash", "salt", "admin", true, ts0, ts0).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("adm-1"))
			},
		},
		{
			name: "duplicate username",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO admins`).WillReturnError(&pq.Error{Code: pgerrcode.UniqueViolation})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			a := &domain.Admin{Username: "ops", Email: "ops@campus.edu", PasswordHash: "hash", Salt: "salt", Role: domain.RoleAdmin, IsActive: true, CreatedAt: ts0, UpdatedAt: ts0}
			err = NewAdminRepository(db).Create(ctx, a)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrDuplicateAdmin)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "adm-1", a.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_GetByIdentifier(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
	}{
		{
			name:       "by username",
			identifier: "ops",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM admins WHERE email = \$1 OR username = \$1`).
					WithArgs("ops").
					WillReturnRows(sqlmock.NewRows(adminCols).
						AddRow("adm-1", "ops", "ops@campus.edu", "Ops Team", "hash", "salt", "super_admin", false, ts1, ts0, ts0))
			},
		},
		{
			name:       "unknown",
			identifier: "ghost@campus.edu",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM admins`).WithArgs("ghost@campus.edu").WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewAdminRepository(db).GetByIdentifier(ctx, tt.identifier)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			require.NoError(t, err)
			require.Equal(t, domain.RoleSuperAdmin, got.Role)
			require.False(t, got.IsActive)
			require.Equal(t, "hash", got.PasswordHash)
			require.NotNil(t, got.LastLogin)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_ExistsAndLastLogin(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("ops", "ops@campus.edu").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE admins SET last_login = \$1 WHERE id = \$2`).WithArgs(ts1, "adm-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAdminRepository(db)
	exists, err := repo.ExistsByUsernameOrEmail(ctx, "ops", "ops@campus.edu")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, repo.UpdateLastLogin(ctx, "adm-1", ts1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	active := true
	mock.ExpectQuery(`FROM admins WHERE role = \$1 AND is_active = \$2 ORDER BY created_at DESC, id ASC`).
		WithArgs("admin", true).
		WillReturnRows(sqlmock.NewRows(adminCols).
			AddRow("adm-2", "events_team", "events@campus.edu", "", "h", "s", "admin", true, nil, ts0, ts0))

	got, err := NewAdminRepository(db).List(context.Background(), domain.AdminFilter{Role: domain.RoleAdmin, Active: &active})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0].LastLogin)
	require.NoError(t, mock.ExpectationsWereMet())
}
