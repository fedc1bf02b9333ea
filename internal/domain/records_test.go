package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollege(t *testing.T) {
	c, err := NewCollege(CollegeParams{
		Name:         "  State Tech ",
		Address:      "42 University Avenue",
		ContactEmail: "Office@StateTech.edu",
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "State Tech", c.Name)
	assert.Equal(t, "office@statetech.edu", c.ContactEmail)

	_, err = NewCollege(CollegeParams{Name: "ST", Address: "short", ContactEmail: "nope", Phone: "x"}, testNow)
	assert.Equal(t, []string{"name", "address", "contact_email", "phone"}, fieldsOf(t, err))
}

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(StudentParams{Email: "Ana@Campus.edu", Name: "Ana", Phone: "+1 (555) 010-2030", CollegeID: "col-1"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "ana@campus.edu", s.Email)

	_, err = NewStudent(StudentParams{Email: "bad", Name: "A", Phone: "12"}, testNow)
	assert.Equal(t, []string{"email", "name", "phone", "college_id"}, fieldsOf(t, err))
}

func TestNewRegistration(t *testing.T) {
	r, err := NewRegistration("stu-1", "ev-1", "", testNow)
	require.NoError(t, err)
	assert.Equal(t, RegistrationConfirmed, r.Status)
	assert.True(t, r.IsActive())
	assert.Equal(t, testNow, r.RegistrationDate)

	r.Status = RegistrationCancelled
	assert.False(t, r.IsActive())

	_, err = NewRegistration("stu-1", "ev-1", "maybe", testNow)
	assert.Equal(t, []string{"status"}, fieldsOf(t, err))
}

func TestNewAttendance(t *testing.T) {
	in := testNow
	out := testNow.Add(90 * time.Minute)

	a, err := NewAttendance(AttendanceParams{StudentID: "stu-1", EventID: "ev-1", Status: AttendancePresent, CheckInTime: &in, CheckOutTime: &out}, testNow)
	require.NoError(t, err)
	assert.True(t, a.Attended())
	assert.Equal(t, out, *a.CheckOutTime)

	late := AttendanceLate
	AttendanceUpdate{Status: &late}.Apply(a)
	assert.False(t, a.Attended(), "only present counts as attended")

	before := testNow.Add(-time.Minute)
	_, err = NewAttendance(AttendanceParams{StudentID: "stu-1", EventID: "ev-1", Status: AttendanceAbsent, CheckInTime: &in, CheckOutTime: &before}, testNow)
	assert.Equal(t, []string{"check_out_time"}, fieldsOf(t, err))

	_, err = NewAttendance(AttendanceParams{StudentID: "stu-1", EventID: "ev-1", Status: "gone"}, testNow)
	assert.Equal(t, []string{"status"}, fieldsOf(t, err))
}

func TestAttendedCount(t *testing.T) {
	tests := []struct {
		name     string
		byStatus map[AttendanceStatus]int
		want     int
	}{
		{"empty", nil, 0},
		{"present only", map[AttendanceStatus]int{AttendancePresent: 3}, 3},
		{"late and absent ignored", map[AttendanceStatus]int{AttendancePresent: 2, AttendanceLate: 4, AttendanceAbsent: 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttendedCount(tt.byStatus))
		})
	}
}

func TestNewFeedback(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		_, err := NewFeedback(FeedbackParams{StudentID: "stu-1", EventID: "ev-1", Rating: rating}, testNow)
		assert.Equal(t, []string{"rating"}, fieldsOf(t, err), "rating %d", rating)
	}

	f, err := NewFeedback(FeedbackParams{StudentID: "stu-1", EventID: "ev-1", Rating: 4, Comment: " great "}, testNow)
	require.NoError(t, err)
	assert.True(t, f.IsPositive())
	assert.Equal(t, "great", f.Comment)

	three := 3
	FeedbackUpdate{Rating: &three}.Apply(f)
	assert.False(t, f.IsPositive())
	assert.True(t, IsPositiveRating(PositiveRating))
	assert.False(t, IsPositiveRating(PositiveRating-1))
}

func TestNewAdmin(t *testing.T) {
	a, err := NewAdmin(AdminParams{Username: "campus_ops", Email: "Ops@Campus.edu", Password: "s3cretpass"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, a.Role)
	assert.True(t, a.IsActive)
	assert.False(t, a.IsSuperAdmin())

	_, err = NewAdmin(AdminParams{Username: "x!", Email: "ops", Password: "short", Role: "root"}, testNow)
	assert.Equal(t, []string{"username", "email", "password", "role"}, fieldsOf(t, err))
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role     Role
		resource Resource
		action   Action
		allowed  bool
	}{
		{RoleAdmin, ResourceAdmins, ActionRead, false},
		{RoleSuperAdmin, ResourceAdmins, ActionRead, true},
		{RoleAdmin, ResourceAdmins, ActionManage, false},
		{RoleSuperAdmin, ResourceAdmins, ActionManage, true},
		{RoleAdmin, ResourceEvents, ActionWrite, true},
		{RoleAdmin, ResourceReports, ActionRead, true},
		{RoleAdmin, ResourceReports, ActionDelete, false},
		{Role("guest"), ResourceEvents, ActionRead, false},
	}
	for _, tt := range tests {
		err := Authorize(tt.role, tt.resource, tt.action)
		if tt.allowed {
			assert.NoError(t, err, "%s %s %s", tt.role, tt.resource, tt.action)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s %s %s", tt.role, tt.resource, tt.action)
		}
	}
}

func TestBusinessErrorsUnwrapToKind(t *testing.T) {
	assert.ErrorIs(t, ErrDuplicateRegistration, ErrConflict)
	assert.ErrorIs(t, ErrSelfDeactivation, ErrInvalidInput)
	assert.Nil(t, NewValidationError(nil))
}

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		p          PaginationParams
		wantOffset int
		unbounded  bool
	}{
		{"zero value", PaginationParams{}, 0, true},
		{"first page", FirstN(20), 0, false},
		{"third page", PaginationParams{Page: 3, PageSize: 20}, 40, false},
		{"page below one", PaginationParams{Page: 0, PageSize: 10}, 0, false},
		{"page without size", PaginationParams{Page: 4}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOffset, tt.p.Offset())
			assert.Equal(t, tt.unbounded, tt.p.Unbounded())
		})
	}
}
