package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

const (
	collegeID      = "0b6f7c3e-0d2a-4f51-9c61-2a8f0e6b7d01"
	studentID      = "1b6f7c3e-0d2a-4f51-9c61-2a8f0e6b7d02"
	eventID        = "2b6f7c3e-0d2a-4f51-9c61-2a8f0e6b7d03"
	registrationID = "3b6f7c3e-0d2a-4f51-9c61-2a8f0e6b7d04"
	adminID        = "4b6f7c3e-0d2a-4f51-9c61-2a8f0e6b7d05"
	otherAdminID   = "5b6f7c3e-0d2a-4f51-9c61-2a8f0e6b7d06"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// serve routes req through a mux holding only pattern so path values resolve.
func serve(t *testing.T, pattern string, fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, fn)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withClaims(req *http.Request, id string, role domain.Role) *http.Request {
	return req.WithContext(middleware.SetClaims(req.Context(), &domain.TokenClaims{
		AdminID: id, Username: "tester", Role: role, Kind: domain.TokenAccess,
	}))
}

type envelope struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Data       json.RawMessage         `json:"data"`
	Errors     []domain.FieldError     `json:"errors"`
	Pagination *helpers.PaginationMeta `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func errorFields(env envelope) []string {
	out := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		out = append(out, e.Field)
	}
	return out
}

func intPtr(v int) *int { return &v }

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	result        *domain.AuthResult
	admin         *domain.Admin
	admins        []*domain.Admin
	total         int
	err           error
	lastParams    domain.AdminParams
	lastLogin     string
	lastFilter    domain.AdminFilter
	lastUpdate    domain.AdminProfileUpdate
	lastActorID   string
	lastTargetID  string
	lastActive    bool
	forgotEmail   string
	resetToken    string
	changeCurrent string
}

func (f *fakeAuthService) Register(_ context.Context, p domain.AdminParams) (*domain.AuthResult, error) {
	f.lastParams = p
	return f.result, f.err
}

func (f *fakeAuthService) Login(_ context.Context, identifier, _ string) (*domain.AuthResult, error) {
	f.lastLogin = identifier
	return f.result, f.err
}

func (f *fakeAuthService) Refresh(context.Context, string) (*domain.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuthService) GetProfile(context.Context, string) (*domain.Admin, error) {
	return f.admin, f.err
}

func (f *fakeAuthService) UpdateProfile(_ context.Context, _ string, u domain.AdminProfileUpdate) (*domain.Admin, error) {
	f.lastUpdate = u
	return f.admin, f.err
}

func (f *fakeAuthService) ChangePassword(_ context.Context, _ string, current, _ string) error {
	f.changeCurrent = current
	return f.err
}

func (f *fakeAuthService) ForgotPassword(_ context.Context, email string) error {
	f.forgotEmail = email
	return f.err
}

func (f *fakeAuthService) ResetPassword(_ context.Context, token, _ string) error {
	f.resetToken = token
	return f.err
}

func (f *fakeAuthService) ListAdmins(_ context.Context, filter domain.AdminFilter) ([]*domain.Admin, int, error) {
	f.lastFilter = filter
	return f.admins, f.total, f.err
}

func (f *fakeAuthService) SetAdminActive(_ context.Context, actorID, targetID string, active bool) (*domain.Admin, error) {
	f.lastActorID, f.lastTargetID, f.lastActive = actorID, targetID, active
	if f.err != nil {
		return nil, f.err
	}
	if !active && actorID == targetID {
		return nil, domain.ErrSelfDeactivation
	}
	return &domain.Admin{ID: targetID, IsActive: active, Role: domain.RoleAdmin}, nil
}

// fakeVerifier maps tokens to roles.
type fakeVerifier map[string]domain.Role

func (f fakeVerifier) Verify(token string, _ domain.TokenKind) (*domain.TokenClaims, error) {
	role, ok := f[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{AdminID: adminID, Role: role, Kind: domain.TokenAccess}, nil
}

type countingFailures struct{ n int }

func (c *countingFailures) IncrementLoginFailures() { c.n++ }

type countingRegistrations struct{ byStatus map[string]int }

func (c *countingRegistrations) IncrementRegistrations(status string) {
	if c.byStatus == nil {
		c.byStatus = map[string]int{}
	}
	c.byStatus[status]++
}

// fakeEventService implements domain.EventService.
type fakeEventService struct {
	event      *domain.Event
	events     []*domain.Event
	total      int
	stats      *domain.EventStats
	err        error
	lastParams domain.EventParams
	lastFilter domain.EventFilter
	lastUpdate domain.EventUpdate
	deletedID  string
}

func (f *fakeEventService) Create(_ context.Context, p domain.EventParams) (*domain.Event, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: eventID, CollegeID: p.CollegeID, Title: p.Title, Date: p.Date, MaxAttendees: p.MaxAttendees, Status: domain.EventScheduled}, nil
}

func (f *fakeEventService) List(_ context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	f.lastFilter = filter
	return f.events, f.total, f.err
}

func (f *fakeEventService) GetByID(context.Context, string) (*domain.Event, error) {
	return f.event, f.err
}

func (f *fakeEventService) Update(_ context.Context, _ string, u domain.EventUpdate) (*domain.Event, error) {
	f.lastUpdate = u
	return f.event, f.err
}

func (f *fakeEventService) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.err
}

func (f *fakeEventService) Stats(context.Context, string) (*domain.EventStats, error) {
	return f.stats, f.err
}

// fakeRegistrationService implements domain.RegistrationService.
type fakeRegistrationService struct {
	status     domain.RegistrationStatus
	regs       []*domain.Registration
	total      int
	err        error
	lastStatus domain.RegistrationStatus
	lastFilter domain.RegistrationFilter
}

func (f *fakeRegistrationService) Create(_ context.Context, studentID, eventID string, status domain.RegistrationStatus) (*domain.Registration, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	if st == "" {
		st = domain.RegistrationConfirmed
	}
	return &domain.Registration{ID: registrationID, StudentID: studentID, EventID: eventID, Status: st}, nil
}

func (f *fakeRegistrationService) List(_ context.Context, filter domain.RegistrationFilter) ([]*domain.Registration, int, error) {
	f.lastFilter = filter
	return f.regs, f.total, f.err
}

func (f *fakeRegistrationService) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Registration{ID: id, Status: domain.RegistrationConfirmed}, nil
}

func (f *fakeRegistrationService) UpdateStatus(_ context.Context, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Registration{ID: id, Status: status}, nil
}

func (f *fakeRegistrationService) Delete(context.Context, string) error {
	return f.err
}

// fakeReportService implements domain.ReportService.
type fakeReportService struct {
	err          error
	lastN        int
	lastDays     int
	lastUpcoming int
	lastFilter   domain.ReportFilter
	attendance   *domain.AttendanceReport
	feedback     *domain.FeedbackReport
	filtered     *domain.FilterReport
}

func (f *fakeReportService) EventPopularity(context.Context) ([]*domain.EventPopularity, error) {
	return nil, f.err
}

func (f *fakeReportService) StudentParticipation(context.Context) ([]*domain.StudentParticipation, error) {
	return []*domain.StudentParticipation{{StudentID: studentID, RegisteredEvents: 2, AttendedEvents: 1, ParticipationRate: 50}}, f.err
}

func (f *fakeReportService) TopStudents(_ context.Context, n int) ([]*domain.StudentParticipation, error) {
	f.lastN = n
	return []*domain.StudentParticipation{}, f.err
}

func (f *fakeReportService) AttendanceReport(context.Context, string) (*domain.AttendanceReport, error) {
	return f.attendance, f.err
}

func (f *fakeReportService) FeedbackReport(context.Context, string) (*domain.FeedbackReport, error) {
	return f.feedback, f.err
}

func (f *fakeReportService) CollegeRollups(context.Context) ([]*domain.CollegeRollup, error) {
	return []*domain.CollegeRollup{}, f.err
}

func (f *fakeReportService) Dashboard(_ context.Context, days, upcoming int) (*domain.DashboardSummary, error) {
	f.lastDays, f.lastUpcoming = days, upcoming
	return &domain.DashboardSummary{RecentDays: days}, f.err
}

func (f *fakeReportService) Filter(_ context.Context, filter domain.ReportFilter) (*domain.FilterReport, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.filtered, nil
}

// fakeCollegeService implements domain.CollegeService.
type fakeCollegeService struct {
	err        error
	colleges   []*domain.College
	total      int
	lastParams domain.CollegeParams
	lastFilter domain.CollegeFilter
	lastUpdate domain.CollegeUpdate
}

func (f *fakeCollegeService) Create(_ context.Context, p domain.CollegeParams) (*domain.College, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &domain.College{ID: collegeID, Name: p.Name, Address: p.Address, ContactEmail: p.ContactEmail}, nil
}

func (f *fakeCollegeService) List(_ context.Context, filter domain.CollegeFilter) ([]*domain.College, int, error) {
	f.lastFilter = filter
	return f.colleges, f.total, f.err
}

func (f *fakeCollegeService) GetByID(_ context.Context, id string) (*domain.College, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.College{ID: id}, nil
}

func (f *fakeCollegeService) Update(_ context.Context, id string, u domain.CollegeUpdate) (*domain.College, error) {
	f.lastUpdate = u
	if f.err != nil {
		return nil, f.err
	}
	return &domain.College{ID: id}, nil
}

func (f *fakeCollegeService) Delete(context.Context, string) error { return f.err }

// fakeStudentService implements domain.StudentService.
type fakeStudentService struct {
	err        error
	lastParams domain.StudentParams
	lastFilter domain.StudentFilter
}

func (f *fakeStudentService) Create(_ context.Context, p domain.StudentParams) (*domain.Student, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Student{ID: studentID, Email: p.Email, Name: p.Name, CollegeID: p.CollegeID}, nil
}

func (f *fakeStudentService) List(_ context.Context, filter domain.StudentFilter) ([]*domain.Student, int, error) {
	f.lastFilter = filter
	return nil, 0, f.err
}

func (f *fakeStudentService) GetByID(_ context.Context, id string) (*domain.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Student{ID: id}, nil
}

func (f *fakeStudentService) Update(_ context.Context, id string, _ domain.StudentUpdate) (*domain.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Student{ID: id}, nil
}

func (f *fakeStudentService) Delete(context.Context, string) error { return f.err }

// fakeAttendanceService implements domain.AttendanceService.
type fakeAttendanceService struct {
	err        error
	lastParams domain.AttendanceParams
	lastUpdate domain.AttendanceUpdate
	lastFilter domain.AttendanceFilter
}

func (f *fakeAttendanceService) Create(_ context.Context, p domain.AttendanceParams) (*domain.Attendance, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Attendance{ID: registrationID, StudentID: p.StudentID, EventID: p.EventID, Status: p.Status}, nil
}

func (f *fakeAttendanceService) List(_ context.Context, filter domain.AttendanceFilter) ([]*domain.Attendance, int, error) {
	f.lastFilter = filter
	return nil, 0, f.err
}

func (f *fakeAttendanceService) GetByID(_ context.Context, id string) (*domain.Attendance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Attendance{ID: id}, nil
}

func (f *fakeAttendanceService) Update(_ context.Context, id string, u domain.AttendanceUpdate) (*domain.Attendance, error) {
	f.lastUpdate = u
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Attendance{ID: id}, nil
}

func (f *fakeAttendanceService) Delete(context.Context, string) error { return f.err }

// fakeFeedbackService implements domain.FeedbackService.
type fakeFeedbackService struct {
	err        error
	lastParams domain.FeedbackParams
	lastFilter domain.FeedbackFilter
}

func (f *fakeFeedbackService) Create(_ context.Context, p domain.FeedbackParams) (*domain.Feedback, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Feedback{ID: registrationID, StudentID: p.StudentID, EventID: p.EventID, Rating: p.Rating}, nil
}

func (f *fakeFeedbackService) List(_ context.Context, filter domain.FeedbackFilter) ([]*domain.Feedback, int, error) {
	f.lastFilter = filter
	return nil, 0, f.err
}

func (f *fakeFeedbackService) GetByID(_ context.Context, id string) (*domain.Feedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Feedback{ID: id}, nil
}

func (f *fakeFeedbackService) Update(_ context.Context, id string, _ domain.FeedbackUpdate) (*domain.Feedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Feedback{ID: id}, nil
}

func (f *fakeFeedbackService) Delete(context.Context, string) error { return f.err }
