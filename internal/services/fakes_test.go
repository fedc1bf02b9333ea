package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"campusevents/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTable is a minimal in-memory table shared by the fake repositories.
type memTable[T any] struct {
	prefix string
	id     func(*T) *string
	rows   []*T
	seq    int
	err    error
}

func (m *memTable[T]) create(v *T) error {
	if m.err != nil {
		return m.err
	}
	m.seq++
	*m.id(v) = fmt.Sprintf("%s-%d", m.prefix, m.seq)
	cp := *v
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memTable[T]) get(id string) (*T, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if *m.id(r) == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
}

func (m *memTable[T]) update(v *T) error {
	if m.err != nil {
		return m.err
	}
	for i, r := range m.rows {
		if *m.id(r) == *m.id(v) {
			cp := *v
			m.rows[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("update: %w", domain.ErrNotFound)
}

func (m *memTable[T]) delete(id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for i, r := range m.rows {
		if *m.id(r) == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memTable[T]) filter(keep func(*T) bool) []*T {
	out := make([]*T, 0)
	for _, r := range m.rows {
		if keep == nil || keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

// seed stores v under its own id without touching the sequence.
func (m *memTable[T]) seed(v *T) {
	cp := *v
	m.rows = append(m.rows, &cp)
}

type fakeCollegeRepo struct{ memTable[domain.College] }

func newFakeCollegeRepo() *fakeCollegeRepo {
	return &fakeCollegeRepo{memTable[domain.College]{prefix: "col", id: func(c *domain.College) *string { return &c.ID }}}
}

func (f *fakeCollegeRepo) Create(_ context.Context, c *domain.College) error { return f.create(c) }
func (f *fakeCollegeRepo) List(_ context.Context, _ domain.CollegeFilter) ([]*domain.College, error) {
	return f.filter(nil), f.err
}
func (f *fakeCollegeRepo) Count(ctx context.Context, flt domain.CollegeFilter) (int, error) {
	items, err := f.List(ctx, flt)
	return len(items), err
}
func (f *fakeCollegeRepo) GetByID(_ context.Context, id string) (*domain.College, error) { return f.get(id) }
func (f *fakeCollegeRepo) Update(_ context.Context, c *domain.College) error            { return f.update(c) }
func (f *fakeCollegeRepo) Delete(_ context.Context, id string) (bool, error)            { return f.delete(id) }

type fakeStudentRepo struct{ memTable[domain.Student] }

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{memTable[domain.Student]{prefix: "stu", id: func(s *domain.Student) *string { return &s.ID }}}
}

func (f *fakeStudentRepo) Create(_ context.Context, s *domain.Student) error {
	for _, r := range f.rows {
		if r.Email == s.Email {
			return domain.ErrDuplicateStudentEmail
		}
	}
	return f.create(s)
}
func (f *fakeStudentRepo) List(_ context.Context, flt domain.StudentFilter) ([]*domain.Student, error) {
	return f.filter(func(s *domain.Student) bool {
		return flt.CollegeID == "" || s.CollegeID == flt.CollegeID
	}), f.err
}
func (f *fakeStudentRepo) Count(ctx context.Context, flt domain.StudentFilter) (int, error) {
	items, err := f.List(ctx, flt)
	return len(items), err
}
func (f *fakeStudentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) { return f.get(id) }
func (f *fakeStudentRepo) Update(_ context.Context, s *domain.Student) error            { return f.update(s) }
func (f *fakeStudentRepo) Delete(_ context.Context, id string) (bool, error)            { return f.delete(id) }

type fakeEventRepo struct{ memTable[domain.Event] }

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{memTable[domain.Event]{prefix: "ev", id: func(e *domain.Event) *string { return &e.ID }}}
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error { return f.create(e) }
func (f *fakeEventRepo) List(_ context.Context, flt domain.EventFilter) ([]*domain.Event, error) {
	items := f.filter(func(e *domain.Event) bool {
		if flt.CollegeID != "" && e.CollegeID != flt.CollegeID {
			return false
		}
		if flt.Status != "" && e.Status != flt.Status {
			return false
		}
		if flt.DateFrom != nil && e.Date.Before(*flt.DateFrom) {
			return false
		}
		return true
	})
	if flt.Limit > 0 && len(items) > flt.Limit {
		items = items[:flt.Limit]
	}
	return items, f.err
}
func (f *fakeEventRepo) Count(ctx context.Context, flt domain.EventFilter) (int, error) {
	items, err := f.List(ctx, flt)
	return len(items), err
}
func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) { return f.get(id) }
func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error            { return f.update(e) }
func (f *fakeEventRepo) Delete(_ context.Context, id string) (bool, error)          { return f.delete(id) }

type fakeRegistrationRepo struct{ memTable[domain.Registration] }

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{memTable[domain.Registration]{prefix: "reg", id: func(r *domain.Registration) *string { return &r.ID }}}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, r *domain.Registration) error {
	return f.create(r)
}
func (f *fakeRegistrationRepo) List(_ context.Context, flt domain.RegistrationFilter) ([]*domain.Registration, error) {
	return f.filter(func(r *domain.Registration) bool {
		switch {
		case flt.EventID != "" && r.EventID != flt.EventID:
			return false
		case flt.StudentID != "" && r.StudentID != flt.StudentID:
			return false
		case flt.Status != "" && r.Status != flt.Status:
			return false
		case flt.ActiveOnly && !r.IsActive():
			return false
		case flt.Since != nil && r.RegistrationDate.Before(*flt.Since):
			return false
		}
		return true
	}), f.err
}
func (f *fakeRegistrationRepo) Count(ctx context.Context, flt domain.RegistrationFilter) (int, error) {
	items, err := f.List(ctx, flt)
	return len(items), err
}
func (f *fakeRegistrationRepo) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	return f.get(id)
}
func (f *fakeRegistrationRepo) Update(_ context.Context, r *domain.Registration) error {
	return f.update(r)
}
func (f *fakeRegistrationRepo) Delete(_ context.Context, id string) (bool, error) { return f.delete(id) }
func (f *fakeRegistrationRepo) FindActiveByStudentAndEvent(_ context.Context, studentID, eventID string) (*domain.Registration, error) {
	for _, r := range f.rows {
		if r.StudentID == studentID && r.EventID == eventID && r.IsActive() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, f.err
}
func (f *fakeRegistrationRepo) CountActiveByEvent(_ context.Context, eventID string) (int, error) {
	n := 0
	for _, r := range f.rows {
		if r.EventID == eventID && holdsSeat(r.Status) {
			n++
		}
	}
	return n, f.err
}
func (f *fakeRegistrationRepo) CountByEvent(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, r := range f.rows {
		if r.IsActive() {
			out[r.EventID]++
		}
	}
	return out, f.err
}
func (f *fakeRegistrationRepo) CountByStudent(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, r := range f.rows {
		if r.IsActive() {
			out[r.StudentID]++
		}
	}
	return out, f.err
}

type fakeAttendanceRepo struct{ memTable[domain.Attendance] }

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{memTable[domain.Attendance]{prefix: "att", id: func(a *domain.Attendance) *string { return &a.ID }}}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, a *domain.Attendance) error {
	for _, r := range f.rows {
		if r.StudentID == a.StudentID && r.EventID == a.EventID {
			return domain.ErrDuplicateAttendance
		}
	}
	return f.create(a)
}
func (f *fakeAttendanceRepo) List(_ context.Context, flt domain.AttendanceFilter) ([]*domain.Attendance, error) {
	return f.filter(func(a *domain.Attendance) bool {
		switch {
		case flt.EventID != "" && a.EventID != flt.EventID:
			return false
		case flt.StudentID != "" && a.StudentID != flt.StudentID:
			return false
		case flt.Status != "" && a.Status != flt.Status:
			return false
		case flt.Since != nil && a.CreatedAt.Before(*flt.Since):
			return false
		}
		return true
	}), f.err
}
func (f *fakeAttendanceRepo) Count(ctx context.Context, flt domain.AttendanceFilter) (int, error) {
	items, err := f.List(ctx, flt)
	return len(items), err
}
func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (*domain.Attendance, error) {
	return f.get(id)
}
func (f *fakeAttendanceRepo) Update(_ context.Context, a *domain.Attendance) error { return f.update(a) }
func (f *fakeAttendanceRepo) Delete(_ context.Context, id string) (bool, error)    { return f.delete(id) }
func (f *fakeAttendanceRepo) CountByStatusForEvent(_ context.Context, eventID string) (map[domain.AttendanceStatus]int, error) {
	out := map[domain.AttendanceStatus]int{}
	for _, a := range f.rows {
		if a.EventID == eventID {
			out[a.Status]++
		}
	}
	return out, f.err
}
func (f *fakeAttendanceRepo) CountByStudent(_ context.Context, status domain.AttendanceStatus) (map[string]int, error) {
	out := map[string]int{}
	for _, a := range f.rows {
		if status == "" || a.Status == status {
			out[a.StudentID]++
		}
	}
	return out, f.err
}

type fakeFeedbackRepo struct{ memTable[domain.Feedback] }

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{memTable[domain.Feedback]{prefix: "fb", id: func(f *domain.Feedback) *string { return &f.ID }}}
}

func (f *fakeFeedbackRepo) Create(_ context.Context, fb *domain.Feedback) error {
	for _, r := range f.rows {
		if r.StudentID == fb.StudentID && r.EventID == fb.EventID {
			return domain.ErrDuplicateFeedback
		}
	}
	return f.create(fb)
}
func (f *fakeFeedbackRepo) List(_ context.Context, flt domain.FeedbackFilter) ([]*domain.Feedback, error) {
	items := f.filter(func(fb *domain.Feedback) bool {
		return (flt.EventID == "" || fb.EventID == flt.EventID) &&
			(flt.StudentID == "" || fb.StudentID == flt.StudentID) &&
			fb.Rating >= flt.MinRating
	})
	if size := flt.Pagination.PageSize; size > 0 && len(items) > size {
		items = items[:size]
	}
	return items, f.err
}
func (f *fakeFeedbackRepo) Count(ctx context.Context, flt domain.FeedbackFilter) (int, error) {
	flt.Pagination = domain.PaginationParams{}
	items, err := f.List(ctx, flt)
	return len(items), err
}
func (f *fakeFeedbackRepo) GetByID(_ context.Context, id string) (*domain.Feedback, error) {
	return f.get(id)
}
func (f *fakeFeedbackRepo) Update(_ context.Context, fb *domain.Feedback) error { return f.update(fb) }
func (f *fakeFeedbackRepo) Delete(_ context.Context, id string) (bool, error)  { return f.delete(id) }
func (f *fakeFeedbackRepo) ListRatingsByEvent(_ context.Context, eventID string) ([]int, error) {
	out := make([]int, 0)
	for _, fb := range f.rows {
		if fb.EventID == eventID {
			out = append(out, fb.Rating)
		}
	}
	return out, f.err
}
func (f *fakeFeedbackRepo) CountByStudent(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, fb := range f.rows {
		out[fb.StudentID]++
	}
	return out, f.err
}

type fakeAdminRepo struct {
	memTable[domain.Admin]
	lastLogin map[string]time.Time
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{
		memTable:  memTable[domain.Admin]{prefix: "adm", id: func(a *domain.Admin) *string { return &a.ID }},
		lastLogin: map[string]time.Time{},
	}
}

func (f *fakeAdminRepo) Create(_ context.Context, a *domain.Admin) error { return f.create(a) }
func (f *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	return f.get(id)
}
func (f *fakeAdminRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.Admin, error) {
	for _, a := range f.rows {
		if a.Email == identifier || a.Username == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get admin by identifier: %w", domain.ErrNotFound)
}
func (f *fakeAdminRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, a := range f.rows {
		if a.Username == username || a.Email == email {
			return true, nil
		}
	}
	return false, f.err
}
func (f *fakeAdminRepo) List(_ context.Context, flt domain.AdminFilter) ([]*domain.Admin, error) {
	return f.filter(func(a *domain.Admin) bool {
		return (flt.Role == "" || a.Role == flt.Role) && (flt.Active == nil || a.IsActive == *flt.Active)
	}), f.err
}
func (f *fakeAdminRepo) Count(ctx context.Context, flt domain.AdminFilter) (int, error) {
	items, err := f.List(ctx, flt)
	return len(items), err
}
func (f *fakeAdminRepo) Update(_ context.Context, a *domain.Admin) error { return f.update(a) }
func (f *fakeAdminRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	f.lastLogin[id] = at
	for _, a := range f.rows {
		if a.ID == id {
			a.LastLogin = &at
		}
	}
	return f.err
}

// fakePasswordHasher stores "salt:password" so comparisons are deterministic.
type fakePasswordHasher struct {
	salt string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokens issues "<kind>.<admin id>" tokens. The literal "expired" fails as expired.
type fakeTokens struct {
	ttl time.Duration
	err error
}

func (f *fakeTokens) Issue(c domain.TokenClaims) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return string(c.Kind) + "." + c.AdminID, nil
}

func (f *fakeTokens) TTL(domain.TokenKind) time.Duration { return f.ttl }

func (f *fakeTokens) Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	if token == "expired" {
		return nil, domain.ErrTokenExpired
	}
	k, id, ok := strings.Cut(token, ".")
	if !ok || domain.TokenKind(k) != kind {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{AdminID: id, Kind: kind}, nil
}

type fakeEmailService struct {
	welcome      []*domain.WelcomeEmailData
	resets       []*domain.PasswordResetEmailData
	confirmation []*domain.RegistrationEmailData
	err          error
}

func (f *fakeEmailService) SendWelcome(_ context.Context, d *domain.WelcomeEmailData) error {
	f.welcome = append(f.welcome, d)
	return f.err
}
func (f *fakeEmailService) SendPasswordReset(_ context.Context, d *domain.PasswordResetEmailData) error {
	f.resets = append(f.resets, d)
	return f.err
}
func (f *fakeEmailService) SendRegistrationConfirmation(_ context.Context, d *domain.RegistrationEmailData) error {
	f.confirmation = append(f.confirmation, d)
	return f.err
}

type fakePublisher struct {
	published []*domain.RegistrationNotification
	err       error
}

func (f *fakePublisher) PublishRegistration(_ context.Context, n *domain.RegistrationNotification) error {
	f.published = append(f.published, n)
	return f.err
}

// fixture wires every fake repository with one college, two students and one future event.
type fixture struct {
	colleges      *fakeCollegeRepo
	students      *fakeStudentRepo
	events        *fakeEventRepo
	registrations *fakeRegistrationRepo
	attendance    *fakeAttendanceRepo
	feedback      *fakeFeedbackRepo
}

func newFixture() *fixture {
	fx := &fixture{
		colleges:      newFakeCollegeRepo(),
		students:      newFakeStudentRepo(),
		events:        newFakeEventRepo(),
		registrations: newFakeRegistrationRepo(),
		attendance:    newFakeAttendanceRepo(),
		feedback:      newFakeFeedbackRepo(),
	}
	fx.colleges.seed(&domain.College{ID: "col-a", Name: "Alpha College", Address: "1 Alpha Road, Springfield", ContactEmail: "a@alpha.edu"})
	fx.students.seed(&domain.Student{ID: "stu-a", Email: "ana@alpha.edu", Name: "Ana", CollegeID: "col-a"})
	fx.students.seed(&domain.Student{ID: "stu-b", Email: "ben@alpha.edu", Name: "Ben", CollegeID: "col-a"})
	fx.events.seed(&domain.Event{
		ID: "ev-a", CollegeID: "col-a", Title: "Robotics Workshop", Description: "Build a line follower robot",
		Date: testNow.Add(72 * time.Hour), Location: "Main Hall", MaxAttendees: 2, Status: domain.EventScheduled,
	})
	return fx
}

func (fx *fixture) addRegistrations(eventID string, n int, status domain.RegistrationStatus) {
	for i := 0; i < n; i++ {
		fx.registrations.seed(&domain.Registration{
			ID: fmt.Sprintf("seed-reg-%s-%d-%s", eventID, i, status), StudentID: fmt.Sprintf("seed-stu-%d", i),
			EventID: eventID, Status: status, RegistrationDate: testNow,
		})
	}
}
