package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"campusevents/internal/domain"
	"campusevents/internal/stats"
)

// recentCommentsLimit caps the comments included in a feedback report.
const recentCommentsLimit = 5

type reportService struct {
	events        domain.EventRepository
	students      domain.StudentRepository
	colleges      domain.CollegeRepository
	registrations domain.RegistrationRepository
	attendance    domain.AttendanceRepository
	feedback      domain.FeedbackRepository
	now           func() time.Time
}

// NewReportService returns a ReportService reading from the given repositories.
func NewReportService(
	events domain.EventRepository,
	students domain.StudentRepository,
	colleges domain.CollegeRepository,
	registrations domain.RegistrationRepository,
	attendance domain.AttendanceRepository,
	feedback domain.FeedbackRepository,
) domain.ReportService {
	return &reportService{
		events:        events,
		students:      students,
		colleges:      colleges,
		registrations: registrations,
		attendance:    attendance,
		feedback:      feedback,
		now:           time.Now,
	}
}

// EventPopularity ranks events by registration count, highest first. Ties keep id order.
func (s *reportService) EventPopularity(ctx context.Context) ([]*domain.EventPopularity, error) {
	events, err := s.events.List(ctx, domain.EventFilter{})
	if err != nil {
		return nil, err
	}
	counts, err := s.registrations.CountByEvent(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.EventPopularity, 0, len(events))
	for _, e := range events {
		out = append(out, &domain.EventPopularity{
			EventID:           e.ID,
			Title:             e.Title,
			CollegeID:         e.CollegeID,
			Date:              e.Date,
			Status:            e.Status,
			MaxAttendees:      e.MaxAttendees,
			RegistrationCount: counts[e.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RegistrationCount != out[j].RegistrationCount {
			return out[i].RegistrationCount > out[j].RegistrationCount
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

// StudentParticipation returns every student, in name order, with registered
// and attended counts.
func (s *reportService) StudentParticipation(ctx context.Context) ([]*domain.StudentParticipation, error) {
	students, err := s.students.List(ctx, domain.StudentFilter{})
	if err != nil {
		return nil, err
	}
	registered, err := s.registrations.CountByStudent(ctx)
	if err != nil {
		return nil, err
	}
	attended, err := s.attendedByStudent(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.StudentParticipation, 0, len(students))
	for _, st := range students {
		reg, att := registered[st.ID], attended[st.ID]
		out = append(out, &domain.StudentParticipation{
			StudentID:         st.ID,
			Name:              st.Name,
			Email:             st.Email,
			CollegeID:         st.CollegeID,
			RegisteredEvents:  reg,
			AttendedEvents:    att,
			ParticipationRate: stats.Percent(att, reg),
		})
	}
	return out, nil
}

// attendedByStudent counts, per student, the records whose status counts as attended.
func (s *reportService) attendedByStudent(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, status := range domain.AttendanceStatuses {
		if !status.Attended() {
			continue
		}
		counts, err := s.attendance.CountByStudent(ctx, status)
		if err != nil {
			return nil, err
		}
		for id, n := range counts {
			out[id] += n
		}
	}
	return out, nil
}

// TopStudents returns the n students with the most attended events.
func (s *reportService) TopStudents(ctx context.Context, n int) ([]*domain.StudentParticipation, error) {
	if n <= 0 {
		return nil, domain.NewValidationError([]domain.FieldError{{Field: "limit", Message: "must be a positive integer"}})
	}
	all, err := s.StudentParticipation(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].AttendedEvents > all[j].AttendedEvents
	})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *reportService) AttendanceReport(ctx context.Context, eventID string) (*domain.AttendanceReport, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	total, err := s.registrations.Count(ctx, domain.RegistrationFilter{EventID: eventID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	byStatus, err := s.attendance.CountByStatusForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	present := domain.AttendedCount(byStatus)
	return &domain.AttendanceReport{
		EventID:            event.ID,
		EventTitle:         event.Title,
		TotalRegistrations: total,
		Present:            present,
		Absent:             byStatus[domain.AttendanceAbsent],
		Late:               byStatus[domain.AttendanceLate],
		AttendanceRate:     stats.Percent(present, total),
	}, nil
}

func (s *reportService) FeedbackReport(ctx context.Context, eventID string) (*domain.FeedbackReport, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.feedback.ListRatingsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	recent, err := s.feedback.List(ctx, domain.FeedbackFilter{
		EventID:    eventID,
		Pagination: domain.FirstN(recentCommentsLimit),
	})
	if err != nil {
		return nil, err
	}
	comments := make([]*domain.Feedback, 0, len(recent))
	for _, f := range recent {
		if f.Comment != "" {
			comments = append(comments, f)
		}
	}
	positive := stats.CountWhere(ratings, domain.IsPositiveRating)
	return &domain.FeedbackReport{
		EventID:            event.ID,
		EventTitle:         event.Title,
		TotalFeedback:      len(ratings),
		AverageRating:      stats.Mean(ratings),
		RatingDistribution: stats.Histogram(ratings, domain.MinRating, domain.MaxRating),
		SatisfactionRate:   stats.Percent(positive, len(ratings)),
		RecentComments:     comments,
	}, nil
}

// CollegeRollups groups students by college and sums their registrations,
// attendance records and feedback. Colleges come back in name order.
func (s *reportService) CollegeRollups(ctx context.Context) ([]*domain.CollegeRollup, error) {
	colleges, err := s.colleges.List(ctx, domain.CollegeFilter{})
	if err != nil {
		return nil, err
	}
	students, err := s.students.List(ctx, domain.StudentFilter{})
	if err != nil {
		return nil, err
	}
	registrations, err := s.registrations.CountByStudent(ctx)
	if err != nil {
		return nil, err
	}
	attendance, err := s.attendance.CountByStudent(ctx, "")
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedback.CountByStudent(ctx)
	if err != nil {
		return nil, err
	}

	byCollege := make(map[string]*domain.CollegeRollup, len(colleges))
	out := make([]*domain.CollegeRollup, 0, len(colleges))
	for _, c := range colleges {
		r := &domain.CollegeRollup{CollegeID: c.ID, CollegeName: c.Name}
		byCollege[c.ID] = r
		out = append(out, r)
	}
	for _, st := range students {
		r, ok := byCollege[st.CollegeID]
		if !ok {
			continue
		}
		r.StudentCount++
		r.RegistrationCount += registrations[st.ID]
		r.AttendanceCount += attendance[st.ID]
		r.FeedbackCount += feedback[st.ID]
	}
	return out, nil
}

// Dashboard counts totals and recent activity concurrently.
func (s *reportService) Dashboard(ctx context.Context, recentDays, upcomingLimit int) (*domain.DashboardSummary, error) {
	var errs []domain.FieldError
	if recentDays <= 0 {
		errs = append(errs, domain.FieldError{Field: "days", Message: "must be a positive integer"})
	}
	if upcomingLimit <= 0 {
		errs = append(errs, domain.FieldError{Field: "upcoming_limit", Message: "must be a positive integer"})
	}
	if err := domain.NewValidationError(errs); err != nil {
		return nil, err
	}

	now := s.now()
	since := now.AddDate(0, 0, -recentDays)
	summary := &domain.DashboardSummary{RecentDays: recentDays}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalEvents, err = s.events.Count(ctx, domain.EventFilter{})
		return err
	})
	g.Go(func() (err error) {
		summary.TotalStudents, err = s.students.Count(ctx, domain.StudentFilter{})
		return err
	})
	g.Go(func() (err error) {
		summary.TotalColleges, err = s.colleges.Count(ctx, domain.CollegeFilter{})
		return err
	})
	g.Go(func() (err error) {
		summary.RecentRegistrations, err = s.registrations.Count(ctx, domain.RegistrationFilter{Since: &since})
		return err
	})
	g.Go(func() (err error) {
		summary.RecentAttendance, err = s.attendance.Count(ctx, domain.AttendanceFilter{Since: &since})
		return err
	})
	g.Go(func() (err error) {
		summary.UpcomingEvents, err = s.events.List(ctx, domain.EventFilter{DateFrom: &now, Limit: upcomingLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return summary, nil
}

// Filter returns one page of the collection named by f.Type.
func (s *reportService) Filter(ctx context.Context, f domain.ReportFilter) (*domain.FilterReport, error) {
	if !f.Type.Valid() {
		return nil, domain.NewValidationError([]domain.FieldError{{
			Field: "type", Message: "must be one of events, students, registrations, attendance, feedback",
		}})
	}
	out := &domain.FilterReport{Type: f.Type}
	var err error
	switch f.Type {
	case domain.ReportEvents:
		status := domain.EventStatus(f.Status)
		if status != "" && !status.Valid() {
			return nil, invalidStatus("scheduled, ongoing, completed, cancelled")
		}
		ef := domain.EventFilter{CollegeID: f.CollegeID, Status: status, DateFrom: f.DateFrom, DateTo: f.DateTo, Pagination: f.Pagination}
		out.Items, out.Total, err = listAndCount(ctx, s.events.List, s.events.Count, ef)
	case domain.ReportStudents:
		sf := domain.StudentFilter{CollegeID: f.CollegeID, Pagination: f.Pagination}
		out.Items, out.Total, err = listAndCount(ctx, s.students.List, s.students.Count, sf)
	case domain.ReportRegistrations:
		status := domain.RegistrationStatus(f.Status)
		if status != "" && !status.Valid() {
			return nil, invalidStatus("pending, confirmed, cancelled, waitlisted")
		}
		rf := domain.RegistrationFilter{EventID: f.EventID, StudentID: f.StudentID, Status: status, Since: f.DateFrom, Pagination: f.Pagination}
		out.Items, out.Total, err = listAndCount(ctx, s.registrations.List, s.registrations.Count, rf)
	case domain.ReportAttendance:
		status := domain.AttendanceStatus(f.Status)
		if status != "" && !status.Valid() {
			return nil, invalidStatus("present, absent, late")
		}
		af := domain.AttendanceFilter{EventID: f.EventID, StudentID: f.StudentID, Status: status, Since: f.DateFrom, Pagination: f.Pagination}
		out.Items, out.Total, err = listAndCount(ctx, s.attendance.List, s.attendance.Count, af)
	case domain.ReportFeedback:
		ff := domain.FeedbackFilter{EventID: f.EventID, StudentID: f.StudentID, Since: f.DateFrom, Pagination: f.Pagination}
		out.Items, out.Total, err = listAndCount(ctx, s.feedback.List, s.feedback.Count, ff)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func invalidStatus(allowed string) error {
	return domain.NewValidationError([]domain.FieldError{{Field: "status", Message: "must be one of " + allowed}})
}

func listAndCount[F any, T any](
	ctx context.Context,
	list func(context.Context, F) ([]T, error),
	count func(context.Context, F) (int, error),
	f F,
) (any, int, error) {
	items, err := list(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
