package domain

import (
	"context"
	"time"
)

// EventPopularity is one row of the popularity ranking.
// swagger:model EventPopularity
type EventPopularity struct {
	EventID           string      `json:"event_id"`
	Title             string      `json:"title"`
	CollegeID         string      `json:"college_id"`
	Date              time.Time   `json:"date"`
	Status            EventStatus `json:"status"`
	MaxAttendees      int         `json:"max_attendees"`
	RegistrationCount int         `json:"registration_count"`
}

// StudentParticipation summarizes one student's engagement.
// swagger:model StudentParticipation
type StudentParticipation struct {
	StudentID         string  `json:"student_id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	CollegeID         string  `json:"college_id"`
	RegisteredEvents  int     `json:"registered_events"`
	AttendedEvents    int     `json:"attended_events"`
	ParticipationRate float64 `json:"participation_rate"`
}

// AttendanceReport summarizes attendance for one event.
// swagger:model AttendanceReport
type AttendanceReport struct {
	EventID            string  `json:"event_id"`
	EventTitle         string  `json:"event_title"`
	TotalRegistrations int     `json:"total_registrations"`
	Present            int     `json:"present"`
	Absent             int     `json:"absent"`
	Late               int     `json:"late"`
	AttendanceRate     float64 `json:"attendance_rate"`
}

// FeedbackReport summarizes ratings for one event.
// swagger:model FeedbackReport
type FeedbackReport struct {
	EventID            string      `json:"event_id"`
	EventTitle         string      `json:"event_title"`
	TotalFeedback      int         `json:"total_feedback"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
	SatisfactionRate   float64     `json:"satisfaction_rate"`
	RecentComments     []*Feedback `json:"recent_comments"`
}

// CollegeRollup holds per-college totals.
// swagger:model CollegeRollup
type CollegeRollup struct {
	CollegeID         string `json:"college_id"`
	CollegeName       string `json:"college_name"`
	StudentCount      int    `json:"student_count"`
	RegistrationCount int    `json:"registration_count"`
	AttendanceCount   int    `json:"attendance_count"`
	FeedbackCount     int    `json:"feedback_count"`
}

// DashboardSummary is the landing page overview.
// swagger:model DashboardSummary
type DashboardSummary struct {
	TotalEvents         int      `json:"total_events"`
	TotalStudents       int      `json:"total_students"`
	TotalColleges       int      `json:"total_colleges"`
	RecentRegistrations int      `json:"recent_registrations"`
	RecentAttendance    int      `json:"recent_attendance"`
	RecentDays          int      `json:"recent_days"`
	UpcomingEvents      []*Event `json:"upcoming_events"`
}

// ReportType selects the collection returned by the filter report.
type ReportType string

const (
	ReportEvents        ReportType = "events"
	ReportStudents      ReportType = "students"
	ReportRegistrations ReportType = "registrations"
	ReportAttendance    ReportType = "attendance"
	ReportFeedback      ReportType = "feedback"
)

// Valid reports whether t is a known report type.
func (t ReportType) Valid() bool {
	switch t {
	case ReportEvents, ReportStudents, ReportRegistrations, ReportAttendance, ReportFeedback:
		return true
	}
	return false
}

// ReportFilter is the query of GET /reports/filter. Fields that do not apply to Type are ignored.
type ReportFilter struct {
	Type       ReportType
	CollegeID  string
	EventID    string
	StudentID  string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Pagination PaginationParams
}

// FilterReport is the result of GET /reports/filter.
// swagger:model FilterReport
type FilterReport struct {
	Type  ReportType `json:"type"`
	Total int        `json:"total"`
	Items any        `json:"items"`
}

// ReportService computes read-only statistics.
type ReportService interface {
	EventPopularity(ctx context.Context) ([]*EventPopularity, error)
	StudentParticipation(ctx context.Context) ([]*StudentParticipation, error)
	TopStudents(ctx context.Context, n int) ([]*StudentParticipation, error)
	AttendanceReport(ctx context.Context, eventID string) (*AttendanceReport, error)
	FeedbackReport(ctx context.Context, eventID string) (*FeedbackReport, error)
	CollegeRollups(ctx context.Context) ([]*CollegeRollup, error)
	Dashboard(ctx context.Context, recentDays, upcomingLimit int) (*DashboardSummary, error)
	Filter(ctx context.Context, f ReportFilter) (*FilterReport, error)
}
