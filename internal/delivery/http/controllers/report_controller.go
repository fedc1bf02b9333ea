package controllers

import (
	"log/slog"
	"net/http"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

// Report query defaults.
const (
	DefaultTopStudents    = 5
	DefaultRecentDays     = 30
	DefaultUpcomingEvents = 5
)

type ReportController struct {
	Logger     *slog.Logger
	Service    domain.ReportService
	RecentDays int
}

// NewReportController returns a ReportController. recentDays is the dashboard
// window used when the request does not set days; zero means DefaultRecentDays.
func NewReportController(logger *slog.Logger, svc domain.ReportService, recentDays int) *ReportController {
	if recentDays <= 0 {
		recentDays = DefaultRecentDays
	}
	return &ReportController{Logger: logger, Service: svc, RecentDays: recentDays}
}

// EventPopularity godoc
// @Summary Event popularity
// @Description Events ranked by non-cancelled registration count, highest first.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.SuccessResponse "data is a list of EventPopularity"
// @Router /api/reports/event-popularity [get]
func (c *ReportController) EventPopularity(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Service.EventPopularity(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event popularity report generated", nonNil(rows))
}

// StudentParticipation godoc
// @Summary Student participation
// @Description Registered and attended event counts per student with the participation rate.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.SuccessResponse "data is a list of StudentParticipation"
// @Router /api/reports/student-participation [get]
func (c *ReportController) StudentParticipation(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Service.StudentParticipation(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "student participation report generated", nonNil(rows))
}

// TopStudents godoc
// @Summary Most active students
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "How many students (default 5, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of StudentParticipation"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/reports/top-students [get]
func (c *ReportController) TopStudents(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	limit := q.Int("limit", DefaultTopStudents, 1, 100)
	if errs := q.Errors(); len(errs) > 0 {
		h.WriteValidationError(w, errs)
		return
	}
	rows, err := c.Service.TopStudents(r.Context(), limit)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "top students report generated", nonNil(rows))
}

// Attendance godoc
// @Summary Attendance report for an event
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param event_id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is an AttendanceReport"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/reports/attendance/{event_id} [get]
func (c *ReportController) Attendance(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathUUID(w, r, "event_id")
	if !ok {
		return
	}
	rep, err := c.Service.AttendanceReport(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "event not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "attendance report generated", rep)
}

// Feedback godoc
// @Summary Feedback report for an event
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param event_id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is a FeedbackReport"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/reports/feedback/{event_id} [get]
func (c *ReportController) Feedback(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathUUID(w, r, "event_id")
	if !ok {
		return
	}
	rep, err := c.Service.FeedbackReport(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "event not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "feedback report generated", rep)
}

// Colleges godoc
// @Summary Per-college totals
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.SuccessResponse "data is a list of CollegeRollup"
// @Router /api/reports/colleges [get]
func (c *ReportController) Colleges(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Service.CollegeRollups(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "college report generated", nonNil(rows))
}

// Dashboard godoc
// @Summary Dashboard summary
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param days query int false "Recent window in days (default 30)"
// @Param upcoming_limit query int false "Upcoming events to include (default 5)"
// @Success 200 {object} helpers.SuccessResponse "data is a DashboardSummary"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/reports/dashboard [get]
func (c *ReportController) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	days := q.Int("days", c.RecentDays, 1, 365)
	upcoming := q.Int("upcoming_limit", DefaultUpcomingEvents, 1, 50)
	if errs := q.Errors(); len(errs) > 0 {
		h.WriteValidationError(w, errs)
		return
	}
	sum, err := c.Service.Dashboard(r.Context(), days, upcoming)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "dashboard summary generated", sum)
}

// Filter godoc
// @Summary Filtered records
// @Description Lists one record type with the filters that apply to it. Fields that do not apply to the type are ignored.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param type query string true "events, students, registrations, attendance or feedback"
// @Param college_id query string false "College ID (UUID)"
// @Param event_id query string false "Event ID (UUID)"
// @Param student_id query string false "Student ID (UUID)"
// @Param status query string false "Status valid for the chosen type"
// @Param date_from query string false "RFC3339 timestamp or YYYY-MM-DD"
// @Param date_to query string false "RFC3339 timestamp or YYYY-MM-DD (inclusive, a date covers the whole day)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a FilterReport"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/reports/filter [get]
func (c *ReportController) Filter(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.ReportFilter{
		Type:       domain.ReportType(q.String("type")),
		CollegeID:  q.UUID("college_id"),
		EventID:    q.UUID("event_id"),
		StudentID:  q.UUID("student_id"),
		Status:     q.String("status"),
		DateFrom:   q.Time("date_from"),
		DateTo:     q.TimeUntil("date_to"),
		Pagination: q.Pagination(),
	}
	if errs := q.Errors(); len(errs) > 0 {
		h.WriteValidationError(w, errs)
		return
	}
	rep, err := c.Service.Filter(r.Context(), f)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONPage(w, "filtered report generated", rep, h.NewPaginationMeta(f.Pagination, rep.Total))
}
