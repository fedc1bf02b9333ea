package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
	"campusevents/internal/validation"
)

const attendanceStatuses = "present, absent, late"

// CreateAttendanceRequest is the request body for POST /attendance.
type CreateAttendanceRequest struct {
	StudentID    string     `json:"student_id" validate:"required,uuid"`
	EventID      string     `json:"event_id" validate:"required,uuid"`
	Status       string     `json:"status" validate:"required,oneof=present absent late"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
}

// Normalize implements helpers.Normalizer.
func (c *CreateAttendanceRequest) Normalize() {
	c.StudentID = strings.TrimSpace(c.StudentID)
	c.EventID = strings.TrimSpace(c.EventID)
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
}

// Validate implements helpers.Validator.
func (c *CreateAttendanceRequest) Validate() []domain.FieldError {
	return checkTimes(c.CheckInTime, c.CheckOutTime)
}

// UpdateAttendanceRequest is the request body for PUT /attendance/{id}. At least one field is required.
type UpdateAttendanceRequest struct {
	Status       *string    `json:"status" validate:"omitempty,oneof=present absent late"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
}

// Normalize implements helpers.Normalizer.
func (u *UpdateAttendanceRequest) Normalize() {
	if u.Status != nil {
		*u.Status = strings.ToLower(strings.TrimSpace(*u.Status))
	}
}

// Validate implements helpers.Validator.
func (u *UpdateAttendanceRequest) Validate() []domain.FieldError {
	if errs := validation.RequireAny(u); errs != nil {
		return errs
	}
	return checkTimes(u.CheckInTime, u.CheckOutTime)
}

func checkTimes(in, out *time.Time) []domain.FieldError {
	if in != nil && out != nil && out.Before(*in) {
		return []domain.FieldError{{Field: "check_out_time", Message: "must not be before check_in_time"}}
	}
	return nil
}

type AttendanceController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

func NewAttendanceController(logger *slog.Logger, svc domain.AttendanceService) *AttendanceController {
	return &AttendanceController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Record attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAttendanceRequest true "Attendance data"
// @Success 201 {object} helpers.SuccessResponse "data is the created Attendance"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 404 {object} helpers.ErrorResponse "student or event not found"
// @Failure 409 {object} helpers.ErrorResponse "attendance already recorded"
// @Router /api/attendance [post]
func (c *AttendanceController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAttendanceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	a, err := c.Service.Create(r.Context(), domain.AttendanceParams{
		StudentID:    req.StudentID,
		EventID:      req.EventID,
		Status:       domain.AttendanceStatus(req.Status),
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "attendance recorded successfully", a)
}

// List godoc
// @Summary List attendance records
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Event ID (UUID)"
// @Param student_id query string false "Student ID (UUID)"
// @Param status query string false "present, absent or late"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of Attendance"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/attendance [get]
func (c *AttendanceController) List(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.AttendanceFilter{
		EventID:    q.UUID("event_id"),
		StudentID:  q.UUID("student_id"),
		Status:     domain.AttendanceStatus(q.Enum("status", func(s string) bool { return domain.AttendanceStatus(s).Valid() }, attendanceStatuses)),
		Pagination: q.Pagination(),
	}
	if errs := q.Errors(); len(errs) > 0 {
		h.WriteValidationError(w, errs)
		return
	}
	items, total, err := c.Service.List(r.Context(), f)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONPage(w, "attendance retrieved", nonNil(items), h.NewPaginationMeta(f.Pagination, total))
}

// Get godoc
// @Summary Get an attendance record
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is an Attendance"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/attendance/{id} [get]
func (c *AttendanceController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	a, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "attendance record not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "attendance retrieved", a)
}

// Update godoc
// @Summary Update an attendance record
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID (UUID)"
// @Param body body UpdateAttendanceRequest true "Fields to change"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Attendance"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/attendance/{id} [put]
func (c *AttendanceController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateAttendanceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.AttendanceUpdate{CheckInTime: req.CheckInTime, CheckOutTime: req.CheckOutTime}
	if req.Status != nil {
		s := domain.AttendanceStatus(*req.Status)
		upd.Status = &s
	}
	a, err := c.Service.Update(r.Context(), id, upd)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "attendance record not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "attendance updated successfully", a)
}

// Delete godoc
// @Summary Delete an attendance record
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/attendance/{id} [delete]
func (c *AttendanceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "attendance record not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "attendance deleted successfully", nil)
}
