package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

const registrationStatuses = "pending, confirmed, cancelled, waitlisted"

// RegistrationRecorder counts created registrations by resulting status.
type RegistrationRecorder interface {
	IncrementRegistrations(status string)
}

// CreateRegistrationRequest is the request body for POST /registrations.
// Status defaults to confirmed; a full event turns it into waitlisted.
type CreateRegistrationRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	EventID   string `json:"event_id" validate:"required,uuid"`
	Status    string `json:"status" validate:"omitempty,oneof=pending confirmed waitlisted"`
}

// Normalize implements helpers.Normalizer.
func (c *CreateRegistrationRequest) Normalize() {
	c.StudentID = strings.TrimSpace(c.StudentID)
	c.EventID = strings.TrimSpace(c.EventID)
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
}

// UpdateRegistrationRequest is the request body for PUT /registrations/{id}.
type UpdateRegistrationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled waitlisted"`
}

// Normalize implements helpers.Normalizer.
func (u *UpdateRegistrationRequest) Normalize() {
	u.Status = strings.ToLower(strings.TrimSpace(u.Status))
}

type RegistrationController struct {
	Logger   *slog.Logger
	Service  domain.RegistrationService
	Recorder RegistrationRecorder
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService, rec RegistrationRecorder) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc, Recorder: rec}
}

// Create godoc
// @Summary Register a student for an event
// @Description Registrations beyond the event's capacity are stored as waitlisted. Cancelled and completed events reject registrations.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRegistrationRequest true "Registration data"
// @Success 201 {object} helpers.SuccessResponse "data is the created Registration"
// @Failure 400 {object} helpers.ErrorResponse "validation failed or event closed"
// @Failure 404 {object} helpers.ErrorResponse "student or event not found"
// @Failure 409 {object} helpers.ErrorResponse "already registered"
// @Router /api/registrations [post]
func (c *RegistrationController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.Create(r.Context(), req.StudentID, req.EventID, domain.RegistrationStatus(req.Status))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if c.Recorder != nil {
		c.Recorder.IncrementRegistrations(string(reg.Status))
	}
	msg := "registration created successfully"
	if reg.Status == domain.RegistrationWaitlisted {
		msg = "event is full, registration waitlisted"
	}
	h.WriteJSONSuccess(w, http.StatusCreated, msg, reg)
}

// List godoc
// @Summary List registrations
// @Description Ordered by registration date, newest first.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Event ID (UUID)"
// @Param student_id query string false "Student ID (UUID)"
// @Param status query string false "pending, confirmed, cancelled or waitlisted"
// @Param active query bool false "Drop cancelled registrations"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of Registration"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/registrations [get]
func (c *RegistrationController) List(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.RegistrationFilter{
		EventID:    q.UUID("event_id"),
		StudentID:  q.UUID("student_id"),
		Status:     domain.RegistrationStatus(q.Enum("status", func(s string) bool { return domain.RegistrationStatus(s).Valid() }, registrationStatuses)),
		Pagination: q.Pagination(),
	}
	if active := q.Bool("active"); active != nil {
		f.ActiveOnly = *active
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
	h.WriteJSONPage(w, "registrations retrieved", nonNil(items), h.NewPaginationMeta(f.Pagination, total))
}

// Get godoc
// @Summary Get a registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is a Registration"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/registrations/{id} [get]
func (c *RegistrationController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	reg, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "registration not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "registration retrieved", reg)
}

// UpdateStatus godoc
// @Summary Change a registration's status
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Param body body UpdateRegistrationRequest true "New status"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Registration"
// @Failure 400 {object} helpers.ErrorResponse "validation failed or event closed"
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse "already registered or no free seats"
// @Router /api/registrations/{id} [put]
func (c *RegistrationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateRegistrationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.UpdateStatus(r.Context(), id, domain.RegistrationStatus(req.Status))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "registration not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "registration updated successfully", reg)
}

// Delete godoc
// @Summary Delete a registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/registrations/{id} [delete]
func (c *RegistrationController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "registration not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "registration deleted successfully", nil)
}
