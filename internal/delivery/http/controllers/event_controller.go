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

const eventStatuses = "scheduled, ongoing, completed, cancelled"

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	CollegeID    string    `json:"college_id" validate:"required,uuid"`
	Title        string    `json:"title" validate:"required,min=3,max=200"`
	Description  string    `json:"description" validate:"required,min=10,max=2000"`
	Date         time.Time `json:"date" validate:"required,future"`
	Location     string    `json:"location" validate:"required,max=200"`
	MaxAttendees *int      `json:"max_attendees" validate:"required,gte=1,lte=100000"`
	Status       string    `json:"status" validate:"omitempty,oneof=scheduled ongoing completed cancelled"`
}

// Normalize implements helpers.Normalizer.
func (c *CreateEventRequest) Normalize() {
	c.CollegeID = strings.TrimSpace(c.CollegeID)
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Location = strings.TrimSpace(c.Location)
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
}

// UpdateEventRequest is the request body for PUT /events/{id}. At least one field is required.
type UpdateEventRequest struct {
	CollegeID    *string    `json:"college_id" validate:"omitempty,uuid"`
	Title        *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string    `json:"description" validate:"omitempty,min=10,max=2000"`
	Date         *time.Time `json:"date" validate:"omitempty,future"`
	Location     *string    `json:"location" validate:"omitempty,min=1,max=200"`
	MaxAttendees *int       `json:"max_attendees" validate:"omitempty,gte=1,lte=100000"`
	Status       *string    `json:"status" validate:"omitempty,oneof=scheduled ongoing completed cancelled"`
}

// Normalize implements helpers.Normalizer.
func (u *UpdateEventRequest) Normalize() {
	trimPtr(u.CollegeID)
	trimPtr(u.Title)
	trimPtr(u.Description)
	trimPtr(u.Location)
	if u.Status != nil {
		*u.Status = strings.ToLower(strings.TrimSpace(*u.Status))
	}
}

// Validate implements helpers.Validator.
func (u *UpdateEventRequest) Validate() []domain.FieldError {
	return validation.RequireAny(u)
}

func (u *UpdateEventRequest) toDomain() domain.EventUpdate {
	upd := domain.EventUpdate{
		CollegeID:    u.CollegeID,
		Title:        u.Title,
		Description:  u.Description,
		Date:         u.Date,
		Location:     u.Location,
		MaxAttendees: u.MaxAttendees,
	}
	if u.Status != nil {
		s := domain.EventStatus(*u.Status)
		upd.Status = &s
	}
	return upd
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create an event
// @Description The date must be in the future. Status defaults to scheduled.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.SuccessResponse "data is the created Event"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 404 {object} helpers.ErrorResponse "college not found"
// @Router /api/events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), domain.EventParams{
		CollegeID:    req.CollegeID,
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Location:     req.Location,
		MaxAttendees: *req.MaxAttendees,
		Status:       domain.EventStatus(req.Status),
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "event created successfully", event)
}

// List godoc
// @Summary List events
// @Description Ordered by date ascending. upcoming=true keeps events dated from now on.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param college_id query string false "College ID (UUID)"
// @Param status query string false "scheduled, ongoing, completed or cancelled"
// @Param search query string false "Title substring"
// @Param date_from query string false "RFC3339 timestamp or YYYY-MM-DD"
// @Param date_to query string false "RFC3339 timestamp or YYYY-MM-DD (inclusive, a date covers the whole day)"
// @Param upcoming query bool false "Only events dated from now on"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of Event"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.EventFilter{
		CollegeID:  q.UUID("college_id"),
		Status:     domain.EventStatus(q.Enum("status", func(s string) bool { return domain.EventStatus(s).Valid() }, eventStatuses)),
		Search:     q.String("search"),
		DateFrom:   q.Time("date_from"),
		DateTo:     q.TimeUntil("date_to"),
		Pagination: q.Pagination(),
	}
	if upcoming := q.Bool("upcoming"); upcoming != nil && *upcoming && f.DateFrom == nil {
		now := time.Now().UTC()
		f.DateFrom = &now
	}
	errs := q.Errors()
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		errs = append(errs, domain.FieldError{Field: "date_to", Message: "must not be before date_from"})
	}
	if len(errs) > 0 {
		h.WriteValidationError(w, errs)
		return
	}
	items, total, err := c.Service.List(r.Context(), f)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONPage(w, "events retrieved", nonNil(items), h.NewPaginationMeta(f.Pagination, total))
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is an Event"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	event, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "event not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event retrieved", event)
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Event"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/events/{id} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Update(r.Context(), id, req.toDomain())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "event not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event updated successfully", event)
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "event not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event deleted successfully", nil)
}

// Stats godoc
// @Summary Event statistics
// @Description Registration count, free seats, attendance rate and feedback average for one event.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is an EventStats"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/events/{id}/stats [get]
func (c *EventController) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	stats, err := c.Service.Stats(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "event not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event statistics retrieved", stats)
}
