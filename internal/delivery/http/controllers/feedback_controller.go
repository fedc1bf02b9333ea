package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
	"campusevents/internal/validation"
)

// CreateFeedbackRequest is the request body for POST /feedback.
type CreateFeedbackRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	EventID   string `json:"event_id" validate:"required,uuid"`
	Rating    *int   `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"omitempty,max=1000"`
}

// Normalize implements helpers.Normalizer.
func (c *CreateFeedbackRequest) Normalize() {
	c.StudentID = strings.TrimSpace(c.StudentID)
	c.EventID = strings.TrimSpace(c.EventID)
	c.Comment = strings.TrimSpace(c.Comment)
}

// UpdateFeedbackRequest is the request body for PUT /feedback/{id}. At least one field is required.
type UpdateFeedbackRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// Normalize implements helpers.Normalizer.
func (u *UpdateFeedbackRequest) Normalize() {
	trimPtr(u.Comment)
}

// Validate implements helpers.Validator.
func (u *UpdateFeedbackRequest) Validate() []domain.FieldError {
	return validation.RequireAny(u)
}

type FeedbackController struct {
	Logger  *slog.Logger
	Service domain.FeedbackService
}

func NewFeedbackController(logger *slog.Logger, svc domain.FeedbackService) *FeedbackController {
	return &FeedbackController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Submit feedback
// @Description One feedback entry per student and event. Rating is an integer from 1 to 5.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateFeedbackRequest true "Feedback data"
// @Success 201 {object} helpers.SuccessResponse "data is the created Feedback"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 404 {object} helpers.ErrorResponse "student or event not found"
// @Failure 409 {object} helpers.ErrorResponse "feedback already submitted"
// @Router /api/feedback [post]
func (c *FeedbackController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	fb, err := c.Service.Create(r.Context(), domain.FeedbackParams{
		StudentID: req.StudentID,
		EventID:   req.EventID,
		Rating:    *req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "feedback submitted successfully", fb)
}

// List godoc
// @Summary List feedback
// @Description Newest first.
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Event ID (UUID)"
// @Param student_id query string false "Student ID (UUID)"
// @Param min_rating query int false "Lowest rating to include (1-5)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of Feedback"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/feedback [get]
func (c *FeedbackController) List(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.FeedbackFilter{
		EventID:    q.UUID("event_id"),
		StudentID:  q.UUID("student_id"),
		MinRating:  q.Int("min_rating", 0, domain.MinRating, domain.MaxRating),
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
	h.WriteJSONPage(w, "feedback retrieved", nonNil(items), h.NewPaginationMeta(f.Pagination, total))
}

// Get godoc
// @Summary Get a feedback entry
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is a Feedback"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/feedback/{id} [get]
func (c *FeedbackController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	fb, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "feedback not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "feedback retrieved", fb)
}

// Update godoc
// @Summary Update a feedback entry
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID (UUID)"
// @Param body body UpdateFeedbackRequest true "Fields to change"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Feedback"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/feedback/{id} [put]
func (c *FeedbackController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateFeedbackRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	fb, err := c.Service.Update(r.Context(), id, domain.FeedbackUpdate{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "feedback not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "feedback updated successfully", fb)
}

// Delete godoc
// @Summary Delete a feedback entry
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/feedback/{id} [delete]
func (c *FeedbackController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "feedback not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "feedback deleted successfully", nil)
}
