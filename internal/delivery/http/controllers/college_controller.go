package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
	"campusevents/internal/validation"
)

// CreateCollegeRequest is the request body for POST /colleges.
type CreateCollegeRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=200"`
	Address      string `json:"address" validate:"required,min=10,max=500"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
}

// Normalize implements helpers.Normalizer.
func (c *CreateCollegeRequest) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.ContactEmail = strings.ToLower(strings.TrimSpace(c.ContactEmail))
	c.Phone = strings.TrimSpace(c.Phone)
}

// UpdateCollegeRequest is the request body for PUT /colleges/{id}. At least one field is required.
type UpdateCollegeRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=3,max=200"`
	Address      *string `json:"address" validate:"omitempty,min=10,max=500"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,phone"`
}

// Normalize implements helpers.Normalizer.
func (u *UpdateCollegeRequest) Normalize() {
	trimPtr(u.Name)
	trimPtr(u.Address)
	trimPtr(u.ContactEmail)
	trimPtr(u.Phone)
}

// Validate implements helpers.Validator.
func (u *UpdateCollegeRequest) Validate() []domain.FieldError {
	return validation.RequireAny(u)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

type CollegeController struct {
	Logger  *slog.Logger
	Service domain.CollegeService
}

func NewCollegeController(logger *slog.Logger, svc domain.CollegeService) *CollegeController {
	return &CollegeController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create a college
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCollegeRequest true "College data"
// @Success 201 {object} helpers.SuccessResponse "data is the created College"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/colleges [post]
func (c *CollegeController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCollegeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	college, err := c.Service.Create(r.Context(), domain.CollegeParams{
		Name:         req.Name,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "college created successfully", college)
}

// List godoc
// @Summary List colleges
// @Description Ordered by name. search matches the name case-insensitively.
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name substring"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of College"
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/colleges [get]
func (c *CollegeController) List(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.CollegeFilter{Search: q.String("search"), Pagination: q.Pagination()}
	items, total, err := c.Service.List(r.Context(), f)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONPage(w, "colleges retrieved", nonNil(items), h.NewPaginationMeta(f.Pagination, total))
}

// Get godoc
// @Summary Get a college
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path string true "College ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is a College"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/colleges/{id} [get]
func (c *CollegeController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	college, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "college not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "college retrieved", college)
}

// Update godoc
// @Summary Update a college
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "College ID (UUID)"
// @Param body body UpdateCollegeRequest true "Fields to change"
// @Success 200 {object} helpers.SuccessResponse "data is the updated College"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/colleges/{id} [put]
func (c *CollegeController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateCollegeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	college, err := c.Service.Update(r.Context(), id, domain.CollegeUpdate{
		Name:         req.Name,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "college not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "college updated successfully", college)
}

// Delete godoc
// @Summary Delete a college
// @Description Removes the college and every record that references it.
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path string true "College ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/colleges/{id} [delete]
func (c *CollegeController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "college not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "college deleted successfully", nil)
}
