package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
	"campusevents/internal/validation"
)

// CreateStudentRequest is the request body for POST /students.
type CreateStudentRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	CollegeID string `json:"college_id" validate:"required,uuid"`
}

// Normalize implements helpers.Normalizer.
func (c *CreateStudentRequest) Normalize() {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.CollegeID = strings.TrimSpace(c.CollegeID)
}

// UpdateStudentRequest is the request body for PUT /students/{id}. At least one field is required.
type UpdateStudentRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Name      *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	CollegeID *string `json:"college_id" validate:"omitempty,uuid"`
}

// Normalize implements helpers.Normalizer.
func (u *UpdateStudentRequest) Normalize() {
	if u.Email != nil {
		*u.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	trimPtr(u.Name)
	trimPtr(u.Phone)
	trimPtr(u.CollegeID)
}

// Validate implements helpers.Validator.
func (u *UpdateStudentRequest) Validate() []domain.FieldError {
	return validation.RequireAny(u)
}

type StudentController struct {
	Logger  *slog.Logger
	Service domain.StudentService
}

func NewStudentController(logger *slog.Logger, svc domain.StudentService) *StudentController {
	return &StudentController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateStudentRequest true "Student data"
// @Success 201 {object} helpers.SuccessResponse "data is the created Student"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 404 {object} helpers.ErrorResponse "college not found"
// @Failure 409 {object} helpers.ErrorResponse "email already exists"
// @Router /api/students [post]
func (c *StudentController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	student, err := c.Service.Create(r.Context(), domain.StudentParams{
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		CollegeID: req.CollegeID,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "student created successfully", student)
}

// List godoc
// @Summary List students
// @Description Ordered by name. search matches name or email case-insensitively.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param college_id query string false "College ID (UUID)"
// @Param search query string false "Name or email substring"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of Student"
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/students [get]
func (c *StudentController) List(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.StudentFilter{
		CollegeID:  q.UUID("college_id"),
		Search:     q.String("search"),
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
	h.WriteJSONPage(w, "students retrieved", nonNil(items), h.NewPaginationMeta(f.Pagination, total))
}

// Get godoc
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is a Student"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/students/{id} [get]
func (c *StudentController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	student, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "student not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "student retrieved", student)
}

// Update godoc
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (UUID)"
// @Param body body UpdateStudentRequest true "Fields to change"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Student"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /api/students/{id} [put]
func (c *StudentController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateStudentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	student, err := c.Service.Update(r.Context(), id, domain.StudentUpdate{
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		CollegeID: req.CollegeID,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "student not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "student updated successfully", student)
}

// Delete godoc
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/students/{id} [delete]
func (c *StudentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "student not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "student deleted successfully", nil)
}
