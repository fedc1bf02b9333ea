package domain

import (
	"context"
	"strings"
	"time"
)

// College is an institution that students belong to and events are hosted by.
// swagger:model College
type College struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	ContactEmail string    `json:"contact_email"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CollegeParams holds the caller-supplied fields of a college.
type CollegeParams struct {
	Name         string
	Address      string
	ContactEmail string
	Phone        string
}

// NewCollege validates p and returns a College. ID is set by the repository on create.
func NewCollege(p CollegeParams, now time.Time) (*College, error) {
	c := &College{
		Name:         strings.TrimSpace(p.Name),
		Address:      strings.TrimSpace(p.Address),
		ContactEmail: strings.ToLower(strings.TrimSpace(p.ContactEmail)),
		Phone:        strings.TrimSpace(p.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate re-checks the college invariants.
func (c *College) Validate() error {
	var ck checker
	ck.minLen("name", c.Name, 3)
	ck.minLen("address", c.Address, 10)
	ck.email("contact_email", c.ContactEmail)
	if c.Phone != "" && !IsPhone(c.Phone) {
		ck.add("phone", "must be a valid phone number")
	}
	return ck.err()
}

// CollegeUpdate holds optional college fields for a partial update.
type CollegeUpdate struct {
	Name         *string
	Address      *string
	ContactEmail *string
	Phone        *string
}

// Apply copies the set fields of u onto c.
func (u CollegeUpdate) Apply(c *College) {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Address != nil {
		c.Address = strings.TrimSpace(*u.Address)
	}
	if u.ContactEmail != nil {
		c.ContactEmail = strings.ToLower(strings.TrimSpace(*u.ContactEmail))
	}
	if u.Phone != nil {
		c.Phone = strings.TrimSpace(*u.Phone)
	}
}

// CollegeFilter narrows college list queries.
type CollegeFilter struct {
	Search     string
	Pagination PaginationParams
}

// CollegeRepository defines storage operations for colleges.
type CollegeRepository interface {
	Create(ctx context.Context, c *College) error
	List(ctx context.Context, f CollegeFilter) ([]*College, error)
	Count(ctx context.Context, f CollegeFilter) (int, error)
	GetByID(ctx context.Context, id string) (*College, error)
	Update(ctx context.Context, c *College) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CollegeService defines college management operations.
type CollegeService interface {
	Create(ctx context.Context, p CollegeParams) (*College, error)
	List(ctx context.Context, f CollegeFilter) ([]*College, int, error)
	GetByID(ctx context.Context, id string) (*College, error)
	Update(ctx context.Context, id string, u CollegeUpdate) (*College, error)
	Delete(ctx context.Context, id string) error
}
