package domain

import (
	"context"
	"slices"
	"strings"
	"time"
)

// AttendanceStatus records whether a student showed up.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// AttendanceStatuses lists every attendance status.
var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceLate}

// Valid reports whether s is a known attendance status.
func (s AttendanceStatus) Valid() bool {
	return slices.Contains(AttendanceStatuses, s)
}

// Attendance is evidence that a student was present, absent or late at an event.
// swagger:model Attendance
type Attendance struct {
	ID           string           `json:"id"`
	StudentID    string           `json:"student_id"`
	EventID      string           `json:"event_id"`
	Status       AttendanceStatus `json:"status"`
	CheckInTime  *time.Time       `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time       `json:"check_out_time,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// AttendanceParams holds the caller-supplied fields of an attendance record.
type AttendanceParams struct {
	StudentID    string
	EventID      string
	Status       AttendanceStatus
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

// NewAttendance validates p and returns an Attendance record.
func NewAttendance(p AttendanceParams, now time.Time) (*Attendance, error) {
	a := &Attendance{
		StudentID:    strings.TrimSpace(p.StudentID),
		EventID:      strings.TrimSpace(p.EventID),
		Status:       p.Status,
		CheckInTime:  p.CheckInTime,
		CheckOutTime: p.CheckOutTime,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate re-checks the attendance invariants.
func (a *Attendance) Validate() error {
	var ck checker
	ck.required("student_id", a.StudentID)
	ck.required("event_id", a.EventID)
	if !a.Status.Valid() {
		ck.add("status", "must be one of present, absent, late")
	}
	if a.CheckInTime != nil && a.CheckOutTime != nil && a.CheckOutTime.Before(*a.CheckInTime) {
		ck.add("check_out_time", "must not be before check_in_time")
	}
	return ck.err()
}

// Attended reports whether a record in status counts as the student being
// present. Late and absent records do not.
func (s AttendanceStatus) Attended() bool {
	return s == AttendancePresent
}

// Attended reports whether the record counts as the student being present.
func (a *Attendance) Attended() bool {
	return a.Status.Attended()
}

// AttendedCount sums the per-status counts that count as attended.
func AttendedCount(byStatus map[AttendanceStatus]int) int {
	n := 0
	for status, c := range byStatus {
		if status.Attended() {
			n += c
		}
	}
	return n
}

// AttendanceUpdate holds optional attendance fields for a partial update.
type AttendanceUpdate struct {
	Status       *AttendanceStatus
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

// Apply copies the set fields of u onto a.
func (u AttendanceUpdate) Apply(a *Attendance) {
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.CheckInTime != nil {
		t := *u.CheckInTime
		a.CheckInTime = &t
	}
	if u.CheckOutTime != nil {
		t := *u.CheckOutTime
		a.CheckOutTime = &t
	}
}

// AttendanceFilter narrows attendance list queries.
type AttendanceFilter struct {
	EventID    string
	StudentID  string
	Status     AttendanceStatus
	Since      *time.Time
	Pagination PaginationParams
}

// AttendanceRepository defines storage operations for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, a *Attendance) error
	List(ctx context.Context, f AttendanceFilter) ([]*Attendance, error)
	Count(ctx context.Context, f AttendanceFilter) (int, error)
	GetByID(ctx context.Context, id string) (*Attendance, error)
	Update(ctx context.Context, a *Attendance) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByStatusForEvent(ctx context.Context, eventID string) (map[AttendanceStatus]int, error)
	// CountByStudent groups attendance records per student. An empty status counts every record.
	CountByStudent(ctx context.Context, status AttendanceStatus) (map[string]int, error)
}

// AttendanceService defines attendance operations.
type AttendanceService interface {
	Create(ctx context.Context, p AttendanceParams) (*Attendance, error)
	List(ctx context.Context, f AttendanceFilter) ([]*Attendance, int, error)
	GetByID(ctx context.Context, id string) (*Attendance, error)
	Update(ctx context.Context, id string, u AttendanceUpdate) (*Attendance, error)
	Delete(ctx context.Context, id string) error
}
