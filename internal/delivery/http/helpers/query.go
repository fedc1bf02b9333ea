package helpers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

// dateOnly is accepted wherever a query timestamp is. As a lower bound it means
// midnight UTC, as an upper bound the end of that day.
const dateOnly = "2006-01-02"

// Query reads typed query-string values and collects a field error for each
// value that does not parse.
type Query struct {
	values url.Values
	errs   []domain.FieldError
}

// NewQuery returns a Query over r's query string.
func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

// String returns the trimmed value of key.
func (q *Query) String(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// UUID returns the value of key, or "" when absent. Values that are not UUIDs are errors.
func (q *Query) UUID(key string) string {
	s := q.String(key)
	if s == "" {
		return ""
	}
	if _, err := uuid.Parse(s); err != nil {
		q.fail(key, "must be a valid UUID")
		return ""
	}
	return s
}

// Time parses key as RFC3339 or YYYY-MM-DD. Absent keys yield nil.
func (q *Query) Time(key string) *time.Time {
	t, _ := q.parseTime(key)
	return t
}

// TimeUntil parses key like Time for use as an inclusive upper bound. A bare
// date covers the whole day, so it resolves to that day's last microsecond,
// the finest instant Postgres stores.
func (q *Query) TimeUntil(key string) *time.Time {
	t, bare := q.parseTime(key)
	if t == nil || !bare {
		return t
	}
	end := t.AddDate(0, 0, 1).Add(-time.Microsecond)
	return &end
}

func (q *Query) parseTime(key string) (*time.Time, bool) {
	s := q.String(key)
	if s == "" {
		return nil, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, false
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return &t, true
	}
	q.fail(key, "must be an RFC3339 timestamp or YYYY-MM-DD date")
	return nil, false
}

// Int parses key as an integer in [lo, hi], returning def when absent.
func (q *Query) Int(key string, def, lo, hi int) int {
	s := q.String(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		q.fail(key, "must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
		return def
	}
	return v
}

// Bool parses key as a boolean. Absent keys yield nil.
func (q *Query) Bool(key string) *bool {
	s := q.String(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.fail(key, "must be true or false")
		return nil
	}
	return &v
}

// Enum returns the value of key when valid accepts it, or "" when absent.
func (q *Query) Enum(key string, valid func(string) bool, allowed string) string {
	s := q.String(key)
	if s == "" {
		return ""
	}
	if !valid(s) {
		q.fail(key, "must be one of: "+allowed)
		return ""
	}
	return s
}

// Pagination reads page and page_size, see ParsePagination.
func (q *Query) Pagination() domain.PaginationParams {
	return parsePagination(q.values)
}

// Errors returns the accumulated field errors, or nil.
func (q *Query) Errors() []domain.FieldError {
	return q.errs
}

func (q *Query) fail(field, message string) {
	q.errs = append(q.errs, domain.FieldError{Field: field, Message: message})
}

// PathUUID reads the path value name and checks it is a UUID. On failure it
// writes a 400 and returns false.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if _, err := uuid.Parse(id); err != nil {
		WriteValidationError(w, []domain.FieldError{{Field: name, Message: "must be a valid UUID"}})
		return "", false
	}
	return id, true
}
