package postgres

import (
	"fmt"
	"strings"

	"campusevents/internal/domain"
)

// filterQuery accumulates conjunctive WHERE conditions with numbered placeholders.
type filterQuery struct {
	conds []string
	args  []any
}

// add appends cond with each "?" replaced by the placeholder for arg.
func (q *filterQuery) add(cond string, arg any) {
	q.args = append(q.args, arg)
	q.conds = append(q.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(q.args))))
}

func (q *filterQuery) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// page appends LIMIT/OFFSET for p, or nothing when p is unbounded.
func (q *filterQuery) page(p domain.PaginationParams) string {
	if p.Unbounded() {
		return ""
	}
	q.args = append(q.args, p.PageSize, p.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(q.args)-1, len(q.args))
}

// likePattern escapes LIKE metacharacters and wraps s for substring search.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
