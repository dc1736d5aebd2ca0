package database

import (
	"fmt"
	"strings"
	"time"
)

// ProjectFilter holds the optional predicates of the project listing.
// Zero-valued fields are skipped.
type ProjectFilter struct {
	Status          string
	ClientID        int64
	Industry        string
	StartedAfter    *time.Time
	CompletedBefore *time.Time
	MinHours        *float64
	TitleContains   string
}

// Build renders the filter into a list of AND-ed SQL predicates with
// positional placeholders starting at start. It returns the rendered
// fragment (without a leading AND) and the argument list.
func (f ProjectFilter) Build(start int) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	next := func() int { return start + len(args) }

	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("p.status = $%d", next()))
		args = append(args, f.Status)
	}

	if f.ClientID > 0 {
		clauses = append(clauses, fmt.Sprintf("p.client_id = $%d", next()))
		args = append(args, f.ClientID)
	}

	if f.Industry != "" {
		clauses = append(clauses, fmt.Sprintf("c.industry = $%d", next()))
		args = append(args, f.Industry)
	}

	if f.StartedAfter != nil {
		clauses = append(clauses, fmt.Sprintf("p.start_date >= $%d", next()))
		args = append(args, *f.StartedAfter)
	}

	if f.CompletedBefore != nil {
		clauses = append(clauses, fmt.Sprintf("p.completion_date <= $%d", next()))
		args = append(args, *f.CompletedBefore)
	}

	if f.MinHours != nil {
		clauses = append(clauses, fmt.Sprintf("p.total_hours_spent >= $%d", next()))
		args = append(args, *f.MinHours)
	}

	if f.TitleContains != "" {
		clauses = append(clauses, fmt.Sprintf("p.title ILIKE $%d", next()))
		args = append(args, "%"+f.TitleContains+"%")
	}

	return strings.Join(clauses, " AND "), args
}

// IsZero reports whether no predicate is set.
func (f ProjectFilter) IsZero() bool {
	return f.Status == "" && f.ClientID == 0 && f.Industry == "" &&
		f.StartedAfter == nil && f.CompletedBefore == nil &&
		f.MinHours == nil && f.TitleContains == ""
}
