// Package search turns raw listing filters into predicates, both as SQL for
// the job store and as an in-memory match over a single job.
package search

import (
	"fmt"
	"strings"

	jobdomain "github.com/AlibekovAA/jobboard/internal/job/domain"
)

// Criteria holds the raw filter values of a listing request. After Normalize
// an empty field means the filter is absent.
type Criteria struct {
	Query    string
	Type     string
	Location string
}

func (c Criteria) Normalize() Criteria {
	return Criteria{
		Query:    strings.TrimSpace(c.Query),
		Type:     strings.TrimSpace(c.Type),
		Location: strings.TrimSpace(c.Location),
	}
}

func (c Criteria) IsEmpty() bool {
	n := c.Normalize()
	return n.Query == "" && n.Type == "" && n.Location == ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Where builds the predicate for the present criteria against a jobs table
// aliased as j. Placeholders start at $startArg. It returns an empty clause
// when no criterion is present.
func Where(c Criteria, startArg int) (string, []any) {
	c = c.Normalize()

	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", startArg+len(args)-1)
	}

	if c.Query != "" {
		p := next(containsPattern(c.Query))
		clauses = append(clauses, fmt.Sprintf(
			`(j.title ILIKE %[1]s ESCAPE '\' OR j.company ILIKE %[1]s ESCAPE '\' OR j.description ILIKE %[1]s ESCAPE '\')`, p))
	}
	if c.Type != "" {
		clauses = append(clauses, "j.type = "+next(c.Type))
	}
	if c.Location != "" {
		clauses = append(clauses, fmt.Sprintf(`j.location ILIKE %s ESCAPE '\'`, next(containsPattern(c.Location))))
	}

	return strings.Join(clauses, " AND "), args
}

// Matches reports whether job satisfies every present criterion, with the
// same semantics as Where.
func Matches(c Criteria, job jobdomain.Job) bool {
	c = c.Normalize()

	if c.Query != "" {
		q := strings.ToLower(c.Query)
		if !containsFold(job.Title, q) && !containsFold(job.Company, q) && !containsFold(job.Description, q) {
			return false
		}
	}
	if c.Type != "" && string(job.Type) != c.Type {
		return false
	}
	if c.Location != "" && !containsFold(job.Location, strings.ToLower(c.Location)) {
		return false
	}
	return true
}

func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}
