package taskquery

import (
	"errors"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// Search limits.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// ErrEmptyQuery is returned when a search query is blank.
var ErrEmptyQuery = errors.New("search query cannot be empty")

// StopWords are dropped from queries before matching.
var StopWords = map[string]struct{}{
	"and": {}, "but": {}, "the": {}, "a": {}, "an": {}, "or": {}, "in": {}, "on": {},
}

// Fold lower-cases s with Unicode rules. Entry matching and entry ordering
// compare folded strings; the SQL backends store Fold(entry) alongside the
// entry because their built-in lower() only folds ASCII.
func Fold(s string) string {
	return strings.ToLower(s)
}

// Terms lower-cases q and splits it on whitespace, optionally dropping stop
// words. It returns ErrEmptyQuery for a blank query; a query made only of
// stop words yields no terms and no error.
func Terms(q string, dropStopWords bool) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	fields := strings.Fields(Fold(q))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if dropStopWords {
			if _, stop := StopWords[f]; stop {
				continue
			}
		}
		terms = append(terms, f)
	}
	return terms, nil
}

// Matches reports whether any term is a substring of the task entry, ignoring case.
func Matches(t domain.Task, terms []string) bool {
	entry := Fold(t.Entry)
	for _, term := range terms {
		if strings.Contains(entry, term) {
			return true
		}
	}
	return false
}

// Search returns up to limit tasks matching any of terms, in input order.
// A non-positive limit means no cap.
func Search(tasks []domain.Task, terms []string, limit int) []domain.Task {
	out := []domain.Task{}
	if len(terms) == 0 {
		return out
	}
	for _, t := range tasks {
		if !Matches(t, terms) {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
