package taskquery

import (
	"sort"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// Pagination describes the window returned by List.
type Pagination struct {
	Total   int  `json:"total"`
	Skip    int  `json:"skip"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// NewPagination computes pagination metadata. total is the number of tasks
// that matched the filters, before the window is applied.
func NewPagination(total, skip, limit int) Pagination {
	return Pagination{
		Total:   total,
		Skip:    skip,
		Limit:   limit,
		HasMore: skip+limit < total,
	}
}

// Page is one window of a filtered, sorted task list.
type Page struct {
	Data       []domain.Task `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// Apply runs the whole pipeline over tasks, which must be in store order
// (ascending id). The input slice is not modified.
func Apply(tasks []domain.Task, p Params) Page {
	p = p.Normalize()
	filtered := Filter(tasks, p)
	Sort(filtered, p.Sort, p.Order)
	return Page{
		Data:       Window(filtered, p.Skip, p.Limit),
		Pagination: NewPagination(len(filtered), p.Skip, p.Limit),
	}
}

// Filter returns the tasks matching the priority and due date bounds of p,
// in their original order. Both due bounds are inclusive.
func Filter(tasks []domain.Task, p Params) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if p.Priority != nil && !strings.EqualFold(string(t.Priority), string(*p.Priority)) {
			continue
		}
		if p.DueAfter != nil && t.Due.Before(*p.DueAfter) {
			continue
		}
		if p.DueBefore != nil && t.Due.After(*p.DueBefore) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort orders tasks in place by key and direction. The sort is stable in both
// directions, so equal keys keep their store order.
//
// Priorities compare by label, which yields high < low < medium rather than a
// severity order. Clients already page through results in this order.
func Sort(tasks []domain.Task, key SortKey, order Order) {
	less := lessFunc(key)
	sort.SliceStable(tasks, func(i, j int) bool {
		if order == Desc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}

func lessFunc(key SortKey) func(a, b domain.Task) bool {
	switch key {
	case SortByPriority:
		return func(a, b domain.Task) bool { return a.Priority < b.Priority }
	case SortByEntry:
		return func(a, b domain.Task) bool { return Fold(a.Entry) < Fold(b.Entry) }
	default:
		return func(a, b domain.Task) bool { return a.ID < b.ID }
	}
}

// Window returns tasks[skip:skip+limit], clamped to the slice bounds.
func Window(tasks []domain.Task, skip, limit int) []domain.Task {
	if skip >= len(tasks) || limit <= 0 {
		return []domain.Task{}
	}
	end := skip + limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[skip:end]
}

// SliceTotal reports the total the way one early SQL backend did: the length
// of the returned window rather than the filtered count. It is kept only so
// tests can document how the two interpretations diverge.
func SliceTotal(page Page) int {
	return len(page.Data)
}
