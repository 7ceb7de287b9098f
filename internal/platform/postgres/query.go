package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/domain/taskquery"
	"github.com/phrazzld/taskflow-api/internal/store"
)

const taskColumns = `id, entry, priority, due, completed, completed_at`

// listQuery holds the statements List runs.
type listQuery struct {
	count     string
	countArgs []any
	list      string
	listArgs  []any
}

// buildListQuery translates params into a count and a page query sharing the
// same WHERE clause.
func buildListQuery(p taskquery.Params) listQuery {
	var (
		where strings.Builder
		args  []any
		n     = 1
	)

	where.WriteString(` WHERE 1=1`)
	if p.Priority != nil {
		args = append(args, strings.ToLower(string(*p.Priority)))
		where.WriteString(fmt.Sprintf(" AND priority = $%d", n))
		n++
	}
	if p.DueAfter != nil {
		args = append(args, p.DueAfter.UTC())
		where.WriteString(fmt.Sprintf(" AND due >= $%d", n))
		n++
	}
	if p.DueBefore != nil {
		args = append(args, p.DueBefore.UTC())
		where.WriteString(fmt.Sprintf(" AND due <= $%d", n))
		n++
	}

	listArgs := append(append([]any{}, args...), p.Limit, p.Skip)
	list := `SELECT ` + taskColumns + ` FROM tasks` + where.String() +
		` ORDER BY ` + orderBy(p.Sort, p.Order) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", n, n+1)

	return listQuery{
		count:     `SELECT COUNT(*) FROM tasks` + where.String(),
		countArgs: args,
		list:      list,
		listArgs:  listArgs,
	}
}

// orderBy sorts by key in the given direction and breaks ties by ascending id.
func orderBy(key taskquery.SortKey, order taskquery.Order) string {
	dir := "ASC"
	if order == taskquery.Desc {
		dir = "DESC"
	}
	switch key {
	case taskquery.SortByPriority:
		return `priority COLLATE "C" ` + dir + `, id ASC`
	case taskquery.SortByEntry:
		return `entry_lower COLLATE "C" ` + dir + `, id ASC`
	default:
		return `id ` + dir
	}
}

// buildSearchQuery matches any term as a literal substring of the entry.
func buildSearchQuery(terms []string, limit int) (string, []any) {
	clauses := make([]string, len(terms))
	args := make([]any, 0, len(terms)+1)
	for i, term := range terms {
		clauses[i] = fmt.Sprintf(`entry_lower LIKE $%d ESCAPE '\'`, i+1)
		args = append(args, "%"+store.EscapeLike(taskquery.Fold(term))+"%")
	}

	q := `SELECT ` + taskColumns + ` FROM tasks WHERE (` + strings.Join(clauses, " OR ") + `) ORDER BY id ASC`
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return q, args
}

// buildUpdateQuery turns resolved patch fields into an UPDATE returning the
// row. A new entry also rewrites entry_lower.
func buildUpdateQuery(id int64, fields []domain.Field) (string, []any) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	for _, f := range fields {
		set(f.Column, f.Value)
		if entry, ok := f.Value.(string); ok && f.Column == "entry" {
			set("entry_lower", taskquery.Fold(entry))
		}
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), taskColumns)
	return q, args
}
