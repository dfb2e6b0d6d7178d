package sqlgen

import (
	"strconv"
	"strings"
)

// builder accumulates statement text and the positional parameters bound
// to it. Placeholder numbering spans the whole statement, so the WHERE
// fragment and the pagination clauses share one sequence.
type builder struct {
	sql    strings.Builder
	params []interface{}
}

func (b *builder) write(s string) {
	b.sql.WriteString(s)
}

// bind registers a parameter value and returns its $n placeholder.
func (b *builder) bind(v interface{}) string {
	b.params = append(b.params, v)
	return "$" + strconv.Itoa(len(b.params))
}

func (b *builder) String() string {
	return b.sql.String()
}
