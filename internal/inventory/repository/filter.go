package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Filter compiles column matchers into a parameterised WHERE clause.
// Column names come from code; only values are bound from input.
type Filter struct {
	clauses []string
	args    []interface{}
}

func (f *Filter) bind(v interface{}) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

// Eq matches column = v
func (f *Filter) Eq(column string, v interface{}) *Filter {
	f.clauses = append(f.clauses, column+" = "+f.bind(v))
	return f
}

// Gte matches column >= v
func (f *Filter) Gte(column string, v interface{}) *Filter {
	f.clauses = append(f.clauses, column+" >= "+f.bind(v))
	return f
}

// Lte matches column <= v
func (f *Filter) Lte(column string, v interface{}) *Filter {
	f.clauses = append(f.clauses, column+" <= "+f.bind(v))
	return f
}

// In matches column against any of values
func (f *Filter) In(column string, values []string) *Filter {
	f.clauses = append(f.clauses, column+" = ANY("+f.bind(pq.Array(values))+")")
	return f
}

// Contains matches when any of columns contains term, case-insensitively
func (f *Filter) Contains(term string, columns ...string) *Filter {
	placeholder := f.bind("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + placeholder
	}
	f.clauses = append(f.clauses, "("+strings.Join(parts, " OR ")+")")
	return f
}

// Where returns the WHERE clause, empty when no matcher was added
func (f *Filter) Where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

// Args returns the bound values in placeholder order
func (f *Filter) Args() []interface{} {
	return f.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
