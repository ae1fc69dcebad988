package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField orders by a projected view name. Descending flips ASC to DESC.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads "VoterCount,-ComputedAt" style input, where a leading
// "-" means descending. Blank entries are skipped and empty input yields nil.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// placeholder hands out the next positional parameter for arg.
type placeholder func(arg any) string

type condition func(next placeholder) string

// Builder assembles SELECT statements over a ProjectionMap. Conditions are
// ANDed and numbered $1..$n in the order they were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder starts a query over projection. defaultSort orders results when
// a request names no mapped sort field.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// OrderByFields replaces the default ordering. Fields the projection does not
// map are ignored, so request input never reaches the ORDER BY clause.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals adds col = value, skipped when value is nil.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.compare(field, "=", value)
}

// WhereAtLeast adds col >= value, skipped when value is nil.
func (b *Builder) WhereAtLeast(field string, value any) *Builder {
	return b.compare(field, ">=", value)
}

// WhereAtMost adds col <= value, skipped when value is nil.
func (b *Builder) WhereAtMost(field string, value any) *Builder {
	return b.compare(field, "<=", value)
}

// WhereContains adds a case-insensitive substring match on one field.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.WhereSearch(value, field)
}

// WhereSearch matches value as a substring of any of fields.
// More than one field is wrapped in parentheses.
func (b *Builder) WhereSearch(value *string, fields ...string) *Builder {
	if value == nil || *value == "" || len(fields) == 0 {
		return b
	}
	pattern := "%" + *value + "%"

	b.conditions = append(b.conditions, func(next placeholder) string {
		terms := make([]string, len(fields))
		for i, f := range fields {
			terms[i] = b.projection.Column(f) + " ILIKE " + next(pattern)
		}
		if len(terms) == 1 {
			return terms[0]
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
	return b
}

func (b *Builder) compare(field, op string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, func(next placeholder) string {
		return col + " " + op + " " + next(value)
	})
	return b
}

// BuildCount counts the rows matching the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage selects one 1-based page of rows.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.From(),
		where,
		b.orderBy(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle selects the row whose idField equals id. Conditions are not applied.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	next := func(arg any) string {
		args = append(args, arg)
		return "$" + strconv.Itoa(len(args))
	}

	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = c(next)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderBy() string {
	terms := b.sortTerms(b.sort)
	if len(terms) == 0 {
		terms = b.sortTerms(b.defaultSort)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (b *Builder) sortTerms(fields []SortField) []string {
	var terms []string
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}
	return terms
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
