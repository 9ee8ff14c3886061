package database

import (
	"strings"
)

// InsertBuilder accumulates typed (column, value) pairs and emits the
// statement text and the parameter list together, so a column list assembled
// at runtime can never drift out of alignment with its bindings. Every value
// is bound through a placeholder; identifiers come from the fixed capability
// probes, never from request input.
type InsertBuilder struct {
	table     string
	columns   []string
	values    []any
	returning string
}

// NewInsert creates a builder for the given table.
func NewInsert(table string) *InsertBuilder {
	return &InsertBuilder{
		table:   table,
		columns: []string{},
		values:  []any{},
	}
}

// Set appends a column/value pair.
func (b *InsertBuilder) Set(column string, value any) *InsertBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// SetIf appends a column/value pair only when the deployment's schema
// supports the column. This is how the insert becomes the intersection of
// "columns that exist" and "fields checkout can supply".
func (b *InsertBuilder) SetIf(supported bool, column string, value any) *InsertBuilder {
	if supported {
		b.Set(column, value)
	}
	return b
}

// Returning adds a RETURNING clause for the given column.
func (b *InsertBuilder) Returning(column string) *InsertBuilder {
	b.returning = column
	return b
}

// Len reports how many columns have been accumulated.
func (b *InsertBuilder) Len() int {
	return len(b.columns)
}

// Has reports whether a column was already set.
func (b *InsertBuilder) Has(column string) bool {
	for _, c := range b.columns {
		if c == column {
			return true
		}
	}
	return false
}

// SQL emits the statement text and the parameter list in matching order.
func (b *InsertBuilder) SQL() (string, []any) {
	var sb strings.Builder

	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(") VALUES (")
	for i := range b.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
	}
	sb.WriteString(")")

	if b.returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(b.returning)
	}

	return sb.String(), b.values
}
