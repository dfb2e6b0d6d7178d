// types package contains the public API types
// that are shared between the normalization, compiler and execution layers.
package types

// Operator identifies one of the supported filter operators.
type Operator string

const (
	OperatorEq         Operator = "eq"
	OperatorNeq        Operator = "neq"
	OperatorGt         Operator = "gt"
	OperatorGte        Operator = "gte"
	OperatorLt         Operator = "lt"
	OperatorLte        Operator = "lte"
	OperatorIn         Operator = "in"
	OperatorNin        Operator = "nin"
	OperatorContains   Operator = "contains"
	OperatorStartsWith Operator = "startswith"
	OperatorEndsWith   Operator = "endswith"
	OperatorBetween    Operator = "between"
	OperatorIsNull     Operator = "isnull"
)

// Operators is the fixed operator vocabulary. Filter representations using
// an operator key outside this set are rejected during normalization.
var Operators = map[Operator]bool{
	OperatorEq:         true,
	OperatorNeq:        true,
	OperatorGt:         true,
	OperatorGte:        true,
	OperatorLt:         true,
	OperatorLte:        true,
	OperatorIn:         true,
	OperatorNin:        true,
	OperatorContains:   true,
	OperatorStartsWith: true,
	OperatorEndsWith:   true,
	OperatorBetween:    true,
	OperatorIsNull:     true,
}

// FilterCondition is one leaf predicate: a field, an operator and the value
// the operator compares against.
type FilterCondition struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

// FilterClause is the canonical, normalized filter representation: an
// ordered mapping from field name to the conditions that apply to it. All
// conditions across all fields combine with logical AND.
//
// Field order is first-seen insertion order. It does not affect which rows
// match, only the order parameters are bound in, which must be stable for
// the compiled statement to be deterministic.
type FilterClause struct {
	fields     []string
	conditions map[string][]FilterCondition
}

// NewFilterClause returns an empty clause.
func NewFilterClause() *FilterClause {
	return &FilterClause{
		conditions: make(map[string][]FilterCondition),
	}
}

// Add records a condition for the given field. Adding the same operator
// twice for one field replaces the earlier value (last wins).
func (c *FilterClause) Add(field string, operator Operator, value interface{}) {
	conds, seen := c.conditions[field]
	if !seen {
		c.fields = append(c.fields, field)
	}
	for i := range conds {
		if conds[i].Operator == operator {
			conds[i].Value = value
			return
		}
	}
	c.conditions[field] = append(conds, FilterCondition{
		Field:    field,
		Operator: operator,
		Value:    value,
	})
}

// Fields returns the field names in first-seen order.
func (c *FilterClause) Fields() []string {
	return c.fields
}

// Conditions returns the conditions recorded for the given field, in
// insertion order.
func (c *FilterClause) Conditions(field string) []FilterCondition {
	return c.conditions[field]
}

// Len returns the total number of conditions across all fields.
func (c *FilterClause) Len() int {
	n := 0
	for _, conds := range c.conditions {
		n += len(conds)
	}
	return n
}

// IsEmpty reports whether the clause holds no conditions.
func (c *FilterClause) IsEmpty() bool {
	return c == nil || len(c.fields) == 0
}

// TableShape describes one target view or table: which fields exist as
// first-class SQL columns and, for JSONB-backed or hybrid views, the name
// of the JSONB payload column.
//
// NativeColumns == nil means the column set is unknown, which is distinct
// from an empty set. JSONBColumn == "" means every addressable field must
// be a native column. A TableShape is built once at registration time and
// must not be mutated afterwards.
type TableShape struct {
	NativeColumns map[string]bool
	JSONBColumn   string
}

// NewTableShape builds a shape from a column list. An empty list produces
// an empty (known) column set; use a nil NativeColumns map directly to
// express unknown metadata.
func NewTableShape(columns []string, jsonbColumn string) *TableShape {
	native := make(map[string]bool, len(columns))
	for _, name := range columns {
		native[name] = true
	}
	return &TableShape{
		NativeColumns: native,
		JSONBColumn:   jsonbColumn,
	}
}

// HasColumn reports whether the field is a known native column.
func (s *TableShape) HasColumn(name string) bool {
	return s.NativeColumns != nil && s.NativeColumns[name]
}

// OrderCast is the declared logical type of an orderable JSONB field.
// JSONB text extraction always yields text; without a declared cast,
// ordering is lexical. Callers that need numeric or chronological ordering
// of a JSONB field must say so explicitly.
type OrderCast string

const (
	OrderCastNone      OrderCast = ""
	OrderCastText      OrderCast = "text"
	OrderCastNumeric   OrderCast = "numeric"
	OrderCastBoolean   OrderCast = "boolean"
	OrderCastTimestamp OrderCast = "timestamptz"
)

// OrderField is one ORDER BY entry.
type OrderField struct {
	Field      string    `json:"field"`
	Descending bool      `json:"descending"`
	Cast       OrderCast `json:"cast,omitempty"`
}

// QueryOptions carries pagination arguments. Nil means "not provided":
// an offset without a limit is honored as-is, no limit is invented.
type QueryOptions struct {
	Limit  *int `json:"limit" mapstructure:"limit"`
	Offset *int `json:"offset" mapstructure:"offset"`
}

// CompiledQuery is the compiler's output artifact: a statement template
// with $n positional placeholders and the values bound to them, in order.
// Caller-supplied values never appear in the statement text.
type CompiledQuery struct {
	Statement string        `json:"statement"`
	Params    []interface{} `json:"params"`
}
