package sqlgen

import (
	"encoding/json"
	"net"
	"reflect"

	"github.com/fraiseql/fraiseql-go/types"
)

// Strategy renders one condition into SQL, binding its parameters on the
// builder. Strategies are pure: all state lives in the builder.
type Strategy func(b *builder, expr FieldExpr, cond types.FilterCondition) error

// specialization is a predicate-guarded strategy consulted before the
// generic operator table. The list is ordered and fixed at registry
// construction; it is not a plugin mechanism.
type specialization struct {
	name    string
	applies func(cond types.FilterCondition) bool
	apply   Strategy
}

// Registry maps operators to SQL-generation strategies. It is built once,
// never mutated afterwards, and safe for concurrent lookups.
type Registry struct {
	generic         map[types.Operator]Strategy
	specializations []specialization
}

// NewRegistry returns a registry with the built-in strategies: the full
// generic operator vocabulary plus the network-typed specializations.
func NewRegistry() *Registry {
	return &Registry{
		generic: map[types.Operator]Strategy{
			types.OperatorEq:         compare("="),
			types.OperatorNeq:        compare("!="),
			types.OperatorGt:         compare(">"),
			types.OperatorGte:        compare(">="),
			types.OperatorLt:         compare("<"),
			types.OperatorLte:        compare("<="),
			types.OperatorIn:         membership(false),
			types.OperatorNin:        membership(true),
			types.OperatorContains:   containsStrategy,
			types.OperatorStartsWith: patternStrategy(false),
			types.OperatorEndsWith:   patternStrategy(true),
			types.OperatorBetween:    betweenStrategy,
			types.OperatorIsNull:     isNullStrategy,
		},
		specializations: []specialization{
			{
				name:    "inet",
				applies: stringComparisonGuard(looksLikeIP),
				apply:   typedCompare("inet"),
			},
			{
				name:    "macaddr",
				applies: stringComparisonGuard(looksLikeMAC),
				apply:   typedCompare("macaddr"),
			},
		},
	}
}

// Strategy selects the strategy for a condition: ordered specializations
// first, then the generic table. Unknown operators fail.
func (r *Registry) Strategy(cond types.FilterCondition) (Strategy, error) {
	for _, s := range r.specializations {
		if s.applies(cond) {
			return s.apply, nil
		}
	}
	if st, ok := r.generic[cond.Operator]; ok {
		return st, nil
	}
	return nil, &types.UnsupportedOperatorError{Field: cond.Field, Operator: cond.Operator}
}

var comparisonSQL = map[types.Operator]string{
	types.OperatorEq:  "=",
	types.OperatorNeq: "!=",
	types.OperatorGt:  ">",
	types.OperatorGte: ">=",
	types.OperatorLt:  "<",
	types.OperatorLte: "<=",
}

func compare(op string) Strategy {
	return func(b *builder, expr FieldExpr, cond types.FilterCondition) error {
		if cond.Value == nil {
			switch cond.Operator {
			case types.OperatorEq:
				b.write(expr.Target() + " IS NULL")
				return nil
			case types.OperatorNeq:
				b.write(expr.Target() + " IS NOT NULL")
				return nil
			default:
				return &types.OperatorArgumentError{
					Field:    cond.Field,
					Operator: cond.Operator,
					Reason:   "expects a non-null value",
				}
			}
		}
		b.write(expr.Target() + castFor(expr, cond.Value) + " " + op + " " + b.bind(cond.Value))
		return nil
	}
}

// typedCompare compares with both sides cast to the given PostgreSQL type.
// The specialization changes the cast only, never the operator.
func typedCompare(pgType string) Strategy {
	return func(b *builder, expr FieldExpr, cond types.FilterCondition) error {
		op := comparisonSQL[cond.Operator]
		b.write(expr.Target() + "::" + pgType + " " + op + " " + b.bind(cond.Value) + "::" + pgType)
		return nil
	}
}

// membership renders IN / NOT IN. The documented boundary semantics: an
// empty in-list matches nothing, an empty nin-list matches everything.
func membership(negated bool) Strategy {
	return func(b *builder, expr FieldExpr, cond types.FilterCondition) error {
		values, err := valueList(cond)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			if negated {
				b.write("TRUE")
			} else {
				b.write("FALSE")
			}
			return nil
		}
		b.write(expr.Target() + castFor(expr, values[0]))
		if negated {
			b.write(" NOT IN (")
		} else {
			b.write(" IN (")
		}
		for i, v := range values {
			if i > 0 {
				b.write(", ")
			}
			b.write(b.bind(v))
		}
		b.write(")")
		return nil
	}
}

// containsStrategy renders substring matching for string values and
// element containment for everything else: ANY() on native array columns,
// jsonb containment on payload fields.
func containsStrategy(b *builder, expr FieldExpr, cond types.FilterCondition) error {
	if s, ok := cond.Value.(string); ok {
		b.write(expr.Target() + " ILIKE '%' || " + b.bind(s) + " || '%'")
		return nil
	}
	if isList(cond.Value) {
		return &types.OperatorArgumentError{
			Field:    cond.Field,
			Operator: cond.Operator,
			Reason:   "expects a scalar, not a list",
		}
	}
	if expr.JSONB {
		encoded, err := json.Marshal(cond.Value)
		if err != nil {
			return &types.OperatorArgumentError{
				Field:    cond.Field,
				Operator: cond.Operator,
				Reason:   "value is not representable as JSON",
			}
		}
		b.write(expr.element() + " @> " + b.bind(string(encoded)) + "::jsonb")
		return nil
	}
	b.write(b.bind(cond.Value) + " = ANY(" + expr.SQL + ")")
	return nil
}

func patternStrategy(suffix bool) Strategy {
	return func(b *builder, expr FieldExpr, cond types.FilterCondition) error {
		s, ok := cond.Value.(string)
		if !ok {
			return &types.OperatorArgumentError{
				Field:    cond.Field,
				Operator: cond.Operator,
				Reason:   "expects a string",
			}
		}
		if suffix {
			b.write(expr.Target() + " ILIKE '%' || " + b.bind(s))
		} else {
			b.write(expr.Target() + " ILIKE " + b.bind(s) + " || '%'")
		}
		return nil
	}
}

func betweenStrategy(b *builder, expr FieldExpr, cond types.FilterCondition) error {
	values, err := valueList(cond)
	if err != nil || len(values) != 2 {
		return &types.OperatorArgumentError{
			Field:    cond.Field,
			Operator: cond.Operator,
			Reason:   "expects a [low, high] pair",
		}
	}
	b.write(expr.Target() + castFor(expr, values[0]) + " BETWEEN " + b.bind(values[0]) + " AND " + b.bind(values[1]))
	return nil
}

func isNullStrategy(b *builder, expr FieldExpr, cond types.FilterCondition) error {
	v, ok := cond.Value.(bool)
	if !ok {
		return &types.OperatorArgumentError{
			Field:    cond.Field,
			Operator: cond.Operator,
			Reason:   "expects a boolean",
		}
	}
	if v {
		b.write(expr.Target() + " IS NULL")
	} else {
		b.write(expr.Target() + " IS NOT NULL")
	}
	return nil
}

// castFor returns the cast applied to a JSONB text extraction so the
// comparison happens in the value's domain. ->> always yields text, so
// numeric and boolean comparisons need an explicit cast; native columns
// keep their native types.
func castFor(expr FieldExpr, value interface{}) string {
	if !expr.JSONB {
		return ""
	}
	switch value.(type) {
	case bool:
		return "::boolean"
	case json.Number:
		return "::numeric"
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "::numeric"
	}
	return ""
}

func stringComparisonGuard(match func(string) bool) func(types.FilterCondition) bool {
	return func(cond types.FilterCondition) bool {
		if _, ok := comparisonSQL[cond.Operator]; !ok {
			return false
		}
		s, ok := cond.Value.(string)
		return ok && match(s)
	}
}

func looksLikeIP(s string) bool {
	if net.ParseIP(s) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func looksLikeMAC(s string) bool {
	_, err := net.ParseMAC(s)
	return err == nil
}

func isList(v interface{}) bool {
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func valueList(cond types.FilterCondition) ([]interface{}, error) {
	if !isList(cond.Value) {
		return nil, &types.OperatorArgumentError{
			Field:    cond.Field,
			Operator: cond.Operator,
			Reason:   "expects a list",
		}
	}
	rv := reflect.ValueOf(cond.Value)
	values := make([]interface{}, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}
