// where package normalizes the heterogeneous filter representations
// accepted at the API boundary into the canonical FilterClause consumed by
// the SQL compiler. It is pure data transformation: no SQL is produced here
// and no database is needed to test it.
package where

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"

	"github.com/fraiseql/fraiseql-go/types"
)

// Normalize converts a filter representation into a FilterClause.
//
// Accepted shapes:
//   - *types.FilterClause: returned as-is.
//   - map[string]interface{} mapping field name to an operator→value map,
//     e.g. {"email": {"eq": "x"}}.
//   - map[string]interface{} mapping field name directly to a scalar,
//     interpreted as an implicit eq.
//   - a struct (or pointer to struct) with one attribute per filterable
//     field; nil attributes are treated as absent.
//
// Field iteration is sorted by name so that the same input always yields
// the same clause, regardless of Go map ordering. Within a field, adding
// the same operator twice keeps the last value.
func Normalize(input interface{}) (*types.FilterClause, error) {
	if input == nil {
		return types.NewFilterClause(), nil
	}

	switch v := input.(type) {
	case *types.FilterClause:
		if v == nil {
			return types.NewFilterClause(), nil
		}
		return v, nil
	case types.FilterClause:
		return &v, nil
	case map[string]interface{}:
		return NormalizeMap(v)
	}

	rv := reflect.ValueOf(input)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return types.NewFilterClause(), nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		m, err := structToMap(rv.Interface())
		if err != nil {
			return nil, &types.FilterValidationError{Reason: err.Error()}
		}
		return NormalizeMap(m)
	}

	return nil, &types.FilterValidationError{
		Reason: "unsupported filter representation " + reflect.TypeOf(input).String(),
	}
}

// NormalizeMap converts a field→value mapping into a FilterClause. A value
// that is itself a mapping (or a filter-input struct) is read as an
// operator→value map; anything else becomes an implicit eq condition.
// Nil values mark the field as absent and contribute nothing.
func NormalizeMap(m map[string]interface{}) (*types.FilterClause, error) {
	clause := types.NewFilterClause()

	fields := make([]string, 0, len(m))
	for name := range m {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	for _, name := range fields {
		value := deref(m[name])
		if value == nil {
			continue
		}
		fieldName := strcase.ToSnake(name)

		ops, ok, err := operatorMap(fieldName, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			clause.Add(fieldName, types.OperatorEq, value)
			continue
		}

		opNames := make([]string, 0, len(ops))
		for op := range ops {
			opNames = append(opNames, op)
		}
		sort.Strings(opNames)

		for _, rawOp := range opNames {
			opValue := deref(ops[rawOp])
			if opValue == nil {
				continue
			}
			op, known := canonicalOperator(rawOp)
			if !known {
				return nil, &types.FilterValidationError{Field: fieldName, Operator: rawOp}
			}
			clause.Add(fieldName, op, opValue)
		}
	}

	return clause, nil
}

// canonicalOperator maps an operator key from any of the accepted surfaces
// ("startsWith", "starts_with", "startswith") onto the vocabulary.
func canonicalOperator(key string) (types.Operator, bool) {
	canonical := strings.ReplaceAll(strcase.ToSnake(key), "_", "")
	op := types.Operator(canonical)
	return op, types.Operators[op]
}

// operatorMap extracts the operator→value mapping out of a field's value.
// The second return value reports whether the value was an operator mapping
// at all; a plain scalar yields false.
func operatorMap(field string, value interface{}) (map[string]interface{}, bool, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		for key := range v {
			if _, known := canonicalOperator(key); !known {
				return nil, false, &types.FilterValidationError{Field: field, Operator: key}
			}
		}
		return v, true, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Struct && !isScalarStruct(rv.Type()) {
		m, operatorLike, err := filterStructToMap(field, rv)
		if err != nil {
			return nil, false, err
		}
		if operatorLike {
			return m, true, nil
		}
	}

	return nil, false, nil
}

// filterStructToMap reads a per-field filter-input struct (one attribute
// per operator, nil means unset). A struct with no operator-named attribute
// is not a filter object and falls back to scalar treatment.
func filterStructToMap(field string, rv reflect.Value) (map[string]interface{}, bool, error) {
	t := rv.Type()
	m := make(map[string]interface{}, t.NumField())
	operatorLike := false

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		key := fieldKey(sf)
		if _, known := canonicalOperator(key); known {
			operatorLike = true
		}
		fv := deref(rv.Field(i).Interface())
		if fv == nil {
			continue
		}
		m[key] = fv
	}

	if !operatorLike {
		return nil, false, nil
	}
	for key := range m {
		if _, known := canonicalOperator(key); !known {
			return nil, false, &types.FilterValidationError{Field: field, Operator: key}
		}
	}
	return m, true, nil
}

// structToMap flattens a filter-input object into a field→value map using
// its mapstructure tags, keeping nested filter structs intact for
// operatorMap to interpret.
func structToMap(input interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if err := mapstructure.Decode(input, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fieldKey(sf reflect.StructField) string {
	if tag := sf.Tag.Get("mapstructure"); tag != "" {
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	if tag := sf.Tag.Get("json"); tag != "" {
		if name := strings.Split(tag, ",")[0]; name != "" && name != "-" {
			return name
		}
	}
	return strcase.ToSnake(sf.Name)
}

// isScalarStruct reports struct types that hold a single logical value and
// must never be mistaken for operator objects.
func isScalarStruct(t reflect.Type) bool {
	if t == reflect.TypeOf(time.Time{}) {
		return true
	}
	return false
}

// deref unwraps pointers and interfaces so that *string from a typed
// filter input behaves like its value. Nil pointers and nil slices mean
// "unset" and become nil; an explicitly empty list stays an empty list.
func deref(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
		return nil
	}
	return rv.Interface()
}
