// graphql package adapts resolver-side GraphQL arguments (filter, orderBy,
// options) into the canonical filter model. It translates input only; it
// does not build GraphQL schemas and it does not serve HTTP.
package graphql

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"

	"github.com/fraiseql/fraiseql-go/config"
	"github.com/fraiseql/fraiseql-go/types"
	"github.com/fraiseql/fraiseql-go/where"
)

// Request is the canonical form of a resolver's query arguments.
type Request struct {
	Filter  *types.FilterClause
	OrderBy []types.OrderField
	Options *types.QueryOptions
}

// FromResolveParams extracts the filter, orderBy and options arguments of
// a resolve call. Both "filter" and "where" are accepted as the filter
// argument name.
func FromResolveParams(params graphql.ResolveParams, naming config.NamingConvention) (*Request, error) {
	filterArg := params.Args["filter"]
	if filterArg == nil {
		filterArg = params.Args["where"]
	}

	var filterMap map[string]interface{}
	if filterArg != nil {
		m, ok := filterArg.(map[string]interface{})
		if !ok {
			return nil, &types.FilterValidationError{
				Reason: fmt.Sprintf("filter argument must be an input object, got %T", filterArg),
			}
		}
		filterMap = m
	}

	clause, err := AdaptFilter(filterMap, naming)
	if err != nil {
		return nil, err
	}

	var orderBy []types.OrderField
	if arg, ok := params.Args["orderBy"].([]interface{}); ok {
		if orderBy, err = AdaptOrderBy(arg, naming); err != nil {
			return nil, err
		}
	}

	options, err := DecodeOptions(params.Args["options"])
	if err != nil {
		return nil, err
	}

	return &Request{Filter: clause, OrderBy: orderBy, Options: options}, nil
}

// AdaptFilter renames GraphQL field keys to their storage names and
// normalizes the result. Values filtered on the public "id" field must be
// valid UUIDs.
func AdaptFilter(arg map[string]interface{}, naming config.NamingConvention) (*types.FilterClause, error) {
	renamed := make(map[string]interface{}, len(arg))
	for key, value := range arg {
		renamed[naming.ToSQLColumn(key)] = value
	}

	clause, err := where.NormalizeMap(renamed)
	if err != nil {
		return nil, err
	}
	if err := validateIDValues(clause); err != nil {
		return nil, err
	}
	return clause, nil
}

// AdaptOrderBy converts order enum values ("email_ASC", "createdAt_DESC")
// into OrderField entries.
func AdaptOrderBy(values []interface{}, naming config.NamingConvention) ([]types.OrderField, error) {
	result := make([]types.OrderField, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			return nil, &types.FilterValidationError{
				Reason: fmt.Sprintf("orderBy entries must be strings, got %T", value),
			}
		}
		index := strings.LastIndex(s, "_")
		if index <= 0 {
			return nil, &types.FilterValidationError{
				Reason: fmt.Sprintf("malformed orderBy value %q", s),
			}
		}
		field, direction := s[:index], s[index+1:]
		if direction != "ASC" && direction != "DESC" {
			return nil, &types.FilterValidationError{
				Reason: fmt.Sprintf("malformed orderBy value %q", s),
			}
		}
		result = append(result, types.OrderField{
			Field:      naming.ToSQLColumn(field),
			Descending: direction == "DESC",
		})
	}
	return result, nil
}

// DecodeOptions decodes a pagination options argument. Nil input yields
// nil options: no limit or offset is invented.
func DecodeOptions(arg interface{}) (*types.QueryOptions, error) {
	if arg == nil {
		return nil, nil
	}
	var options types.QueryOptions
	if err := mapstructure.Decode(arg, &options); err != nil {
		return nil, &types.FilterValidationError{
			Reason: "malformed options argument: " + err.Error(),
		}
	}
	return &options, nil
}

// validateIDValues parses values compared against the Trinity public id as
// UUIDs, so malformed ids fail at the API boundary instead of inside the
// database.
func validateIDValues(clause *types.FilterClause) error {
	for _, cond := range clause.Conditions("id") {
		switch cond.Operator {
		case types.OperatorEq, types.OperatorNeq:
			parsed, err := parseUUID(cond)
			if err != nil {
				return err
			}
			clause.Add("id", cond.Operator, parsed)
		case types.OperatorIn, types.OperatorNin:
			raw, ok := cond.Value.([]interface{})
			if !ok {
				continue // the operator strategy reports the shape error
			}
			parsed := make([]interface{}, len(raw))
			for i, v := range raw {
				u, err := parseUUID(types.FilterCondition{Field: "id", Operator: cond.Operator, Value: v})
				if err != nil {
					return err
				}
				parsed[i] = u
			}
			clause.Add("id", cond.Operator, parsed)
		}
	}
	return nil
}

func parseUUID(cond types.FilterCondition) (uuid.UUID, error) {
	s, ok := cond.Value.(string)
	if !ok {
		if u, isUUID := cond.Value.(uuid.UUID); isUUID {
			return u, nil
		}
		return uuid.Nil, &types.OperatorArgumentError{
			Field:    "id",
			Operator: cond.Operator,
			Reason:   fmt.Sprintf("expects a UUID string, got %T", cond.Value),
		}
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &types.OperatorArgumentError{
			Field:    "id",
			Operator: cond.Operator,
			Reason:   fmt.Sprintf("%q is not a valid UUID", s),
		}
	}
	return u, nil
}
