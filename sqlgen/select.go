package sqlgen

import (
	"time"

	"github.com/lib/pq"

	"github.com/fraiseql/fraiseql-go/types"
)

// BuildSelect assembles a find-many statement: projection, WHERE, ORDER BY
// and bound LIMIT/OFFSET. JSONB-backed views project the payload column as
// text; column-backed views project row_to_json over a "t" alias so the
// caller receives one JSON document per row either way.
func (c *Compiler) BuildSelect(
	view string,
	clause *types.FilterClause,
	orderBy []types.OrderField,
	opts *types.QueryOptions,
	shape *types.TableShape,
) (*types.CompiledQuery, error) {
	return c.buildSelect(view, clause, orderBy, opts, shape, false)
}

// BuildSelectOne assembles a find-one statement. The limit is always 1,
// regardless of any caller-supplied limit.
func (c *Compiler) BuildSelectOne(
	view string,
	clause *types.FilterClause,
	orderBy []types.OrderField,
	opts *types.QueryOptions,
	shape *types.TableShape,
) (*types.CompiledQuery, error) {
	return c.buildSelect(view, clause, orderBy, opts, shape, true)
}

func (c *Compiler) buildSelect(
	view string,
	clause *types.FilterClause,
	orderBy []types.OrderField,
	opts *types.QueryOptions,
	shape *types.TableShape,
	single bool,
) (*types.CompiledQuery, error) {
	started := time.Now()
	q, err := c.assembleSelect(view, clause, orderBy, opts, shape, single)
	if c.stats != nil {
		c.stats.record(time.Since(started), err)
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (c *Compiler) assembleSelect(
	view string,
	clause *types.FilterClause,
	orderBy []types.OrderField,
	opts *types.QueryOptions,
	shape *types.TableShape,
	single bool,
) (*types.CompiledQuery, error) {
	b := &builder{}

	if shape.JSONBColumn != "" {
		b.write("SELECT " + pq.QuoteIdentifier(shape.JSONBColumn) + "::text FROM " + quoteQualified(view))
	} else {
		b.write("SELECT row_to_json(t)::text FROM " + quoteQualified(view) + " AS t")
	}

	b.write(" WHERE ")
	if err := c.compileWhere(b, clause, shape, view); err != nil {
		return nil, err
	}

	if len(orderBy) > 0 {
		b.write(" ORDER BY ")
		for i, order := range orderBy {
			if i > 0 {
				b.write(", ")
			}
			expr, err := ResolveField(order.Field, shape)
			if err != nil {
				if resErr, ok := err.(*types.FieldResolutionError); ok {
					resErr.View = view
				}
				c.logger.Error("order by resolution failed", "field", order.Field, "view", view, "error", err)
				return nil, err
			}
			b.write(orderExpr(expr, order.Cast))
			if order.Descending {
				b.write(" DESC")
			} else {
				b.write(" ASC")
			}
		}
	}

	if single {
		b.write(" LIMIT " + b.bind(1))
	} else if opts != nil && opts.Limit != nil {
		b.write(" LIMIT " + b.bind(*opts.Limit))
	}
	if opts != nil && opts.Offset != nil {
		b.write(" OFFSET " + b.bind(*opts.Offset))
	}

	return &types.CompiledQuery{Statement: b.String(), Params: b.params}, nil
}

// orderExpr applies the declared cast of an orderable field. JSONB
// extraction yields text, so without a declared cast the ordering is
// lexical; numeric or chronological ordering must be requested explicitly.
func orderExpr(expr FieldExpr, cast types.OrderCast) string {
	switch cast {
	case types.OrderCastNone, types.OrderCastText:
		return expr.Target()
	default:
		return expr.Target() + "::" + string(cast)
	}
}
