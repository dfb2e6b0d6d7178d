// sqlgen package compiles canonical filter clauses into parameterized
// PostgreSQL statements. Compilation is synchronous, stateless and free of
// I/O: every call takes an immutable clause and table shape and returns a
// fresh statement plus its bound parameters. The operator registry is a
// read-only lookup table, so one Compiler may serve any number of
// concurrent callers.
package sqlgen

import (
	"github.com/fraiseql/fraiseql-go/log"
	"github.com/fraiseql/fraiseql-go/types"
)

// Compiler turns FilterClause values into SQL. Construct one at
// application start and pass it by reference; there is no package-level
// registry.
type Compiler struct {
	registry *Registry
	logger   log.Logger
	stats    *Stats
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRegistry replaces the built-in operator registry.
func WithRegistry(r *Registry) Option {
	return func(c *Compiler) { c.registry = r }
}

// WithLogger sets the logger used to report compile failures.
func WithLogger(l log.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithStats attaches a stats collector.
func WithStats(s *Stats) Option {
	return func(c *Compiler) { c.stats = s }
}

// NewCompiler returns a Compiler with the built-in registry, a no-op
// logger and no stats collection unless configured otherwise.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		registry: NewRegistry(),
		logger:   log.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileWhere renders the clause as a single boolean SQL expression plus
// its parameter bindings. An empty clause compiles to the literal TRUE: a
// neutral filter is never confused with one that excludes everything.
//
// Fields render in first-seen order and all fragments join with AND.
// Resolution and operator errors propagate unmodified; there is no
// best-effort degradation.
func (c *Compiler) CompileWhere(clause *types.FilterClause, shape *types.TableShape) (string, []interface{}, error) {
	b := &builder{}
	if err := c.compileWhere(b, clause, shape, ""); err != nil {
		return "", nil, err
	}
	return b.String(), b.params, nil
}

func (c *Compiler) compileWhere(b *builder, clause *types.FilterClause, shape *types.TableShape, view string) error {
	if clause.IsEmpty() {
		b.write("TRUE")
		return nil
	}

	first := true
	for _, field := range clause.Fields() {
		expr, err := ResolveField(field, shape)
		if err != nil {
			if resErr, ok := err.(*types.FieldResolutionError); ok && view != "" {
				resErr.View = view
			}
			c.logger.Error("field resolution failed", "field", field, "view", view, "error", err)
			return err
		}
		for _, cond := range clause.Conditions(field) {
			strategy, err := c.registry.Strategy(cond)
			if err != nil {
				c.logger.Error("operator lookup failed",
					"field", field, "operator", cond.Operator, "view", view, "error", err)
				return err
			}
			if !first {
				b.write(" AND ")
			}
			if err := strategy(b, expr, cond); err != nil {
				c.logger.Error("condition rendering failed",
					"field", field, "operator", cond.Operator, "view", view, "error", err)
				return err
			}
			first = false
		}
	}
	return nil
}
