// db package owns everything that touches the database: the table-shape
// catalog filled at registration time and the executor that runs compiled
// queries. The compiler itself never executes anything.
package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"

	"github.com/fraiseql/fraiseql-go/log"
	"github.com/fraiseql/fraiseql-go/types"
)

// Executor runs compiled queries against PostgreSQL. Connection pooling,
// transactions and timeouts are database/sql concerns handled here; the
// compiler stays free of them.
type Executor struct {
	db     *sql.DB
	logger log.Logger
}

// Open connects to PostgreSQL and returns an Executor over the connection
// pool.
func Open(dsn string, logger log.Logger) (*Executor, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	return NewExecutor(conn, logger), nil
}

// NewExecutor wraps an existing pool. A nil logger falls back to no-op.
func NewExecutor(conn *sql.DB, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Executor{db: conn, logger: logger}
}

// Query executes a compiled find-many statement and returns the rows as
// column-name keyed maps.
func (e *Executor) Query(ctx context.Context, q *types.CompiledQuery) ([]map[string]interface{}, error) {
	e.logger.Debug("executing query", "statement", q.Statement, "params", len(q.Params))

	rows, err := e.db.QueryContext(ctx, q.Statement, q.Params...)
	if err != nil {
		return nil, errors.Wrapf(err, "executing %q", q.Statement)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "reading result columns")
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		for i := range values {
			values[i] = new(interface{})
		}
		if err := rows.Scan(values...); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		row := make(map[string]interface{}, len(columns))
		for i, name := range columns {
			row[name] = *(values[i].(*interface{}))
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating rows")
	}
	return result, nil
}

// QueryOne executes a compiled find-one statement and returns its single
// row, or ErrNotFound when nothing matched.
func (e *Executor) QueryOne(ctx context.Context, q *types.CompiledQuery) (map[string]interface{}, error) {
	rows, err := e.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return rows[0], nil
}

// Ping verifies the connection.
func (e *Executor) Ping(ctx context.Context) error {
	return errors.Wrap(e.db.PingContext(ctx), "pinging postgres")
}

// Close releases the connection pool.
func (e *Executor) Close() error {
	return e.db.Close()
}
