package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// withConn opens a fresh connection, hands it to fn and closes it again on
// every path out.
func (c *Connector) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	dsn, err := DriverDSN(c.opts.driver, c.base, c.binding.Port)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionOpenFailed, err)
	}
	db, err := c.opts.open(c.opts.driver, dsn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionOpenFailed, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionOpenFailed, err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionOpenFailed, err)
	}
	return fn(conn)
}

// fill runs query and buffers the whole result.
func fill(ctx context.Context, conn *sql.Conn, query string) (Table, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}

	t := Table{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return Table{}, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrQueryExecutionFailed, err)
	}
	return t, nil
}

// RunQuery executes query and returns every row as (column, string value)
// pairs in source order.
func (c *Connector) RunQuery(ctx context.Context, query string) (model.QueryResult, error) {
	start := time.Now()

	var t Table
	err := c.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		t, err = fill(ctx, conn, query)
		return err
	})
	if err != nil {
		return model.QueryResult{}, err
	}

	c.opts.logger.Debug("query finished",
		"descriptor", c.descriptor,
		"columns", len(t.Columns),
		"rows", len(t.Rows),
		"elapsed", time.Since(start),
	)
	return Normalize(t), nil
}

// RunQueryScalar executes query as a single-value read.
//
// Analysis Services refuses this execution mode ("Specified method is not
// supported"), so against the real engine this always fails with
// ErrQueryExecutionFailed. It is kept for drivers that do support it. To read
// one value from the engine use EvaluateMeasure or RunQuery instead.
func (c *Connector) RunQueryScalar(ctx context.Context, query string) (string, error) {
	var value any
	err := c.withConn(ctx, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx, query).Scan(&value); err != nil {
			return fmt.Errorf("%w: scalar read: %w", ErrQueryExecutionFailed, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return stringify(value), nil
}

// RunQueries runs each query on its own connection, all at once, and returns
// the results in input order. The first failure cancels the rest.
func (c *Connector) RunQueries(ctx context.Context, queries ...string) ([]model.QueryResult, error) {
	results := make([]model.QueryResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			res, err := c.RunQuery(gctx, q)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
