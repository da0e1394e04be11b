package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// Catalog holds the queries used to read model metadata.
//
// TablesQuery must return (id, name) per container. MeasuresQuery must
// return (container id, name, expression) per measure. MeasureTemplate turns
// a measure expression into a tabular query; "{expression}" is replaced with
// the expression text.
type Catalog struct {
	TablesQuery     string
	MeasuresQuery   string
	MeasureTemplate string
}

// DefaultCatalog reads the tabular model schema DMVs.
var DefaultCatalog = Catalog{
	TablesQuery:     "SELECT [ID], [Name] FROM $SYSTEM.TMSCHEMA_TABLES",
	MeasuresQuery:   "SELECT [TableID], [Name], [Expression] FROM $SYSTEM.TMSCHEMA_MEASURES",
	MeasureTemplate: `EVALUATE ROW("measure_result", {expression})`,
}

func (c Catalog) withDefaults() Catalog {
	if c.TablesQuery == "" {
		c.TablesQuery = DefaultCatalog.TablesQuery
	}
	if c.MeasuresQuery == "" {
		c.MeasuresQuery = DefaultCatalog.MeasuresQuery
	}
	if c.MeasureTemplate == "" {
		c.MeasureTemplate = DefaultCatalog.MeasureTemplate
	}
	return c
}

// GetMeasures reads every container of the model and the measures defined
// on it. Every container is present in the result, with an empty slice when
// it defines no measures. Measures with the same name on different
// containers stay separate.
func (c *Connector) GetMeasures(ctx context.Context) (model.MeasureCatalog, error) {
	var tables, measures Table
	err := c.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		if tables, err = fill(ctx, conn, c.opts.catalog.TablesQuery); err != nil {
			return fmt.Errorf("list containers: %w", err)
		}
		if measures, err = fill(ctx, conn, c.opts.catalog.MeasuresQuery); err != nil {
			return fmt.Errorf("list measures: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(tables.Columns) < 2 {
		return nil, fmt.Errorf("%w: container query returned %d columns, want 2", ErrQueryExecutionFailed, len(tables.Columns))
	}
	if len(measures.Columns) < 3 {
		return nil, fmt.Errorf("%w: measure query returned %d columns, want 3", ErrQueryExecutionFailed, len(measures.Columns))
	}

	catalog := make(model.MeasureCatalog, len(tables.Rows))
	names := make(map[string]string, len(tables.Rows))
	for _, row := range tables.Rows {
		id, name := stringify(row[0]), stringify(row[1])
		names[id] = name
		if _, ok := catalog[name]; !ok {
			catalog[name] = []model.MeasureDefinition{}
		}
	}

	for _, row := range measures.Rows {
		container, ok := names[stringify(row[0])]
		if !ok {
			c.opts.logger.Debug("measure on unknown container skipped",
				"container_id", stringify(row[0]), "measure", stringify(row[1]))
			continue
		}
		catalog[container] = append(catalog[container], model.MeasureDefinition{
			Container:  container,
			Name:       stringify(row[1]),
			Expression: stringify(row[2]),
		})
	}

	c.opts.logger.Debug("measures read", "containers", len(catalog), "measures", catalog.Count())
	return catalog, nil
}

// EvaluateMeasure runs a measure expression wrapped in the catalog's measure
// template and returns the first value of the first row.
func (c *Connector) EvaluateMeasure(ctx context.Context, m model.MeasureDefinition) (string, error) {
	query := strings.ReplaceAll(c.opts.catalog.MeasureTemplate, "{expression}", m.Expression)

	res, err := c.RunQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("evaluate %s: %w", m.Name, err)
	}
	if res.Len() == 0 || len(res.Columns) == 0 {
		return "", fmt.Errorf("%w: evaluate %s: empty result", ErrQueryExecutionFailed, m.Name)
	}
	return res.Rows[0][0].Value, nil
}
