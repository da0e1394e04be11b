package connector

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// fixtureSchema stands in for a small Power BI model. The tmschema_* tables
// mirror the columns of the engine's schema DMVs.
const fixtureSchema = `
CREATE TABLE fact_data (Item TEXT, ItemVal INTEGER, Country TEXT, Postcode TEXT);
INSERT INTO fact_data VALUES ('A', 10, 'NO', '0150'), ('B', 20, 'SE', NULL), ('C', 5, 'NO', '5003');

CREATE TABLE dim_countries (Country TEXT);
INSERT INTO dim_countries VALUES ('NO'), ('SE');

CREATE TABLE tmschema_tables (id INTEGER, name TEXT);
INSERT INTO tmschema_tables VALUES (1, 'fact_data'), (2, 'dim_countries'), (3, 'Measures');

CREATE TABLE tmschema_measures (table_id INTEGER, name TEXT, expression TEXT);
INSERT INTO tmschema_measures VALUES
	(1, 'NumItems', '(SELECT COUNT(*) FROM fact_data)'),
	(1, 'SumItems', '(SELECT SUM(ItemVal) FROM fact_data)'),
	(3, 'NumItems', '(SELECT COUNT(*) FROM dim_countries)'),
	(9, 'Orphan', '1');
`

var fixtureCatalog = Catalog{
	TablesQuery:     "SELECT id, name FROM tmschema_tables ORDER BY id",
	MeasuresQuery:   "SELECT table_id, name, expression FROM tmschema_measures ORDER BY rowid",
	MeasureTemplate: "SELECT {expression} AS measure_result",
}

// engine is a sqlite file opened fresh on every call, recording the
// connection string and handle of each open.
type engine struct {
	path string

	mu    sync.Mutex
	dsns  []string
	dbs   []*sql.DB
	fails error
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)

	return &engine{path: path}
}

func (e *engine) open(driver, dsn string) (*sql.DB, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dsns = append(e.dsns, dsn)
	if e.fails != nil {
		return nil, e.fails
	}
	db, err := sql.Open("sqlite", e.path)
	if err == nil {
		e.dbs = append(e.dbs, db)
	}
	return db, err
}

func (e *engine) opened() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.dsns...)
}

// requireClosed asserts every handle the engine gave out was closed and
// holds no connection.
func (e *engine) requireClosed(t *testing.T) {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	require.NotEmpty(t, e.dbs)
	for _, db := range e.dbs {
		assert.Zero(t, db.Stats().OpenConnections)
		assert.ErrorContains(t, db.Ping(), "database is closed")
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixtureConnector(e *engine) *Connector {
	return NewWithPort("DataSource=localhost", 50484,
		WithDriver("sqlite"),
		WithOpener(e.open),
		WithCatalog(fixtureCatalog),
		WithLogger(quietLogger()),
	)
}

type staticResolver struct {
	port int
	err  error
}

func (s staticResolver) ResolvePort(context.Context, int) (int, error) {
	return s.port, s.err
}

func processes(procs ...model.ProcessSummary) func() ([]model.ProcessSummary, error) {
	return func() ([]model.ProcessSummary, error) { return procs, nil }
}
