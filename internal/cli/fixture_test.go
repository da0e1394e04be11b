package cli

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/pranshuparmar/daxprobe/internal/connector"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

const fixtureSchema = `
CREATE TABLE fact_data (Item TEXT, ItemVal INTEGER, Country TEXT);
INSERT INTO fact_data VALUES ('A', 10, 'NO'), ('B', 20, 'SE'), ('C', 5, 'NO');

CREATE TABLE dim_countries (Country TEXT);
INSERT INTO dim_countries VALUES ('NO'), ('SE');

CREATE TABLE tmschema_tables (id INTEGER, name TEXT);
INSERT INTO tmschema_tables VALUES (1, 'fact_data'), (2, 'dim_countries'), (3, 'Measures');

CREATE TABLE tmschema_measures (table_id INTEGER, name TEXT, expression TEXT);
INSERT INTO tmschema_measures VALUES
	(1, 'NumItems', '(SELECT COUNT(*) FROM fact_data)'),
	(1, 'SumItems', '(SELECT SUM(ItemVal) FROM fact_data)'),
	(3, 'Broken', '(SELECT nope FROM nowhere)');
`

const fixtureConfig = `driver: sqlite
connection_string: DataSource=localhost
%s
catalog:
  tables_query: SELECT id, name FROM tmschema_tables ORDER BY id
  measures_query: SELECT table_id, name, expression FROM tmschema_measures ORDER BY rowid
  measure_template: SELECT {expression} AS measure_result
`

type fixture struct {
	dir    string
	db     string
	config string
}

// newFixture creates a sqlite model and a config pointing at it. port 0
// leaves discovery on.
func newFixture(t *testing.T, port int) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{dir: dir, db: filepath.Join(dir, "model.db"), config: filepath.Join(dir, "daxprobe.yaml")}

	db, err := sql.Open("sqlite", f.db)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)

	portLine := ""
	if port > 0 {
		portLine = fmt.Sprintf("port: %d", port)
	}
	require.NoError(t, os.WriteFile(f.config, []byte(fmt.Sprintf(fixtureConfig, portLine)), 0o600))
	return f
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (f *fixture) options(extra ...connector.Option) *RootOptions {
	open := func(string, string) (*sql.DB, error) { return sql.Open("sqlite", f.db) }
	return &RootOptions{
		ConnectorOptions: append([]connector.Option{connector.WithOpener(open)}, extra...),
		ListProcesses:    processes(model.ProcessSummary{PID: 10432, Command: `C:\Program Files\Microsoft Power BI Desktop\bin\msmdsrv.exe`}),
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, opts *RootOptions, stdin string, args ...string) result {
	t.Helper()
	cmd := newRootCommand(opts, "test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
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
