package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daxprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "msmdsrv.exe", cfg.ProcessName)
	assert.Equal(t, "DataSource=localhost", cfg.ConnectionString)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := writeConfig(t, `
process_name: msmdsrv-dev.exe
driver: sqlite
resolver: netstat
loopback: ["127.0.0.1:"]
catalog:
  tables_query: SELECT id, name FROM tables
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "msmdsrv-dev.exe", cfg.ProcessName)
	assert.Equal(t, "DataSource=localhost", cfg.ConnectionString)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, []string{"127.0.0.1:"}, cfg.Loopback)
	assert.Equal(t, "SELECT id, name FROM tables", cfg.Catalog.TablesQuery)
	assert.Equal(t, Default().Catalog.MeasuresQuery, cfg.Catalog.MeasuresQuery)
}

func TestLoad_FromEnv(t *testing.T) {
	path := writeConfig(t, "port: 50484\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 50484, cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "resolver: telepathy\nport: 70000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
	assert.Contains(t, err.Error(), "70000")

	_, err = Load(writeConfig(t, "process_name: [unclosed\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConnectorOptions(t *testing.T) {
	opts, err := Default().ConnectorOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	cfg := Default()
	cfg.Resolver = "bogus"
	_, err = cfg.ConnectorOptions()
	assert.Error(t, err)
}
