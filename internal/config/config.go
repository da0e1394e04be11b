// Package config loads daxprobe settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pranshuparmar/daxprobe/internal/connector"
	"github.com/pranshuparmar/daxprobe/internal/target"
)

// EnvConfigPath names the environment variable that points at a config file
// when --config is not given.
const EnvConfigPath = "DAXPROBE_CONFIG"

// Catalog overrides the metadata queries.
type Catalog struct {
	TablesQuery     string `yaml:"tables_query"`
	MeasuresQuery   string `yaml:"measures_query"`
	MeasureTemplate string `yaml:"measure_template"`
}

// Config holds everything needed to find the engine and talk to it.
type Config struct {
	ProcessName      string   `yaml:"process_name"`
	ConnectionString string   `yaml:"connection_string"`
	Driver           string   `yaml:"driver"`
	Resolver         string   `yaml:"resolver"` // auto, netstat, procnet, lsof, sockets
	Loopback         []string `yaml:"loopback"`
	Port             int      `yaml:"port"` // skips discovery when set
	Catalog          Catalog  `yaml:"catalog"`
}

// Default returns the settings for a local Power BI Desktop instance.
func Default() Config {
	return Config{
		ProcessName:      target.DefaultProcessName,
		ConnectionString: "DataSource=localhost",
		Driver:           connector.DefaultDriver,
		Resolver:         "auto",
		Loopback:         append([]string(nil), target.DefaultLoopback...),
		Catalog: Catalog{
			TablesQuery:     connector.DefaultCatalog.TablesQuery,
			MeasuresQuery:   connector.DefaultCatalog.MeasuresQuery,
			MeasureTemplate: connector.DefaultCatalog.MeasureTemplate,
		},
	}
}

// Load reads path over the defaults. An empty path falls back to
// $DAXPROBE_CONFIG; with neither set the defaults are returned as is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	if c.ProcessName == "" && c.Port == 0 {
		errs = append(errs, errors.New("process_name is required unless port is set"))
	}
	if c.ConnectionString == "" {
		errs = append(errs, errors.New("connection_string is required"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.Resolver {
	case "", "auto", "netstat", "procnet", "lsof", "sockets":
	default:
		errs = append(errs, fmt.Errorf("unknown resolver %q", c.Resolver))
	}
	return errors.Join(errs...)
}

// ConnectorOptions turns the settings into connector options. The resolver
// is built here so an unsupported one fails before any discovery runs.
func (c Config) ConnectorOptions() ([]connector.Option, error) {
	resolver, err := target.NewResolver(c.Resolver, c.Loopback)
	if err != nil {
		return nil, err
	}
	return []connector.Option{
		connector.WithProcessName(c.ProcessName),
		connector.WithResolver(resolver),
		connector.WithDriver(c.Driver),
		connector.WithCatalog(connector.Catalog{
			TablesQuery:     c.Catalog.TablesQuery,
			MeasuresQuery:   c.Catalog.MeasuresQuery,
			MeasureTemplate: c.Catalog.MeasureTemplate,
		}),
	}, nil
}
