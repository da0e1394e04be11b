package cli

import (
	"context"

	"github.com/pranshuparmar/daxprobe/internal/config"
	"github.com/pranshuparmar/daxprobe/internal/connector"
)

// loadConfig reads the config file and lays the global flags over it.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, WrapExitError(ExitCommandError, "load config", err)
	}

	if o.ProcessName != "" {
		cfg.ProcessName = o.ProcessName
	}
	if o.ConnectionString != "" {
		cfg.ConnectionString = o.ConnectionString
	}
	if o.Driver != "" {
		cfg.Driver = o.Driver
	}
	if o.Resolver != "" {
		cfg.Resolver = o.Resolver
	}
	if o.Port != 0 {
		cfg.Port = o.Port
	}

	if err := cfg.Validate(); err != nil {
		return cfg, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	return cfg, nil
}

// connect builds a connector from the effective settings. A configured port
// skips discovery.
func (o *RootOptions) connect(ctx context.Context) (*connector.Connector, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	copts, err := cfg.ConnectorOptions()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	copts = append(copts, connector.WithLogger(o.log()))
	if o.ListProcesses != nil {
		copts = append(copts, connector.WithProcessLister(o.ListProcesses))
	}
	copts = append(copts, o.ConnectorOptions...)

	if cfg.Port > 0 {
		o.log().Debug("port given, skipping discovery", "port", cfg.Port)
		return connector.NewWithPort(cfg.ConnectionString, cfg.Port, copts...), nil
	}

	conn, err := connector.New(ctx, cfg.ConnectionString, copts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "locate engine", err)
	}
	return conn, nil
}
