package connector

import (
	"database/sql"
	"log/slog"

	"github.com/pranshuparmar/daxprobe/internal/proc"
	"github.com/pranshuparmar/daxprobe/internal/target"
)

// Opener returns a handle for driverName and dsn. It must not share the
// handle between calls: every query closes what it was given.
type Opener func(driverName, dsn string) (*sql.DB, error)

type options struct {
	processName string
	lister      target.ProcessLister
	resolver    target.PortResolver
	driver      string
	open        Opener
	catalog     Catalog
	logger      *slog.Logger
}

// Option configures a Connector.
type Option func(*options)

func defaultOptions() options {
	return options{
		processName: target.DefaultProcessName,
		lister:      proc.GetAllProcesses,
		resolver:    target.DefaultResolver(nil),
		driver:      DefaultDriver,
		open:        sql.Open,
		catalog:     DefaultCatalog,
		logger:      slog.Default(),
	}
}

// WithProcessName sets the image name of the engine process.
func WithProcessName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.processName = name
		}
	}
}

// WithProcessLister replaces the OS process table.
func WithProcessLister(l target.ProcessLister) Option {
	return func(o *options) { o.lister = l }
}

// WithResolver sets how the engine port is discovered.
func WithResolver(r target.PortResolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithDriver selects the registered database/sql driver.
func WithDriver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.driver = name
		}
	}
}

// WithOpener replaces sql.Open.
func WithOpener(open Opener) Option {
	return func(o *options) { o.open = open }
}

// WithCatalog sets the metadata queries.
func WithCatalog(c Catalog) Option {
	return func(o *options) { o.catalog = c.withDefaults() }
}

// WithLogger sets the logger. Discovery is logged at Info, each query at Debug.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
