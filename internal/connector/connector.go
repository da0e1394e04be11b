// Package connector runs DAX queries against the Analysis Services engine
// behind a running Power BI Desktop model.
//
// A Connector finds the engine process, resolves the loopback port it
// listens on and builds the connection descriptor once, at construction.
// Every query after that opens its own connection and closes it before
// returning; nothing is pooled or retried.
package connector

import (
	"context"
	"fmt"

	"github.com/pranshuparmar/daxprobe/internal/target"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

type Connector struct {
	base       string
	descriptor string
	binding    model.PortBinding
	process    model.ProcessHandle
	opts       options
}

// New locates the engine process, resolves its port and returns a Connector
// bound to base:port. Discovery errors abort construction and wrap
// target.ErrProcessNotFound, target.ErrPortResolutionFailed or
// target.ErrPortNotFound.
func New(ctx context.Context, base string, opts ...Option) (*Connector, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	h, err := target.Locator{List: o.lister}.Find(o.processName)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("engine process found", "process", h.Name, "pid", h.PID)

	port, err := o.resolver.ResolvePort(ctx, h.PID)
	if err != nil {
		return nil, fmt.Errorf("resolve port of %s (pid %d): %w", h.Name, h.PID, err)
	}

	c := &Connector{
		base:       base,
		descriptor: BuildDescriptor(base, port),
		binding:    model.PortBinding{PID: h.PID, Port: port},
		process:    h,
		opts:       o,
	}
	o.logger.Info("engine located", "process", h.Name, "pid", h.PID, "port", port)
	return c, nil
}

// NewWithPort skips discovery and binds to base:port directly.
func NewWithPort(base string, port int, opts ...Option) *Connector {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Connector{
		base:       base,
		descriptor: BuildDescriptor(base, port),
		binding:    model.PortBinding{Port: port},
		opts:       o,
	}
}

// Descriptor returns the base:port connection string. Queries open the
// driver with DriverDSN's form of it.
func (c *Connector) Descriptor() string {
	return c.descriptor
}

// Process returns the engine process found at construction. It is the zero
// value for connectors built with NewWithPort.
func (c *Connector) Process() model.ProcessHandle {
	return c.process
}

// Binding returns the resolved port binding.
func (c *Connector) Binding() model.PortBinding {
	return c.binding
}

// Driver returns the database/sql driver name in use.
func (c *Connector) Driver() string {
	return c.opts.driver
}
