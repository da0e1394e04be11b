//go:build linux

package target

import (
	"context"
	"fmt"

	"github.com/pranshuparmar/daxprobe/internal/proc"
)

// ProcNetResolver reads the kernel socket tables under /proc directly.
type ProcNetResolver struct {
	Loopback []string
}

func (r ProcNetResolver) ResolvePort(_ context.Context, pid int) (int, error) {
	conns, err := proc.GetTCPConnectionsForPID(pid)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPortResolutionFailed, err)
	}
	port, ok := matchConnections(conns, pid, loopbackOr(r.Loopback))
	if !ok {
		return 0, fmt.Errorf("%w: pid %d", ErrPortNotFound, pid)
	}
	return port, nil
}

func newProcNetResolver(loopback []string) (PortResolver, error) {
	return ProcNetResolver{Loopback: loopback}, nil
}

// DefaultResolver reads /proc first and falls back to netstat.
func DefaultResolver(loopback []string) PortResolver {
	return Chain{
		ProcNetResolver{Loopback: loopback},
		NetstatResolver{Loopback: loopback},
	}
}
