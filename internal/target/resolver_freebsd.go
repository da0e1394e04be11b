//go:build freebsd

package target

import "fmt"

func newProcNetResolver([]string) (PortResolver, error) {
	return nil, fmt.Errorf("procnet resolver is only available on linux")
}

// DefaultResolver reads the sockstat table first and falls back to netstat.
func DefaultResolver(loopback []string) PortResolver {
	return Chain{
		SocketTableResolver{Loopback: loopback},
		NetstatResolver{Loopback: loopback},
	}
}
