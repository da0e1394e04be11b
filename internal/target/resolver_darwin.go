//go:build darwin

package target

import "fmt"

func newProcNetResolver([]string) (PortResolver, error) {
	return nil, fmt.Errorf("procnet resolver is only available on linux")
}

// DefaultResolver asks lsof first and falls back to netstat.
func DefaultResolver(loopback []string) PortResolver {
	return Chain{
		LsofResolver{Loopback: loopback},
		NetstatResolver{Loopback: loopback},
	}
}
