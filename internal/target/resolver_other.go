//go:build !linux && !darwin && !freebsd

package target

import "fmt"

func newProcNetResolver([]string) (PortResolver, error) {
	return nil, fmt.Errorf("procnet resolver is only available on linux")
}

// DefaultResolver parses `netstat -ano`, the only table Windows exposes
// without cgo.
func DefaultResolver(loopback []string) PortResolver {
	return NetstatResolver{Loopback: loopback}
}
