//go:build freebsd

package proc

import (
	"os/exec"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// GetAllConnections lists sockets via sockstat.
// -4 -6 = both address families
// -s = include the TCP connection state
func GetAllConnections() ([]model.Connection, error) {
	out, err := exec.Command("sockstat", "-4", "-6", "-s").Output()
	if err != nil {
		return nil, err
	}
	return ParseSockstat(out), nil
}
