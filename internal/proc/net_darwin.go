//go:build darwin

package proc

import (
	"os/exec"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// GetAllConnections lists sockets via lsof.
// -i = all network files
// -n = don't resolve hostnames
// -P = don't resolve port names
// -F pcPTn = pid, command, protocol, TCP info, name (address)
func GetAllConnections() ([]model.Connection, error) {
	out, err := exec.Command("lsof", "-i", "-n", "-P", "-F", "pcPTn").Output()
	if err != nil {
		// lsof exits 1 when nothing is visible
		if len(out) == 0 {
			return nil, nil
		}
	}
	return ParseLsof(out), nil
}
