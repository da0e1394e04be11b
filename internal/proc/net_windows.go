//go:build windows

package proc

import (
	"os/exec"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// GetAllConnections lists sockets with their owning pid via `netstat -ano`.
func GetAllConnections() ([]model.Connection, error) {
	out, err := exec.Command("netstat", "-ano").Output()
	if err != nil {
		return nil, err
	}
	return ParseNetstat(out), nil
}
