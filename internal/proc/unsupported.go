//go:build !linux && !darwin && !windows && !freebsd

package proc

import (
	"fmt"
	"runtime"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

func getAllProcessesOS() ([]model.ProcessSummary, error) {
	return nil, fmt.Errorf("process listing is not supported on %s", runtime.GOOS)
}

func GetAllConnections() ([]model.Connection, error) {
	return nil, fmt.Errorf("connection listing is not supported on %s", runtime.GOOS)
}
