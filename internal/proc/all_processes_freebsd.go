//go:build freebsd

package proc

import (
	"os/exec"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

func getAllProcessesOS() ([]model.ProcessSummary, error) {
	// -a -x = every process, with or without a terminal
	out, err := exec.Command("ps", "-ax", "-o", "pid,ppid,user,comm").Output()
	if err != nil {
		return nil, err
	}
	return ParsePs(out), nil
}
