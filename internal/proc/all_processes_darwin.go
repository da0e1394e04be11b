//go:build darwin

package proc

import (
	"os/exec"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

func getAllProcessesOS() ([]model.ProcessSummary, error) {
	// -e = all processes
	// -o = output format; comm is the image path
	out, err := exec.Command("ps", "-e", "-o", "pid,ppid,user,comm").Output()
	if err != nil {
		return nil, err
	}
	return ParsePs(out), nil
}
