//go:build windows

package proc

import (
	"os/exec"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

func getAllProcessesOS() ([]model.ProcessSummary, error) {
	out, err := exec.Command("tasklist", "/FO", "CSV", "/NH").Output()
	if err != nil {
		return nil, err
	}
	return ParseTasklist(out)
}
