//go:build linux

package proc

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

func getAllProcessesOS() ([]model.ProcessSummary, error) {
	var processes []model.ProcessSummary

	files, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if !f.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(f.Name())
		if err != nil {
			continue
		}

		stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
		if err != nil {
			// exited between ReadDir and now
			continue
		}
		comm, ppid, err := parseStat(stat)
		if err != nil {
			continue
		}

		processes = append(processes, model.ProcessSummary{
			PID:     pid,
			PPID:    ppid,
			User:    getUser(pid),
			Command: comm,
		})
	}

	return processes, nil
}

// commName returns the short command name of pid, or "" when it is gone.
func commName(pid int) string {
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return ""
	}
	comm, _, _ := parseStat(stat)
	return comm
}
