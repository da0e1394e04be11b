package proc

import (
	"path"
	"strings"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// GetAllProcesses returns a snapshot of the OS process table in the order
// the OS enumerates it. That order is not guaranteed to be stable.
func GetAllProcesses() ([]model.ProcessSummary, error) {
	return getAllProcessesOS()
}

// ImageName strips the directory from a process image path. Commands are
// image names, not command lines, so spaces are kept.
func ImageName(command string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(command), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
