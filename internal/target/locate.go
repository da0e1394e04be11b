package target

import (
	"fmt"
	"strings"

	"github.com/pranshuparmar/daxprobe/internal/proc"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// DefaultProcessName is the image name of the Analysis Services engine that
// Power BI Desktop starts for an open model.
const DefaultProcessName = "msmdsrv.exe"

// ProcessLister returns a snapshot of the process table.
type ProcessLister func() ([]model.ProcessSummary, error)

// Locator finds processes by image name.
type Locator struct {
	List ProcessLister
}

// FindProcess looks name up in the live process table.
func FindProcess(name string) (model.ProcessHandle, error) {
	return Locator{List: proc.GetAllProcesses}.Find(name)
}

// Find returns the first enumerated process whose image name matches name.
// Matching ignores case and a trailing ".exe". When several processes match
// the first one wins; enumeration order is up to the OS.
func (l Locator) Find(name string) (model.ProcessHandle, error) {
	processes, err := l.List()
	if err != nil {
		return model.ProcessHandle{}, fmt.Errorf("list processes: %w", err)
	}

	want := trimExe(name)
	for _, p := range processes {
		image := proc.ImageName(p.Command)
		if strings.EqualFold(trimExe(image), want) {
			return model.ProcessHandle{PID: p.PID, Name: image}, nil
		}
	}
	return model.ProcessHandle{}, fmt.Errorf("%w: no running process named %q", ErrProcessNotFound, name)
}

func trimExe(name string) string {
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		return name[:len(name)-4]
	}
	return name
}
