package proc

import (
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// Ancestry walks the parent links of pid through a process table snapshot and
// returns the chain root first, pid itself last. A parent missing from the
// snapshot ends the chain.
func Ancestry(pid int, processes []model.ProcessSummary) []model.ProcessSummary {
	byPID := make(map[int]model.ProcessSummary, len(processes))
	for _, p := range processes {
		byPID[p.PID] = p
	}

	var chain []model.ProcessSummary
	seen := make(map[int]bool)

	current := pid
	for current > 0 {
		if seen[current] {
			break // loop protection
		}
		seen[current] = true

		p, ok := byPID[current]
		if !ok {
			break
		}
		chain = append(chain, p)

		// pid 1 is always the root (launchd on macOS, init/systemd on Linux)
		if p.PID == 1 || p.PPID == 0 {
			break
		}
		current = p.PPID
	}

	return reverse(chain)
}

func reverse(in []model.ProcessSummary) []model.ProcessSummary {
	for i, j := 0, len(in)-1; i < j; i, j = i+1, j-1 {
		in[i], in[j] = in[j], in[i]
	}
	return in
}
