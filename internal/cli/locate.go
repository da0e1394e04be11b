package cli

import (
	"github.com/spf13/cobra"

	"github.com/pranshuparmar/daxprobe/internal/output"
	"github.com/pranshuparmar/daxprobe/internal/proc"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// NewLocateCommand creates the locate command.
func NewLocateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the engine and print its connection string",
		Long: `Find the engine process, resolve the loopback port it listens on and
print the connection string queries would use.

Example:
  daxprobe locate
  daxprobe locate --resolver netstat --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(rootOpts, cmd)
		},
	}

	return cmd
}

func runLocate(opts *RootOptions, cmd *cobra.Command) error {
	conn, err := opts.connect(cmd.Context())
	if err != nil {
		return err
	}

	e := output.Endpoint{
		Process:    conn.Process(),
		Port:       conn.Binding().Port,
		Descriptor: conn.Descriptor(),
		Driver:     conn.Driver(),
	}
	if pid := conn.Process().PID; pid > 0 {
		e.LaunchedBy = launchedBy(opts, pid)
	}
	if opts.json() {
		return output.RenderJSON(cmd.OutOrStdout(), e)
	}
	output.RenderEndpoint(cmd.OutOrStdout(), e, opts.color())
	return nil
}

// launchedBy names the engine's parent processes. It is informational only,
// so a failed listing just leaves it empty.
func launchedBy(opts *RootOptions, pid int) []model.ProcessHandle {
	procs, err := opts.processes()
	if err != nil {
		opts.log().Debug("process ancestry unavailable", "error", err)
		return nil
	}
	chain := proc.Ancestry(pid, procs)
	if len(chain) < 2 {
		return nil
	}
	parents := make([]model.ProcessHandle, 0, len(chain)-1)
	for _, p := range chain[:len(chain)-1] {
		parents = append(parents, model.ProcessHandle{PID: p.PID, Name: proc.ImageName(p.Command)})
	}
	return parents
}
