package cli

import (
	"cmp"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pranshuparmar/daxprobe/internal/output"
	"github.com/pranshuparmar/daxprobe/internal/proc"
	"github.com/pranshuparmar/daxprobe/internal/target"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// ConnectionsOptions holds flags for the connections command.
type ConnectionsOptions struct {
	*RootOptions
	PID       int
	All       bool
	Listening bool
}

// NewConnectionsCommand creates the connections command.
func NewConnectionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConnectionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Show the sockets of the engine process",
		Long: `Show the connection table rows the port resolvers work from.

By default only the engine process is shown; use --pid for another process
or --all for every socket on the machine.

Example:
  daxprobe connections
  daxprobe connections --all --listening`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnections(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.PID, "pid", 0, "show sockets of this process")
	cmd.Flags().BoolVar(&opts.All, "all", false, "show sockets of every process")
	cmd.Flags().BoolVarP(&opts.Listening, "listening", "l", false, "only listening sockets")
	cmd.MarkFlagsMutuallyExclusive("pid", "all")

	return cmd
}

func runConnections(opts *ConnectionsOptions, cmd *cobra.Command) error {
	procs, err := opts.processes()
	if err != nil {
		return WrapExitError(ExitCommandError, "list processes", err)
	}

	pid := opts.PID
	if pid == 0 && !opts.All {
		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		h, err := target.Locator{List: func() ([]model.ProcessSummary, error) { return procs, nil }}.Find(cfg.ProcessName)
		if err != nil {
			return WrapExitError(ExitCommandError, "locate engine", err)
		}
		pid = h.PID
	}

	conns, err := opts.connections()
	if err != nil {
		return WrapExitError(ExitCommandError, "list connections", err)
	}
	conns = filterConnections(conns, pid, opts.Listening)
	nameProcesses(conns, procs)
	opts.log().Debug("connections listed", "pid", pid, "rows", len(conns))

	if opts.json() {
		return output.RenderJSON(cmd.OutOrStdout(), conns)
	}
	output.RenderTable(cmd.OutOrStdout(), output.ConnectionsTable(conns), opts.color())
	return nil
}

// filterConnections keeps pid's sockets (every socket when pid is 0), sorted
// by pid and local port.
func filterConnections(conns []model.Connection, pid int, listening bool) []model.Connection {
	out := make([]model.Connection, 0, len(conns))
	for _, c := range conns {
		if pid != 0 && c.PID != pid {
			continue
		}
		if listening && c.State != "LISTEN" && c.State != "LISTENING" {
			continue
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b model.Connection) int {
		return cmp.Or(cmp.Compare(a.PID, b.PID), cmp.Compare(a.LocalPort, b.LocalPort))
	})
	return out
}

// nameProcesses fills in process names the connection table left blank.
func nameProcesses(conns []model.Connection, procs []model.ProcessSummary) {
	names := make(map[int]string, len(procs))
	for _, p := range procs {
		names[p.PID] = proc.ImageName(p.Command)
	}
	for i := range conns {
		if conns[i].Process == "" {
			conns[i].Process = names[conns[i].PID]
		}
	}
}
