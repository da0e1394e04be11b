package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pranshuparmar/daxprobe/internal/config"
	"github.com/pranshuparmar/daxprobe/internal/connector"
	"github.com/pranshuparmar/daxprobe/internal/proc"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath       string
	ProcessName      string
	ConnectionString string
	Driver           string
	Resolver         string
	Port             int
	Verbose          bool
	NoColor          bool
	Format           string // "text" | "json"

	// Hooks for tests. ConnectorOptions are applied after the configured
	// ones; nil listers fall back to the OS tables.
	ConnectorOptions []connector.Option
	ListProcesses    func() ([]model.ProcessSummary, error)
	ListConnections  func() ([]model.Connection, error)

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the daxprobe CLI.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&RootOptions{}, version)
}

func newRootCommand(opts *RootOptions, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daxprobe",
		Short: "Query the Analysis Services engine behind Power BI Desktop",
		Long: `daxprobe finds the local Analysis Services engine started by Power BI
Desktop, resolves the loopback port it listens on and runs DAX queries
against the open model.

Discovery reads the OS process and connection tables on every run; pass
--port to skip it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "config file (default $"+config.EnvConfigPath+")")
	pf.StringVar(&opts.ProcessName, "process", "", "engine process image name")
	pf.StringVar(&opts.ConnectionString, "connection-string", "", "connection string the port is appended to")
	pf.StringVar(&opts.Driver, "driver", "", "database/sql driver name")
	pf.StringVar(&opts.Resolver, "resolver", "", "port resolver (auto|netstat|procnet|lsof|sockets)")
	pf.IntVar(&opts.Port, "port", 0, "engine port; skips process discovery")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colorized output")
	pf.StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewLocateCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewMeasuresCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewConnectionsCommand(opts))
	cmd.AddCommand(NewBrowseCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger writes to stderr so logs never mix with command output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

func (o *RootOptions) color() bool {
	return !o.NoColor && os.Getenv("NO_COLOR") == ""
}

func (o *RootOptions) json() bool {
	return o.Format == "json"
}

func (o *RootOptions) processes() ([]model.ProcessSummary, error) {
	if o.ListProcesses != nil {
		return o.ListProcesses()
	}
	return proc.GetAllProcesses()
}

func (o *RootOptions) connections() ([]model.Connection, error) {
	if o.ListConnections != nil {
		return o.ListConnections()
	}
	return proc.GetAllConnections()
}
