package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pranshuparmar/daxprobe/internal/check"
	"github.com/pranshuparmar/daxprobe/internal/output"
)

type checkReport struct {
	Suite   string         `json:"suite"`
	Passed  bool           `json:"passed"`
	Results []check.Result `json:"results"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <suite.yaml>",
		Short: "Run a suite of model checks",
		Long: `Run every check of a YAML suite against the open model and report
each outcome. Exits 1 when any check fails or cannot run.

Example:
  daxprobe check model-checks.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	suite, err := check.LoadSuite(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load suite", err)
	}

	conn, err := opts.connect(cmd.Context())
	if err != nil {
		return err
	}

	runner := &check.Runner{Engine: conn, Logger: opts.log()}
	results := runner.Run(cmd.Context(), suite)
	failed := check.Failed(results)

	if opts.json() {
		report := checkReport{Suite: suite.Name, Passed: failed == 0, Results: results}
		if err := output.RenderJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		output.RenderReport(cmd.OutOrStdout(), suite.Name, results, opts.color())
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d checks failed", failed, len(results)))
	}
	return nil
}
