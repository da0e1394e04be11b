package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pranshuparmar/daxprobe/internal/output"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	File   string
	Scalar bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query [dax]",
		Short: "Run a DAX query and print the result",
		Long: `Run one DAX query against the engine and print every row.

The query comes from the argument, from --file, or from stdin with --file -.
--scalar reads a single value instead of a table. The engine rejects that
mode, so it is only useful against other drivers.

Example:
  daxprobe query 'EVALUATE fact_data'
  daxprobe query --file report.dax --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the query from a file (- for stdin)")
	cmd.Flags().BoolVar(&opts.Scalar, "scalar", false, "read a single value")

	return cmd
}

func runQuery(opts *QueryOptions, args []string, cmd *cobra.Command) error {
	query, err := readQuery(args, opts.File, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "read query", err)
	}

	conn, err := opts.connect(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Scalar {
		value, err := conn.RunQueryScalar(cmd.Context(), query)
		if err != nil {
			return WrapQueryError("scalar query failed", err)
		}
		if opts.json() {
			return output.RenderJSON(out, map[string]string{"value": value})
		}
		fmt.Fprintln(out, output.SanitizeTerminal(value))
		return nil
	}

	res, err := conn.RunQuery(cmd.Context(), query)
	if err != nil {
		return WrapQueryError("query failed", err)
	}
	if opts.json() {
		return output.RenderJSON(out, res)
	}
	output.RenderTable(out, res, opts.color())
	return nil
}

func readQuery(args []string, file string, stdin io.Reader) (string, error) {
	if file != "" && len(args) > 0 {
		return "", errors.New("pass the query as an argument or with --file, not both")
	}

	var query string
	switch {
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		query = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		query = string(data)
	case len(args) == 1:
		query = args[0]
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("empty query")
	}
	return query, nil
}
