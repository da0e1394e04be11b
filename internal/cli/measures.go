package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pranshuparmar/daxprobe/internal/connector"
	"github.com/pranshuparmar/daxprobe/internal/output"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// MeasuresOptions holds flags for the measures command.
type MeasuresOptions struct {
	*RootOptions
	Eval     bool
	Parallel int
}

type measureRecord struct {
	Container  string  `json:"container"`
	Name       string  `json:"name"`
	Expression string  `json:"expression"`
	Value      *string `json:"value,omitempty"`
}

// NewMeasuresCommand creates the measures command.
func NewMeasuresCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MeasuresOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "measures",
		Short: "List the model's measures by table",
		Long: `List every table of the open model with the measures defined on it.

With --eval each measure is also evaluated on its own connection. A measure
that fails to evaluate is logged and listed without a value.

Example:
  daxprobe measures
  daxprobe measures --eval --parallel 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasures(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Eval, "eval", false, "evaluate every measure")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "measures evaluated at once with --eval")

	return cmd
}

func runMeasures(opts *MeasuresOptions, cmd *cobra.Command) error {
	conn, err := opts.connect(cmd.Context())
	if err != nil {
		return err
	}

	catalog, err := conn.GetMeasures(cmd.Context())
	if err != nil {
		return WrapQueryError("read measures", err)
	}

	var values map[string]string
	if opts.Eval {
		values = opts.evaluate(cmd.Context(), conn, catalog)
	}

	if opts.json() {
		return output.RenderJSON(cmd.OutOrStdout(), measureRecords(catalog, values))
	}
	output.RenderMeasures(cmd.OutOrStdout(), catalog, values, opts.color())
	return nil
}

// evaluate runs every measure, at most Parallel at a time. Failures are
// logged and left out of the result.
func (o *MeasuresOptions) evaluate(ctx context.Context, conn *connector.Connector, catalog model.MeasureCatalog) map[string]string {
	var (
		mu     sync.Mutex
		values = make(map[string]string, catalog.Count())
		g      errgroup.Group
	)
	g.SetLimit(max(o.Parallel, 1))

	for _, container := range catalog.Containers() {
		for _, m := range catalog[container] {
			g.Go(func() error {
				v, err := conn.EvaluateMeasure(ctx, m)
				if err != nil {
					o.log().Warn("measure evaluation failed", "container", m.Container, "measure", m.Name, "error", err)
					return nil
				}
				mu.Lock()
				values[output.MeasureKey(m)] = v
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()
	return values
}

func measureRecords(catalog model.MeasureCatalog, values map[string]string) []measureRecord {
	records := make([]measureRecord, 0, catalog.Count())
	for _, container := range catalog.Containers() {
		for _, m := range catalog[container] {
			r := measureRecord{Container: m.Container, Name: m.Name, Expression: m.Expression}
			if v, ok := values[output.MeasureKey(m)]; ok {
				r.Value = &v
			}
			records = append(records, r)
		}
	}
	return records
}
