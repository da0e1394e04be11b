package check

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// Engine is the part of a connector the runner needs.
type Engine interface {
	RunQuery(ctx context.Context, query string) (model.QueryResult, error)
	RunQueries(ctx context.Context, queries ...string) ([]model.QueryResult, error)
	GetMeasures(ctx context.Context) (model.MeasureCatalog, error)
	EvaluateMeasure(ctx context.Context, m model.MeasureDefinition) (string, error)
}

// Result is the outcome of one check. Err is set when the check could not
// run at all, as opposed to running and failing.
type Result struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// Runner executes suites against an engine.
type Runner struct {
	Engine Engine
	Logger *slog.Logger

	catalog model.MeasureCatalog
}

// Run executes every check in order and never stops early. The measure
// catalog is read again on each run.
func (r *Runner) Run(ctx context.Context, s Suite) []Result {
	r.catalog = nil
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]Result, 0, len(s.Checks))
	for _, c := range s.Checks {
		res := r.runOne(ctx, c)
		if res.Err != nil {
			res.Message = res.Err.Error()
		}
		logger.Debug("check finished", "check", c.Name, "kind", c.Kind, "passed", res.Passed)
		results = append(results, res)
	}
	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

func (r *Runner) runOne(ctx context.Context, c Check) Result {
	res := Result{Name: c.Name, Kind: c.Kind}

	var err error
	switch c.Kind {
	case KindDistinct:
		res.Passed, res.Message, err = r.distinct(ctx, c)
	case KindSubset:
		res.Passed, res.Message, err = r.subset(ctx, c)
	case KindPrefix:
		res.Passed, res.Message, err = r.prefix(ctx, c)
	case KindRowCount:
		res.Passed, res.Message, err = r.rowCount(ctx, c)
	case KindMeasure:
		res.Passed, res.Message, err = r.measure(ctx, c)
	default:
		err = fmt.Errorf("unknown kind %q", c.Kind)
	}
	res.Err = err
	return res
}

func column(res model.QueryResult, name string) ([]string, error) {
	values, ok := res.Column(name)
	if !ok {
		return nil, fmt.Errorf("result has no column %q (have %s)", name, strings.Join(res.Columns, ", "))
	}
	return values, nil
}

func (r *Runner) distinct(ctx context.Context, c Check) (bool, string, error) {
	res, err := r.Engine.RunQuery(ctx, c.Query)
	if err != nil {
		return false, "", err
	}
	values, err := column(res, c.Column)
	if err != nil {
		return false, "", err
	}

	seen := make(map[string]int, len(values))
	var dups []string
	for _, v := range values {
		seen[v]++
		if seen[v] == 2 {
			dups = append(dups, v)
		}
	}
	if len(dups) > 0 {
		return false, fmt.Sprintf("%d duplicated value(s): %s", len(dups), preview(dups)), nil
	}
	return true, fmt.Sprintf("%d unique value(s)", len(values)), nil
}

func (r *Runner) subset(ctx context.Context, c Check) (bool, string, error) {
	results, err := r.Engine.RunQueries(ctx, c.Query, c.Of.Query)
	if err != nil {
		return false, "", err
	}
	values, err := column(results[0], c.Column)
	if err != nil {
		return false, "", err
	}
	allowed, err := column(results[1], c.Of.Column)
	if err != nil {
		return false, "", err
	}

	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	var missing []string
	reported := make(map[string]bool)
	for _, v := range values {
		if _, ok := set[v]; !ok && !reported[v] {
			reported[v] = true
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("%d value(s) missing from %s: %s", len(missing), c.Of.Column, preview(missing)), nil
	}
	return true, fmt.Sprintf("%d value(s) all present in %s", len(values), c.Of.Column), nil
}

func (r *Runner) prefix(ctx context.Context, c Check) (bool, string, error) {
	res, err := r.Engine.RunQuery(ctx, c.Query)
	if err != nil {
		return false, "", err
	}
	got, err := column(res, c.Column)
	if err != nil {
		return false, "", err
	}
	src, err := column(res, c.Source)
	if err != nil {
		return false, "", err
	}

	var bad []string
	for i := range got {
		want, _, _ := strings.Cut(src[i], c.Separator)
		if got[i] != want {
			bad = append(bad, fmt.Sprintf("row %d: %q != %q", i+1, got[i], want))
		}
	}
	if len(bad) > 0 {
		return false, fmt.Sprintf("%d mismatched row(s): %s", len(bad), preview(bad)), nil
	}
	return true, fmt.Sprintf("%d row(s) match", len(got)), nil
}

func (r *Runner) rowCount(ctx context.Context, c Check) (bool, string, error) {
	res, err := r.Engine.RunQuery(ctx, c.Query)
	if err != nil {
		return false, "", err
	}
	if res.Len() != *c.Equals {
		return false, fmt.Sprintf("got %d row(s), want %d", res.Len(), *c.Equals), nil
	}
	return true, fmt.Sprintf("%d row(s)", res.Len()), nil
}

func (r *Runner) measure(ctx context.Context, c Check) (bool, string, error) {
	if r.catalog == nil {
		catalog, err := r.Engine.GetMeasures(ctx)
		if err != nil {
			return false, "", err
		}
		r.catalog = catalog
	}
	m, ok := r.catalog.Find(c.Measure)
	if !ok {
		return false, "", fmt.Errorf("model has no measure %q", c.Measure)
	}

	got, err := r.Engine.EvaluateMeasure(ctx, m)
	if err != nil {
		return false, "", err
	}
	want, err := r.expected(ctx, c.Expect)
	if err != nil {
		return false, "", err
	}

	if !sameNumber(got, want) {
		return false, fmt.Sprintf("%s = %s, want %s", m.Name, got, want), nil
	}
	return true, fmt.Sprintf("%s = %s", m.Name, got), nil
}

func (r *Runner) expected(ctx context.Context, e *Expectation) (string, error) {
	res, err := r.Engine.RunQuery(ctx, e.Query)
	if err != nil {
		return "", err
	}
	if e.Aggregate == "count" {
		return strconv.Itoa(res.Len()), nil
	}

	values, err := column(res, e.Column)
	if err != nil {
		return "", err
	}
	var sum float64
	for i, v := range values {
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", fmt.Errorf("row %d of %s: %q is not a number", i+1, e.Column, v)
		}
		sum += f
	}
	return strconv.FormatFloat(sum, 'f', -1, 64), nil
}

// sameNumber compares two values numerically when both parse, and as text
// otherwise, so "35" and "35.0" agree.
func sameNumber(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return a == b
}

func preview(values []string) string {
	const limit = 5
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:limit], ", ") + fmt.Sprintf(", ... (%d more)", len(values)-limit)
}
