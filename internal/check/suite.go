// Package check runs declarative data checks against a model.
//
// A suite is a YAML list of checks. Each check names a kind and the queries
// it needs; see Check for the fields each kind reads.
package check

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind selects what a check asserts.
type Kind string

const (
	// KindDistinct: every value of Column in Query is unique.
	KindDistinct Kind = "distinct"
	// KindSubset: every value of Column in Query appears in Of.Column of Of.Query.
	KindSubset Kind = "subset"
	// KindPrefix: per row, Column equals Source cut at the first Separator.
	KindPrefix Kind = "prefix"
	// KindRowCount: Query returns exactly Equals rows.
	KindRowCount Kind = "row_count"
	// KindMeasure: the model measure Measure evaluates to Expect's aggregate.
	KindMeasure Kind = "measure"
)

// Ref points at a column of a query result.
type Ref struct {
	Query  string `yaml:"query"`
	Column string `yaml:"column"`
}

// Expectation computes the expected value of a measure from raw rows.
type Expectation struct {
	Query     string `yaml:"query"`
	Aggregate string `yaml:"aggregate"` // count or sum
	Column    string `yaml:"column"`    // summed column
}

// Check is one entry of a suite.
type Check struct {
	Name      string       `yaml:"name"`
	Kind      Kind         `yaml:"kind"`
	Query     string       `yaml:"query"`
	Column    string       `yaml:"column"`
	Of        *Ref         `yaml:"of"`
	Source    string       `yaml:"source"`
	Separator string       `yaml:"separator"`
	Equals    *int         `yaml:"equals"`
	Measure   string       `yaml:"measure"`
	Expect    *Expectation `yaml:"expect"`
}

// Suite is a named list of checks.
type Suite struct {
	Name   string  `yaml:"name"`
	Checks []Check `yaml:"checks"`
}

// LoadSuite reads and validates a suite file.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("read suite: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes and validates a suite document.
func ParseSuite(data []byte) (Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Suite{}, fmt.Errorf("parse suite: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Suite{}, err
	}
	return s, nil
}

// Validate reports every malformed check at once.
func (s Suite) Validate() error {
	if len(s.Checks) == 0 {
		return errors.New("suite has no checks")
	}
	var errs []error
	for i, c := range s.Checks {
		if err := c.validate(); err != nil {
			errs = append(errs, fmt.Errorf("check %d (%s): %w", i+1, c.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (c Check) validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	need := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("%s is required for kind %s", field, c.Kind)
		}
		return nil
	}

	switch c.Kind {
	case KindDistinct:
		return errors.Join(need("query", c.Query), need("column", c.Column))
	case KindSubset:
		if c.Of == nil {
			return errors.New("of is required for kind subset")
		}
		return errors.Join(need("query", c.Query), need("column", c.Column),
			need("of.query", c.Of.Query), need("of.column", c.Of.Column))
	case KindPrefix:
		return errors.Join(need("query", c.Query), need("column", c.Column),
			need("source", c.Source), need("separator", c.Separator))
	case KindRowCount:
		if c.Equals == nil {
			return errors.New("equals is required for kind row_count")
		}
		return need("query", c.Query)
	case KindMeasure:
		if c.Expect == nil {
			return errors.New("expect is required for kind measure")
		}
		switch c.Expect.Aggregate {
		case "count":
		case "sum":
			if err := need("expect.column", c.Expect.Column); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown aggregate %q", c.Expect.Aggregate)
		}
		return errors.Join(need("measure", c.Measure), need("expect.query", c.Expect.Query))
	default:
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
}
