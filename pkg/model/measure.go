package model

import "sort"

// MeasureDefinition is a named calculation defined on a model container.
type MeasureDefinition struct {
	Container  string `json:"container"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// MeasureCatalog maps a container name to its measures in enumeration order.
type MeasureCatalog map[string][]MeasureDefinition

// Count returns the total number of measures across all containers.
func (c MeasureCatalog) Count() int {
	n := 0
	for _, ms := range c {
		n += len(ms)
	}
	return n
}

// Containers returns the container names, sorted.
func (c MeasureCatalog) Containers() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns the first measure with the given name, looking through
// containers in name order.
func (c MeasureCatalog) Find(name string) (MeasureDefinition, bool) {
	for _, container := range c.Containers() {
		for _, m := range c[container] {
			if m.Name == name {
				return m, true
			}
		}
	}
	return MeasureDefinition{}, false
}
