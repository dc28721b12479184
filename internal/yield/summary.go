package yield

import (
	"bom-yield/internal/catalog"
	"bom-yield/internal/common"
)

// Summary is the compact form of several results.
type Summary struct {
	Strategy Strategy           `json:"strategy" yaml:"strategy"`
	Yields   map[catalog.ID]int `json:"yields" yaml:"yields"`
	Warnings []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Summarize collapses results into a Summary. Warnings are listed in
// ascending target order.
func Summarize(results map[catalog.ID]*Result) Summary {
	s := Summary{Yields: make(map[catalog.ID]int, len(results))}

	for _, id := range common.SortedKeys(results) {
		res := results[id]
		s.Strategy = res.Strategy
		s.Yields[id] = res.Units

		for _, w := range res.Diagnostics.Warnings {
			s.Warnings = append(s.Warnings, w.String())
		}
	}

	return s
}
