package yield

import (
	"bom-yield/internal/catalog"
	"bom-yield/internal/diagnostic"
)

// Result is the outcome of one resolution run.
type Result struct {
	// Target is the bundle that was maximized.
	Target catalog.ID `json:"target" yaml:"target"`
	// Units is the number of Target units that can be assembled.
	Units int `json:"units" yaml:"units"`
	// Strategy that produced the result.
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	// Allocations lists every bundle evaluated, children before parents.
	Allocations []Allocation `json:"allocations" yaml:"allocations"`
	// Remaining is the part inventory left after depletion.
	Remaining map[catalog.ID]int `json:"remaining" yaml:"remaining"`
	// Diagnostics holds recoverable conditions met during the run.
	Diagnostics diagnostic.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// Allocation records what the run did with one bundle.
type Allocation struct {
	Bundle catalog.ID `json:"bundle" yaml:"bundle"`
	// Built is the number of units assembled.
	Built int `json:"built" yaml:"built"`
	// Used is the number of built units consumed by parent bundles. For the
	// target it equals Built.
	Used int `json:"used" yaml:"used"`
	// Bottleneck is the requirement that bound Built, if any.
	Bottleneck catalog.ID `json:"bottleneck,omitempty" yaml:"bottleneck,omitempty"`
}

// Spare returns the built units no parent consumed.
func (a Allocation) Spare() int {
	return a.Built - a.Used
}

// Allocation returns the allocation recorded for the given bundle.
func (r *Result) Allocation(id catalog.ID) (Allocation, bool) {
	for _, a := range r.Allocations {
		if a.Bundle == id {
			return a, true
		}
	}

	return Allocation{}, false
}
