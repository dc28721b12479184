package catalog

import (
	"fmt"
	"math"

	"bom-yield/internal/common"
	"bom-yield/internal/diagnostic"
)

// ID identifies a part or a bundle. Part and bundle ids live in separate
// namespaces.
type ID string

// Part is an atomic inventory item.
type Part struct {
	ID   ID
	Name string
	// Inventory is the on-hand count. The resolver depletes it in place.
	Inventory int
}

// Requirement is one line of a bundle's bill of materials: Quantity units
// of ID per unit of the owning bundle.
type Requirement struct {
	ID       ID
	Quantity int
}

// Bundle is an assembly defined by its direct requirements.
type Bundle struct {
	ID   ID
	Name string
	// Parts lists direct part requirements in evaluation order.
	Parts []Requirement
	// Bundles lists direct sub-bundle requirements in evaluation order.
	Bundles []Requirement
	// Atomic marks a leaf-equivalent bundle that is not assembled here but
	// held as pre-built Stock.
	Atomic bool
	Stock  int
}

// IsEmpty reports whether the bundle has no requirements at all.
func (b *Bundle) IsEmpty() bool {
	return len(b.Parts) == 0 && len(b.Bundles) == 0
}

// Catalog is the full set of parts and bundles for one resolution run.
type Catalog struct {
	parts     map[ID]*Part
	bundles   map[ID]*Bundle
	partIDs   []ID
	bundleIDs []ID
}

// New builds a catalog from parts and bundles. Requirement lines repeating
// an id are merged into the first occurrence. Structural defects abort
// construction with a *ValidationError.
func New(parts []Part, bundles []Bundle) (*Catalog, error) {
	cat, diags := build(parts, bundles)
	if diags.HasErrors() {
		return nil, &ValidationError{Diagnostics: diags}
	}

	return cat, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(parts []Part, bundles []Bundle) *Catalog {
	cat, err := New(parts, bundles)
	if err != nil {
		panic(fmt.Sprintf("catalog.MustNew: %v", err))
	}

	return cat
}

func build(parts []Part, bundles []Bundle) (*Catalog, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	cat := &Catalog{
		parts:   make(map[ID]*Part, len(parts)),
		bundles: make(map[ID]*Bundle, len(bundles)),
	}

	for _, p := range parts {
		if p.ID == "" {
			diags.AddError(CodeMissingID, "part must specify id", "", p.Name)
			continue
		}

		if _, ok := cat.parts[p.ID]; ok {
			diags.AddError(CodeDuplicatePart, fmt.Sprintf("duplicate part %q", p.ID), "", string(p.ID))
			continue
		}

		if p.Inventory < 0 {
			diags.AddError(CodeInvalidQuantity,
				fmt.Sprintf("inventory must not be negative, got %d", p.Inventory), "", string(p.ID))
		}

		part := p
		cat.parts[p.ID] = &part
	}

	for i := range bundles {
		b := bundles[i]
		if b.ID == "" {
			diags.AddError(CodeMissingID, "bundle must specify id", b.Name, "")
			continue
		}

		if _, ok := cat.bundles[b.ID]; ok {
			diags.AddError(CodeDuplicateBundle, fmt.Sprintf("duplicate bundle %q", b.ID), string(b.ID), "")
			continue
		}

		b.Parts = mergeRequirements(diags, b.ID, b.Parts)
		b.Bundles = mergeRequirements(diags, b.ID, b.Bundles)

		if b.Atomic {
			if !b.IsEmpty() {
				diags.AddError(CodeAtomicWithRequirements,
					"atomic bundle must not declare requirements", string(b.ID), "")
			}

			if b.Stock < 0 {
				diags.AddError(CodeInvalidQuantity,
					fmt.Sprintf("stock must not be negative, got %d", b.Stock), string(b.ID), "")
			}
		} else if b.IsEmpty() {
			diags.AddWarning(CodeEmptyBundle,
				"bundle has no requirements and is not atomic; it yields 0", string(b.ID), "")
		}

		cat.bundles[b.ID] = &b
	}

	// Dangling references are recoverable; report them once the full id set is known.
	for _, id := range common.SortedKeys(cat.bundles) {
		b := cat.bundles[id]
		for _, r := range b.Parts {
			if _, ok := cat.parts[r.ID]; !ok {
				diags.AddWarning(CodeUnknownPart,
					fmt.Sprintf("%v %q; bundle yields 0", ErrUnknownPart, r.ID), string(id), string(r.ID))
			}
		}

		for _, r := range b.Bundles {
			if _, ok := cat.bundles[r.ID]; !ok {
				diags.AddWarning(CodeUnknownBundle,
					fmt.Sprintf("%v %q; bundle yields 0", ErrUnknownBundle, r.ID), string(id), string(r.ID))
			}
		}
	}

	cat.partIDs = common.SortedKeys(cat.parts)
	cat.bundleIDs = common.SortedKeys(cat.bundles)

	return cat, diags
}

// mergeRequirements validates quantities and folds repeated ids into their
// first occurrence, keeping declaration order.
func mergeRequirements(diags *diagnostic.Diagnostics, owner ID, reqs []Requirement) []Requirement {
	if len(reqs) == 0 {
		return nil
	}

	out := make([]Requirement, 0, len(reqs))
	index := make(map[ID]int, len(reqs))

	for _, r := range reqs {
		if r.ID == "" {
			diags.AddError(CodeMissingID, "requirement must specify id", string(owner), "")
			continue
		}

		if r.Quantity <= 0 {
			diags.AddError(CodeInvalidQuantity,
				fmt.Sprintf("quantity must be positive, got %d", r.Quantity), string(owner), string(r.ID))
			continue
		}

		if at, ok := index[r.ID]; ok {
			if out[at].Quantity > math.MaxInt-r.Quantity {
				diags.AddError(CodeInvalidQuantity,
					fmt.Sprintf("merged quantity overflows: %d + %d", out[at].Quantity, r.Quantity),
					string(owner), string(r.ID))

				continue
			}

			out[at].Quantity += r.Quantity
			diags.AddInfo(CodeDuplicateRequirement,
				fmt.Sprintf("merged repeated requirement, quantity now %d", out[at].Quantity),
				string(owner), string(r.ID))

			continue
		}

		index[r.ID] = len(out)
		out = append(out, r)
	}

	return out
}

// Part returns the part with the given id.
func (c *Catalog) Part(id ID) (*Part, bool) {
	p, ok := c.parts[id]
	return p, ok
}

// Bundle returns the bundle with the given id.
func (c *Catalog) Bundle(id ID) (*Bundle, bool) {
	b, ok := c.bundles[id]
	return b, ok
}

// PartIDs returns all part ids in ascending order.
func (c *Catalog) PartIDs() []ID {
	return append([]ID(nil), c.partIDs...)
}

// BundleIDs returns all bundle ids in ascending order.
func (c *Catalog) BundleIDs() []ID {
	return append([]ID(nil), c.bundleIDs...)
}

// Inventory returns a copy of the current part inventory counts.
func (c *Catalog) Inventory() map[ID]int {
	inv := make(map[ID]int, len(c.parts))
	for id, p := range c.parts {
		inv[id] = p.Inventory
	}

	return inv
}

// Clone returns a deep copy that shares no mutable state with c.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		parts:     make(map[ID]*Part, len(c.parts)),
		bundles:   make(map[ID]*Bundle, len(c.bundles)),
		partIDs:   c.PartIDs(),
		bundleIDs: c.BundleIDs(),
	}

	for id, p := range c.parts {
		part := *p
		out.parts[id] = &part
	}

	for id, b := range c.bundles {
		bundle := *b
		bundle.Parts = append([]Requirement(nil), b.Parts...)
		bundle.Bundles = append([]Requirement(nil), b.Bundles...)
		out.bundles[id] = &bundle
	}

	return out
}
