package catalog

// File represents the root of a YAML catalog definition.
type File struct {
	// Version of the catalog schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Parts lists every atomic part with its on-hand inventory.
	Parts []PartDef `yaml:"parts"`

	// Bundles lists every bundle with its direct requirements.
	Bundles []BundleDef `yaml:"bundles"`
}

// PartDef is the YAML form of a Part.
type PartDef struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name,omitempty"`
	Inventory int    `yaml:"inventory"`
}

// BundleDef is the YAML form of a Bundle.
type BundleDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`

	// Parts are the direct part requirements, in evaluation order.
	Parts RequirementList `yaml:"parts,omitempty"`

	// Bundles are the direct sub-bundle requirements, in evaluation order.
	Bundles RequirementList `yaml:"bundles,omitempty"`

	// Atomic marks a leaf-equivalent bundle held as pre-built stock.
	Atomic bool `yaml:"atomic,omitempty"`
	Stock  int  `yaml:"stock,omitempty"`
}

// RequirementDef is a single requirement line.
type RequirementDef struct {
	ID       string `yaml:"id"`
	Quantity int    `yaml:"quantity"`
}

// RequirementList is an ordered list of requirement lines. See UnmarshalYAML
// for the accepted shorthand forms.
type RequirementList []RequirementDef

// ToFile converts a catalog back into its YAML form. Bundles and parts are
// emitted in ascending id order.
func ToFile(c *Catalog) *File {
	f := &File{Version: "1"}

	for _, id := range c.partIDs {
		p := c.parts[id]
		f.Parts = append(f.Parts, PartDef{ID: string(p.ID), Name: p.Name, Inventory: p.Inventory})
	}

	for _, id := range c.bundleIDs {
		b := c.bundles[id]
		f.Bundles = append(f.Bundles, BundleDef{
			ID:      string(b.ID),
			Name:    b.Name,
			Parts:   toRequirementList(b.Parts),
			Bundles: toRequirementList(b.Bundles),
			Atomic:  b.Atomic,
			Stock:   b.Stock,
		})
	}

	return f
}

// FromFile builds a catalog from its YAML form. Warnings (unknown
// references, empty bundles) are returned alongside a valid catalog;
// structural defects return a *ValidationError.
func FromFile(f *File) (*Catalog, error) {
	cat, _, err := FromFileWithDiagnostics(f)
	return cat, err
}

func toRequirementList(reqs []Requirement) RequirementList {
	if len(reqs) == 0 {
		return nil
	}

	out := make(RequirementList, len(reqs))
	for i, r := range reqs {
		out[i] = RequirementDef{ID: string(r.ID), Quantity: r.Quantity}
	}

	return out
}

func fromRequirementList(defs RequirementList) []Requirement {
	if len(defs) == 0 {
		return nil
	}

	out := make([]Requirement, len(defs))
	for i, d := range defs {
		out[i] = Requirement{ID: ID(d.ID), Quantity: d.Quantity}
	}

	return out
}
