package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bom-yield/internal/diagnostic"
)

// LoadFile loads and parses a YAML catalog file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Parts {
		if f.Parts[i].Name == "" {
			f.Parts[i].Name = f.Parts[i].ID
		}
	}

	for i := range f.Bundles {
		if f.Bundles[i].Name == "" {
			f.Bundles[i].Name = f.Bundles[i].ID
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file %s: %w", path, err)
	}

	return nil
}

// FromFileWithDiagnostics is like FromFile but also returns every
// diagnostic produced during construction, including warnings.
func FromFileWithDiagnostics(f *File) (*Catalog, *diagnostic.Diagnostics, error) {
	if f == nil {
		diags := &diagnostic.Diagnostics{}
		diags.AddError("catalog_is_nil", "catalog file is nil", "", "")

		return nil, diags, &ValidationError{Diagnostics: diags}
	}

	parts := make([]Part, len(f.Parts))
	for i, p := range f.Parts {
		parts[i] = Part{ID: ID(p.ID), Name: p.Name, Inventory: p.Inventory}
	}

	bundles := make([]Bundle, len(f.Bundles))
	for i, b := range f.Bundles {
		bundles[i] = Bundle{
			ID:      ID(b.ID),
			Name:    b.Name,
			Parts:   fromRequirementList(b.Parts),
			Bundles: fromRequirementList(b.Bundles),
			Atomic:  b.Atomic,
			Stock:   b.Stock,
		}
	}

	cat, diags := build(parts, bundles)
	if diags.HasErrors() {
		return nil, diags, &ValidationError{Diagnostics: diags}
	}

	return cat, diags, nil
}

// Load reads a YAML catalog file and builds a catalog from it.
func Load(path string) (*Catalog, *diagnostic.Diagnostics, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	return FromFileWithDiagnostics(f)
}

// UnmarshalYAML implements custom YAML unmarshaling for RequirementList.
// Accepts:
//   - Sequence of full lines: [{id: seat, quantity: 1}]
//   - Sequence of shorthand lines: [{seat: 1}, pedal]  (bare id means quantity 1)
//   - Mapping shorthand: {seat: 1, pedal: 2}  (key order is preserved)
func (l *RequirementList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		reqs, err := parseRequirementPairs(node)
		if err != nil {
			return err
		}

		*l = reqs

		return nil

	case yaml.SequenceNode:
		reqs := make(RequirementList, 0, len(node.Content))

		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				var id string
				if err := item.Decode(&id); err != nil {
					return err
				}

				reqs = append(reqs, RequirementDef{ID: id, Quantity: 1})

			case yaml.MappingNode:
				if isFullRequirement(item) {
					var def RequirementDef
					if err := item.Decode(&def); err != nil {
						return err
					}

					reqs = append(reqs, def)

					continue
				}

				pairs, err := parseRequirementPairs(item)
				if err != nil {
					return err
				}

				reqs = append(reqs, pairs...)

			default:
				return fmt.Errorf("line %d: expected requirement, got %v", item.Line, item.Kind)
			}
		}

		*l = reqs

		return nil

	default:
		return fmt.Errorf("line %d: expected requirement list or mapping, got %v", node.Line, node.Kind)
	}
}

// isFullRequirement reports whether a mapping node uses the explicit
// {id, quantity} form.
func isFullRequirement(node *yaml.Node) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "id" {
			return true
		}
	}

	return false
}

// parseRequirementPairs reads "id: quantity" pairs in document order.
func parseRequirementPairs(node *yaml.Node) (RequirementList, error) {
	if len(node.Content)%2 != 0 {
		return nil, errors.New("malformed requirement mapping")
	}

	reqs := make(RequirementList, 0, len(node.Content)/2)

	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var qty int
		if err := val.Decode(&qty); err != nil {
			return nil, fmt.Errorf("line %d: quantity for %q: %w", val.Line, key.Value, err)
		}

		reqs = append(reqs, RequirementDef{ID: key.Value, Quantity: qty})
	}

	return reqs, nil
}
