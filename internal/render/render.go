// Package render writes resolution results for humans (tables, trees) and
// machines (YAML, JSON).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"bom-yield/internal/catalog"
	"bom-yield/internal/common"
	"bom-yield/internal/diagnostic"
	"bom-yield/internal/yield"
)

const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatYAML, FormatJSON}

// Result writes one resolution result.
func Result(w io.Writer, format string, res *yield.Result) error {
	if format != FormatTable {
		return encode(w, format, res)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Bundle", "Built", "Used", "Spare", "Bottleneck"})

	for _, a := range res.Allocations {
		t.AppendRow(table.Row{a.Bundle, a.Built, a.Used, a.Spare(), a.Bottleneck})
	}

	t.AppendFooter(table.Row{res.Target, res.Units, "", "", res.Strategy})
	t.Render()

	return Warnings(w, res.Diagnostics)
}

// Remaining writes the part inventory left after a run, in ascending id order.
func Remaining(w io.Writer, res *yield.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Part", "Remaining"})

	for _, id := range common.SortedKeys(res.Remaining) {
		t.AppendRow(table.Row{id, res.Remaining[id]})
	}

	t.Render()
}

// Summary writes the yield of several targets.
func Summary(w io.Writer, format string, s yield.Summary) error {
	if format != FormatTable {
		return encode(w, format, s)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Bundle", "Units"})

	for _, id := range common.SortedKeys(s.Yields) {
		t.AppendRow(table.Row{id, s.Yields[id]})
	}

	t.AppendFooter(table.Row{"strategy", s.Strategy})
	t.Render()

	for _, msg := range s.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", msg); err != nil {
			return err
		}
	}

	return nil
}

// Diagnostics writes every diagnostic, errors first.
func Diagnostics(w io.Writer, format string, diags *diagnostic.Diagnostics) error {
	if format != FormatTable {
		return encode(w, format, diags)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Severity", "Code", "Bundle", "Ref", "Message"})

	for _, group := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings, diags.Infos} {
		for _, d := range group {
			t.AppendRow(table.Row{d.Severity, d.Code, d.Bundle, d.Ref, d.Message})
		}
	}

	t.Render()

	return nil
}

// Warnings writes one line per warning diagnostic.
func Warnings(w io.Writer, diags diagnostic.Diagnostics) error {
	for _, d := range diags.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", d); err != nil {
			return err
		}
	}

	return nil
}

// Tree writes the bill of materials below root as an indented tree. Shared
// sub-bundles are expanded under every parent; a bundle already on the
// current path is printed once and marked.
func Tree(w io.Writer, cat *catalog.Catalog, root catalog.ID) {
	l := list.NewWriter()
	l.SetOutputMirror(w)

	onPath := map[catalog.ID]bool{}

	var walk func(id catalog.ID, qty int)
	walk = func(id catalog.ID, qty int) {
		label := string(id)
		if qty > 0 {
			label = strconv.Itoa(qty) + " x " + label
		}

		b, ok := cat.Bundle(id)

		switch {
		case !ok:
			l.AppendItem(label + " (unknown bundle)")
			return
		case onPath[id]:
			l.AppendItem(label + " (cycle)")
			return
		case b.Atomic:
			l.AppendItem(fmt.Sprintf("%s (stock %d)", label, b.Stock))
			return
		}

		l.AppendItem(label)
		l.Indent()

		onPath[id] = true

		for _, r := range b.Parts {
			if p, ok := cat.Part(r.ID); ok {
				l.AppendItem(fmt.Sprintf("%d x %s [part, %d on hand]", r.Quantity, r.ID, p.Inventory))
			} else {
				l.AppendItem(fmt.Sprintf("%d x %s (unknown part)", r.Quantity, r.ID))
			}
		}

		for _, r := range b.Bundles {
			walk(r.ID, r.Quantity)
		}

		delete(onPath, id)
		l.UnIndent()
	}

	walk(root, 0)

	l.SetStyle(list.StyleConnectedRounded)
	l.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)

	return t
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
