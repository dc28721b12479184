// Package catalog provides the bill-of-materials data model, its YAML
// schema, and construction-time validation.
//
// A catalog holds parts with on-hand inventory and bundles defined by
// their direct requirements on parts and on other bundles. The bundle
// graph must be acyclic; a bundle may be shared by several parents.
//
// # Schema Overview
//
//	version: "1"
//	parts:
//	  - id: seat
//	    name: Seat
//	    inventory: 50
//	  - id: pedal
//	    inventory: 60
//	bundles:
//	  - id: bike
//	    name: Bike
//	    parts:
//	      - {id: seat, quantity: 1}
//	      - pedal: 2            # shorthand
//	    bundles:
//	      - {id: wheel, quantity: 2}
//	  - id: wheel
//	    parts: {frame: 1, tube: 1}  # mapping shorthand, order preserved
//	  - id: spare-wheel
//	    atomic: true
//	    stock: 4
//
// # Requirement Order
//
// Requirement lines keep their declaration order. That order is part of
// the resolution contract: sibling sub-bundles are evaluated in it.
// Repeated lines for the same id within one bundle are merged into the
// first occurrence by summing quantities.
//
// # Validation
//
// Construction rejects non-positive requirement quantities, negative
// inventory or stock, missing and duplicate ids, and atomic bundles that
// declare requirements. References to unknown parts or bundles are
// reported as warnings only; the resolver treats them as zero supply.
package catalog
