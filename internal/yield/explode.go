package yield

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	"bom-yield/internal/catalog"
)

// resolveExplode computes the exact maximum for target by BOM explosion:
// per-unit demand is pushed from target down to parts and atomic stock in
// parents-first order, then inventory is divided by demand.
func (r *Resolver) resolveExplode(ctx context.Context, target catalog.ID) error {
	order, err := r.cat.BuildOrder(target)
	if err != nil {
		return err
	}

	demand := map[catalog.ID]int{target: 1}
	partDemand := map[catalog.ID]int{}
	blocked := false

	for i := len(order) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}

		b, _ := r.cat.Bundle(order[i])
		d := demand[b.ID]

		switch {
		case b.Atomic:
			continue
		case b.IsEmpty():
			r.warn(catalog.CodeEmptyBundle, "bundle has no requirements and is not atomic; it yields 0", b.ID, "")
			blocked = true

			continue
		}

		for _, req := range b.Parts {
			if _, ok := r.cat.Part(req.ID); !ok {
				r.warn(catalog.CodeUnknownPart, fmt.Sprintf("%v %q; bundle yields 0", catalog.ErrUnknownPart, req.ID), b.ID, req.ID)
				blocked = true

				continue
			}

			partDemand[req.ID] = addSat(partDemand[req.ID], mulSat(d, req.Quantity))
		}

		for _, req := range b.Bundles {
			if _, ok := r.cat.Bundle(req.ID); !ok {
				r.warn(catalog.CodeUnknownBundle, fmt.Sprintf("%v %q; bundle yields 0", catalog.ErrUnknownBundle, req.ID), b.ID, req.ID)
				blocked = true

				continue
			}

			demand[req.ID] = addSat(demand[req.ID], mulSat(d, req.Quantity))
		}
	}

	units, bottleneck := math.MaxInt, catalog.ID("")

	for _, id := range order {
		b, _ := r.cat.Bundle(id)
		if !b.Atomic {
			continue
		}

		if n := b.Stock / demand[id]; n < units {
			units, bottleneck = n, id
		}
	}

	for _, id := range r.cat.PartIDs() {
		need, ok := partDemand[id]
		if !ok {
			continue
		}

		p, _ := r.cat.Part(id)
		if n := p.Inventory / need; n < units {
			units, bottleneck = n, id
		}
	}

	if blocked || units == math.MaxInt {
		units = 0
	}

	for id, need := range partDemand {
		p, _ := r.cat.Part(id)
		p.Inventory -= units * need
	}

	for _, id := range order {
		built := units * demand[id]
		a := Allocation{Bundle: id, Built: built, Used: built}

		if id == target {
			a.Bottleneck = bottleneck
		}

		r.record(a)
	}

	return nil
}

// mulSat multiplies non-negative ints, saturating at math.MaxInt.
func mulSat(a, b int) int {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return math.MaxInt
	}

	return int(lo)
}

// addSat adds non-negative ints, saturating at math.MaxInt.
func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}

	return a + b
}
