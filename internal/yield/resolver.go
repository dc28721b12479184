package yield

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	slogcontext "github.com/veqryn/slog-context"

	"bom-yield/internal/catalog"
	"bom-yield/internal/diagnostic"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrategy selects the resolution strategy.
func WithStrategy(s Strategy) Option {
	return func(r *Resolver) {
		r.strategy = s
	}
}

// Resolver computes maximum buildable counts over one catalog. It is not
// safe for concurrent use and mutates the catalog's part inventory.
type Resolver struct {
	cat      *catalog.Catalog
	strategy Strategy

	// per-run state, reset by Resolve
	state  map[catalog.ID]visitState
	pool   map[catalog.ID]int
	allocs []Allocation
	index  map[catalog.ID]int
	diags  diagnostic.Diagnostics
	logger *slog.Logger
}

// New creates a Resolver for the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{cat: cat, strategy: StrategyGreedy}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// MaxBuildable returns the largest number of target units that can be
// assembled from cat's inventory. cat's inventory is depleted by the run.
func MaxBuildable(ctx context.Context, cat *catalog.Catalog, target catalog.ID, opts ...Option) (int, error) {
	res, err := New(cat, opts...).Resolve(ctx, target)
	if err != nil {
		return 0, err
	}

	return res.Units, nil
}

// Resolve runs one resolution against the catalog's current inventory.
func (r *Resolver) Resolve(ctx context.Context, target catalog.ID) (*Result, error) {
	if _, ok := r.cat.Bundle(target); !ok {
		return nil, catalog.UnknownTargetError(target)
	}

	r.state = make(map[catalog.ID]visitState)
	r.pool = make(map[catalog.ID]int)
	r.index = make(map[catalog.ID]int)
	r.allocs = nil
	r.diags = diagnostic.Diagnostics{}
	r.logger = slogcontext.FromCtx(ctx).With("target", string(target), "strategy", r.strategy.String())

	var err error

	switch r.strategy {
	case StrategyGreedy:
		err = r.resolveGreedy(ctx, target)
	case StrategyExplode:
		err = r.resolveExplode(ctx, target)
	default:
		err = fmt.Errorf("unsupported strategy %v", r.strategy)
	}

	if err != nil {
		return nil, err
	}

	// Nothing consumes the target; every built unit is delivered.
	if i, ok := r.index[target]; ok {
		r.allocs[i].Used = r.allocs[i].Built
	}

	res := &Result{
		Target:      target,
		Strategy:    r.strategy,
		Allocations: r.allocs,
		Remaining:   r.cat.Inventory(),
		Diagnostics: r.diags,
	}

	if a, ok := res.Allocation(target); ok {
		res.Units = a.Built
	}

	r.logger.Debug("resolved", "units", res.Units, "bundles", len(res.Allocations),
		"warnings", len(res.Diagnostics.Warnings))

	return res, nil
}

// frame is one entry of the explicit DFS work stack.
type frame struct {
	id   catalog.ID
	next int // index of the next sub-bundle requirement to visit
}

// resolveGreedy walks the bundle graph post-order from target. A bundle is
// settled once all of its known sub-bundles are black; reaching a gray
// bundle means the graph has a cycle.
func (r *Resolver) resolveGreedy(ctx context.Context, target catalog.ID) error {
	stack := []frame{{id: target}}
	r.state[target] = visitGray

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		top := &stack[len(stack)-1]
		b, _ := r.cat.Bundle(top.id)

		if top.next < len(b.Bundles) {
			child := b.Bundles[top.next].ID
			top.next++

			if _, ok := r.cat.Bundle(child); !ok {
				continue
			}

			switch r.state[child] {
			case visitWhite:
				r.state[child] = visitGray
				stack = append(stack, frame{id: child})
			case visitGray:
				r.logger.Debug("cycle", "bundle", string(child), "state", r.state[child].String())
				return &catalog.CycleError{Path: cyclePath(stack, child)}
			case visitBlack:
				// memoized, units already in the pool
			}

			continue
		}

		r.settle(b)
		r.state[b.ID] = visitBlack
		stack = stack[:len(stack)-1]
	}

	return nil
}

// settle computes b's yield from the current pools and inventory, then
// charges b's consumption against them and adds b's units to its pool.
func (r *Resolver) settle(b *catalog.Bundle) {
	units, bottleneck := r.limit(b)

	for _, req := range b.Parts {
		if p, ok := r.cat.Part(req.ID); ok {
			p.Inventory -= units * req.Quantity
		}
	}

	for _, req := range b.Bundles {
		if _, ok := r.cat.Bundle(req.ID); ok {
			r.pool[req.ID] -= units * req.Quantity
			r.allocs[r.index[req.ID]].Used += units * req.Quantity
		}
	}

	r.pool[b.ID] = units
	r.record(Allocation{Bundle: b.ID, Built: units, Bottleneck: bottleneck})
}

// limit returns the number of b units the current state supports and the
// requirement that bound it.
func (r *Resolver) limit(b *catalog.Bundle) (int, catalog.ID) {
	if b.Atomic {
		return b.Stock, ""
	}

	if b.IsEmpty() {
		r.warn(catalog.CodeEmptyBundle, "bundle has no requirements and is not atomic; it yields 0", b.ID, "")
		return 0, ""
	}

	units, bottleneck := math.MaxInt, catalog.ID("")
	blocked := false

	for _, req := range b.Parts {
		p, ok := r.cat.Part(req.ID)
		if !ok {
			r.warn(catalog.CodeUnknownPart, fmt.Sprintf("%v %q; bundle yields 0", catalog.ErrUnknownPart, req.ID), b.ID, req.ID)
			blocked = true

			continue
		}

		if n := p.Inventory / req.Quantity; n < units {
			units, bottleneck = n, req.ID
		}
	}

	for _, req := range b.Bundles {
		if _, ok := r.cat.Bundle(req.ID); !ok {
			r.warn(catalog.CodeUnknownBundle, fmt.Sprintf("%v %q; bundle yields 0", catalog.ErrUnknownBundle, req.ID), b.ID, req.ID)
			blocked = true

			continue
		}

		if n := r.pool[req.ID] / req.Quantity; n < units {
			units, bottleneck = n, req.ID
		}
	}

	if blocked || units == math.MaxInt {
		return 0, bottleneck
	}

	return units, bottleneck
}

func (r *Resolver) record(a Allocation) {
	r.index[a.Bundle] = len(r.allocs)
	r.allocs = append(r.allocs, a)
}

func (r *Resolver) warn(code, msg string, bundle, ref catalog.ID) {
	r.diags.AddWarning(code, msg, string(bundle), string(ref))
	r.logger.Warn(msg, "code", code, "bundle", string(bundle), "ref", string(ref))
}

// cyclePath returns the stack suffix from the first occurrence of id,
// closed with id.
func cyclePath(stack []frame, id catalog.ID) []catalog.ID {
	var path []catalog.ID

	for i := range stack {
		if stack[i].id == id {
			for _, f := range stack[i:] {
				path = append(path, f.id)
			}

			break
		}
	}

	return append(path, id)
}
