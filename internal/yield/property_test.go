package yield

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bom-yield/internal/catalog"
)

// randomCatalog builds an acyclic catalog: bundle i only requires bundles
// with a higher index, and every non-atomic bundle has at least one
// requirement. Bundle "b0" is the natural target.
func randomCatalog(rng *rand.Rand, nParts, nBundles int) *catalog.Catalog {
	parts := make([]catalog.Part, nParts)
	for i := range parts {
		parts[i] = catalog.Part{ID: catalog.ID(fmt.Sprintf("p%d", i)), Inventory: rng.Intn(200)}
	}

	bundles := make([]catalog.Bundle, nBundles)
	for i := range bundles {
		b := catalog.Bundle{ID: catalog.ID(fmt.Sprintf("b%d", i))}

		if i > 0 && rng.Intn(6) == 0 {
			b.Atomic = true
			b.Stock = rng.Intn(50)
			bundles[i] = b

			continue
		}

		for range 1 + rng.Intn(3) {
			b.Parts = append(b.Parts, req(parts[rng.Intn(nParts)].ID, 1+rng.Intn(4)))
		}

		for j := i + 1; j < nBundles; j++ {
			if rng.Intn(3) == 0 {
				b.Bundles = append(b.Bundles, req(catalog.ID(fmt.Sprintf("b%d", j)), 1+rng.Intn(3)))
			}
		}

		bundles[i] = b
	}

	return catalog.MustNew(parts, bundles)
}

func resolveUnits(t *testing.T, cat *catalog.Catalog, s Strategy) *Result {
	t.Helper()

	res, err := New(cat, WithStrategy(s)).Resolve(context.Background(), "b0")
	require.NoError(t, err)

	return res
}

func TestGreedyNeverExceedsExplode(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := range 200 {
		base := randomCatalog(rng, 1+rng.Intn(6), 1+rng.Intn(8))

		greedy := resolveUnits(t, base.Clone(), StrategyGreedy)
		explode := resolveUnits(t, base.Clone(), StrategyExplode)

		if !assert.LessOrEqual(t, greedy.Units, explode.Units, "case %d", i) {
			spew.Dump(greedy, explode)
		}
	}
}

func TestCountersStayNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := range 200 {
		base := randomCatalog(rng, 1+rng.Intn(6), 1+rng.Intn(8))

		for _, s := range []Strategy{StrategyGreedy, StrategyExplode} {
			res := resolveUnits(t, base.Clone(), s)

			for id, n := range res.Remaining {
				assert.GreaterOrEqual(t, n, 0, "case %d %s: part %s", i, s, id)
			}

			for _, a := range res.Allocations {
				assert.GreaterOrEqual(t, a.Spare(), 0, "case %d %s: bundle %s", i, s, a.Bundle)
			}
		}
	}
}

func TestExplodeMonotoneInInventory(t *testing.T) {
	rng := rand.New(rand.NewSource(23))

	for i := range 200 {
		nParts := 1 + rng.Intn(6)
		base := randomCatalog(rng, nParts, 1+rng.Intn(8))

		before := resolveUnits(t, base.Clone(), StrategyExplode).Units

		reduced := base.Clone()
		p, _ := reduced.Part(catalog.ID(fmt.Sprintf("p%d", rng.Intn(nParts))))
		p.Inventory -= rng.Intn(p.Inventory + 1)

		after := resolveUnits(t, reduced, StrategyExplode).Units
		assert.LessOrEqual(t, after, before, "case %d", i)
	}
}

// Without shared resources a bundle's greedy yield cannot grow when one of
// its parts shrinks.
func TestGreedyMonotoneOnDisjointTree(t *testing.T) {
	build := func(tube int) *catalog.Catalog {
		return catalog.MustNew(
			[]catalog.Part{
				{ID: "seat", Inventory: 50},
				{ID: "pedal", Inventory: 60},
				{ID: "frame", Inventory: 60},
				{ID: "tube", Inventory: tube},
			},
			[]catalog.Bundle{
				{
					ID:      "bike",
					Parts:   []catalog.Requirement{req("seat", 1), req("pedal", 2)},
					Bundles: []catalog.Requirement{req("wheel", 2)},
				},
				{ID: "wheel", Parts: []catalog.Requirement{req("frame", 1), req("tube", 1)}},
			},
		)
	}

	prev := -1
	for tube := 0; tube <= 80; tube++ {
		n, err := MaxBuildable(context.Background(), build(tube), "bike")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, prev, "tube=%d", tube)
		prev = n
	}

	assert.Equal(t, 30, prev)
}

func TestGreedyDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(31))

	for range 50 {
		base := randomCatalog(rng, 4, 6)

		first := resolveUnits(t, base.Clone(), StrategyGreedy)
		second := resolveUnits(t, base.Clone(), StrategyGreedy)
		assert.Equal(t, first, second)
	}
}
