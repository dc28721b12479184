package yield

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bom-yield/internal/catalog"
)

// MaxBuildableAll resolves every target independently, each on its own
// clone of cat, with bounded concurrency. cat itself is never mutated.
// The first failing target cancels the rest.
func MaxBuildableAll(
	ctx context.Context,
	cat *catalog.Catalog,
	targets []catalog.ID,
	opts ...Option,
) (map[catalog.ID]*Result, error) {
	results := make([]*Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, id := range targets {
		snapshot := cat.Clone()

		g.Go(func() error {
			res, err := New(snapshot, opts...).Resolve(gctx, id)
			if err != nil {
				return fmt.Errorf("resolving %q: %w", id, err)
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[catalog.ID]*Result, len(targets))
	for i, id := range targets {
		out[id] = results[i]
	}

	return out, nil
}
