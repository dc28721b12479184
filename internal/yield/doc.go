// Package yield computes how many units of a bundle can be assembled from
// a catalog's part inventory.
//
// Two strategies are provided:
//
//   - Greedy (default) resolves bundles post-order with eager depletion.
//     Every sub-bundle is built once, to its own maximum, into a pool; a
//     parent's limit is read from the pools and the part inventory after
//     all of its sub-bundles have been built, and the parent then consumes
//     from both. Sibling sub-bundles are built in declaration order, so when
//     siblings compete for the same part the earlier one is served first.
//     The result is always a feasible allocation but is not guaranteed to
//     be the largest one.
//
//   - Explode computes the per-unit demand of every part by multiplying
//     quantities down the bundle graph and divides inventory by demand. For
//     a single target with fixed recipes this is the exact maximum, and it
//     is never smaller than the greedy result.
//
// A Resolver mutates the part inventory of the catalog it is given. Use
// catalog.Clone, or MaxBuildableAll, to keep independent snapshots.
package yield
