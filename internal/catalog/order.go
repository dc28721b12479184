package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var errCycle = errors.New("cycle detected")

// topoSort orders bundle indices so every bundle follows the sub-bundles
// it consumes. depsFn(i) yields the sub-bundle indices of bundle i.
//
// Ties break on the smaller index so the order is deterministic. On a cycle
// the partial order comes back with errCycle so findCycle can name the
// bundles left out of it.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return order, errCycle
	}

	return order, nil
}

// Reachable returns root and every known bundle reachable from it, in
// depth-first pre-order following declaration order. Unknown child
// bundles are skipped.
func (c *Catalog) Reachable(root ID) []ID {
	if _, ok := c.bundles[root]; !ok {
		return nil
	}

	seen := map[ID]bool{root: true}
	out := []ID{}
	stack := []ID{root}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)

		children := c.bundles[id].Bundles
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i].ID
			if _, ok := c.bundles[child]; !ok || seen[child] {
				continue
			}

			seen[child] = true
			stack = append(stack, child)
		}
	}

	return out
}

// BuildOrder returns the bundles reachable from root ordered so that every
// bundle comes after all of the sub-bundles it requires. Root is last.
func (c *Catalog) BuildOrder(root ID) ([]ID, error) {
	if _, ok := c.bundles[root]; !ok {
		return nil, UnknownTargetError(root)
	}

	return c.order(c.Reachable(root))
}

// AssemblyOrder orders every bundle in the catalog children-first. It
// fails with a *CycleError if any bundle is reachable from itself.
func (c *Catalog) AssemblyOrder() ([]ID, error) {
	return c.order(c.BundleIDs())
}

func (c *Catalog) order(ids []ID) ([]ID, error) {
	index := make(map[ID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	deps := func(i int) []int {
		var out []int

		for _, r := range c.bundles[ids[i]].Bundles {
			if j, ok := index[r.ID]; ok {
				out = append(out, j)
			}
		}

		return out
	}

	order, err := topoSort(len(ids), deps)
	if errors.Is(err, errCycle) {
		return nil, &CycleError{Path: c.findCycle(ids, order, index)}
	}

	if err != nil {
		return nil, err
	}

	out := make([]ID, len(order))
	for i, k := range order {
		out[i] = ids[k]
	}

	return out, nil
}

// findCycle walks from the first unordered bundle through unordered
// children until a bundle repeats. Every unordered bundle has at least one
// unordered child, so the walk always closes.
func (c *Catalog) findCycle(ids []ID, ordered []int, index map[ID]int) []ID {
	done := make(map[ID]bool, len(ordered))
	for _, k := range ordered {
		done[ids[k]] = true
	}

	var start ID

	for _, id := range ids {
		if !done[id] {
			start = id
			break
		}
	}

	pos := map[ID]int{}
	path := []ID{}
	cur := start

	for {
		if at, ok := pos[cur]; ok {
			return append(path[at:], cur)
		}

		pos[cur] = len(path)
		path = append(path, cur)

		next := ID("")

		for _, r := range c.bundles[cur].Bundles {
			if _, known := index[r.ID]; known && !done[r.ID] {
				next = r.ID
				break
			}
		}

		if next == "" {
			// Unreachable for a genuine cycle; keep what was walked.
			return path
		}

		cur = next
	}
}
