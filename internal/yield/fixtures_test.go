package yield

import (
	"bom-yield/internal/catalog"
)

func req(id catalog.ID, q int) catalog.Requirement {
	return catalog.Requirement{ID: id, Quantity: q}
}

// bikeCatalog: a bike needs a seat, two pedals and two wheels; a wheel
// needs a frame and a tube.
func bikeCatalog() *catalog.Catalog {
	return catalog.MustNew(
		[]catalog.Part{
			{ID: "seat", Inventory: 50},
			{ID: "pedal", Inventory: 60},
			{ID: "frame", Inventory: 60},
			{ID: "tube", Inventory: 35},
		},
		[]catalog.Bundle{
			{
				ID:      "bike",
				Parts:   []catalog.Requirement{req("seat", 1), req("pedal", 2)},
				Bundles: []catalog.Requirement{req("wheel", 2)},
			},
			{
				ID:    "wheel",
				Parts: []catalog.Requirement{req("frame", 1), req("tube", 1)},
			},
		},
	)
}

// xyzCatalog: Z needs the given sub-bundle lines; X needs A, Y needs B.
func xyzCatalog(zBundles ...catalog.Requirement) *catalog.Catalog {
	return catalog.MustNew(
		[]catalog.Part{{ID: "A", Inventory: 10}, {ID: "B", Inventory: 10}},
		[]catalog.Bundle{
			{ID: "X", Parts: []catalog.Requirement{req("A", 1)}},
			{ID: "Y", Parts: []catalog.Requirement{req("B", 1)}},
			{ID: "Z", Bundles: zBundles},
		},
	)
}

// orderCatalog: T needs P and Q in the given order; P needs A, Q needs A
// and B. Both P and Q compete for A.
func orderCatalog(first, second catalog.ID) *catalog.Catalog {
	return catalog.MustNew(
		[]catalog.Part{{ID: "A", Inventory: 10}, {ID: "B", Inventory: 3}},
		[]catalog.Bundle{
			{ID: "T", Bundles: []catalog.Requirement{req(first, 1), req(second, 1)}},
			{ID: "P", Parts: []catalog.Requirement{req("A", 1)}},
			{ID: "Q", Parts: []catalog.Requirement{req("A", 1), req("B", 1)}},
		},
	)
}
