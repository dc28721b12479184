package store

import "bom-yield/internal/catalog"

// BicycleFile is the sample catalog: a Bike of one Seat, two Pedals and two
// Wheels, a Wheel of one Frame and one Tube. Seeded, Bike is bundle 1.
func BicycleFile() *catalog.File {
	return &catalog.File{
		Version: "1",
		Parts: []catalog.PartDef{
			{ID: "seat", Name: "Seat", Inventory: 50},
			{ID: "pedal", Name: "Pedal", Inventory: 60},
			{ID: "frame", Name: "Frame", Inventory: 60},
			{ID: "tube", Name: "Tube", Inventory: 35},
		},
		Bundles: []catalog.BundleDef{
			{
				ID:      "bike",
				Name:    "Bike",
				Parts:   catalog.RequirementList{{ID: "seat", Quantity: 1}, {ID: "pedal", Quantity: 2}},
				Bundles: catalog.RequirementList{{ID: "wheel", Quantity: 2}},
			},
			{
				ID:    "wheel",
				Name:  "Wheel",
				Parts: catalog.RequirementList{{ID: "frame", Quantity: 1}, {ID: "tube", Quantity: 1}},
			},
		},
	}
}
