// Command bom-yield computes how many units of a bundle can be assembled
// from on-hand part inventory.
//
// Catalogs come from a YAML file (--catalog) or a SQLite database (--db):
//
//	bom-yield max --catalog bike.yaml --bundle bike
//	bom-yield seed --db data/catalog.db
//	bom-yield serve --config config.toml
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
