package server

import (
	"context"

	"bom-yield/internal/catalog"
	"bom-yield/internal/diagnostic"
)

// Source yields a fresh, independently mutable catalog snapshot per call.
type Source interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, *diagnostic.Diagnostics, error)
}

// FileSource reads a YAML catalog from disk on every request.
type FileSource struct {
	Path string
}

// LoadCatalog implements Source.
func (s FileSource) LoadCatalog(context.Context) (*catalog.Catalog, *diagnostic.Diagnostics, error) {
	return catalog.Load(s.Path)
}

// StaticSource serves clones of a fixed catalog.
type StaticSource struct {
	Catalog *catalog.Catalog
}

// LoadCatalog implements Source.
func (s StaticSource) LoadCatalog(context.Context) (*catalog.Catalog, *diagnostic.Diagnostics, error) {
	return s.Catalog.Clone(), &diagnostic.Diagnostics{}, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}
