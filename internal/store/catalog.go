package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"bom-yield/internal/catalog"
	"bom-yield/internal/diagnostic"
)

// LoadCatalog reads a fresh catalog snapshot. Ids are the decimal row ids;
// requirement lines keep ascending row id order.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, *diagnostic.Diagnostics, error) {
	f, err := s.ReadFile(ctx)
	if err != nil {
		return nil, nil, err
	}

	return catalog.FromFileWithDiagnostics(f)
}

// ReadFile reads the stored catalog in its file form.
func (s *Store) ReadFile(ctx context.Context) (*catalog.File, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	f := &catalog.File{Version: "1"}

	if err := queryRows(ctx, tx, `SELECT part_id, part_name, inventory_count FROM parts ORDER BY part_id`,
		func(rows *sql.Rows) error {
			var (
				id int64
				p  catalog.PartDef
			)

			if err := rows.Scan(&id, &p.Name, &p.Inventory); err != nil {
				return err
			}

			p.ID = rowID(id)
			f.Parts = append(f.Parts, p)

			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read parts: %w", err)
	}

	index := map[string]int{}

	if err := queryRows(ctx, tx, `SELECT bundle_id, bundle_name, atomic, stock FROM bundles ORDER BY bundle_id`,
		func(rows *sql.Rows) error {
			var (
				id int64
				b  catalog.BundleDef
			)

			if err := rows.Scan(&id, &b.Name, &b.Atomic, &b.Stock); err != nil {
				return err
			}

			b.ID = rowID(id)
			index[b.ID] = len(f.Bundles)
			f.Bundles = append(f.Bundles, b)

			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read bundles: %w", err)
	}

	if err := queryRows(ctx, tx,
		`SELECT bundle_id, part_id, quantity FROM bundle_parts ORDER BY bundle_part_id`,
		func(rows *sql.Rows) error {
			var owner, ref int64

			var q int
			if err := rows.Scan(&owner, &ref, &q); err != nil {
				return err
			}

			i, ok := index[rowID(owner)]
			if !ok {
				return fmt.Errorf("%w %q", catalog.ErrUnknownBundle, rowID(owner))
			}

			b := &f.Bundles[i]
			b.Parts = append(b.Parts, catalog.RequirementDef{ID: rowID(ref), Quantity: q})

			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read bundle parts: %w", err)
	}

	if err := queryRows(ctx, tx,
		`SELECT parent_bundle_id, child_bundle_id, quantity FROM sub_bundles ORDER BY sub_bundle_id`,
		func(rows *sql.Rows) error {
			var owner, ref int64

			var q int
			if err := rows.Scan(&owner, &ref, &q); err != nil {
				return err
			}

			i, ok := index[rowID(owner)]
			if !ok {
				return fmt.Errorf("%w %q", catalog.ErrUnknownBundle, rowID(owner))
			}

			b := &f.Bundles[i]
			b.Bundles = append(b.Bundles, catalog.RequirementDef{ID: rowID(ref), Quantity: q})

			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read sub-bundles: %w", err)
	}

	return f, nil
}

// Seed replaces the stored catalog with f. Rows are inserted in
// declaration order, so the n-th part or bundle gets row id n. File ids are
// only used to resolve requirement references.
func (s *Store) Seed(ctx context.Context, f *catalog.File) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"sub_bundles", "bundle_parts", "bundles", "parts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	parts := make(map[string]int64, len(f.Parts))

	for _, p := range f.Parts {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO parts (part_name, inventory_count) VALUES (?, ?)`, nameOf(p.Name, p.ID), p.Inventory)
		if err != nil {
			return fmt.Errorf("failed to insert part %q: %w", p.ID, err)
		}

		if parts[p.ID], err = res.LastInsertId(); err != nil {
			return err
		}
	}

	bundles := make(map[string]int64, len(f.Bundles))

	for _, b := range f.Bundles {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bundles (bundle_name, atomic, stock) VALUES (?, ?, ?)`, nameOf(b.Name, b.ID), b.Atomic, b.Stock)
		if err != nil {
			return fmt.Errorf("failed to insert bundle %q: %w", b.ID, err)
		}

		if bundles[b.ID], err = res.LastInsertId(); err != nil {
			return err
		}
	}

	for _, b := range f.Bundles {
		for _, r := range b.Parts {
			ref, ok := parts[r.ID]
			if !ok {
				return fmt.Errorf("bundle %q: %w %q", b.ID, catalog.ErrUnknownPart, r.ID)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO bundle_parts (bundle_id, part_id, quantity) VALUES (?, ?, ?)`,
				bundles[b.ID], ref, r.Quantity); err != nil {
				return fmt.Errorf("failed to insert requirement %q of %q: %w", r.ID, b.ID, err)
			}
		}

		for _, r := range b.Bundles {
			ref, ok := bundles[r.ID]
			if !ok {
				return fmt.Errorf("bundle %q: %w %q", b.ID, catalog.ErrUnknownBundle, r.ID)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO sub_bundles (parent_bundle_id, child_bundle_id, quantity) VALUES (?, ?, ?)`,
				bundles[b.ID], ref, r.Quantity); err != nil {
				return fmt.Errorf("failed to insert sub-bundle %q of %q: %w", r.ID, b.ID, err)
			}
		}
	}

	return tx.Commit()
}

// SetInventory overwrites the on-hand count of one part.
func (s *Store) SetInventory(ctx context.Context, partID string, count int) error {
	id, err := strconv.ParseInt(partID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w %q", catalog.ErrUnknownPart, partID)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE parts SET inventory_count = ? WHERE part_id = ?`, count, id)
	if err != nil {
		return fmt.Errorf("failed to update part %q: %w", partID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w %q", catalog.ErrUnknownPart, partID)
	}

	return nil
}

func queryRows(ctx context.Context, tx *sql.Tx, query string, scan func(*sql.Rows) error) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}

func rowID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func nameOf(name, id string) string {
	if name != "" {
		return name
	}

	return id
}
