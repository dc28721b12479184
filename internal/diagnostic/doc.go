// Package diagnostic provides structured errors, warnings, and notes
// collected while building a catalog and resolving yields.
//
// Key capabilities:
//   - Structural defects (invalid quantities, duplicate ids) as errors
//   - Recoverable conditions (unknown parts, empty bundles) as warnings
//   - Per-bundle context so a caller can point at the offending line
package diagnostic
