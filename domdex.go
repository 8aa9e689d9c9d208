// Package domdex reduces markup documents to an indexed representation
// that supports keyword search, selector lookup and structural change
// detection without re-parsing the full document for every query.
//
// The pipeline is parse → simplify → index. Selector resolution and search
// consume a simplified tree with its index; change detection consumes two
// simplified trees. Trees and indices are immutable once built and safe to
// share between goroutines.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., html/, sqlite/, diff/).
package domdex
