// SPDX-License-Identifier: Apache-2.0

// Package representation models one candidate program variant: an original
// AtomStore plus an edit history, in either of the two flavors the teacher's
// design notes call for — patch form (transform applied lazily, at print
// time) and whole-tree form (mutated eagerly against a private copy). Both
// satisfy the same Representation interface, the same "one interface, two
// implementations" shape the teacher uses for participle's CST versus the
// hand-rolled scanner/parser paths it once carried.
package representation

import (
	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
)

// Representation is one candidate variant of the base program(s) held by a
// Store. Every mutation goes through Apply; nothing else may change a
// Representation's observable state.
type Representation interface {
	// Store returns the shared, read-only AtomStore this variant edits.
	Store() *atomstore.Store

	// History returns the edit history applied so far, in apply order.
	History() editops.History

	// Clone returns an independent copy: patch form copies the history,
	// whole-tree form copies the history and re-materializes its own files
	// from the store.
	Clone() Representation

	// Apply mutates the representation by one more edit. Patch form just
	// appends to history and marks itself dirty; whole-tree form applies
	// the transform against its private copy immediately.
	Apply(e editops.Edit) error

	// Dirty reports whether any state has changed since the last call to
	// Files or Print (whichever ran the transform and cached); Fingerprint
	// does not clear it.
	Dirty() bool

	// Files returns the materialized AST for every file in the manifest,
	// reflecting every edit applied so far.
	Files() (map[string]*ast.File, error)

	// Print renders every file's materialized AST back to source text.
	Print() (map[string]string, error)

	// Fingerprint is a stable string derived from the edit history, used to
	// key the fitness evaluator's (fingerprint -> score) cache.
	Fingerprint() string
}

// LegacySwapBug switches Swap's apply-time expansion to the historical
// buggy behavior (delete-then-append at min(x,y)) instead of the corrected
// symmetric expansion. It exists only to reproduce old experiment runs.
type LegacySwapBug bool
