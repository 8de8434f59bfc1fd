// SPDX-License-Identifier: Apache-2.0
package representation

import (
	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
)

// wholeTreeRepresentation pays the materialization cost eagerly, on every
// Apply, instead of deferring it to the next Files/Print call the way patch
// form does. It still folds the complete accumulated history
// against the pristine store each time (the same materialize pipeline patch
// form uses at print time) rather than against its own previous files: a
// destination's replacement clone carries a zeroed sid once folded (so the
// donor it came from is never duplicated elsewhere in the tree), which means
// a materialized tree can never stand in as the lookup source for the next
// edit — only the store's original numbering can resolve a later edit that
// targets an sid already touched once before.
type wholeTreeRepresentation struct {
	store         *atomstore.Store
	history       editops.History
	legacySwapBug LegacySwapBug

	files map[string]*ast.File
	fp    string
}

// NewWholeTree builds a whole-tree Representation with no edits applied yet,
// its files already materialized (trivially, as a copy of store's own).
func NewWholeTree(store *atomstore.Store, legacySwapBug LegacySwapBug) Representation {
	w := &wholeTreeRepresentation{store: store, legacySwapBug: legacySwapBug}
	w.remarshal()
	return w
}

func (w *wholeTreeRepresentation) Store() *atomstore.Store { return w.store }

func (w *wholeTreeRepresentation) History() editops.History {
	out := make(editops.History, len(w.history))
	copy(out, w.history)
	return out
}

func (w *wholeTreeRepresentation) Clone() Representation {
	c := &wholeTreeRepresentation{
		store:         w.store,
		history:       w.history.Clone(),
		legacySwapBug: w.legacySwapBug,
	}
	c.remarshal()
	return c
}

// Apply appends the edit and immediately re-materializes: the representation
// never carries a dirty flag, since Files/Print always have current state on
// hand the instant Apply returns.
func (w *wholeTreeRepresentation) Apply(e editops.Edit) error {
	w.history = append(w.history, e)
	return w.remarshal()
}

func (w *wholeTreeRepresentation) remarshal() error {
	files, err := materialize(w.store, w.history, w.legacySwapBug)
	if err != nil {
		return err
	}
	w.files = files
	w.fp = fingerprint(w.history)
	return nil
}

func (w *wholeTreeRepresentation) Dirty() bool { return false }

func (w *wholeTreeRepresentation) Files() (map[string]*ast.File, error) {
	return w.files, nil
}

func (w *wholeTreeRepresentation) Print() (map[string]string, error) {
	out := make(map[string]string, len(w.files))
	for name, f := range w.files {
		out[name] = w.store.Provider.PrettyPrint(f)
	}
	return out, nil
}

func (w *wholeTreeRepresentation) Fingerprint() string { return w.fp }
