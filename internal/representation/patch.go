// SPDX-License-Identifier: Apache-2.0
package representation

import (
	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
)

// patchRepresentation defers materialization to print time: cloning it is
// just copying a slice, and mutating it is just an append. This is the
// representation a brute-force search should prefer, since it enumerates
// ~10^5 candidates and most are never printed.
type patchRepresentation struct {
	store         *atomstore.Store
	history       editops.History
	legacySwapBug LegacySwapBug

	dirty       bool
	cachedFiles map[string]*ast.File
	cachedPrint map[string]string
	cachedFP    string
}

// NewPatch builds a patch-form Representation with no edits applied yet.
func NewPatch(store *atomstore.Store, legacySwapBug LegacySwapBug) Representation {
	return &patchRepresentation{store: store, legacySwapBug: legacySwapBug, dirty: true}
}

func (p *patchRepresentation) Store() *atomstore.Store { return p.store }

func (p *patchRepresentation) History() editops.History {
	out := make(editops.History, len(p.history))
	copy(out, p.history)
	return out
}

func (p *patchRepresentation) Clone() Representation {
	return &patchRepresentation{
		store:         p.store,
		history:       p.history.Clone(),
		legacySwapBug: p.legacySwapBug,
		dirty:         true,
	}
}

func (p *patchRepresentation) Apply(e editops.Edit) error {
	p.history = append(p.history, e)
	p.invalidate()
	return nil
}

func (p *patchRepresentation) invalidate() {
	p.dirty = true
	p.cachedFiles = nil
	p.cachedPrint = nil
	p.cachedFP = ""
}

func (p *patchRepresentation) Dirty() bool { return p.dirty }

func (p *patchRepresentation) Files() (map[string]*ast.File, error) {
	if !p.dirty && p.cachedFiles != nil {
		return p.cachedFiles, nil
	}
	files, err := materialize(p.store, p.history, p.legacySwapBug)
	if err != nil {
		return nil, err
	}
	p.cachedFiles = files
	p.dirty = false
	return files, nil
}

func (p *patchRepresentation) Print() (map[string]string, error) {
	if !p.dirty && p.cachedPrint != nil {
		return p.cachedPrint, nil
	}
	files, err := p.Files()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(files))
	for name, f := range files {
		out[name] = p.store.Provider.PrettyPrint(f)
	}
	p.cachedPrint = out
	return out, nil
}

func (p *patchRepresentation) Fingerprint() string {
	if p.cachedFP == "" {
		p.cachedFP = fingerprint(p.history)
	}
	return p.cachedFP
}
