// SPDX-License-Identifier: Apache-2.0

// Package atomstore loads one or more source files into a frozen, addressable
// arena of numbered statements: the AtomStore. Every cross-reference a
// Representation or edit operator needs — which function a statement lives
// in, what locals are in scope at it, which ones it reads — is resolved once
// here and looked up by dense integer id afterward, the same arena-of-ids
// discipline the teacher's SymbolTable uses for name resolution, generalized
// from name scoping to statement scoping.
package atomstore

import (
	"fmt"
	"sort"

	"repairengine/internal/ast"
	"repairengine/internal/provider"
)

// VarID identifies a variable: a function parameter, a let-bound local, or a
// global. 0 is never assigned.
type VarID int

// VarInfo records what a VarID refers to.
type VarInfo struct {
	Name string
	Type string
}

// Location is where a numbered statement lives.
type Location struct {
	Function string
	File     string
}

// Store is the frozen, read-only arena every Representation shares.
type Store struct {
	Files map[string]*ast.File

	// Provider is the language plumbing this store was loaded against.
	// Representation and search code route every clone/visit/subatom/print
	// operation through it instead of calling internal/ast directly, so a
	// second target language's provider only has to satisfy this interface.
	Provider provider.ASTProvider

	stmtMap    map[ast.Sid]Location
	stmtByID   map[ast.Sid]ast.Stmt
	globals    map[VarID]struct{}
	localsHave map[ast.Sid]map[VarID]struct{}
	localsUsed map[ast.Sid]map[VarID]struct{}
	varinfo    map[VarID]VarInfo
	maxAtom    ast.Sid

	varIDs    map[string]VarID // name -> id, assigned in declaration order across the whole load
	nextVarID VarID

	canonical map[ast.Sid]ast.Sid // fix-site id -> representative id, built lazily
}

// MaxAtom returns the highest sid ever assigned.
func (s *Store) MaxAtom() ast.Sid { return s.maxAtom }

// LocationOf returns where sid lives. The second result is false if sid was
// never numbered.
func (s *Store) LocationOf(sid ast.Sid) (Location, bool) {
	loc, ok := s.stmtMap[sid]
	return loc, ok
}

// StmtByID returns the original (un-edited) statement node numbered sid.
func (s *Store) StmtByID(sid ast.Sid) (ast.Stmt, bool) {
	st, ok := s.stmtByID[sid]
	return st, ok
}

// Globals returns the set of global variable ids, copied defensively.
func (s *Store) Globals() map[VarID]struct{} {
	out := make(map[VarID]struct{}, len(s.globals))
	for v := range s.globals {
		out[v] = struct{}{}
	}
	return out
}

// LocalsHave returns the set of variable ids in scope at sid.
func (s *Store) LocalsHave(sid ast.Sid) map[VarID]struct{} { return s.localsHave[sid] }

// LocalsUsed returns the set of non-global variable ids sid references.
func (s *Store) LocalsUsed(sid ast.Sid) map[VarID]struct{} { return s.localsUsed[sid] }

// VarInfoOf looks up a variable's name/type.
func (s *Store) VarInfoOf(id VarID) (VarInfo, bool) {
	vi, ok := s.varinfo[id]
	return vi, ok
}

// Sids returns every numbered statement id, ascending.
func (s *Store) Sids() []ast.Sid {
	out := make([]ast.Sid, 0, len(s.stmtMap))
	for sid := range s.stmtMap {
		out = append(out, sid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Load parses every file in the manifest, numbers its mutatable statements,
// and computes scope tables, against this module's own provider.Default
// language plumbing. Files with an empty block body get a dummy statement
// inlined by internal/parser before numbering ever sees them.
func Load(files map[string]string) (*Store, error) {
	return LoadWithProvider(files, provider.Default{})
}

// LoadWithProvider is Load against an arbitrary provider.ASTProvider: the
// one seam a second target language plugs into without anything below this
// function changing. p.Preprocess runs on each file immediately after
// p.Parse, ahead of numbering, so a provider whose grammar doesn't already
// pre-split compound statements gets the chance to do so here.
func LoadWithProvider(files map[string]string, p provider.ASTProvider) (*Store, error) {
	if len(files) == 0 {
		return nil, newLoadError(errEmptyManifest, "no source files given to atomstore.Load")
	}

	s := &Store{
		Files:      make(map[string]*ast.File, len(files)),
		Provider:   p,
		stmtMap:    make(map[ast.Sid]Location),
		stmtByID:   make(map[ast.Sid]ast.Stmt),
		globals:    make(map[VarID]struct{}),
		localsHave: make(map[ast.Sid]map[VarID]struct{}),
		localsUsed: make(map[ast.Sid]map[VarID]struct{}),
		varinfo:    make(map[VarID]VarInfo),
		varIDs:     make(map[string]VarID),
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic numbering order across a manifest

	for _, name := range names {
		file, err := p.Parse(name, files[name])
		if err != nil {
			return nil, newLoadError(errParse, fmt.Sprintf("%s: %v", name, err))
		}
		p.Preprocess(file)
		s.Files[name] = file
		s.numberFile(name, file)
	}

	return s, nil
}

func (s *Store) internVar(name string) VarID {
	if id, ok := s.varIDs[name]; ok {
		return id
	}
	s.nextVarID++
	id := s.nextVarID
	s.varIDs[name] = id
	s.varinfo[id] = VarInfo{Name: name}
	return id
}

// scope is the set of variables visible at a point in the function, carried
// down through nested blocks by value (a fresh copy per nested scope, the
// same parent-chain-by-copy shape the teacher's SymbolTable.Lookup walks,
// but flattened to a single map since blocks never shadow by redeclaration
// in this language).
type scope struct {
	have map[VarID]struct{}
}

func (sc scope) clone() scope {
	out := make(map[VarID]struct{}, len(sc.have))
	for v := range sc.have {
		out[v] = struct{}{}
	}
	return scope{have: out}
}

func (s *Store) numberFile(fileName string, f *ast.File) {
	for _, fn := range f.Functions {
		sc := scope{have: make(map[VarID]struct{})}
		for _, p := range fn.Params {
			id := s.internVar(p.Name)
			s.varinfo[id] = VarInfo{Name: p.Name, Type: p.TypeName}
			sc.have[id] = struct{}{}
		}
		s.numberBlock(fileName, fn.Name, fn.Body, sc)
	}
}

func (s *Store) numberBlock(fileName, fnName string, b *ast.Block, sc scope) {
	if b == nil {
		return
	}
	for _, item := range b.Items {
		s.numberStmt(fileName, fnName, item, &sc)
	}
}

func (s *Store) numberStmt(fileName, fnName string, st ast.Stmt, sc *scope) {
	if st == nil {
		return
	}

	if st.NodeType().Mutatable() {
		s.maxAtom++
		sid := s.maxAtom
		ast.SetSid(st, sid)
		s.stmtMap[sid] = Location{Function: fnName, File: fileName}
		s.stmtByID[sid] = st
		s.localsHave[sid] = sc.clone().have

		used := make(map[VarID]struct{})
		ast.VisitExpressionsIn(st, func(e ast.Expr) {
			if id, ok := e.(*ast.IdentExpr); ok {
				s.collectUse(id.Name, sc, used)
			}
		})
		s.localsUsed[sid] = used
	}

	switch n := st.(type) {
	case *ast.LetStmt:
		id := s.internVar(n.Name)
		s.varinfo[id] = VarInfo{Name: n.Name, Type: n.TypeName}
		sc.have[id] = struct{}{}
	case *ast.IfStmt:
		thenScope := sc.clone()
		s.numberBlock(fileName, fnName, n.Then, thenScope)
		elseScope := sc.clone()
		s.numberBlock(fileName, fnName, n.Else, elseScope)
	case *ast.LoopStmt:
		bodyScope := sc.clone()
		s.numberBlock(fileName, fnName, n.Body, bodyScope)
	case *ast.SwitchStmt:
		for _, c := range n.Cases {
			caseScope := sc.clone()
			for _, item := range c.Body {
				s.numberStmt(fileName, fnName, item, &caseScope)
			}
		}
	case *ast.TryStmt:
		bodyScope := sc.clone()
		s.numberBlock(fileName, fnName, n.Body, bodyScope)
		catchScope := sc.clone()
		if n.CatchVar != "" {
			id := s.internVar(n.CatchVar)
			catchScope.have[id] = struct{}{}
		}
		s.numberBlock(fileName, fnName, n.CatchBody, catchScope)
	}
}

// collectUse records name as a used local if it is bound in sc (a parameter
// or an already-processed let in the current function), otherwise treats it
// as a reference to a global (the language has no separate "global"
// declaration; any identifier never bound by a param or let is one). This
// keeps locals_used[sid] a subset of locals_have[sid] by construction,
// rather than relying on cross-function bookkeeping to keep the invariant.
func (s *Store) collectUse(name string, sc *scope, used map[VarID]struct{}) {
	id := s.internVar(name)
	if _, inScope := sc.have[id]; inScope {
		used[id] = struct{}{}
		return
	}
	s.globals[id] = struct{}{}
}
