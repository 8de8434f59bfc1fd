// SPDX-License-Identifier: Apache-2.0
package atomstore

import (
	"sort"

	"repairengine/internal/ast"
)

// BuildCanonicalMap groups every numbered statement by its pretty-printed
// text and maps each id onto one representative: the smallest id sharing
// that text. Fault localization must never apply this map; it is only ever
// used to collapse fix-site candidate lists onto one representative per
// distinct statement shape.
func (s *Store) BuildCanonicalMap() map[ast.Sid]ast.Sid {
	if s.canonical != nil {
		return s.canonical
	}

	byText := make(map[string][]ast.Sid)
	for _, name := range sortedFileNames(s.Files) {
		f := s.Files[name]
		ast.VisitStatements(f, func(_ *ast.Function, st ast.Stmt) {
			sid := ast.SidOf(st)
			if sid == 0 {
				return
			}
			text := st.String()
			byText[text] = append(byText[text], sid)
		})
	}

	canon := make(map[ast.Sid]ast.Sid)
	for _, sids := range byText {
		rep := sids[0]
		for _, sid := range sids {
			if sid < rep {
				rep = sid
			}
		}
		for _, sid := range sids {
			canon[sid] = rep
		}
	}
	s.canonical = canon
	return canon
}

// Canonicalize rewrites every candidate's Sid to its representative under
// the canonical fix-site map, dropping duplicates and keeping the
// first-seen weight for a representative that appears more than once.
func Canonicalize(canon map[ast.Sid]ast.Sid, candidates []Candidate) []Candidate {
	seen := make(map[ast.Sid]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		rep, ok := canon[c.Sid]
		if !ok {
			rep = c.Sid
		}
		if _, dup := seen[rep]; dup {
			continue
		}
		seen[rep] = struct{}{}
		out = append(out, Candidate{Sid: rep, Weight: c.Weight})
	}
	return out
}

func sortedFileNames(files map[string]*ast.File) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
