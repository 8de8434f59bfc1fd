// SPDX-License-Identifier: Apache-2.0
package editops

import (
	"fmt"
	"strconv"
	"strings"

	"repairengine/internal/ast"
)

// EncodeHistory renders h in the inter-deme wire format:
//
//	hist := edit (' ' edit)*
//	edit := 'd(' id ')' | 'a(' id ',' id ')' | 's(' id ',' id ')' | 'r(' id ',' id ')'
//
// ReplaceSubatom and Template edits are not representable on the wire (the
// distributed mode only ever exchanges whole-statement edits); encoding a
// history containing one is an error, not a silent drop.
func EncodeHistory(h History) (string, error) {
	parts := make([]string, len(h))
	for i, e := range h {
		switch e.Kind {
		case Delete:
			parts[i] = fmt.Sprintf("d(%d)", e.X)
		case Append:
			parts[i] = fmt.Sprintf("a(%d,%d)", e.X, e.Y)
		case Swap:
			parts[i] = fmt.Sprintf("s(%d,%d)", e.X, e.Y)
		case Replace:
			parts[i] = fmt.Sprintf("r(%d,%d)", e.X, e.Y)
		default:
			return "", fmt.Errorf("editops: %s edits cannot be encoded on the wire", e.Kind)
		}
	}
	return strings.Join(parts, " "), nil
}

// DecodeHistory parses the wire format back into a History, replaying the
// tokens in the order they appear. An 'x(...)' crossover-marker token is a
// documented placeholder in the source protocol; it is dropped and reported
// through warn rather than treated as an error. Any other malformed token
// is also dropped and reported: a single bad edit should not sink the whole
// message.
func DecodeHistory(s string, warn func(string)) (History, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	tokens := strings.Fields(s)
	out := make(History, 0, len(tokens))
	for _, tok := range tokens {
		edit, ok, err := decodeToken(tok)
		if err != nil {
			return nil, err
		}
		if !ok {
			if warn != nil {
				warn(fmt.Sprintf("editops: dropping unrecognized wire token %q", tok))
			}
			continue
		}
		out = append(out, edit)
	}
	return out, nil
}

func decodeToken(tok string) (Edit, bool, error) {
	if len(tok) < 4 || tok[1] != '(' || tok[len(tok)-1] != ')' {
		return Edit{}, false, nil
	}
	kind := tok[0]
	body := tok[2 : len(tok)-1]
	if kind == 'x' {
		return Edit{}, false, nil // crossover-marker sentinel: drop, not an error
	}

	ids := strings.Split(body, ",")
	parsed := make([]ast.Sid, len(ids))
	for i, s := range ids {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Edit{}, false, nil
		}
		parsed[i] = ast.Sid(n)
	}

	switch kind {
	case 'd':
		if len(parsed) != 1 {
			return Edit{}, false, nil
		}
		return NewDelete(parsed[0]), true, nil
	case 'a':
		if len(parsed) != 2 {
			return Edit{}, false, nil
		}
		return NewAppend(parsed[0], parsed[1]), true, nil
	case 's':
		if len(parsed) != 2 {
			return Edit{}, false, nil
		}
		return NewSwap(parsed[0], parsed[1]), true, nil
	case 'r':
		if len(parsed) != 2 {
			return Edit{}, false, nil
		}
		return NewReplace(parsed[0], parsed[1]), true, nil
	default:
		return Edit{}, false, nil
	}
}
