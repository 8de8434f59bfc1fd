// SPDX-License-Identifier: Apache-2.0
package representation

import (
	"fmt"
	"strings"

	"repairengine/internal/editops"
)

// fingerprint serializes a history for the fitness evaluator's cache key.
// Unlike editops.EncodeHistory (the inter-deme wire format), this covers
// every edit kind, including ReplaceSubatom and Template, since it never
// leaves the process.
func fingerprint(h editops.History) string {
	parts := make([]string, len(h))
	for i, e := range h {
		switch e.Kind {
		case editops.Delete:
			parts[i] = fmt.Sprintf("d(%d)", e.X)
		case editops.Append:
			parts[i] = fmt.Sprintf("a(%d,%d)", e.X, e.Y)
		case editops.Swap:
			parts[i] = fmt.Sprintf("s(%d,%d)", e.X, e.Y)
		case editops.Replace:
			parts[i] = fmt.Sprintf("r(%d,%d)", e.X, e.Y)
		case editops.ReplaceSubatom:
			parts[i] = fmt.Sprintf("rs(%d,%d,%s)", e.X, e.SubatomIndex, exprKey(e))
		case editops.Template:
			parts[i] = fmt.Sprintf("t(%s,%v)", e.TemplateName, e.Bindings)
		}
	}
	return strings.Join(parts, " ")
}

func exprKey(e editops.Edit) string {
	if e.SubatomExpr == nil {
		return "<nil>"
	}
	return e.SubatomExpr.String()
}
