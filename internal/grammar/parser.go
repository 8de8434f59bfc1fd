// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

var participleParser = buildParser()

func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(4),
		participle.Unquote(),
	)
	if err != nil {
		panic(fmt.Errorf("grammar: failed to build parser: %w", err))
	}
	return p
}

// Parse runs the participle grammar over source, returning the raw CST.
// Callers needing the repair engine's internal/ast tree should go through
// internal/parser.ParseSource instead.
func Parse(filename, source string) (*Program, error) {
	return participleParser.ParseString(filename, source)
}
