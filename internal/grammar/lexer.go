// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer is the stateful lexer for the repair engine's default statement
// language, modeled on the teacher compiler's single-state token rule set.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Int", `[0-9]+`, nil},
		{"Operator", `(==|!=|<=|>=|&&|\|\||[-+*/%<>=!])`, nil},
		{"Punct", `[{}()\[\],;:.]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
