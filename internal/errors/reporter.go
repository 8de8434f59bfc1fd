// SPDX-License-Identifier: Apache-2.0
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"repairengine/internal/ast"
)

// Level is the severity of a diagnostic.
type Level string

const (
	Fatal   Level = "error"
	Warning Level = "warning"
)

// CompilerError is a structured, positioned diagnostic. AtomStore.Load
// raises these instead of bare fmt.Errorf so a CLI caller can render them
// with Reporter.Format.
type CompilerError struct {
	Level    Level
	Code     string
	Message  string
	Position ast.Position
	Notes    []string
}

func (e CompilerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Level, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Level, e.Message)
}

// New builds a fatal R0xxx-class error.
func New(code, message string, pos ast.Position) CompilerError {
	return CompilerError{Level: Fatal, Code: code, Message: message, Position: pos}
}

// NewWarning builds a recoverable R1xxx/R2xxx-class condition.
func NewWarning(code, message string, pos ast.Position) CompilerError {
	return CompilerError{Level: Warning, Code: code, Message: message, Position: pos}
}

func (e CompilerError) WithNote(note string) CompilerError {
	e.Notes = append(e.Notes, note)
	return e
}

// Reporter formats CompilerErrors against their originating source text,
// modeled on the teacher compiler's caret-annotated diagnostic renderer.
type Reporter struct {
	filename string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

func (r *Reporter) levelColor(level Level) func(...interface{}) string {
	if level == Fatal {
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
	return color.New(color.FgYellow, color.Bold).SprintFunc()
}

// Format renders err in the style "level[CODE]: message\n --> file:line:col"
// plus a caret under the offending column and any attached notes.
func (r *Reporter) Format(err CompilerError) string {
	var out strings.Builder
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	lc := r.levelColor(err.Level)

	if err.Code != "" {
		fmt.Fprintf(&out, "%s[%s]: %s\n", lc(string(err.Level)), err.Code, err.Message)
	} else {
		fmt.Fprintf(&out, "%s: %s\n", lc(string(err.Level)), err.Message)
	}
	fmt.Fprintf(&out, "  %s %s:%d:%d\n", dim("-->"), r.filename, err.Position.Line, err.Position.Column)

	if err.Position.Line > 0 && err.Position.Line <= len(r.lines) {
		line := r.lines[err.Position.Line-1]
		fmt.Fprintf(&out, "%s %s %s\n", bold(fmt.Sprintf("%3d", err.Position.Line)), dim("|"), line)
		col := err.Position.Column - 1
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(&out, "    %s %s%s\n", dim("|"), strings.Repeat(" ", col), lc("^"))
	}
	for _, note := range err.Notes {
		fmt.Fprintf(&out, "    %s %s %s\n", dim("|"), color.New(color.FgBlue).Sprint("note:"), note)
	}
	out.WriteString("\n")
	return out.String()
}
