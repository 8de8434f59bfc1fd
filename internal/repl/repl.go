// SPDX-License-Identifier: Apache-2.0

// Package repl is an interactive AtomStore explorer: load a manifest once,
// then inspect its numbered statements and build up an edit history one
// command at a time, watching the materialized program change after each
// step. Modeled on the teacher's own repl package — a bufio.Scanner reading
// one line per prompt and printing a result — generalized from "parse a
// line, print its AST" to "run one command against a loaded store."
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
	"repairengine/internal/representation"
)

const Prompt = "atomstore> "

// Start loops reading commands from in and writing output to out until in
// is exhausted or a "quit" command is read. store is the manifest already
// loaded by the caller; variant tracks the edit history built up across
// commands in this session.
//
// Commands:
//
//	sids                 list every numbered statement, its location, and its source
//	print                print the current variant's materialized source
//	history              print the current edit history in wire format
//	delete <x>           apply Delete(x)
//	append <x> <y>       apply Append(x, y)
//	swap <x> <y>         apply Swap(x, y)
//	replace <x> <y>      apply Replace(x, y)
//	reset                discard the edit history, back to the original program
//	quit                 exit
func Start(in io.Reader, out io.Writer, store *atomstore.Store) {
	scanner := bufio.NewScanner(in)
	variant := representation.NewPatch(store, false)

	fmt.Fprint(out, Prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprint(out, Prompt)
			continue
		}

		switch cmd, args := splitCommand(line); cmd {
		case "quit", "exit":
			return
		case "sids":
			printSids(out, store)
		case "print":
			printVariant(out, variant)
		case "history":
			printHistory(out, variant)
		case "reset":
			variant = representation.NewPatch(store, false)
			fmt.Fprintln(out, "history cleared")
		case "delete":
			applyOrReport(out, variant, args, 1, func(ids []ast.Sid) editops.Edit { return editops.NewDelete(ids[0]) })
		case "append":
			applyOrReport(out, variant, args, 2, func(ids []ast.Sid) editops.Edit { return editops.NewAppend(ids[0], ids[1]) })
		case "swap":
			applyOrReport(out, variant, args, 2, func(ids []ast.Sid) editops.Edit { return editops.NewSwap(ids[0], ids[1]) })
		case "replace":
			applyOrReport(out, variant, args, 2, func(ids []ast.Sid) editops.Edit { return editops.NewReplace(ids[0], ids[1]) })
		default:
			fmt.Fprintf(out, "unrecognized command %q\n", cmd)
		}
		fmt.Fprint(out, Prompt)
	}
}

func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func applyOrReport(out io.Writer, v representation.Representation, args []string, want int, build func([]ast.Sid) editops.Edit) {
	ids, err := parseSids(args, want)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	if err := v.Apply(build(ids)); err != nil {
		fmt.Fprintln(out, "apply failed:", err)
		return
	}
	fmt.Fprintln(out, "ok")
}

func parseSids(args []string, want int) ([]ast.Sid, error) {
	if len(args) != want {
		return nil, fmt.Errorf("expected %d sid argument(s), got %d", want, len(args))
	}
	out := make([]ast.Sid, want)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("malformed sid %q: %w", a, err)
		}
		out[i] = ast.Sid(n)
	}
	return out, nil
}

func printSids(out io.Writer, store *atomstore.Store) {
	for _, sid := range store.Sids() {
		loc, _ := store.LocationOf(sid)
		stmt, _ := store.StmtByID(sid)
		fmt.Fprintf(out, "%4d  %s::%s  %s\n", sid, loc.File, loc.Function, stmt.String())
	}
}

func printVariant(out io.Writer, v representation.Representation) {
	printed, err := v.Print()
	if err != nil {
		fmt.Fprintln(out, "print failed:", err)
		return
	}
	for name, src := range printed {
		fmt.Fprintf(out, "--- %s ---\n%s\n", name, src)
	}
}

func printHistory(out io.Writer, v representation.Representation) {
	h := v.History()
	if len(h) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	s, err := editops.EncodeHistory(h)
	if err != nil {
		fmt.Fprintln(out, "history contains a non-wire-representable edit:", err)
		return
	}
	fmt.Fprintln(out, s)
}
