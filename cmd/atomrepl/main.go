// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"repairengine/internal/atomstore"
	"repairengine/internal/errors"
	"repairengine/internal/repl"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: atomrepl <file.src> [more files...]")
		os.Exit(1)
	}

	manifest := make(map[string]string, len(os.Args)-1)
	for _, path := range os.Args[1:] {
		source, err := os.ReadFile(path)
		if err != nil {
			color.Red("atomrepl: %s", err)
			os.Exit(1)
		}
		manifest[path] = string(source)
	}

	store, err := atomstore.Load(manifest)
	if err != nil {
		reportLoadError(manifest, err)
		os.Exit(1)
	}

	color.Green("loaded %d file(s), %d statement(s) numbered", len(manifest), len(store.Sids()))
	repl.Start(os.Stdin, os.Stdout, store)
}

// reportLoadError prints a caret-style error rendered against one file of
// the manifest, the first one map iteration yields; it does not look up
// which file the compiler error came from.
func reportLoadError(manifest map[string]string, err error) {
	ce, ok := err.(errors.CompilerError)
	if !ok {
		color.Red("atomrepl: %s", err)
		return
	}
	for name, src := range manifest {
		r := errors.NewReporter(name, src)
		fmt.Print(r.Format(ce))
		return
	}
}
