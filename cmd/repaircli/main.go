// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/config"
	"repairengine/internal/distributed"
	"repairengine/internal/errors"
	"repairengine/internal/fitness"
	"repairengine/internal/localization"
	"repairengine/internal/logging"
	"repairengine/internal/representation"
	"repairengine/internal/search"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (unset: built-in defaults)")
		mode       = flag.String("mode", "bruteforce", "search strategy: bruteforce, ga, distributed")
		faultSpec  = flag.String("fault", "", "fault localization, sid:weight pairs separated by commas")
		fixSpec    = flag.String("fix", "", "fix localization, sid:weight pairs separated by commas")
		evalCmd    = flag.String("eval-cmd", "", "shell command the ShellEvaluator runs to score a variant")
		passMarker = flag.String("pass-marker", "PASS", "regexp matched against the eval command's output, once per passing test")
		positive   = flag.Int("positive-tests", 1, "number of positive tests a full fix must pass")
		seed       = flag.Int64("seed", 1, "PRNG seed")
		verbose    = flag.Bool("verbose", false, "enable debug-level logging")
		workDir    = flag.String("workdir", ".", "directory the eval command runs in")
	)
	flag.Parse()

	logger, err := logging.New(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "repaircli: building logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	warn := logging.WarnFunc(logger)

	paths := flag.Args()
	if len(paths) == 0 {
		color.Red("repaircli: at least one source file is required")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			color.Red("repaircli: %s", err)
			os.Exit(1)
		}
	}

	manifest, err := readManifest(paths)
	if err != nil {
		color.Red("repaircli: %s", err)
		os.Exit(1)
	}

	store, err := atomstore.Load(manifest)
	if err != nil {
		reportLoadError(manifest, err)
		os.Exit(1)
	}

	fault, err := parseCandidates(*faultSpec)
	if err != nil {
		color.Red("repaircli: -fault: %s", err)
		os.Exit(1)
	}
	rawFix, err := parseCandidates(*fixSpec)
	if err != nil {
		color.Red("repaircli: -fix: %s", err)
		os.Exit(1)
	}

	faultList := localization.NewFaultLocalization(fault)
	fixList := localization.NewFixLocalization(store, rawFix)

	if *evalCmd == "" {
		color.Red("repaircli: -eval-cmd is required")
		os.Exit(1)
	}
	parts := strings.Fields(*evalCmd)
	eval, err := fitness.NewShellEvaluator(*workDir, parts[0], parts[1:], *passMarker, *positive, 30*time.Second)
	if err != nil {
		color.Red("repaircli: building evaluator: %s", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	base := representation.NewPatch(store, representation.LegacySwapBug(cfg.SwapBug))

	switch *mode {
	case "bruteforce":
		result := search.RunBruteForce(base, faultList, fixList, cfg.SemanticCheck(), eval, *positive, warn)
		reportBruteForce(result)
	case "ga":
		result, err := search.RunGenetic(rng, base, faultList, fixList, cfg.SearchConfig(0), eval, *positive, nil)
		if err != nil {
			color.Red("repaircli: %s", err)
			os.Exit(1)
		}
		reportGenetic(result)
	case "distributed":
		demes := distributed.NewDemes(rng, base, faultList, fixList, cfg, eval)
		result, err := distributed.Run(demes, cfg, *positive, warn)
		if err != nil {
			color.Red("repaircli: %s", err)
			os.Exit(1)
		}
		reportDistributed(result)
	default:
		color.Red("repaircli: unknown -mode %q (want bruteforce, ga, or distributed)", *mode)
		os.Exit(1)
	}
}

func readManifest(paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		out[p] = string(data)
	}
	return out, nil
}

// parseCandidates reads "sid:weight,sid:weight,..." into atomstore
// candidates. An empty spec yields an empty list, not an error — a caller
// driving fault-only or fix-only search leaves the other field blank.
func parseCandidates(spec string) ([]atomstore.Candidate, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	entries := strings.Split(spec, ",")
	out := make([]atomstore.Candidate, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		parts := strings.SplitN(e, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed entry %q, want sid:weight", e)
		}
		sid, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed sid in %q: %w", e, err)
		}
		weight, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed weight in %q: %w", e, err)
		}
		out = append(out, atomstore.Candidate{Sid: ast.Sid(sid), Weight: weight})
	}
	return out, nil
}

func reportLoadError(manifest map[string]string, err error) {
	ce, ok := err.(errors.CompilerError)
	if !ok {
		color.Red("repaircli: %s", err)
		return
	}
	for name, src := range manifest {
		r := errors.NewReporter(name, src)
		fmt.Print(r.Format(ce))
		return
	}
}

func reportBruteForce(result search.BruteForceResult) {
	if !result.Found {
		color.Yellow("no solution found after evaluating %d candidates", result.Evaluated)
		return
	}
	color.Green("solution found after evaluating %d candidates (score %.1f)", result.Evaluated, result.Record.Score)
	printVariant(result.Record.Variant)
}

func reportGenetic(result search.Result) {
	if result.Solution == nil {
		color.Yellow("no solution found after %d generations", result.Generations)
		return
	}
	color.Green("solution found at generation %d (score %.1f)", result.Generations, result.Solution.Score)
	printVariant(result.Solution.Variant)
}

func reportDistributed(result distributed.CoordinatorResult) {
	if result.Solution == nil {
		color.Yellow("no solution found after %d generations (run %s)", result.Generations, result.RunID)
		return
	}
	color.Green("solution found by deme %d at generation %d (run %s)", result.SolvedDeme, result.Generations, result.RunID)
	printVariant(result.Solution.Variant)
}

func printVariant(v representation.Representation) {
	printed, err := v.Print()
	if err != nil {
		color.Red("repaircli: printing solution: %s", err)
		return
	}
	for name, src := range printed {
		fmt.Printf("--- %s ---\n%s\n", name, src)
	}
}
