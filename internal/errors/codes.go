// SPDX-License-Identifier: Apache-2.0

// Package errors renders the repair engine's fatal and recoverable
// conditions with the same Rust-like, caret-annotated formatting the
// teacher compiler uses for its diagnostics.
//
// Code ranges:
// R0000-R0099: AtomStore load errors (fatal, abort the run)
// R1000-R1099: search-time recoverable conditions (logged, run continues)
// R2000-R2099: evaluator / wire-protocol errors
package errors

const (
	// R0xxx: raised by atomstore.Load; always fatal.
	ErrMissingScopeKey     = "R0001" // in_scope_at referenced an sid absent from locals_have/locals_used
	ErrEmptyManifest       = "R0002" // load(files) called with no files
	ErrParse               = "R0003" // the AST provider failed to parse a source file
	ErrDuplicateFileName   = "R0004" // two files in a manifest share a name

	// R1xxx: search-time, recoverable; the caller logs and proceeds.
	ErrEmptyCandidateSet   = "R1001" // brute force found no distance-one edits to try
	ErrSeedPopulationTooBig = "R1002" // genetic algorithm's incoming seed is larger than pop_size-1
	ErrNoLegalDonor        = "R1003" // weighted micro-mutation exhausted every operator's donor set

	// R2xxx: evaluator / distributed wire-protocol errors.
	ErrEvaluatorFailed  = "R2001" // FitnessEvaluator returned a non-recoverable error
	ErrWireVersionSkew  = "R2002" // a deme received a message in an unknown wire version
	ErrWireMalformed    = "R2003" // a deme received a message it could not decode
)

var descriptions = map[string]string{
	ErrMissingScopeKey:      "scope query referenced a statement id with no recorded scope information",
	ErrEmptyManifest:        "AtomStore.Load was given no source files",
	ErrParse:                "the AST provider failed to parse a source file",
	ErrDuplicateFileName:    "two files in a load manifest share the same name",
	ErrEmptyCandidateSet:    "brute-force search found no distance-one edits to enumerate",
	ErrSeedPopulationTooBig: "genetic algorithm's seed population exceeds pop_size-1",
	ErrNoLegalDonor:         "weighted micro-mutation could not find a legal donor for any operator",
	ErrEvaluatorFailed:      "the fitness evaluator could not score a variant",
	ErrWireVersionSkew:      "a distributed exchange message used an unrecognized wire version",
	ErrWireMalformed:        "a distributed exchange message could not be decoded",
}

// Describe returns the human-readable description registered for code, or
// the empty string if code is unknown.
func Describe(code string) string {
	return descriptions[code]
}
