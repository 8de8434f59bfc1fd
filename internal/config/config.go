// SPDX-License-Identifier: Apache-2.0

// Package config loads the repair engine's run parameters from YAML
// (gopkg.in/yaml.v3, already in the ambient dependency graph), with
// field-level defaults matching the reference engine's historical
// defaults. A Config is the one object every entrypoint (brute-force run,
// single-deme GA, distributed coordinator) builds its internal/search and
// internal/atomstore calls from.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"repairengine/internal/atomstore"
	"repairengine/internal/representation"
	"repairengine/internal/search"
)

// Config mirrors the configuration keys the core's design names, one YAML
// field per key.
type Config struct {
	Generations int     `yaml:"generations"`
	PopSize     int     `yaml:"popsize"`
	MutRate     float64 `yaml:"mutp"`
	ProMut      int     `yaml:"promut"`

	SubatomMutRate   float64 `yaml:"subatom-mutp"`
	SubatomConstRate float64 `yaml:"subatom-constp"`
	CrossRate        float64 `yaml:"crossp"`

	TournamentK int     `yaml:"tournament-k"`
	TournamentP float64 `yaml:"tournament-p"`

	NumComps    int  `yaml:"num-comps"`
	SplitSearch bool `yaml:"split-search"`

	DiversitySelection bool `yaml:"diversity-selection"`
	VariantsExchanged  int  `yaml:"variants-exchanged"`
	GenPerExchange     int  `yaml:"gen-per-exchange"`

	// SemanticCheckName is "none" or "scope"; SemanticCheck() below converts
	// it to atomstore.SemanticCheck.
	SemanticCheckName string `yaml:"semantic-check"`

	UniqCoverage        bool `yaml:"uniq-coverage"`
	MultithreadCoverage bool `yaml:"multithread-coverage"`

	// SwapBug reproduces the historical buggy Swap expansion; see
	// representation.LegacySwapBug.
	SwapBug bool `yaml:"swap-bug"`
}

// Default returns the reference engine's historical defaults.
func Default() Config {
	return Config{
		Generations: 10,
		PopSize:     40,
		MutRate:     0.06,
		ProMut:      0,

		SubatomMutRate:   0.5,
		SubatomConstRate: 0.5,
		CrossRate:        0.6,

		TournamentK: 2,
		TournamentP: 1.0,

		NumComps:    1,
		SplitSearch: false,

		DiversitySelection: false,
		VariantsExchanged:  1,
		GenPerExchange:     10,

		SemanticCheckName: "scope",
	}
}

// Load reads a YAML file into Default()'s values, so an incomplete file
// still produces a fully-populated Config.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// SemanticCheck converts SemanticCheckName into its atomstore enum value.
// An unrecognized name is treated as "scope", the stricter and safer
// default, rather than silently disabling scope filtering.
func (c Config) SemanticCheck() atomstore.SemanticCheck {
	if c.SemanticCheckName == "none" {
		return atomstore.CheckNone
	}
	return atomstore.CheckScope
}

// CoverageMode projects the two coverage-instrumentation flags into
// representation.CoverageMode, the form Instrument expects.
func (c Config) CoverageMode() representation.CoverageMode {
	return representation.CoverageMode{Uniq: c.UniqCoverage, Multithread: c.MultithreadCoverage}
}

// SearchConfig projects the genetic-algorithm-relevant fields into
// internal/search's Config, for compID — the 0-based deme index split-
// search partitions against (id mod NumComps == compID) — supplied by the
// caller (the distributed coordinator passes 0 through num_comps-1, one
// per deme; a single-deme run passes 0).
func (c Config) SearchConfig(compID int) search.Config {
	return search.Config{
		Generations:      c.Generations,
		PopSize:          c.PopSize,
		MutRate:          c.MutRate,
		SubatomMutRate:   c.SubatomMutRate,
		SubatomConstRate: c.SubatomConstRate,
		CrossRate:        c.CrossRate,
		ProMut:           c.ProMut,
		TournamentK:      c.TournamentK,
		TournamentP:      c.TournamentP,
		SplitSearch:      c.SplitSearch,
		NumComps:         c.NumComps,
		CompID:           compID,
		Check:            c.SemanticCheck(),
	}
}
