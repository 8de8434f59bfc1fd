package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"repairengine/internal/atomstore"
)

func TestLoadOverridesDefaultsPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("popsize: 100\nmutp: 0.2\n"), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 100, cfg.PopSize)
	assert.Equal(t, 0.2, cfg.MutRate)
	assert.Equal(t, Default().Generations, cfg.Generations) // untouched key keeps its default
}

func TestSemanticCheckDefaultsToScope(t *testing.T) {
	cfg := Default()
	assert.Equal(t, atomstore.CheckScope, cfg.SemanticCheck())

	cfg.SemanticCheckName = "none"
	assert.Equal(t, atomstore.CheckNone, cfg.SemanticCheck())

	cfg.SemanticCheckName = "garbage"
	assert.Equal(t, atomstore.CheckScope, cfg.SemanticCheck())
}

func TestCoverageModeProjectsFlags(t *testing.T) {
	cfg := Default()
	cfg.UniqCoverage = true
	mode := cfg.CoverageMode()
	assert.True(t, mode.Uniq)
	assert.False(t, mode.Multithread)
}

func TestSearchConfigProjectsGeneticFields(t *testing.T) {
	cfg := Default()
	cfg.NumComps = 4
	sc := cfg.SearchConfig(2)
	assert.Equal(t, cfg.PopSize, sc.PopSize)
	assert.Equal(t, 2, sc.CompID)
	assert.Equal(t, 4, sc.NumComps)
}
