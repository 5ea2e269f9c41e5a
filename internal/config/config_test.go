package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/sweep"
)

const fifoYAML = `
files:
  - rtl/fifo.sv
  - /abs/mem.v
top: fifo
mode: synth
tool: vivado
device: xc7a35tcpg236-1
clock: clk
parameters:
  WIDTH: [8, 16]
  DEPTH: 4
  MODE: [fast, small]
groups:
  - {WIDTH: 32}
  - {USE_RAM: 1, LATENCY: 2}
exclude:
  - {WIDTH: 16, MODE: small}
derive:
  - name: COUNT
    random: {min: 1000, max: 10000000, count: 1}
  - name: SEED
    values: [1, 2]
clock_period: 2.5
csv: fifo.csv
`

func TestParseKeepsOrder(t *testing.T) {
	cfg, err := Parse([]byte(fifoYAML), "/proj")
	require.NoError(t, err)

	assert.Equal(t, []string{"/proj/rtl/fifo.sv", "/abs/mem.v"}, cfg.Files)
	assert.Equal(t, model.ParameterSet{
		{Name: "WIDTH", Values: []string{"8", "16"}},
		{Name: "DEPTH", Values: []string{"4"}},
		{Name: "MODE", Values: []string{"fast", "small"}},
	}, cfg.Parameters)
	assert.Equal(t, []model.Group{
		{{Name: "WIDTH", Value: "32"}},
		{{Name: "USE_RAM", Value: "1"}, {Name: "LATENCY", Value: "2"}},
	}, cfg.Groups)
	assert.Equal(t, []model.Group{{{Name: "WIDTH", Value: "16"}, {Name: "MODE", Value: "small"}}}, cfg.Exclude)

	assert.Equal(t, "fifo", cfg.Top)
	assert.Equal(t, "synth", cfg.Mode)
	assert.Equal(t, "vivado", cfg.Tool)
	assert.Equal(t, "clk", cfg.Clock)
	assert.Empty(t, cfg.Reset)
	assert.Equal(t, 2.5, cfg.ClockPeriod)
	assert.Equal(t, "fifo.csv", cfg.CSV)

	require.Len(t, cfg.Derive, 2)
	assert.Equal(t, &sweep.RandomRange{Min: 1000, Max: 10000000, Count: 1}, cfg.Derive[0].Random)
	assert.Equal(t, []string{"1", "2"}, cfg.Derive[1].Values)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("top: blinky\nfiles: [blinky.v]\n"), "/proj")
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.ClockPeriod)
	assert.Equal(t, ".", cfg.BuildDir)
	assert.Empty(t, cfg.Parameters)
	assert.Empty(t, cfg.Groups)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"invalid yaml":       "top: [",
		"missing top":        "files: [a.v]\n",
		"missing files":      "top: t\n",
		"parameters list":    "top: t\nfiles: [a.v]\nparameters: [1, 2]\n",
		"nested value":       "top: t\nfiles: [a.v]\nparameters:\n  A: {x: 1}\n",
		"group list value":   "top: t\nfiles: [a.v]\ngroups:\n  - {A: [1, 2]}\n",
		"group not mapping":  "top: t\nfiles: [a.v]\ngroups: [1]\n",
		"empty exclude":      "top: t\nfiles: [a.v]\nexclude:\n  - {}\n",
		"bad period":         "top: t\nfiles: [a.v]\nclock_period: 0\n",
		"negative sample":    "top: t\nfiles: [a.v]\nsample: -1\n",
		"unnamed derivation": "top: t\nfiles: [a.v]\nderive:\n  - values: [1]\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), "/proj")
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrConfiguration), "got %v", err)
		})
	}
}

func TestLoadResolvesAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blinky.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top: blinky\nfiles: [src/blinky.v]\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{filepath.Join(dir, "src", "blinky.v")}, cfg.Files)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestPlanCarriesPipeline(t *testing.T) {
	cfg, err := Parse([]byte(fifoYAML), "/proj")
	require.NoError(t, err)
	cfg.Sample = 3

	plan := cfg.Plan()
	assert.Equal(t, cfg.Parameters, plan.Parameters)
	assert.Equal(t, cfg.Groups, plan.Groups)
	assert.Equal(t, 3, plan.Sample)
	assert.Len(t, plan.Derivations, 2)
}
