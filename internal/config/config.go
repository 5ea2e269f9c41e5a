/*
PURPOSE:
  Defines the sweep configuration and its loading logic.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Source files, parameters (name -> candidate values), groups, top unit,
    mode, tool, device, clock and reset ports.
  - Parameter order is significant (CSV columns, run names).

  Implementation-discovered:
  - Decoded through yaml.Node because map decoding loses key order.
  - Scalars stay strings: values are never interpreted.
  - Relative source paths resolve against the config file's directory.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Returns model.ErrConfiguration (wrapped) for unreadable or invalid files.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Validate once at load; everything downstream trusts the struct.

USAGE:
  cfg, err := config.Load("fifo.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config and rawConfig, then copy in Load().

RELATED FILES:
  - internal/cli/run.go
*/

package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/sweep"
)

// DefaultFiles are searched, in order, when no config path is given.
var DefaultFiles = []string{"flexsweep.yaml", "flexsweep.yml", "flex.yaml"}

// Config represents the full configuration of one sweep.
type Config struct {
	// Path is the file the config was loaded from.
	Path string

	Files      []string
	Parameters model.ParameterSet
	Groups     []model.Group

	Top    string
	Mode   string
	Tool   string
	Device string
	// Clock and Reset are optional port names.
	Clock string
	Reset string

	ClockPeriod float64
	CSV         string
	Sample      int
	Derive      []sweep.Derivation
	Exclude     []model.Group
	BuildDir    string
}

type rawConfig struct {
	Files       []string           `yaml:"files"`
	Parameters  yaml.Node          `yaml:"parameters"`
	Groups      []yaml.Node        `yaml:"groups"`
	Top         string             `yaml:"top"`
	Mode        string             `yaml:"mode"`
	Tool        string             `yaml:"tool"`
	Device      string             `yaml:"device"`
	Clock       string             `yaml:"clock"`
	Reset       string             `yaml:"reset"`
	ClockPeriod *float64           `yaml:"clock_period"`
	CSV         string             `yaml:"csv"`
	Sample      int                `yaml:"sample"`
	Derive      []sweep.Derivation `yaml:"derive"`
	Exclude     []yaml.Node        `yaml:"exclude"`
	BuildDir    string             `yaml:"build_dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ClockPeriod: 1.0,
		BuildDir:    ".",
	}
}

// Load reads configuration from a file.
// If path is empty, it searches DefaultFiles in the working directory.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, name := range DefaultFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return nil, model.ConfigError("no config file given and none of %v found", DefaultFiles)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.ConfigError("failed to read config file %s: %v", path, err)
	}

	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates a config document. Relative source paths are
// resolved against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, model.ConfigError("invalid YAML: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Top = raw.Top
	cfg.Mode = raw.Mode
	cfg.Tool = raw.Tool
	cfg.Device = raw.Device
	cfg.Clock = raw.Clock
	cfg.Reset = raw.Reset
	cfg.CSV = raw.CSV
	cfg.Sample = raw.Sample
	cfg.Derive = raw.Derive
	if raw.ClockPeriod != nil {
		cfg.ClockPeriod = *raw.ClockPeriod
	}
	if raw.BuildDir != "" {
		cfg.BuildDir = raw.BuildDir
	}

	for _, f := range raw.Files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(baseDir, f)
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, model.ConfigError("source file %s: %v", f, err)
		}
		cfg.Files = append(cfg.Files, abs)
	}

	var err error
	if cfg.Parameters, err = decodeParameters(&raw.Parameters); err != nil {
		return nil, err
	}
	if cfg.Groups, err = decodeGroups("groups", raw.Groups); err != nil {
		return nil, err
	}
	if cfg.Exclude, err = decodeGroups("exclude", raw.Exclude); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every mode needs. Mode and tool are checked
// when the backend is built, after command line overrides.
func (c *Config) Validate() error {
	if c.Top == "" {
		return model.ConfigError("top is required")
	}
	if len(c.Files) == 0 {
		return model.ConfigError("files must list at least one source file")
	}
	if c.ClockPeriod <= 0 {
		return model.ConfigError("clock_period must be positive, got %g", c.ClockPeriod)
	}
	if c.Sample < 0 {
		return model.ConfigError("sample must not be negative, got %d", c.Sample)
	}
	for i, e := range c.Exclude {
		if len(e) == 0 {
			return model.ConfigError("exclude entry %d is empty", i)
		}
	}
	for i, d := range c.Derive {
		if d.Name == "" {
			return model.ConfigError("derive entry %d has no name", i)
		}
	}
	return nil
}

// Plan returns the sweep the config describes.
func (c *Config) Plan() sweep.Plan {
	return sweep.Plan{
		Parameters:  c.Parameters,
		Groups:      c.Groups,
		Exclude:     c.Exclude,
		Derivations: c.Derive,
		Sample:      c.Sample,
	}
}

func decodeParameters(n *yaml.Node) (model.ParameterSet, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, model.ConfigError("line %d: parameters must be a mapping", n.Line)
	}

	var ps model.ParameterSet
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if seen[key.Value] {
			return nil, model.ConfigError("line %d: parameter %s defined twice", key.Line, key.Value)
		}
		seen[key.Value] = true

		p := model.Parameter{Name: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			p.Values = []string{val.Value}
		case yaml.SequenceNode:
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, model.ConfigError("line %d: values of %s must be scalars", item.Line, key.Value)
				}
				p.Values = append(p.Values, item.Value)
			}
		default:
			return nil, model.ConfigError("line %d: parameter %s must be a scalar or a list", val.Line, key.Value)
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func decodeGroups(field string, nodes []yaml.Node) ([]model.Group, error) {
	var out []model.Group
	for i := range nodes {
		n := &nodes[i]
		if n.Kind != yaml.MappingNode {
			return nil, model.ConfigError("line %d: %s entry %d must be a mapping", n.Line, field, i)
		}
		var g model.Group
		for j := 0; j+1 < len(n.Content); j += 2 {
			key, val := n.Content[j], n.Content[j+1]
			if val.Kind != yaml.ScalarNode {
				return nil, model.ConfigError("line %d: %s entry %d: %s must be a single value", val.Line, field, i, key.Value)
			}
			g = append(g, model.Param{Name: key.Value, Value: val.Value})
		}
		out = append(out, g)
	}
	return out, nil
}
