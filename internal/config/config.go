/*
PURPOSE:
  Defines the configuration structure and loading logic for the sweep harness,
  and resolves a loaded Config into a concrete SweepSpec.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Configure binary, model root, model list, seqlens, CPU pinning, output.
  - Defaults match the benchmark_genai tree layout under a root directory.

  Implementation-discovered:
  - Needs to support YAML parsing, and TOML for files ending in .toml.
  - cpu_core must distinguish "unset" (pin to core 0) from "" (no pinning).
    Defaults are applied before decoding, so an explicit "" survives.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3, github.com/BurntSushi/toml

ERROR HANDLING:
  - Returns explicit error if config file is invalid or has unknown keys.
  - Returns defaults if no config file is found during the default search.
  - Resolve returns ErrInvalidSeqlen / ErrEmptySeqlens for bad seqlens.

IMPLEMENTATION RULES:
  - Config struct tags support yaml and toml.
  - Relative paths resolve against the working directory, defaults against Root.

USAGE:
  cfg, err := config.Load("sweep.yaml")
  spec, err := config.Resolve(cfg)

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config, DefaultConfig and SweepSpec.

RELATED FILES:
  - internal/config/seqlens.go
  - internal/cli/run.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultModels are the quantization variants swept when none are given.
var DefaultModels = []string{"a8w8", "f8e4m3", "nvfp4", "WOi4", "WOi8", "WOmxfp4", "WOnf4"}

// Config represents the full configuration for a sweep.
type Config struct {
	Root        string        `yaml:"root" toml:"root"`
	Binary      string        `yaml:"binary" toml:"binary"`
	ModelRoot   string        `yaml:"model_root" toml:"model_root"`
	Models      []string      `yaml:"models" toml:"models"`
	Seqlens     SeqlenList    `yaml:"seqlens" toml:"seqlens"`
	CPUCore     string        `yaml:"cpu_core" toml:"cpu_core"`
	Output      string        `yaml:"output" toml:"output"`
	EventsFile  string        `yaml:"events_file" toml:"events_file"`
	MetricsFile string        `yaml:"metrics_file" toml:"metrics_file"`
	RunTimeout  time.Duration `yaml:"run_timeout" toml:"run_timeout"`
}

// SweepSpec is a fully resolved sweep: validated seqlens and absolute paths.
type SweepSpec struct {
	Seqlens     []int
	Models      []string
	Binary      string
	ModelRoot   string
	Output      string
	CPUCores    string // empty disables pinning
	EventsFile  string
	MetricsFile string
	RunTimeout  time.Duration
}

// ModelDir returns the expected input directory for a model.
func (s *SweepSpec) ModelDir(model string) string {
	return filepath.Join(s.ModelRoot, model)
}

// SeqlenList holds raw seqlen tokens. In TOML it accepts integers or strings.
type SeqlenList []string

// UnmarshalTOML implements toml.Unmarshaler.
func (s *SeqlenList) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		*s = SeqlenList{val}
	case int64:
		*s = SeqlenList{fmt.Sprintf("%d", val)}
	case []interface{}:
		out := make(SeqlenList, 0, len(val))
		for _, item := range val {
			switch it := item.(type) {
			case string:
				out = append(out, it)
			case int64:
				out = append(out, fmt.Sprintf("%d", it))
			default:
				return fmt.Errorf("seqlens: unsupported element %v (%T)", item, item)
			}
		}
		*s = out
	default:
		return fmt.Errorf("seqlens: unsupported value %v (%T)", v, v)
	}
	return nil
}

// DefaultConfig returns the default configuration.
// Root is left empty and resolved to the executable's directory by Resolve.
func DefaultConfig() *Config {
	return &Config{
		Models:  append([]string(nil), DefaultModels...),
		CPUCore: "0",
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"sweep.yaml", "sweep.yml", "sweep.toml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse config file %s: unknown keys %v", path, undecoded)
		}
		return cfg, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// DefaultRoot returns the directory containing the running executable.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Resolve validates cfg and fills in path defaults relative to the root.
func Resolve(cfg *Config) (*SweepSpec, error) {
	seqlens, err := ResolveSeqlens(cfg.Seqlens)
	if err != nil {
		return nil, err
	}

	root := cfg.Root
	if root == "" {
		if root, err = DefaultRoot(); err != nil {
			return nil, err
		}
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", cfg.Root, err)
	}

	spec := &SweepSpec{
		Seqlens:     seqlens,
		Models:      append([]string(nil), cfg.Models...),
		CPUCores:    strings.TrimSpace(cfg.CPUCore),
		RunTimeout:  cfg.RunTimeout,
		EventsFile:  cfg.EventsFile,
		MetricsFile: cfg.MetricsFile,
	}

	paths := []struct {
		dst      *string
		value    string
		fallback string
	}{
		{&spec.Binary, cfg.Binary, filepath.Join(root, "bin", "samples_bin", "benchmark_genai")},
		{&spec.ModelRoot, cfg.ModelRoot, filepath.Join(root, "model")},
		{&spec.Output, cfg.Output, filepath.Join(root, "profile_log", "genai_tokens_per_s.csv")},
		{&spec.EventsFile, cfg.EventsFile, ""},
		{&spec.MetricsFile, cfg.MetricsFile, ""},
	}
	for _, p := range paths {
		if p.value == "" {
			*p.dst = p.fallback
			continue
		}
		abs, err := filepath.Abs(p.value)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", p.value, err)
		}
		*p.dst = abs
	}

	return spec, nil
}
