// Package config reader options, loaded from a yaml or json-with-comments file and
// overridden by command line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Failsafe skips objects that fail to decode instead of aborting the read
	Failsafe bool `yaml:"failsafe" json:"failsafe"`
	// KeepUnknownObjects keeps placeholders for object types with no decoder
	KeepUnknownObjects bool `yaml:"keep_unknown_objects" json:"keep_unknown_objects"`
	// KeepUnknownEntities same for entities
	KeepUnknownEntities bool `yaml:"keep_unknown_entities" json:"keep_unknown_entities"`
	// StrictReferences reports every reference that does not resolve
	StrictReferences bool `yaml:"strict_references" json:"strict_references"`
	// Workers templates built in parallel, 1 or less builds sequentially
	Workers int `yaml:"workers" json:"workers"`
	// Quiet production logging
	Quiet bool `yaml:"quiet" json:"quiet"`
}

func Default() Config {
	return Config{
		Failsafe:            true,
		KeepUnknownObjects:  true,
		KeepUnknownEntities: true,
		Workers:             1,
	}
}

// LoadFile reads path over the defaults, .json and .jsonc files may hold comments
func LoadFile(path string) (Config, error) {
	const msg = "LoadFile:"
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%s %w", msg, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("%s %s: %w", msg, path, err)
	}
	if err = cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s %s: %w", msg, path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// AddFlags binds the options to flagSet, current values become the flag defaults
func (c *Config) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.BoolVar(&c.Failsafe, "failsafe", c.Failsafe, "skip objects that fail to decode")
	flagSet.BoolVar(&c.KeepUnknownObjects, "keep-unknown-objects", c.KeepUnknownObjects, "keep placeholders for unknown object types")
	flagSet.BoolVar(&c.KeepUnknownEntities, "keep-unknown-entities", c.KeepUnknownEntities, "keep placeholders for unknown entity types")
	flagSet.BoolVar(&c.StrictReferences, "strict-references", c.StrictReferences, "report unresolved references")
	flagSet.IntVarP(&c.Workers, "workers", "w", c.Workers, "templates built in parallel")
	flagSet.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "production logging")
}

// NewConfig parses args; a --config file is loaded first and the flags given on the
// command line win over it. The positional arguments are returned. extra binds
// command specific flags to the same flag set.
func NewConfig(name string, args []string, extra ...func(*pflag.FlagSet)) (*Config, []string, error) {
	const msg = "NewConfig:"

	cfg := Default()
	var path string
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVarP(&path, "config", "c", "", "yaml or jsonc config file")
	cfg.AddFlags(flagSet)
	for _, fn := range extra {
		fn(flagSet)
	}
	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}
	if path == "" {
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s %w", msg, err)
		}
		return &cfg, flagSet.Args(), nil
	}

	fileCfg, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	overrides := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fileCfg.AddFlags(overrides)
	var setErr error
	flagSet.Visit(func(f *pflag.Flag) {
		if setErr != nil || overrides.Lookup(f.Name) == nil {
			return
		}
		setErr = overrides.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return nil, nil, fmt.Errorf("%s %w", msg, setErr)
	}
	if err = fileCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s %w", msg, err)
	}
	return &fileCfg, flagSet.Args(), nil
}
