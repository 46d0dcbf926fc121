// Package config resolves run settings from flags, PICK_ environment
// variables and an optional .pick.yaml file.
//
// Precedence is flags > environment > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abatilo/pick/internal/selector"
)

const (
	envPrefix      = "PICK"
	configName     = ".pick"
	DefaultBacklog = "BACKLOG.md"
	DefaultOutDir  = "."
)

// Keys shared by the config file, the environment and the flags.
const (
	KeyBacklog       = "backlog"
	KeyOut           = "out"
	KeyTemplate      = "template"
	KeyDryRun        = "dry_run"
	KeySeed          = "seed"
	KeyMaxEffort     = "max_effort"
	KeyFallbackCount = "fallback_count"
	KeyWeightP1      = "weights.p1"
	KeyWeightP2      = "weights.p2"
	KeyWeightP3      = "weights.p3"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{ //nolint:gochecknoglobals // fixed lookup table
	"backlog":        KeyBacklog,
	"out":            KeyOut,
	"template":       KeyTemplate,
	"dry-run":        KeyDryRun,
	"seed":           KeySeed,
	"max-effort":     KeyMaxEffort,
	"fallback-count": KeyFallbackCount,
}

// Config is the resolved configuration for one run.
type Config struct {
	Backlog   string
	OutDir    string
	Template  string // empty for the built-in template
	DryRun    bool
	Seed      uint64
	SeedSet   bool // false when no seed was given and one must be generated
	Selection selector.Options
	File      string // config file used, empty when none was found
}

// RegisterPathFlags adds the flags shared by every command to fs.
func RegisterPathFlags(fs *pflag.FlagSet) {
	fs.String("backlog", DefaultBacklog, "Path to the backlog document")
	fs.String("out", DefaultOutDir, "Directory for work plan files")
	fs.String("config", "", "Config file (default: .pick.yaml in the working directory)")
}

// RegisterRunFlags adds the flags that control a selection run to fs.
func RegisterRunFlags(fs *pflag.FlagSet) {
	def := selector.DefaultOptions()
	fs.String("template", "", "TOML work plan template (default: built-in)")
	fs.Bool("dry-run", false, "Print the work plan instead of writing it")
	fs.Uint64("seed", 0, "Seed for a reproducible selection")
	fs.Int("max-effort", def.MaxEffort, "Largest effort in hours considered for selection")
	fs.Int("fallback-count", def.FallbackCount, "Smallest tasks kept when none fit --max-effort")
}

// Load resolves the configuration. dir is searched for .pick.yaml unless
// fs carries an explicit --config. fs may be nil.
func Load(dir string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := selector.DefaultOptions()
	v.SetDefault(KeyBacklog, DefaultBacklog)
	v.SetDefault(KeyOut, DefaultOutDir)
	v.SetDefault(KeyTemplate, "")
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyMaxEffort, def.MaxEffort)
	v.SetDefault(KeyFallbackCount, def.FallbackCount)
	v.SetDefault(KeyWeightP1, def.Weights.P1)
	v.SetDefault(KeyWeightP2, def.Weights.P2)
	v.SetDefault(KeyWeightP3, def.Weights.P3)

	explicit := ""
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Backlog:  v.GetString(KeyBacklog),
		OutDir:   v.GetString(KeyOut),
		Template: v.GetString(KeyTemplate),
		DryRun:   v.GetBool(KeyDryRun),
		Seed:     v.GetUint64(KeySeed),
		SeedSet:  v.IsSet(KeySeed),
		Selection: selector.Options{
			MaxEffort:     v.GetInt(KeyMaxEffort),
			FallbackCount: v.GetInt(KeyFallbackCount),
			Weights: selector.Weights{
				P1: v.GetFloat64(KeyWeightP1),
				P2: v.GetFloat64(KeyWeightP2),
				P3: v.GetFloat64(KeyWeightP3),
			},
		},
		File: v.ConfigFileUsed(),
	}

	if cfg.Backlog == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyBacklog)
	}
	if err := cfg.Selection.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
