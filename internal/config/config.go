// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invowk/multisrc/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, also used as the env var prefix.
	AppName = "multisrc"
	// FileName is the configuration file looked up in the project directory.
	FileName = "multisrc.cue"

	// maxFileSize bounds the configuration file read into memory.
	maxFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ErrConfigExists is returned by CreateDefault when the file is already present.
var ErrConfigExists = errors.New("configuration file already exists")

type (
	// Config is the effective project configuration.
	Config struct {
		Project         string         `mapstructure:"project"`
		SourceDir       string         `mapstructure:"source_dir"`
		BuildDir        string         `mapstructure:"build_dir"`
		MasterDoc       string         `mapstructure:"master_doc"`
		SourceSuffix    []string       `mapstructure:"source_suffix"`
		ExcludePatterns []string       `mapstructure:"exclude_patterns"`
		HTMLContext     map[string]any `mapstructure:"html_context"`
		LogLevel        string         `mapstructure:"log_level"`

		// Path is the loaded configuration file; empty when only defaults apply.
		Path string `mapstructure:"-"`
		// BaseDir is the directory relative paths are resolved against.
		BaseDir string `mapstructure:"-"`

		v      *viper.Viper
		values map[string]Value
		order  []string
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Project:         "Documentation",
		SourceDir:       ".",
		BuildDir:        "_build",
		MasterDoc:       "index",
		SourceSuffix:    []string{".md"},
		ExcludePatterns: []string{"_build/**"},
		HTMLContext:     map[string]any{},
		LogLevel:        "info",
		BaseDir:         ".",
	}
	cfg.attach(newViper(cfg))
	return cfg
}

func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(AppName)
	v.AutomaticEnv()
	for name, val := range defaults.core() {
		v.SetDefault(name, val)
	}
	return v
}

// attach binds the viper instance and declares the core values.
func (c *Config) attach(v *viper.Viper) {
	c.v = v
	c.values = make(map[string]Value, len(coreValues))
	c.order = c.order[:0]
	for _, val := range coreValues {
		c.values[val.Name] = val
		c.order = append(c.order, val.Name)
	}
}

// loadWithOptions resolves the configuration file, validates it against the
// schema and decodes the result.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	path := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path passed with --config").
				WithSuggestion("Run 'multisrc init' to create a starter configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		path = opts.ConfigFilePath
	} else if candidate := filepath.Join(baseDir, FileName); fileExists(candidate) {
		path = candidate
	}

	defaults := DefaultConfig()
	v := defaults.v
	raw := map[string]any{}
	if path != "" {
		var err error
		raw, err = loadCUEIntoViper(v, path)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'multisrc config show' to see the expected fields").
				Wrap(err).
				BuildError()
		}
		baseDir = filepath.Dir(path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// Viper folds nested keys to lower case; page context keys are
	// template names and must keep their spelling.
	if hc, ok := raw["html_context"].(map[string]any); ok {
		cfg.HTMLContext = hc
	}
	if cfg.HTMLContext == nil {
		cfg.HTMLContext = map[string]any{}
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}
	cfg.BaseDir = abs
	cfg.Path = path
	cfg.attach(v)
	return &cfg, nil
}

// loadCUEIntoViper compiles the file, unifies it with #Config, and merges
// the decoded map into v. The decoded map is returned as well.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("%s: file exceeds %d bytes", path, maxFileSize)
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}
	return configMap, nil
}

// CreateDefault writes a starter configuration into dir and returns its
// path. An existing file is only replaced when force is set.
func CreateDefault(dir string, cfg *Config, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if fileExists(path) && !force {
		return path, fmt.Errorf("%s: %w", path, ErrConfigExists)
	}

	content, err := GenerateCUE(cfg)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
