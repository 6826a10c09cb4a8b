package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected sources in order. Non-zero fields of a later
// source override earlier ones.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, Defaults())
	return b
}

// withEnv loads a .env file and then parses the process environment. The
// file is dotEnv when set, else GALLERY_ENV_FILE, else the path collected
// from earlier sources.
func (b *configBuilder) withEnv(dotEnv string) *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	if dotEnv == "" {
		dotEnv = envCfg.EnvFilePath
	}
	if dotEnv == "" {
		dotEnv = b.lastNonEmpty(func(c *StructuredConfig) string { return c.EnvFilePath })
	}
	if err := loadDotEnv(dotEnv); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	// second pass picks up values the .env file introduced
	envCfg = &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(flags *StructuredConfig) *configBuilder {
	if flags == nil {
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

func (b *configBuilder) withFile() *configBuilder {
	path := b.lastNonEmpty(func(c *StructuredConfig) string { return c.FilePath })
	if path == "" {
		return b
	}

	fileCfg, err := parseFile(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, fileCfg)

	return b
}

func (b *configBuilder) lastNonEmpty(field func(*StructuredConfig) string) string {
	var v string
	for _, cfg := range b.configs {
		if s := field(cfg); s != "" {
			v = s
		}
	}
	return v
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  1. Defaults
//  2. Environment variables and the .env file
//  3. Command-line flags (flags may be nil)
//  4. JSON or YAML file (path resolved from sources 1-3)
func GetStructuredConfig(flags *StructuredConfig) (*StructuredConfig, error) {
	var dotEnv string
	if flags != nil {
		dotEnv = flags.EnvFilePath
	}

	return newConfigBuilder().
		withDefaults().
		withEnv(dotEnv).
		withFlags(flags).
		withFile().
		build()
}
