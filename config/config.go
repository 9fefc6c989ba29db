// Package config loads an optional project configuration file
// ("logica.yaml") and merges it with --engine/--import-root/LOGICAPATH
// (§6), using a functional-options constructor in the teacher's style.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the resolved compilation configuration: the default
// engine, the import search path, and any @DefineFlag default
// overrides (§6).
type Config struct {
	Engine      string            `yaml:"engine"`
	ImportRoots []string          `yaml:"import_roots"`
	Flags       map[string]string `yaml:"flags"`
}

// Option mutates a Config under construction (teacher pattern:
// compiler/gen/option.go's functional options over its Config type).
type Option func(*Config)

// WithEngine overrides the configured default engine (--engine).
func WithEngine(name string) Option {
	return func(c *Config) { c.Engine = name }
}

// WithImportRoots appends roots to the import search path, in the
// order given (first match wins, per §6's "searching each root in
// order").
func WithImportRoots(roots ...string) Option {
	return func(c *Config) { c.ImportRoots = append(c.ImportRoots, roots...) }
}

// WithFlag sets an override for @DefineFlag(name, default).
func WithFlag(name, value string) Option {
	return func(c *Config) {
		if c.Flags == nil {
			c.Flags = map[string]string{}
		}
		c.Flags[name] = value
	}
}

// New builds a Config starting from path's YAML content (if path is ""
// or the file does not exist, New starts from a zero Config), then
// applies opts in order, then appends LOGICAPATH's colon-separated
// entries to ImportRoots (§6: "LOGICAPATH ... is an alternate form of
// --import-root").
func New(path string, opts ...Option) (*Config, error) {
	c := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
			// no project file: start from defaults
		default:
			return nil, err
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	if logicapath := os.Getenv("LOGICAPATH"); logicapath != "" {
		c.ImportRoots = append(c.ImportRoots, strings.Split(logicapath, ":")...)
	}
	return c, nil
}
