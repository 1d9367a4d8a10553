package config

import (
	"flag"
	"path/filepath"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/nobl9/govy/pkg/govy"
	"github.com/nobl9/govy/pkg/rules"
	"github.com/pkg/errors"
)

// EnvPrefix is prepended to every environment variable read by [NewConfig].
const EnvPrefix = "MIMIC_"

type Format string

const (
	FormatYAML       Format = "yaml"
	FormatJSONSchema Format = "jsonschema"
	FormatOpenAPI    Format = "openapi"
)

type Output string

const (
	OutputJSON    Output = "json"
	OutputExtJSON Output = "extjson"
)

// Config holds the command line configuration.
// Every field can be set with a MIMIC_ prefixed environment variable
// and overridden with a flag.
type Config struct {
	Schema    string `env:"SCHEMA"`
	Format    Format `env:"FORMAT"`
	Component string `env:"COMPONENT"`
	Count     int    `env:"COUNT" envDefault:"1"`
	// Seed of the random source, zero seeds it with the current time.
	Seed        int64  `env:"SEED" envDefault:"0"`
	Output      Output `env:"OUTPUT" envDefault:"json"`
	OptionsFile string `env:"OPTIONS"`
	Paths       bool   `env:"PATHS" envDefault:"false"`
	Verbose     bool   `env:"VERBOSE" envDefault:"false"`
}

// NewConfig reads the configuration from the environment.
func NewConfig() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	return &cfg, nil
}

// RegisterFlags binds the configuration to fs, current values become the flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Schema, "schema", c.Schema, "path to the schema file")
	fs.Func("format", "schema format: yaml, jsonschema or openapi (detected from the file by default)", func(s string) error {
		c.Format = Format(strings.ToLower(s))
		return nil
	})
	fs.StringVar(&c.Component, "component", c.Component, "OpenAPI component schema to generate documents for")
	fs.IntVar(&c.Count, "count", c.Count, "number of documents to generate")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 seeds with the current time")
	fs.Func("output", "output format: json or extjson (default "+string(c.Output)+")", func(s string) error {
		c.Output = Output(strings.ToLower(s))
		return nil
	})
	fs.StringVar(&c.OptionsFile, "options", c.OptionsFile, "path to a YAML file with generation options")
	fs.BoolVar(&c.Paths, "paths", c.Paths, "print the extracted path definitions instead of documents")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log progress")
}

// ResolvedFormat returns the configured format or detects it:
// a component implies OpenAPI, .json files are JSON Schema and anything else is YAML.
func (c *Config) ResolvedFormat() Format {
	switch {
	case c.Format != "":
		return c.Format
	case c.Component != "":
		return FormatOpenAPI
	case strings.EqualFold(filepath.Ext(c.Schema), ".json"):
		return FormatJSONSchema
	default:
		return FormatYAML
	}
}

var configValidator = govy.New(
	govy.For(func(c Config) string { return c.Schema }).
		WithName("schema").
		Rules(rules.StringNotEmpty()),
	govy.For(func(c Config) Format { return c.ResolvedFormat() }).
		WithName("format").
		Rules(rules.OneOf(FormatYAML, FormatJSONSchema, FormatOpenAPI)),
	govy.For(func(c Config) string { return c.Component }).
		WithName("component").
		When(
			func(c Config) bool { return c.ResolvedFormat() == FormatOpenAPI },
			govy.WhenDescription("format is openapi"),
		).
		Rules(rules.StringNotEmpty()),
	govy.For(func(c Config) int { return c.Count }).
		WithName("count").
		Rules(rules.GTE(1)),
	govy.For(func(c Config) Output { return c.Output }).
		WithName("output").
		Rules(rules.OneOf(OutputJSON, OutputExtJSON)),
).WithName("Config")

// Validate checks the configuration.
func (c *Config) Validate() error {
	return configValidator.Validate(*c)
}
