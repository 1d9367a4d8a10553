package config

import (
	"os"
	"regexp"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nieomylnieja/mimic/pkg/mimic"
)

// Options is the YAML options file:
//
//	ignore: [email, detail.some_info]
//	ignorePatterns: ['^audit\.']
//	custom:
//	  status: {value: active}
//	  email: {type: internet.email}
//	  city: address.city
//	returnDate: false
//	applyFilter: true
//	maxArrayLength: 5
type Options struct {
	Ignore         []string               `yaml:"ignore"`
	IgnorePatterns []string               `yaml:"ignorePatterns"`
	Custom         map[string]CustomEntry `yaml:"custom"`
	ReturnDate     *bool                  `yaml:"returnDate"`
	ApplyFilter    *bool                  `yaml:"applyFilter"`
	MaxArrayLength *int                   `yaml:"maxArrayLength"`
}

// CustomEntry overrides a single field with a literal value or a fake library type.
// A plain string is a shorthand for the type.
type CustomEntry struct {
	Value    any
	Type     string
	HasValue bool
}

func (c *CustomEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Type)
	}
	var raw struct {
		Value any    `yaml:"value"`
		Type  string `yaml:"type"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	c.Value, c.Type = raw.Value, raw.Type
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "value" {
			c.HasValue = true
		}
	}
	return nil
}

// LoadOptions reads an options file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read options file %s", path)
	}
	var options Options
	if err = yaml.Unmarshal(data, &options); err != nil {
		return nil, errors.Wrapf(err, "failed to decode options file %s", path)
	}
	return &options, nil
}

// GenerateOptions converts the file into [mimic.GenerateOption] values.
func (o *Options) GenerateOptions() ([]mimic.GenerateOption, error) {
	var opts []mimic.GenerateOption
	if len(o.Ignore) > 0 {
		opts = append(opts, mimic.WithIgnore(o.Ignore...))
	}
	for _, pattern := range o.IgnorePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pattern)
		}
		opts = append(opts, mimic.WithIgnorePatterns(re))
	}
	for path, entry := range o.Custom {
		field := mimic.CustomType(entry.Type)
		if entry.HasValue {
			field.Value = mimic.Literal{Value: entry.Value}
		}
		opts = append(opts, mimic.WithCustom(path, field))
	}
	if o.ReturnDate != nil {
		opts = append(opts, mimic.WithReturnDate(*o.ReturnDate))
	}
	if o.ApplyFilter != nil {
		opts = append(opts, mimic.WithApplyFilter(*o.ApplyFilter))
	}
	if o.MaxArrayLength != nil {
		opts = append(opts, mimic.WithMaxArrayLength(*o.MaxArrayLength))
	}
	return opts, nil
}
