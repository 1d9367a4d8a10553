package mimic

import (
	"regexp"

	"github.com/nobl9/govy/pkg/govy"
	"github.com/nobl9/govy/pkg/rules"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/mimic/internal/pathutils"
)

var customTypeRegexp = regexp.MustCompile(`^[^.]+\..+$`)

var customFieldValidator = govy.New(
	govy.For(func(f CustomField) string { return f.Type }).
		WithName("type").
		When(
			func(f CustomField) bool { return f.Value == nil && f.Type != "" },
			govy.WhenDescription("value is not set"),
		).
		Rules(rules.StringMatchRegexp(customTypeRegexp)),
	govy.For(govy.GetSelf[CustomField]()).
		Rules(govy.NewRule(func(f CustomField) error {
			if fn, ok := f.Value.(Callable); ok && fn == nil {
				return errors.New("custom function must not be nil")
			}
			return nil
		})),
).WithName("CustomField")

var optionsValidator = govy.New(
	govy.For(func(o generateOptions) int { return o.maxArrayLength }).
		WithName("maxArrayLength").
		Rules(rules.GTE(1)),
	govy.ForSlice(func(o generateOptions) []string { return o.ignore }).
		WithName("ignore").
		RulesForEach(rules.StringNotEmpty()),
	govy.ForSlice(func(o generateOptions) []*regexp.Regexp { return o.ignorePatterns }).
		WithName("ignorePatterns").
		RulesForEach(govy.NewRule(func(re *regexp.Regexp) error {
			if re == nil {
				return errors.New("pattern must not be nil")
			}
			return nil
		})),
	govy.ForMap(func(o generateOptions) map[string]CustomField { return o.custom }).
		WithName("custom").
		RulesForKeys(rules.StringNotEmpty()).
		IncludeForValues(customFieldValidator),
).WithName("GenerateOptions")

func validateOptions(options generateOptions) error {
	if err := optionsValidator.Validate(options); err != nil {
		return &ConfigurationError{Reason: "invalid options", Err: err}
	}
	return nil
}

var pathDefinitionValidator = govy.New(
	govy.For(func(d PathDefinition) string { return string(d.Type) }).
		WithName("type").
		Rules(rules.StringNotEmpty()),
	govy.ForSlice(func(d PathDefinition) []any { return d.Enum }).
		WithName("enum").
		When(
			func(d PathDefinition) bool { return d.IsEnum },
			govy.WhenDescription("isEnum is true"),
		).
		Rules(rules.SliceMinLength[[]any](1)),
	govy.For(govy.GetSelf[PathDefinition]()).
		Rules(govy.NewRule(validateNode)),
).WithName("PathDefinition")

func validateNode(d PathDefinition) error {
	switch d.Node() {
	case NodeArray:
		switch {
		case d.Array == nil:
			return errors.New("array definition is missing")
		case d.Array.Element == nil && d.Array.Document == nil:
			return errors.New("array definition has neither an element nor a document")
		case d.Array.Element != nil && d.Array.Document != nil:
			return errors.New("array definition has both an element and a document")
		}
	case NodeEmbedded:
		if d.Embedded == nil {
			return errors.New("embedded definition is missing")
		}
	}
	return nil
}

// validateDefinitions checks every definition of the tree rooted at definitions.
func validateDefinitions(definitions PathDefinitions, prefix string) error {
	for _, key := range definitions.Paths() {
		path := pathutils.Join(prefix, key)
		def := definitions[key]
		if def == nil {
			return &ConfigurationError{Path: path, Reason: "invalid path definition", Err: errors.New("definition is nil")}
		}
		if err := pathDefinitionValidator.Validate(*def); err != nil {
			return &ConfigurationError{Path: path, Reason: "invalid path definition", Err: err}
		}
		var err error
		switch def.Node() {
		case NodeArray:
			if def.Array.Document != nil {
				err = validateDefinitions(def.Array.Document, path)
			} else {
				err = validateDefinitions(PathDefinitions{key: def.Array.Element}, prefix)
			}
		case NodeEmbedded:
			err = validateDefinitions(def.Embedded, path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
