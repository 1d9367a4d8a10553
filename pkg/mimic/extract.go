package mimic

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/mimic/internal/pathutils"
	"github.com/nieomylnieja/mimic/pkg/schema"
)

// ExtractPaths resolves the provider's schema and projects every declared path
// onto a [PathDefinition], recursing into array element and embedded schemas.
// Failures are reported as [*ExtractionError].
func ExtractPaths(provider schema.Provider) (PathDefinitions, error) {
	if provider == nil {
		return nil, &ExtractionError{Err: errors.New("schema provider is nil")}
	}
	s, err := provider.Schema()
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	if s == nil {
		return nil, &ExtractionError{Err: errors.New("provider resolved to a nil schema")}
	}
	return extractSchema(s, "")
}

func extractSchema(s *schema.Schema, prefix string) (PathDefinitions, error) {
	definitions := make(PathDefinitions, s.Len())
	var err error
	s.EachPath(func(name string, typ *schema.SchemaType) {
		if err != nil {
			return
		}
		var def *PathDefinition
		if def, err = extractPath(pathutils.Join(prefix, name), typ); err == nil {
			definitions[name] = def
		}
	})
	if err != nil {
		return nil, err
	}
	return definitions, nil
}

func extractPath(path string, typ *schema.SchemaType) (*PathDefinition, error) {
	if typ == nil {
		return nil, &ExtractionError{Path: path, Err: errors.New("path has no type")}
	}
	def := &PathDefinition{
		Type:       kindOf(typ.Instance),
		Required:   typ.Required,
		Validators: slices.Clone(typ.Validators),
		Default:    typ.DefaultValue,
		Lowercase:  typ.Options.Lowercase,
		Uppercase:  typ.Options.Uppercase,
		Trim:       typ.Options.Trim,
	}
	if len(typ.EnumValues) > 0 {
		def.IsEnum = true
		def.Enum = slices.Clone(typ.EnumValues)
	}
	// Duplicated bounds: the last validator wins.
	for _, v := range typ.Validators {
		if v.Type != schema.ValidatorMin && v.Type != schema.ValidatorMax {
			continue
		}
		bound, ok := toFloat(v.Value)
		if !ok {
			return nil, &ExtractionError{
				Path: path,
				Err:  errors.Errorf("%s validator value %v is not a number", v.Type, v.Value),
			}
		}
		if v.Type == schema.ValidatorMin {
			def.Min = &bound
		} else {
			def.Max = &bound
		}
	}

	var err error
	switch def.Type {
	case KindArray:
		def.IsArray = true
		switch {
		case typ.Schema != nil:
			var document PathDefinitions
			if document, err = extractSchema(typ.Schema, path); err == nil {
				def.Array = &ArrayDefinition{Document: document}
			}
		case typ.Caster != nil:
			var element *PathDefinition
			if element, err = extractPath(path, typ.Caster); err == nil {
				def.Array = &ArrayDefinition{Element: element}
			}
		default:
			err = &ExtractionError{Path: path, Err: errors.New("array has neither an element type nor a sub-schema")}
		}
	case KindEmbedded:
		if typ.Schema == nil {
			return nil, &ExtractionError{Path: path, Err: errors.New("embedded path has no schema")}
		}
		def.Embedded, err = extractSchema(typ.Schema, path)
	case KindObjectID:
		def.Ref = typ.Options.Ref
	}
	if err != nil {
		return nil, err
	}
	return def, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
