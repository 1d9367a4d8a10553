// Package openapi builds [schema.Model] values from component schemas of OpenAPI 3 documents.
package openapi

import (
	"context"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/mimic/pkg/schema"
)

// FromDocument loads and validates the OpenAPI document data and converts
// its components.schemas entry named component into a [schema.Model].
func FromDocument(ctx context.Context, data []byte, component string) (*schema.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load openapi document")
	}
	if err = doc.Validate(ctx,
		openapi3.DisableExamplesValidation(),
		openapi3.DisableSchemaFormatValidation(),
	); err != nil {
		return nil, errors.Wrap(err, "invalid openapi document")
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, errors.New("openapi document has no component schemas")
	}
	ref, found := doc.Components.Schemas[component]
	if !found || ref == nil || ref.Value == nil {
		return nil, errors.Errorf("component schema %q not found, available: %s",
			component, strings.Join(ComponentNames(doc), ", "))
	}
	return FromSchema(ref.Value, component)
}

// ComponentNames returns the sorted names of the document's component schemas.
func ComponentNames(doc *openapi3.T) []string {
	if doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FromSchema converts an object schema into a [schema.Model].
// Object properties are flattened into dotted paths and arrays of objects
// become arrays of sub-documents.
func FromSchema(src *openapi3.Schema, name string) (*schema.Model, error) {
	if !isObject(src) {
		return nil, errors.Errorf("component schema %s must describe an object with properties", name)
	}
	c := &converter{}
	s := schema.New()
	if err := c.properties(s, "", src); err != nil {
		return nil, err
	}
	return schema.NewModel(name, s), nil
}

type converter struct {
	visiting []*openapi3.Schema
}

func (c *converter) properties(s *schema.Schema, prefix string, src *openapi3.Schema) error {
	if slices.Contains(c.visiting, src) {
		return errors.Errorf("schema of %s references itself", strings.TrimSuffix(prefix, "."))
	}
	c.visiting = append(c.visiting, src)
	defer func() { c.visiting = c.visiting[:len(c.visiting)-1] }()

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		property := schemaValue(src.Properties[name])
		if property == nil {
			return errors.Errorf("property %s has no schema", prefix+name)
		}
		if isObject(property) {
			if err := c.properties(s, prefix+name+".", property); err != nil {
				return err
			}
			continue
		}
		typ, err := c.convert(property)
		if err != nil {
			return errors.Wrapf(err, "property %s", prefix+name)
		}
		if slices.Contains(src.Required, name) {
			typ.WithRequired()
		}
		if err = s.Add(prefix+name, typ); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) convert(src *openapi3.Schema) (*schema.SchemaType, error) {
	var typ *schema.SchemaType
	switch primaryType(src) {
	case openapi3.TypeString:
		typ = stringType(src.Format)
		if src.MinLength > 0 {
			typ.WithValidator(schema.Validator{Type: schema.ValidatorMinLength, Value: int(src.MinLength)})
		}
		if src.MaxLength != nil {
			typ.WithValidator(schema.Validator{Type: schema.ValidatorMaxLength, Value: int(*src.MaxLength)})
		}
		if src.Pattern != "" {
			typ.WithValidator(schema.Validator{Type: schema.ValidatorMatch, Value: src.Pattern})
		}
	case openapi3.TypeInteger, openapi3.TypeNumber:
		typ = schema.Number()
		if src.Min != nil {
			typ.WithMin(*src.Min)
		}
		if src.Max != nil {
			typ.WithMax(*src.Max)
		}
	case openapi3.TypeBoolean:
		typ = schema.Boolean()
	case openapi3.TypeArray:
		return c.array(src)
	default:
		typ = schema.Mixed()
	}
	if len(src.Enum) > 0 {
		typ.WithEnum(src.Enum...)
	}
	if src.Default != nil {
		typ.WithDefault(src.Default)
	}
	return typ, nil
}

func (c *converter) array(src *openapi3.Schema) (*schema.SchemaType, error) {
	items := schemaValue(src.Items)
	if items == nil {
		return schema.ArrayOf(schema.Mixed()), nil
	}
	if isObject(items) {
		sub := schema.New()
		if err := c.properties(sub, "", items); err != nil {
			return nil, err
		}
		return schema.ArrayOfDocuments(sub), nil
	}
	caster, err := c.convert(items)
	if err != nil {
		return nil, errors.Wrap(err, "array items")
	}
	return schema.ArrayOf(caster), nil
}

func schemaValue(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

func stringType(format string) *schema.SchemaType {
	switch strings.ToLower(format) {
	case "date", "date-time":
		return schema.Date()
	case "uuid":
		return schema.UUID()
	case "objectid":
		return schema.ObjectID()
	default:
		return schema.String()
	}
}

// primaryType returns the first declared type other than "null".
func primaryType(src *openapi3.Schema) string {
	if src.Type != nil {
		for _, t := range src.Type.Slice() {
			if t != "null" {
				return t
			}
		}
	}
	if len(src.Properties) > 0 {
		return openapi3.TypeObject
	}
	return ""
}

func isObject(src *openapi3.Schema) bool {
	return src != nil && primaryType(src) == openapi3.TypeObject && len(src.Properties) > 0
}
