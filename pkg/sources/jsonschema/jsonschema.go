// Package jsonschema builds [schema.Model] values from JSON Schema documents.
//
// Object properties are flattened into dotted paths, arrays of objects become
// arrays of sub-documents and string formats select the instance type:
// "date" and "date-time" map onto Date, "uuid" onto UUID and "objectid" onto ObjectId.
package jsonschema

import (
	"bytes"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nieomylnieja/mimic/pkg/schema"
)

// FromJSON compiles the JSON Schema document data (Draft 7 unless it declares
// its own $schema) registered under url and converts it into a [schema.Model].
// The model is named after the schema title or, without one, after the url.
func FromJSON(url string, data []byte) (*schema.Model, error) {
	compiler := jschema.NewCompiler()
	compiler.Draft = jschema.Draft7
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrapf(err, "failed to add JSON Schema resource %s", url)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile JSON Schema %s", url)
	}
	return FromSchema(compiled, modelName(compiled, url))
}

// FromSchema converts an already compiled JSON Schema of an object into a [schema.Model].
func FromSchema(compiled *jschema.Schema, name string) (*schema.Model, error) {
	c := &converter{}
	root := c.deref(compiled)
	if !isObject(root) {
		return nil, errors.Errorf("root schema %s must describe an object with properties", compiled.Location)
	}
	s := schema.New()
	if err := c.properties(s, "", root); err != nil {
		return nil, err
	}
	return schema.NewModel(name, s), nil
}

func modelName(compiled *jschema.Schema, url string) string {
	if compiled.Title != "" {
		return compiled.Title
	}
	base := path.Base(url)
	return strings.TrimSuffix(base, path.Ext(base))
}

type converter struct {
	visiting []*jschema.Schema
}

func (c *converter) deref(sch *jschema.Schema) *jschema.Schema {
	for sch != nil && sch.Ref != nil {
		sch = sch.Ref
	}
	return sch
}

func (c *converter) enter(sch *jschema.Schema) error {
	if slices.Contains(c.visiting, sch) {
		return errors.Errorf("schema %s references itself", sch.Location)
	}
	c.visiting = append(c.visiting, sch)
	return nil
}

func (c *converter) leave() {
	c.visiting = c.visiting[:len(c.visiting)-1]
}

func (c *converter) properties(s *schema.Schema, prefix string, sch *jschema.Schema) error {
	if err := c.enter(sch); err != nil {
		return err
	}
	defer c.leave()

	names := make([]string, 0, len(sch.Properties))
	for name := range sch.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		property := c.deref(sch.Properties[name])
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
		if slices.Contains(sch.Required, name) {
			typ.WithRequired()
		}
		if err = s.Add(prefix+name, typ); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) convert(sch *jschema.Schema) (*schema.SchemaType, error) {
	var typ *schema.SchemaType
	switch primaryType(sch) {
	case "string":
		typ = stringType(sch.Format)
		if sch.MinLength >= 0 {
			typ.WithValidator(schema.Validator{Type: schema.ValidatorMinLength, Value: sch.MinLength})
		}
		if sch.MaxLength >= 0 {
			typ.WithValidator(schema.Validator{Type: schema.ValidatorMaxLength, Value: sch.MaxLength})
		}
		if sch.Pattern != nil {
			typ.WithValidator(schema.Validator{Type: schema.ValidatorMatch, Value: sch.Pattern.String()})
		}
	case "integer", "number":
		typ = schema.Number()
		if sch.Minimum != nil {
			minimum, _ := sch.Minimum.Float64()
			typ.WithMin(minimum)
		}
		if sch.Maximum != nil {
			maximum, _ := sch.Maximum.Float64()
			typ.WithMax(maximum)
		}
	case "boolean":
		typ = schema.Boolean()
	case "array":
		return c.array(sch)
	default:
		typ = schema.Mixed()
	}
	if len(sch.Enum) > 0 {
		typ.WithEnum(sch.Enum...)
	}
	if sch.Default != nil {
		typ.WithDefault(sch.Default)
	}
	return typ, nil
}

func (c *converter) array(sch *jschema.Schema) (*schema.SchemaType, error) {
	var items *jschema.Schema
	switch v := sch.Items.(type) {
	case *jschema.Schema:
		items = v
	case []*jschema.Schema:
		if len(v) > 0 {
			items = v[0]
		}
	}
	if items == nil {
		items = sch.Items2020
	}
	items = c.deref(items)
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
	if err := c.enter(sch); err != nil {
		return nil, err
	}
	defer c.leave()
	caster, err := c.convert(items)
	if err != nil {
		return nil, errors.Wrap(err, "array items")
	}
	return schema.ArrayOf(caster), nil
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
func primaryType(sch *jschema.Schema) string {
	for _, t := range sch.Types {
		if t != "null" {
			return t
		}
	}
	if len(sch.Properties) > 0 {
		return "object"
	}
	return ""
}

func isObject(sch *jschema.Schema) bool {
	return sch != nil && primaryType(sch) == "object" && len(sch.Properties) > 0
}
