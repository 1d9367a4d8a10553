package schema

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse decodes a declarative schema document (YAML or JSON):
//
//	name: Student
//	fields:
//	  name: {type: String, required: true, lowercase: true, trim: true}
//	  gender: {type: String, enum: [Male, Female]}
//	  results:
//	    - score: Number
//	      course: Number
//	  tags: [String]
//	  detail:
//	    main_info: String
//	  parent: {type: ObjectId, ref: Parent}
//	  address: {schema: {street: String, city: String}}
//
// Nested plain objects are flattened into dotted paths, "schema" declares an
// embedded sub-document and a sequence declares an array whose first item
// describes the elements. Field declaration order is preserved.
func Parse(data []byte) (*Model, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "failed to decode schema document")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("schema document is empty")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: schema document must be a mapping", doc.Line)
	}
	var (
		name   string
		fields *yaml.Node
	)
	for key, value := range mappingPairs(doc) {
		switch key.Value {
		case "name":
			if err := value.Decode(&name); err != nil {
				return nil, errors.Wrap(err, "failed to decode schema name")
			}
		case "fields":
			fields = value
		}
	}
	if fields == nil {
		return nil, errors.New("schema document has no fields")
	}
	schema := New()
	if err := parseFields(schema, "", fields); err != nil {
		return nil, err
	}
	return NewModel(name, schema), nil
}

// LoadFile reads and parses a schema document. The model is named after the
// file when the document does not declare a name.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	model, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if model.name == "" {
		model.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return model, nil
}

func parseFields(schema *Schema, prefix string, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: expected a mapping of fields", node.Line)
	}
	for key, value := range mappingPairs(node) {
		name := prefix + key.Value
		if isPlainObject(value) {
			if err := parseFields(schema, name+".", value); err != nil {
				return err
			}
			continue
		}
		typ, err := parseType(value)
		if err != nil {
			return errors.Wrapf(err, "field %s", name)
		}
		if err = schema.Add(name, typ); err != nil {
			return err
		}
	}
	return nil
}

func parseType(node *yaml.Node) (*SchemaType, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" || strings.TrimSpace(node.Value) == "" {
			return nil, errors.Errorf("line %d: type name must not be empty", node.Line)
		}
		return Type(node.Value), nil
	case yaml.SequenceNode:
		return parseArray(node)
	case yaml.MappingNode:
		return parseTypedDeclaration(node)
	case yaml.AliasNode:
		return parseType(node.Alias)
	default:
		return nil, errors.Errorf("line %d: unsupported type declaration", node.Line)
	}
}

func parseArray(node *yaml.Node) (*SchemaType, error) {
	if len(node.Content) == 0 {
		return ArrayOf(Mixed()), nil
	}
	elem := node.Content[0]
	if isPlainObject(elem) {
		sub := New()
		if err := parseFields(sub, "", elem); err != nil {
			return nil, err
		}
		return ArrayOfDocuments(sub), nil
	}
	if schemaNode := mappingValue(elem, "schema"); schemaNode != nil {
		sub := New()
		if err := parseFields(sub, "", schemaNode); err != nil {
			return nil, err
		}
		return ArrayOfDocuments(sub), nil
	}
	caster, err := parseType(elem)
	if err != nil {
		return nil, errors.Wrap(err, "array element")
	}
	return ArrayOf(caster), nil
}

func parseTypedDeclaration(node *yaml.Node) (*SchemaType, error) {
	var typ *SchemaType
	switch typeNode, schemaNode := mappingValue(node, "type"), mappingValue(node, "schema"); {
	case typeNode == nil && schemaNode == nil:
		return nil, errors.Errorf("line %d: declaration has neither a type nor a schema", node.Line)
	case schemaNode != nil:
		sub := New()
		if err := parseFields(sub, "", schemaNode); err != nil {
			return nil, err
		}
		typ = Embedded(sub)
	case typeNode.Kind == yaml.MappingNode:
		// An object literal as a type is untyped data.
		typ = Mixed()
	default:
		var err error
		if typ, err = parseType(typeNode); err != nil {
			return nil, err
		}
	}
	// Modifiers of an array declaration apply to its elements, except required.
	target := typ
	if typ.Caster != nil {
		target = typ.Caster
	}
	for key, value := range mappingPairs(node) {
		var err error
		switch key.Value {
		case "required":
			var required bool
			if err = value.Decode(&required); err == nil && required {
				typ.WithRequired()
			}
		case "enum":
			var values []any
			if err = value.Decode(&values); err == nil {
				target.WithEnum(values...)
			}
		case "lowercase":
			err = value.Decode(&target.Options.Lowercase)
		case "uppercase":
			err = value.Decode(&target.Options.Uppercase)
		case "trim":
			err = value.Decode(&target.Options.Trim)
		case "min":
			var minimum float64
			if err = value.Decode(&minimum); err == nil {
				target.WithMin(minimum)
			}
		case "max":
			var maximum float64
			if err = value.Decode(&maximum); err == nil {
				target.WithMax(maximum)
			}
		case "minlength":
			var length int
			if err = value.Decode(&length); err == nil {
				target.WithValidator(Validator{Type: ValidatorMinLength, Value: length})
			}
		case "maxlength":
			var length int
			if err = value.Decode(&length); err == nil {
				target.WithValidator(Validator{Type: ValidatorMaxLength, Value: length})
			}
		case "match":
			var pattern string
			if err = value.Decode(&pattern); err == nil {
				target.WithValidator(Validator{Type: ValidatorMatch, Value: pattern})
			}
		case "default":
			var defaultValue any
			if err = value.Decode(&defaultValue); err == nil {
				typ.WithDefault(defaultValue)
			}
		case "ref":
			err = value.Decode(&target.Options.Ref)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: invalid %s option", value.Line, key.Value)
		}
	}
	return typ, nil
}

// isPlainObject reports whether node is a nested object declaration
// rather than a typed one.
func isPlainObject(node *yaml.Node) bool {
	return node.Kind == yaml.MappingNode &&
		mappingValue(node, "type") == nil &&
		mappingValue(node, "schema") == nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for k, v := range mappingPairs(node) {
		if k.Value == key {
			return v
		}
	}
	return nil
}

// mappingPairs iterates over key/value pairs of a mapping node in document order.
func mappingPairs(node *yaml.Node) func(yield func(key, value *yaml.Node) bool) {
	return func(yield func(key, value *yaml.Node) bool) {
		if node == nil || node.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i], node.Content[i+1]) {
				return
			}
		}
	}
}
