package schema

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Instance names reported by [SchemaType.Instance].
const (
	InstanceString   = "String"
	InstanceNumber   = "Number"
	InstanceBoolean  = "Boolean"
	InstanceDate     = "Date"
	InstanceMixed    = "Mixed"
	InstanceObjectID = "ObjectId"
	InstanceUUID     = "UUID"
	InstanceArray    = "Array"
	InstanceEmbedded = "Embedded"
)

// Validator types recorded by the [SchemaType] modifiers.
const (
	ValidatorRequired  = "required"
	ValidatorEnum      = "enum"
	ValidatorMin       = "min"
	ValidatorMax       = "max"
	ValidatorMinLength = "minlength"
	ValidatorMaxLength = "maxlength"
	ValidatorMatch     = "regexp"
)

var instanceAliases = map[string]string{
	"string":      InstanceString,
	"number":      InstanceNumber,
	"int":         InstanceNumber,
	"integer":     InstanceNumber,
	"float":       InstanceNumber,
	"double":      InstanceNumber,
	"boolean":     InstanceBoolean,
	"bool":        InstanceBoolean,
	"date":        InstanceDate,
	"mixed":       InstanceMixed,
	"object":      InstanceMixed,
	"objectid":    InstanceObjectID,
	"uuid":        InstanceUUID,
	"array":       InstanceArray,
	"embedded":    InstanceEmbedded,
	"subdocument": InstanceEmbedded,
}

// NormalizeInstance maps a case-insensitive type name or alias onto its
// canonical instance name. Unknown names are returned unchanged.
func NormalizeInstance(name string) string {
	if instance, ok := instanceAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return instance
	}
	return name
}

// Provider is anything that resolves to a [Schema]: a schema itself or a model exposing one.
type Provider interface {
	Schema() (*Schema, error)
}

// Schema is an ordered set of typed paths.
// Dots in a path name denote nesting, e.g. "detail.main_info".
type Schema struct {
	names []string
	paths map[string]*SchemaType
}

// New creates an empty [Schema].
func New() *Schema {
	return &Schema{paths: make(map[string]*SchemaType)}
}

// Add declares a new path. Paths must be unique and non-empty.
func (s *Schema) Add(name string, typ *SchemaType) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("path name must not be empty")
	case typ == nil:
		return errors.Errorf("path %s has no type", name)
	case strings.TrimSpace(typ.Instance) == "":
		return errors.Errorf("path %s has an empty type name", name)
	}
	if _, exists := s.paths[name]; exists {
		return errors.Errorf("path %s is already declared", name)
	}
	if s.paths == nil {
		s.paths = make(map[string]*SchemaType)
	}
	s.names = append(s.names, name)
	s.paths[name] = typ
	return nil
}

// MustAdd is like [Schema.Add] but panics on error. It returns the schema to allow chaining.
func (s *Schema) MustAdd(name string, typ *SchemaType) *Schema {
	if err := s.Add(name, typ); err != nil {
		panic(err)
	}
	return s
}

// Path returns the type declared for name, or nil.
func (s *Schema) Path(name string) *SchemaType {
	return s.paths[name]
}

// EachPath calls fn for every declared path in declaration order.
func (s *Schema) EachPath(fn func(name string, typ *SchemaType)) {
	for _, name := range s.names {
		fn(name, s.paths[name])
	}
}

// Names returns the declared path names in declaration order.
func (s *Schema) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of declared paths.
func (s *Schema) Len() int {
	return len(s.names)
}

// Schema implements [Provider].
func (s *Schema) Schema() (*Schema, error) {
	if s == nil {
		return nil, errors.New("schema is nil")
	}
	return s, nil
}

// Model is a named [Schema], usually describing a collection.
type Model struct {
	name   string
	schema *Schema
}

// NewModel binds a schema to a model name.
func NewModel(name string, schema *Schema) *Model {
	return &Model{name: name, schema: schema}
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Schema implements [Provider].
func (m *Model) Schema() (*Schema, error) {
	if m == nil || m.schema == nil {
		return nil, errors.New("model has no schema")
	}
	return m.schema, nil
}

// Validator describes a single constraint. Value holds the bound for
// min/max style validators and is opaque otherwise.
type Validator struct {
	Type    string `json:"type" yaml:"type"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// TypeOptions are the per-path options that do not change the type itself.
type TypeOptions struct {
	Lowercase bool
	Uppercase bool
	Trim      bool
	Ref       string
}

// SchemaType describes a single path.
// Arrays carry either a Caster (primitive elements) or a Schema (sub-documents).
// Embedded sub-documents carry a Schema.
type SchemaType struct {
	Instance     string
	Required     bool
	Validators   []Validator
	DefaultValue any
	EnumValues   []any
	Options      TypeOptions
	Schema       *Schema
	Caster       *SchemaType
}

// String creates a string path.
func String() *SchemaType { return &SchemaType{Instance: InstanceString} }

// Number creates a numeric path, bounded with [SchemaType.WithMin] and [SchemaType.WithMax].
func Number() *SchemaType { return &SchemaType{Instance: InstanceNumber} }

// Boolean creates a boolean path.
func Boolean() *SchemaType { return &SchemaType{Instance: InstanceBoolean} }

// Date creates a date path.
func Date() *SchemaType { return &SchemaType{Instance: InstanceDate} }

// Mixed creates a path holding arbitrary untyped data.
func Mixed() *SchemaType { return &SchemaType{Instance: InstanceMixed} }

// ObjectID creates a MongoDB ObjectID path, optionally referencing a model with [SchemaType.WithRef].
func ObjectID() *SchemaType { return &SchemaType{Instance: InstanceObjectID} }

// UUID creates a UUID path.
func UUID() *SchemaType { return &SchemaType{Instance: InstanceUUID} }

// Type creates a path of an arbitrary instance name, normalized with [NormalizeInstance].
func Type(instance string) *SchemaType {
	return &SchemaType{Instance: NormalizeInstance(instance)}
}

// ArrayOf creates an array of primitive elements described by caster.
func ArrayOf(caster *SchemaType) *SchemaType {
	return &SchemaType{Instance: InstanceArray, Caster: caster}
}

// ArrayOfDocuments creates an array of sub-documents described by schema.
func ArrayOfDocuments(schema *Schema) *SchemaType {
	return &SchemaType{Instance: InstanceArray, Schema: schema}
}

// Embedded creates a single nested sub-document described by schema.
func Embedded(schema *Schema) *SchemaType {
	return &SchemaType{Instance: InstanceEmbedded, Schema: schema}
}

// WithRequired marks the path as required.
func (t *SchemaType) WithRequired() *SchemaType {
	t.Required = true
	t.Validators = append(t.Validators, Validator{Type: ValidatorRequired})
	return t
}

// WithEnum restricts the path to values, appending to previously declared ones.
func (t *SchemaType) WithEnum(values ...any) *SchemaType {
	t.EnumValues = append(t.EnumValues, values...)
	t.Validators = append(t.Validators, Validator{Type: ValidatorEnum, Value: slices.Clone(values)})
	return t
}

// WithMin sets the lower bound of a numeric path.
func (t *SchemaType) WithMin(minimum float64) *SchemaType {
	t.Validators = append(t.Validators, Validator{Type: ValidatorMin, Value: minimum})
	return t
}

// WithMax sets the upper bound of a numeric path.
func (t *SchemaType) WithMax(maximum float64) *SchemaType {
	t.Validators = append(t.Validators, Validator{Type: ValidatorMax, Value: maximum})
	return t
}

// WithValidator records an arbitrary validator.
func (t *SchemaType) WithValidator(v Validator) *SchemaType {
	t.Validators = append(t.Validators, v)
	return t
}

// WithLowercase lowercases generated strings.
func (t *SchemaType) WithLowercase() *SchemaType {
	t.Options.Lowercase = true
	return t
}

// WithUppercase uppercases generated strings.
func (t *SchemaType) WithUppercase() *SchemaType {
	t.Options.Uppercase = true
	return t
}

// WithTrim trims surrounding whitespace of generated strings.
func (t *SchemaType) WithTrim() *SchemaType {
	t.Options.Trim = true
	return t
}

// WithDefault records the default value. It is informational only.
func (t *SchemaType) WithDefault(value any) *SchemaType {
	t.DefaultValue = value
	return t
}

// WithRef sets the name of the model an ObjectID path references.
func (t *SchemaType) WithRef(ref string) *SchemaType {
	t.Options.Ref = ref
	return t
}
