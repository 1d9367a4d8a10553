package schema

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/mimic/internal/godoc"
	"github.com/nieomylnieja/mimic/internal/typeinfo"
)

// EnumResolver supplies enum values for named Go types.
type EnumResolver interface {
	EnumValues(typ reflect.Type) (values []string, found bool, err error)
}

// typeOptions contains options for configuring the behavior of [FromType].
type typeOptions struct {
	tagName    string
	enums      EnumResolver
	goDocEnums bool
	goDocDir   string
}

type TypeOption func(options typeOptions) typeOptions

// WithTagName sets the struct tag used for path names. Defaults to "bson",
// falling back to "json" and then to the lowercased field name.
func WithTagName(name string) TypeOption {
	return func(options typeOptions) typeOptions {
		options.tagName = name
		return options
	}
}

// WithEnumResolver resolves enum values of named field types with r.
func WithEnumResolver(r EnumResolver) TypeOption {
	return func(options typeOptions) typeOptions {
		options.enums = r
		return options
	}
}

// WithGoDocEnums reads go-enum style "ENUM(A, B)" declarations from the doc
// comments of named field types. The packages of the Go module containing dir
// (or the working directory if dir is empty) are loaded to find them.
func WithGoDocEnums(dir string) TypeOption {
	return func(options typeOptions) typeOptions {
		options.goDocEnums = true
		options.goDocDir = dir
		return options
	}
}

// FromStruct builds a [Model] from the struct type T.
func FromStruct[T any](opts ...TypeOption) (*Model, error) {
	return FromType(reflect.TypeFor[T](), opts...)
}

// FromType builds a [Model] from a struct type.
// Each exported field becomes a path; tags control the mapping:
//
//	Name   string    `bson:"name" mimic:"required,lowercase,trim"`
//	Score  float64   `bson:"score" mimic:"min=0,max=100"`
//	Kind   string    `bson:"kind" mimic:"enum=a|b|c"`
//	Parent ObjectID  `bson:"parent" mimic:"ref=Parent"`
//	Home   *Address  `bson:"home" mimic:"embedded"`
//
// Nested structs are flattened into dotted paths unless tagged "embedded",
// structs tagged `bson:",inline"` are merged into the parent and
// slices of structs become arrays of sub-documents.
func FromType(typ reflect.Type, opts ...TypeOption) (*Model, error) {
	options := typeOptions{tagName: "bson"}
	for _, opt := range opts {
		options = opt(options)
	}
	typ = typeinfo.Indirect(typ)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, errors.Errorf("expected a struct type, got %v", typ)
	}
	if options.goDocEnums && options.enums == nil {
		parser, err := godoc.NewParser(options.goDocDir)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Go doc parser")
		}
		options.enums = parser
	}
	mapper := newStructMapper(options)
	schema := New()
	if err := mapper.enter(schema, typ, ""); err != nil {
		return nil, err
	}
	return NewModel(typ.Name(), schema), nil
}

func newStructMapper(options typeOptions) *structMapper {
	return &structMapper{options: options}
}

type structMapper struct {
	options typeOptions
	// visiting guards against self-referencing types.
	visiting []reflect.Type
}

func (m *structMapper) Map(schema *Schema, typ reflect.Type, prefix string) error {
	for i := range typ.NumField() {
		field := typ.Field(i)
		name, inline, skip := m.fieldName(field)
		if skip {
			continue
		}
		tag, err := parseFieldTag(field.Tag.Get("mimic"))
		if err != nil {
			return errors.Wrapf(err, "field %s.%s", typ.Name(), field.Name)
		}
		if tag.skip {
			continue
		}
		fieldType := typeinfo.Indirect(field.Type)
		info := typeinfo.Get(fieldType)
		// Embedded structs without an explicit name are promoted into the parent.
		if field.Anonymous && name == "" && info.Class == typeinfo.ClassStruct {
			inline = true
		}
		if !field.IsExported() && !inline {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		switch {
		case inline && info.Class == typeinfo.ClassStruct:
			if err = m.enter(schema, fieldType, prefix); err != nil {
				return err
			}
			continue
		case info.Class == typeinfo.ClassStruct && !tag.embedded:
			if err = m.enter(schema, fieldType, prefix+name+"."); err != nil {
				return err
			}
			continue
		}
		path := prefix + name
		schemaType, err := m.schemaType(fieldType, tag)
		if err != nil {
			return errors.Wrapf(err, "field %s", path)
		}
		if err = schema.Add(path, schemaType); err != nil {
			return err
		}
	}
	return nil
}

func (m *structMapper) enter(schema *Schema, typ reflect.Type, prefix string) error {
	for _, visited := range m.visiting {
		if visited == typ {
			return errors.Errorf("type %s references itself", typ)
		}
	}
	m.visiting = append(m.visiting, typ)
	defer func() { m.visiting = m.visiting[:len(m.visiting)-1] }()
	return m.Map(schema, typ, prefix)
}

func (m *structMapper) subSchema(typ reflect.Type) (*Schema, error) {
	sub := New()
	if err := m.enter(sub, typ, ""); err != nil {
		return nil, err
	}
	return sub, nil
}

func (m *structMapper) schemaType(typ reflect.Type, tag fieldTag) (*SchemaType, error) {
	info := typeinfo.Get(typ)
	var schemaType *SchemaType
	switch info.Class {
	case typeinfo.ClassString:
		schemaType = String()
	case typeinfo.ClassNumber:
		schemaType = Number()
	case typeinfo.ClassBoolean:
		schemaType = Boolean()
	case typeinfo.ClassTime:
		schemaType = Date()
	case typeinfo.ClassObjectID:
		schemaType = ObjectID()
	case typeinfo.ClassUUID:
		schemaType = UUID()
	case typeinfo.ClassDynamic:
		schemaType = Mixed()
	case typeinfo.ClassBytes:
		schemaType = &SchemaType{Instance: "Buffer"}
	case typeinfo.ClassStruct:
		sub, err := m.subSchema(typ)
		if err != nil {
			return nil, err
		}
		schemaType = Embedded(sub)
	case typeinfo.ClassSlice:
		elem := typeinfo.Indirect(typ.Elem())
		if typeinfo.Get(elem).Class == typeinfo.ClassStruct {
			sub, err := m.subSchema(elem)
			if err != nil {
				return nil, err
			}
			schemaType = ArrayOfDocuments(sub)
			break
		}
		// Element constraints live on the caster, the array only keeps "required".
		caster, err := m.schemaType(elem, tag.withoutRequired())
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}
		schemaType = ArrayOf(caster)
		if tag.required {
			schemaType.WithRequired()
		}
		return schemaType, nil
	default:
		return nil, errors.Errorf("unsupported type %s", info.Name)
	}
	if err := m.applyEnumDocs(schemaType, typ, tag); err != nil {
		return nil, err
	}
	tag.apply(schemaType)
	return schemaType, nil
}

func (m *structMapper) applyEnumDocs(schemaType *SchemaType, typ reflect.Type, tag fieldTag) error {
	if m.options.enums == nil || len(tag.enum) > 0 || schemaType.Instance != InstanceString {
		return nil
	}
	values, found, err := m.options.enums.EnumValues(typ)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve enum values of %s", typ)
	}
	if found {
		enum := make([]any, 0, len(values))
		for _, v := range values {
			enum = append(enum, v)
		}
		schemaType.WithEnum(enum...)
	}
	return nil
}

// fieldName returns the tagged path name of the field (empty if no tag names it),
// whether the field is inlined and whether it is excluded with "-".
func (m *structMapper) fieldName(field reflect.StructField) (name string, inline, skip bool) {
	for _, tagName := range []string{m.options.tagName, "json"} {
		value, ok := field.Tag.Lookup(tagName)
		if !ok {
			continue
		}
		tagged, opts, _ := strings.Cut(value, ",")
		if tagged == "-" {
			return "", false, true
		}
		inline = tagName == "bson" && strings.Contains(","+opts+",", ",inline,")
		if tagged != "" || inline {
			return tagged, inline, false
		}
	}
	return "", false, false
}

type fieldTag struct {
	skip      bool
	required  bool
	lowercase bool
	uppercase bool
	trim      bool
	embedded  bool
	enum      []any
	min       *float64
	max       *float64
	ref       string
}

func parseFieldTag(tag string) (fieldTag, error) {
	var result fieldTag
	if tag == "-" {
		result.skip = true
		return result, nil
	}
	for _, part := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "":
		case "required":
			result.required = true
		case "lowercase":
			result.lowercase = true
		case "uppercase":
			result.uppercase = true
		case "trim":
			result.trim = true
		case "embedded":
			result.embedded = true
		case "ref":
			result.ref = value
		case "enum":
			for _, v := range strings.Split(value, "|") {
				result.enum = append(result.enum, v)
			}
		case "min", "max":
			bound, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return result, errors.Wrapf(err, "invalid %s value %q", key, value)
			}
			if key == "min" {
				result.min = &bound
			} else {
				result.max = &bound
			}
		default:
			return result, errors.Errorf("unknown mimic tag option %q", key)
		}
	}
	return result, nil
}

func (f fieldTag) withoutRequired() fieldTag {
	f.required = false
	return f
}

func (f fieldTag) apply(t *SchemaType) {
	if f.required {
		t.WithRequired()
	}
	if len(f.enum) > 0 {
		t.WithEnum(f.enum...)
	}
	if f.min != nil {
		t.WithMin(*f.min)
	}
	if f.max != nil {
		t.WithMax(*f.max)
	}
	if f.lowercase {
		t.WithLowercase()
	}
	if f.uppercase {
		t.WithUppercase()
	}
	if f.trim {
		t.WithTrim()
	}
	if f.ref != "" {
		t.WithRef(f.ref)
	}
}
