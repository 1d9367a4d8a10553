package mimic

import (
	"strings"

	"github.com/pkg/errors"
)

// CustomValue is either a [Literal] or a [Callable].
type CustomValue interface {
	customValue()
}

// Literal is returned verbatim every time the field is generated.
// A nil Value produces an explicit nil.
type Literal struct {
	Value any
}

// Callable is invoked anew every time the field is generated.
type Callable func() any

func (Literal) customValue()  {}
func (Callable) customValue() {}

// CustomField overrides generation of a single path.
// Value takes precedence over Type.
type CustomField struct {
	Value CustomValue `json:"-"`
	// Type references a fake library generator as "namespace.name", e.g. "internet.email".
	Type string `json:"type,omitempty"`
}

// CustomLiteral overrides a path with a constant.
func CustomLiteral(value any) CustomField {
	return CustomField{Value: Literal{Value: value}}
}

// CustomFunc overrides a path with the result of fn.
func CustomFunc(fn func() any) CustomField {
	return CustomField{Value: Callable(fn)}
}

// CustomType overrides a path with a fake library generator, e.g. "internet.email".
func CustomType(typ string) CustomField {
	return CustomField{Type: typ}
}

// ValueFunc produces a single field value.
type ValueFunc func() any

// FakeLibrary resolves namespaced generators such as "internet" and "email".
type FakeLibrary interface {
	Lookup(namespace, name string) (func() any, error)
}

// ResolveCustom turns a [CustomField] into a generator.
// It returns a nil [ValueFunc] and no error when the field defines neither a value nor a type.
func ResolveCustom(field CustomField, lib FakeLibrary) (ValueFunc, error) {
	return resolveCustom("", field, lib)
}

func resolveCustom(path string, field CustomField, lib FakeLibrary) (ValueFunc, error) {
	switch value := field.Value.(type) {
	case Literal:
		return func() any { return value.Value }, nil
	case Callable:
		if value == nil {
			return nil, &ConfigurationError{Path: path, Reason: "custom function must not be nil"}
		}
		return ValueFunc(value), nil
	case nil:
	default:
		return nil, &ConfigurationError{Path: path, Reason: "unsupported custom value", Err: errors.Errorf("%T", value)}
	}
	if field.Type == "" {
		return nil, nil
	}
	if lib == nil {
		return nil, &ConfigurationError{Path: path, Reason: "invalid data type", Err: errors.New("no fake library configured")}
	}
	namespace, name, _ := strings.Cut(field.Type, ".")
	gen, err := lib.Lookup(namespace, name)
	if err != nil {
		return nil, &ConfigurationError{
			Path:   path,
			Reason: "invalid data type",
			Err:    errors.Wrapf(err, "custom type %q", field.Type),
		}
	}
	return ValueFunc(gen), nil
}
