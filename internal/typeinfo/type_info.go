package typeinfo

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Class groups Go types by the schema instance they map onto.
type Class int

const (
	ClassUnsupported Class = iota
	ClassString
	ClassNumber
	ClassBoolean
	ClassTime
	ClassObjectID
	ClassUUID
	ClassBytes
	ClassDynamic
	ClassStruct
	ClassSlice
)

var classNames = map[Class]string{
	ClassUnsupported: "unsupported",
	ClassString:      "string",
	ClassNumber:      "number",
	ClassBoolean:     "boolean",
	ClassTime:        "time",
	ClassObjectID:    "objectid",
	ClassUUID:        "uuid",
	ClassBytes:       "bytes",
	ClassDynamic:     "dynamic",
	ClassStruct:      "struct",
	ClassSlice:       "slice",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// TypeInfo stores the Go type information.
type TypeInfo struct {
	Name    string
	Package string
	Class   Class
}

// Key identifies a named type the same way across packages.
// Builtin and unnamed types are keyed by their name only.
func (t TypeInfo) Key() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// IsNamed reports whether the type was declared in a package.
func (t TypeInfo) IsNamed() bool {
	return t.Package != ""
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	objectIDType = reflect.TypeFor[primitive.ObjectID]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
)

// Get returns the information for the [reflect.Type].
// Pointer indicators are stripped, so *T and T produce the same TypeInfo.
func Get(typ reflect.Type) TypeInfo {
	typ = Indirect(typ)
	if typ == nil {
		return TypeInfo{}
	}
	result := TypeInfo{
		Name:    typ.Name(),
		Package: typ.PkgPath(),
		Class:   classify(typ),
	}
	if result.Name == "" {
		result.Name = typ.String()
	}
	return result
}

// Indirect strips any number of pointer indirections from typ.
func Indirect(typ reflect.Type) reflect.Type {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func classify(typ reflect.Type) Class {
	switch typ {
	case timeType:
		return ClassTime
	case objectIDType:
		return ClassObjectID
	case uuidType:
		return ClassUUID
	}
	switch typ.Kind() {
	case reflect.String:
		return ClassString
	case reflect.Bool:
		return ClassBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ClassNumber
	case reflect.Interface, reflect.Map:
		return ClassDynamic
	case reflect.Struct:
		return ClassStruct
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			return ClassBytes
		}
		return ClassSlice
	default:
		return ClassUnsupported
	}
}
