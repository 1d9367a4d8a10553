package mimic

import (
	"slices"
	"strings"

	"github.com/nieomylnieja/mimic/pkg/schema"
)

// Kind is the semantic type of a path.
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindDate     Kind = "date"
	KindMixed    Kind = "mixed"
	KindObjectID Kind = "objectid"
	KindUUID     Kind = "uuid"
	KindArray    Kind = "array"
	KindEmbedded Kind = "embedded"
)

var instanceKinds = map[string]Kind{
	schema.InstanceString:   KindString,
	schema.InstanceNumber:   KindNumber,
	schema.InstanceBoolean:  KindBoolean,
	schema.InstanceDate:     KindDate,
	schema.InstanceMixed:    KindMixed,
	schema.InstanceObjectID: KindObjectID,
	schema.InstanceUUID:     KindUUID,
	schema.InstanceArray:    KindArray,
	schema.InstanceEmbedded: KindEmbedded,
}

// kindOf maps a schema instance name onto a [Kind].
// Unknown instances are kept verbatim so that generation can report them.
func kindOf(instance string) Kind {
	if kind, ok := instanceKinds[schema.NormalizeInstance(instance)]; ok {
		return kind
	}
	return Kind(strings.TrimSpace(instance))
}

// NodeKind tells the generator how to walk a [PathDefinition].
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeArray
	NodeEmbedded
)

func (n NodeKind) String() string {
	switch n {
	case NodeArray:
		return "array"
	case NodeEmbedded:
		return "embedded"
	default:
		return "scalar"
	}
}

// PathDefinition is the normalized description of a single schema path.
type PathDefinition struct {
	Type       Kind
	Required   bool
	Validators []schema.Validator
	// Default is informational, generation never uses it.
	Default any

	IsEnum bool
	Enum   []any

	Lowercase bool
	Uppercase bool
	Trim      bool

	Min *float64
	Max *float64

	IsArray bool
	Array   *ArrayDefinition

	Embedded PathDefinitions

	Ref string
}

// Node returns the shape of the definition, decided by its [Kind].
func (d *PathDefinition) Node() NodeKind {
	switch d.Type {
	case KindArray:
		return NodeArray
	case KindEmbedded:
		return NodeEmbedded
	default:
		return NodeScalar
	}
}

// ArrayDefinition describes array elements.
// Exactly one of Element (primitive elements) and Document (sub-documents) is set.
type ArrayDefinition struct {
	Element  *PathDefinition
	Document PathDefinitions
}

// PathDefinitions maps dotted paths onto their definitions.
// It is never modified once extracted and can be shared between goroutines.
type PathDefinitions map[string]*PathDefinition

// Paths returns the sorted paths.
func (p PathDefinitions) Paths() []string {
	paths := make([]string, 0, len(p))
	for path := range p {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
