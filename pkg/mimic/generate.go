package mimic

import (
	"maps"
	"math/rand"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/mimic/internal/pathutils"
	"github.com/nieomylnieja/mimic/pkg/fake"
)

// GenerateDocument generates a single [Document] from paths.
//
// For every path, in sorted order, the first matching rule decides its value:
//  1. ignored paths are omitted,
//  2. enum paths get a random member of the enum,
//  3. embedded paths get a generated sub-document,
//  4. array paths get 1 to max array length generated elements,
//  5. custom paths get the value of their custom generator,
//  6. all other paths get the default value of their [Kind].
//
// Lowercase, uppercase and trim filters are then applied to string values.
func GenerateDocument(paths PathDefinitions, opts ...GenerateOption) (Document, error) {
	documents, err := GenerateDocuments(paths, 1, opts...)
	if err != nil {
		return nil, err
	}
	return documents[0], nil
}

// GenerateDocuments generates n documents sharing a single random source.
func GenerateDocuments(paths PathDefinitions, n int, opts ...GenerateOption) ([]Document, error) {
	if n < 0 {
		return nil, &ConfigurationError{Reason: "invalid documents count", Err: errors.Errorf("%d is negative", n)}
	}
	gen, err := newGenerator(paths, opts...)
	if err != nil {
		return nil, err
	}
	documents := make([]Document, 0, n)
	for range n {
		doc, err := gen.document(paths, "")
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

type generator struct {
	options    generateOptions
	rng        *rand.Rand
	custom     map[string]ValueFunc
	primitives map[Kind]PrimitiveFunc
}

func newGenerator(paths PathDefinitions, opts ...GenerateOption) (*generator, error) {
	options := defaultGenerateOptions()
	for _, opt := range opts {
		options = opt(options)
	}
	if err := validateOptions(options); err != nil {
		return nil, err
	}
	if err := validateDefinitions(paths, ""); err != nil {
		return nil, err
	}
	rng := options.rng
	if rng == nil {
		rng = newRand()
	}
	faker := fake.New(rng, fake.WithNow(options.now))
	lib := options.fakeLibrary
	if lib == nil {
		lib = faker
	}
	primitives := defaultPrimitives(faker)
	for kind, fn := range options.primitives {
		if fn == nil {
			delete(primitives, kind)
			continue
		}
		primitives[kind] = fn
	}
	// Custom generators are resolved upfront, a bad one fails before any value is generated.
	custom := make(map[string]ValueFunc, len(options.custom))
	for _, path := range slices.Sorted(maps.Keys(options.custom)) {
		fn, err := resolveCustom(path, options.custom[path], lib)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			custom[path] = fn
		}
	}
	return &generator{
		options:    options,
		rng:        rng,
		custom:     custom,
		primitives: primitives,
	}, nil
}

func defaultPrimitives(f *fake.Faker) map[Kind]PrimitiveFunc {
	return map[Kind]PrimitiveFunc{
		KindString:   func(*PathDefinition) any { return f.String() },
		KindNumber:   func(def *PathDefinition) any { return f.Number(def.Min, def.Max) },
		KindBoolean:  func(*PathDefinition) any { return f.Boolean() },
		KindDate:     func(*PathDefinition) any { return f.Date() },
		KindMixed:    func(*PathDefinition) any { return f.Mixed() },
		KindObjectID: func(*PathDefinition) any { return f.ObjectID() },
		KindUUID:     func(*PathDefinition) any { return f.UUID() },
	}
}

// document generates the fields of definitions. Prefix is the absolute path
// of the document, empty for the root.
func (g *generator) document(definitions PathDefinitions, prefix string) (Document, error) {
	doc := make(Document, len(definitions))
	for _, key := range definitions.Paths() {
		path := pathutils.Join(prefix, key)
		if g.isIgnored(path) {
			continue
		}
		value, err := g.value(path, definitions[key])
		if err != nil {
			return nil, err
		}
		doc.set(key, value)
	}
	return doc, nil
}

func (g *generator) isIgnored(path string) bool {
	if slices.Contains(g.options.ignore, path) {
		return true
	}
	for _, pattern := range g.options.ignorePatterns {
		if pattern.MatchString(path) {
			return true
		}
	}
	return false
}

func (g *generator) value(path string, def *PathDefinition) (any, error) {
	if def.IsEnum {
		return def.Enum[g.rng.Intn(len(def.Enum))], nil
	}
	switch def.Node() {
	case NodeEmbedded:
		sub, err := g.document(def.Embedded, path)
		if err != nil {
			return nil, err
		}
		return map[string]any(sub), nil
	case NodeArray:
		return g.array(path, def.Array)
	case NodeScalar:
		return g.scalar(path, def)
	default:
		return nil, errors.Errorf("unexpected node kind %s", def.Node())
	}
}

func (g *generator) array(path string, def *ArrayDefinition) ([]any, error) {
	n := 1 + g.rng.Intn(g.options.maxArrayLength)
	items := make([]any, 0, n)
	for range n {
		var (
			item any
			err  error
		)
		if def.Document != nil {
			var sub Document
			if sub, err = g.document(def.Document, path); err == nil {
				item = map[string]any(sub)
			}
		} else {
			// Elements share the array's path, its enum and custom generator apply per element.
			item, err = g.value(path, def.Element)
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (g *generator) scalar(path string, def *PathDefinition) (any, error) {
	var value any
	if fn, ok := g.custom[path]; ok {
		value = fn()
	} else {
		primitive, ok := g.primitives[def.Type]
		if !ok {
			return nil, &ConfigurationError{
				Path:   path,
				Reason: "no generator registered for type " + string(def.Type),
			}
		}
		value = primitive(def)
		if date, isDate := value.(time.Time); isDate && def.Type == KindDate && !g.options.returnDate {
			value = date.Format(time.RFC3339)
		}
	}
	if g.options.applyFilter {
		value = applyFilters(value, def)
	}
	return value, nil
}
