package mimic

import (
	"maps"
	"math/rand"
	"regexp"
	"time"
)

// DefaultMaxArrayLength is the upper bound of generated array lengths.
const DefaultMaxArrayLength = 15

// PrimitiveFunc generates the default value of a scalar path.
type PrimitiveFunc func(def *PathDefinition) any

// generateOptions contains options for configuring the behavior of [GenerateDocument].
type generateOptions struct {
	ignore         []string
	ignorePatterns []*regexp.Regexp
	custom         map[string]CustomField
	returnDate     bool
	applyFilter    bool
	rng            *rand.Rand
	now            func() time.Time
	maxArrayLength int
	primitives     map[Kind]PrimitiveFunc
	fakeLibrary    FakeLibrary
}

func defaultGenerateOptions() generateOptions {
	return generateOptions{
		returnDate:     true,
		applyFilter:    true,
		maxArrayLength: DefaultMaxArrayLength,
	}
}

type GenerateOption func(options generateOptions) generateOptions

// WithIgnore omits the fields whose dotted path equals one of paths.
// Paths are absolute, fields of embedded documents are addressed as "address.street".
func WithIgnore(paths ...string) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.ignore = append(options.ignore, paths...)
		return options
	}
}

// WithIgnorePatterns omits the fields whose dotted path matches one of patterns.
func WithIgnorePatterns(patterns ...*regexp.Regexp) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.ignorePatterns = append(options.ignorePatterns, patterns...)
		return options
	}
}

// WithCustom overrides generation of the field at path.
// Primitive array elements share the path of their array.
func WithCustom(path string, field CustomField) GenerateOption {
	return func(options generateOptions) generateOptions {
		custom := maps.Clone(options.custom)
		if custom == nil {
			custom = make(map[string]CustomField)
		}
		custom[path] = field
		options.custom = custom
		return options
	}
}

// WithReturnDate controls whether dates are returned as [time.Time] (the default)
// or as [time.RFC3339] strings.
func WithReturnDate(returnDate bool) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.returnDate = returnDate
		return options
	}
}

// WithApplyFilter controls whether lowercase, uppercase and trim filters are applied
// to string values. Enabled by default.
func WithApplyFilter(applyFilter bool) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.applyFilter = applyFilter
		return options
	}
}

// WithRand sets the random source used for every generated value.
// [rand.Rand] is not safe for concurrent use, each goroutine needs its own.
func WithRand(rng *rand.Rand) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.rng = rng
		return options
	}
}

// WithSeed is a shorthand for [WithRand] with a source seeded with seed.
func WithSeed(seed int64) GenerateOption {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithNow sets the clock that dates and ObjectID timestamps are derived from.
// Together with [WithSeed] it makes generated documents fully reproducible.
// Defaults to [time.Now].
func WithNow(now func() time.Time) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.now = now
		return options
	}
}

// WithMaxArrayLength sets the upper bound of generated array lengths, must be at least 1.
func WithMaxArrayLength(n int) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.maxArrayLength = n
		return options
	}
}

// WithPrimitive registers fn as the default generator of kind.
// A nil fn removes the generator, fields of that kind then fail to generate.
func WithPrimitive(kind Kind, fn PrimitiveFunc) GenerateOption {
	return func(options generateOptions) generateOptions {
		primitives := maps.Clone(options.primitives)
		if primitives == nil {
			primitives = make(map[Kind]PrimitiveFunc)
		}
		primitives[kind] = fn
		options.primitives = primitives
		return options
	}
}

// WithFakeLibrary sets the library resolving custom field types.
// Defaults to the [fake.Faker] sharing the generator's random source.
func WithFakeLibrary(lib FakeLibrary) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.fakeLibrary = lib
		return options
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
