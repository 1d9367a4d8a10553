// Package fake produces random primitive values and named fake values
// ("internet.email", "address.city") from a single injectable random source.
package fake

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultNumberRange is the width of the [Faker.Number] range when a bound is missing.
const DefaultNumberRange = 80

// maxIntSpan is the widest range whose integers are drawn with int64 arithmetic.
const maxIntSpan = float64(1 << 62)

// Faker is not safe for concurrent use, it shares the underlying [rand.Rand].
type Faker struct {
	rng   *rand.Rand
	faker faker.Faker
	now   func() time.Time
}

// fakerOptions contains options for configuring the behavior of [New].
type fakerOptions struct {
	now func() time.Time
}

type Option func(options fakerOptions) fakerOptions

// WithNow sets the clock that dates and ObjectID timestamps are derived from.
// Defaults to [time.Now].
func WithNow(now func() time.Time) Option {
	return func(options fakerOptions) fakerOptions {
		options.now = now
		return options
	}
}

// New creates a [Faker] drawing every value from rng.
// A nil rng is replaced with a time-seeded source.
func New(rng *rand.Rand, opts ...Option) *Faker {
	options := fakerOptions{now: time.Now}
	for _, opt := range opts {
		options = opt(options)
	}
	if options.now == nil {
		options.now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Faker{
		rng:   rng,
		faker: faker.NewWithSeed(rng),
		now:   options.now,
	}
}

// String returns an internet user name.
func (f *Faker) String() string {
	return f.faker.Internet().User()
}

// Number returns an int within the inclusive [minimum, maximum] range.
// A missing bound lies [DefaultNumberRange] away from the other one, with no bounds
// the range is [0, DefaultNumberRange]. Inverted bounds collapse onto the minimum.
// When no integer fits between fractional bounds, or the integer is too large
// for an int, a float64 within them is returned.
func (f *Faker) Number(minimum, maximum *float64) any {
	lo, hi := 0.0, float64(DefaultNumberRange)
	switch {
	case minimum != nil && maximum != nil:
		lo, hi = *minimum, *maximum
	case minimum != nil:
		lo, hi = *minimum, *minimum+DefaultNumberRange
	case maximum != nil:
		lo, hi = *maximum-DefaultNumberRange, *maximum
	}
	if hi < lo {
		hi = lo
	}
	intLo, intHi := math.Ceil(lo), math.Floor(hi)
	if intLo > intHi {
		return lo + f.rng.Float64()*(hi-lo)
	}
	if intHi-intLo < maxIntSpan && math.Abs(intLo) < maxIntSpan && math.Abs(intHi) < maxIntSpan {
		from, to := int64(intLo), int64(intHi)
		return int(from + f.rng.Int63n(to-from+1))
	}
	value := math.Round(intLo + f.rng.Float64()*(intHi-intLo))
	value = math.Max(math.Min(value, intHi), intLo)
	if math.Abs(value) < maxIntSpan {
		return int(value)
	}
	return value
}

// Boolean returns true or false with equal probability.
func (f *Faker) Boolean() bool {
	return f.rng.Intn(2) == 1
}

// Date returns a moment within the last day, in UTC and truncated to milliseconds
// so that it survives a round trip through BSON.
func (f *Faker) Date() time.Time {
	return f.within(-24 * time.Hour)
}

// Mixed returns an object with two random keys, each holding a contact card.
func (f *Faker) Mixed() map[string]any {
	result := make(map[string]any, 2)
	for len(result) < 2 {
		result[f.faker.Lorem().Word()] = f.contactCard()
	}
	return result
}

// ObjectID returns a hex encoded MongoDB ObjectID with the current timestamp.
func (f *Faker) ObjectID() string {
	var id primitive.ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(f.now().Unix()))
	for i := 4; i < len(id); i++ {
		id[i] = byte(f.rng.Intn(256))
	}
	return id.Hex()
}

// UUID returns a version 4 UUID.
func (f *Faker) UUID() string {
	return uuid.Must(uuid.NewRandomFromReader(f.rng)).String()
}

func (f *Faker) contactCard() map[string]any {
	person := f.faker.Person()
	address := f.faker.Address()
	return map[string]any{
		"name":     person.Name(),
		"username": f.faker.Internet().User(),
		"email":    f.faker.Internet().Email(),
		"phone":    f.faker.Phone().Number(),
		"website":  f.faker.Internet().Domain(),
		"address": map[string]any{
			"streetA": address.StreetAddress(),
			"city":    address.City(),
			"country": address.Country(),
			"zipcode": address.PostCode(),
		},
		"company": map[string]any{
			"name":        f.faker.Company().Name(),
			"catchPhrase": f.faker.Company().CatchPhrase(),
		},
	}
}

// within returns a random moment between now and now+span (span may be negative).
func (f *Faker) within(span time.Duration) time.Time {
	now := f.now().UTC()
	if span == 0 {
		return now.Truncate(time.Millisecond)
	}
	abs := span
	if abs < 0 {
		abs = -abs
	}
	offset := time.Duration(f.rng.Int63n(int64(abs)))
	if span < 0 {
		offset = -offset
	}
	return now.Add(offset).Truncate(time.Millisecond)
}
