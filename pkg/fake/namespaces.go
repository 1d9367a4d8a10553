package fake

import (
	"slices"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrUnknownNamespace = errors.New("unknown namespace")
	ErrUnknownGenerator = errors.New("unknown generator")
)

type generator func(f *Faker) any

var personGenerators = map[string]generator{
	"firstName": func(f *Faker) any { return f.faker.Person().FirstName() },
	"lastName":  func(f *Faker) any { return f.faker.Person().LastName() },
	"findName":  func(f *Faker) any { return f.faker.Person().Name() },
	"fullName":  func(f *Faker) any { return f.faker.Person().Name() },
	"jobTitle":  func(f *Faker) any { return f.faker.Company().JobTitle() },
}

var namespaces = map[string]map[string]generator{
	"internet": {
		"email":      func(f *Faker) any { return f.faker.Internet().Email() },
		"userName":   func(f *Faker) any { return f.faker.Internet().User() },
		"url":        func(f *Faker) any { return f.faker.Internet().URL() },
		"domainName": func(f *Faker) any { return f.faker.Internet().Domain() },
		"ip":         func(f *Faker) any { return f.faker.Internet().Ipv4() },
		"ipv6":       func(f *Faker) any { return f.faker.Internet().Ipv6() },
		"password":   func(f *Faker) any { return f.faker.Internet().Password() },
		"mac":        func(f *Faker) any { return f.faker.Internet().MacAddress() },
	},
	"name":   personGenerators,
	"person": personGenerators,
	"address": {
		"city":          func(f *Faker) any { return f.faker.Address().City() },
		"country":       func(f *Faker) any { return f.faker.Address().Country() },
		"streetAddress": func(f *Faker) any { return f.faker.Address().StreetAddress() },
		"zipCode":       func(f *Faker) any { return f.faker.Address().PostCode() },
		"state":         func(f *Faker) any { return f.faker.Address().State() },
		"latitude":      func(f *Faker) any { return f.faker.Float64(6, -90, 90) },
		"longitude":     func(f *Faker) any { return f.faker.Float64(6, -180, 180) },
	},
	"lorem": {
		"word":      func(f *Faker) any { return f.faker.Lorem().Word() },
		"sentence":  func(f *Faker) any { return f.faker.Lorem().Sentence(6) },
		"paragraph": func(f *Faker) any { return f.faker.Lorem().Paragraph(3) },
		"text":      func(f *Faker) any { return f.faker.Lorem().Text(200) },
	},
	"phone": {
		"phoneNumber": func(f *Faker) any { return f.faker.Phone().Number() },
	},
	"company": {
		"companyName": func(f *Faker) any { return f.faker.Company().Name() },
		"catchPhrase": func(f *Faker) any { return f.faker.Company().CatchPhrase() },
	},
	"commerce": {
		"color":    func(f *Faker) any { return f.faker.Color().ColorName() },
		"hexColor": func(f *Faker) any { return f.faker.Color().Hex() },
	},
	"finance": {
		"creditCardNumber": func(f *Faker) any { return f.faker.Payment().CreditCardNumber() },
		"creditCardType":   func(f *Faker) any { return f.faker.Payment().CreditCardType() },
	},
	"random": {
		"uuid":     func(f *Faker) any { return f.UUID() },
		"number":   func(f *Faker) any { return f.Number(nil, nil) },
		"boolean":  func(f *Faker) any { return f.Boolean() },
		"word":     func(f *Faker) any { return f.faker.Lorem().Word() },
		"objectId": func(f *Faker) any { return f.ObjectID() },
	},
	"date": {
		"recent": func(f *Faker) any { return f.Date() },
		"past":   func(f *Faker) any { return f.within(-365 * 24 * time.Hour) },
		"future": func(f *Faker) any { return f.within(365 * 24 * time.Hour) },
	},
	"database": {
		"objectId": func(f *Faker) any { return f.ObjectID() },
		"uuid":     func(f *Faker) any { return f.UUID() },
	},
}

// Lookup returns the generator registered as namespace.name, e.g. "internet"
// and "email". Unknown names are reported with [ErrUnknownNamespace] or
// [ErrUnknownGenerator].
func (f *Faker) Lookup(namespace, name string) (func() any, error) {
	generators, ok := namespaces[namespace]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNamespace, "%q", namespace)
	}
	gen, ok := generators[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownGenerator, "%q in namespace %q", name, namespace)
	}
	return func() any { return gen(f) }, nil
}

// Namespaces returns the sorted names of all registered namespaces.
func Namespaces() []string {
	names := make([]string, 0, len(namespaces))
	for name := range namespaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Generators returns the sorted generator names of a namespace.
func Generators(namespace string) []string {
	generators := namespaces[namespace]
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
