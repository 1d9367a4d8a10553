// Package mimic generates synthetic documents from schemas.
//
// Generation runs in two steps. [ExtractPaths] turns a [schema.Provider] into
// [PathDefinitions], a tree of normalized path descriptions, and
// [GenerateDocument] walks that tree producing random values which satisfy
// the declared types, enums, bounds and string filters.
// [Mimic] composes both steps:
//
//	s := schema.New().
//	    MustAdd("name", schema.String().WithRequired().WithLowercase().WithTrim()).
//	    MustAdd("gender", schema.String().WithEnum("Male", "Female")).
//	    MustAdd("detail.main_info", schema.String())
//
//	doc, err := mimic.Mimic(s,
//	    mimic.WithIgnore("detail.main_info"),
//	    mimic.WithCustom("name", mimic.CustomType("internet.userName")),
//	    mimic.WithSeed(42),
//	)
//
// # Options
//
// Fields are omitted with [WithIgnore] and [WithIgnorePatterns] and overridden
// with [WithCustom], which accepts a literal ([CustomLiteral]), a function
// ([CustomFunc]) or a fake library generator name ([CustomType]).
// [WithReturnDate] and [WithApplyFilter] control date formatting and string
// filters. Randomness comes from a single [math/rand.Rand] set with [WithRand]
// or [WithSeed]. Dates and ObjectID timestamps also depend on the clock, so
// documents generated from the same seed are identical only when the clock is
// fixed with [WithNow].
//
// # Errors
//
// Invalid options, unknown custom types and kinds with no registered
// generator are reported as [*ConfigurationError], schema resolution
// failures as [*ExtractionError]. No partial documents are returned.
package mimic
