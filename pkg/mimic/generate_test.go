package mimic

import (
	"math/rand"
	"net/mail"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nieomylnieja/mimic/pkg/schema"
)

func studentSchema() *schema.Schema {
	return schema.New().
		MustAdd("name", schema.String().WithRequired().WithLowercase().WithTrim()).
		MustAdd("gender", schema.String().WithEnum("Male", "Female")).
		MustAdd("results", schema.ArrayOfDocuments(schema.New().
			MustAdd("score", schema.Number()).
			MustAdd("course", schema.Number())))
}

func mustExtract(t *testing.T, provider schema.Provider) PathDefinitions {
	t.Helper()
	paths, err := ExtractPaths(provider)
	require.NoError(t, err)
	return paths
}

func TestMimic_Student(t *testing.T) {
	for range 50 {
		doc, err := Mimic(schema.NewModel("Student", studentSchema()))
		require.NoError(t, err)

		name, ok := doc["name"].(string)
		require.True(t, ok)
		assert.Equal(t, strings.TrimSpace(strings.ToLower(name)), name)
		assert.Contains(t, []any{"Male", "Female"}, doc["gender"])

		results, ok := doc["results"].([]any)
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(results), 1)
		assert.LessOrEqual(t, len(results), DefaultMaxArrayLength)
		for _, result := range results {
			object, ok := result.(map[string]any)
			require.True(t, ok)
			assert.IsType(t, 0, object["score"])
			assert.IsType(t, 0, object["course"])
			assert.Len(t, object, 2)
		}
	}
}

func TestGenerateDocument_Ignore(t *testing.T) {
	s := schema.New().
		MustAdd("name", schema.String()).
		MustAdd("email", schema.String()).
		MustAdd("detail.main_info", schema.String()).
		MustAdd("detail.some_info", schema.String()).
		MustAdd("address", schema.Embedded(schema.New().
			MustAdd("street", schema.String()).
			MustAdd("city", schema.String()))).
		MustAdd("results", schema.ArrayOfDocuments(schema.New().
			MustAdd("score", schema.Number()).
			MustAdd("course", schema.Number())))
	paths := mustExtract(t, s)

	t.Run("exact", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithIgnore("email", "detail.some_info"))
		require.NoError(t, err)
		assert.NotContains(t, doc, "email")
		assert.Contains(t, doc, "name")
		_, found := doc.Get("detail.some_info")
		assert.False(t, found)
		_, found = doc.Get("detail.main_info")
		assert.True(t, found)
	})
	t.Run("pattern", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithIgnorePatterns(regexp.MustCompile(`^detail\.`), regexp.MustCompile(`mail$`)))
		require.NoError(t, err)
		assert.NotContains(t, doc, "detail")
		assert.NotContains(t, doc, "email")
		assert.Contains(t, doc, "name")
	})
	t.Run("inside embedded document", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithIgnore("address.street"))
		require.NoError(t, err)
		address, ok := doc["address"].(map[string]any)
		require.True(t, ok)
		assert.NotContains(t, address, "street")
		assert.Contains(t, address, "city")
	})
	t.Run("inside array documents", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithIgnorePatterns(regexp.MustCompile(`^results\.score$`)))
		require.NoError(t, err)
		for _, result := range doc["results"].([]any) {
			assert.NotContains(t, result, "score")
			assert.Contains(t, result, "course")
		}
	})
	t.Run("whole embedded document", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithIgnore("address"))
		require.NoError(t, err)
		assert.NotContains(t, doc, "address")
	})
	t.Run("not ignored fields are present", func(t *testing.T) {
		doc, err := GenerateDocument(paths)
		require.NoError(t, err)
		for _, path := range paths.Paths() {
			_, found := doc.Get(path)
			assert.True(t, found, path)
		}
	})
}

func TestGenerateDocument_Enum(t *testing.T) {
	enum := []any{"Male", "Female", "Other"}
	s := schema.New().
		MustAdd("gender", schema.String().WithEnum(enum...).WithUppercase()).
		MustAdd("level", schema.Number().WithEnum(1, 2, 3)).
		MustAdd("tags", schema.ArrayOf(schema.String().WithEnum("a", "b")))
	paths := mustExtract(t, s)

	seen := make(map[any]bool)
	for range 200 {
		doc, err := GenerateDocument(paths, WithCustom("gender", CustomLiteral("custom")))
		require.NoError(t, err)
		assert.Contains(t, enum, doc["gender"])
		assert.Contains(t, []any{1, 2, 3}, doc["level"])
		for _, tag := range doc["tags"].([]any) {
			assert.Contains(t, []any{"a", "b"}, tag)
		}
		seen[doc["gender"]] = true
	}
	assert.Len(t, seen, len(enum), "every enum value should be drawn")
}

func TestGenerateDocument_ArrayLength(t *testing.T) {
	s := schema.New().
		MustAdd("scores", schema.ArrayOf(schema.Number().WithMin(5).WithMax(7))).
		MustAdd("matrix", schema.ArrayOf(schema.ArrayOf(schema.Boolean())))
	paths := mustExtract(t, s)
	rng := rand.New(rand.NewSource(7))

	lengths := make(map[int]bool)
	for range 300 {
		doc, err := GenerateDocument(paths, WithRand(rng))
		require.NoError(t, err)
		scores := doc["scores"].([]any)
		require.GreaterOrEqual(t, len(scores), 1)
		require.LessOrEqual(t, len(scores), 15)
		lengths[len(scores)] = true
		for _, score := range scores {
			assert.GreaterOrEqual(t, score, 5)
			assert.LessOrEqual(t, score, 7)
		}
		for _, row := range doc["matrix"].([]any) {
			for _, cell := range row.([]any) {
				assert.IsType(t, true, cell)
			}
		}
	}
	assert.True(t, lengths[1])
	assert.True(t, lengths[15])

	t.Run("max array length", func(t *testing.T) {
		for range 50 {
			doc, err := GenerateDocument(paths, WithMaxArrayLength(2))
			require.NoError(t, err)
			assert.LessOrEqual(t, len(doc["scores"].([]any)), 2)
		}
	})
}

func TestGenerateDocument_Custom(t *testing.T) {
	s := schema.New().
		MustAdd("name", schema.String().WithUppercase()).
		MustAdd("counter", schema.Number()).
		MustAdd("email", schema.String()).
		MustAdd("nothing", schema.Boolean()).
		MustAdd("tags", schema.ArrayOf(schema.String()))
	paths := mustExtract(t, s)

	t.Run("literal", func(t *testing.T) {
		for range 10 {
			doc, err := GenerateDocument(paths, WithCustom("counter", CustomLiteral(42)))
			require.NoError(t, err)
			assert.Equal(t, 42, doc["counter"])
		}
	})
	t.Run("nil literal", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithCustom("counter", CustomLiteral(nil)))
		require.NoError(t, err)
		value, found := doc.Get("counter")
		assert.True(t, found)
		assert.Nil(t, value)
	})
	t.Run("function is called for every value", func(t *testing.T) {
		calls := 0
		counter := CustomFunc(func() any {
			calls++
			return calls
		})
		first, err := GenerateDocument(paths, WithCustom("counter", counter))
		require.NoError(t, err)
		second, err := GenerateDocument(paths, WithCustom("counter", counter))
		require.NoError(t, err)
		assert.Equal(t, 1, first["counter"])
		assert.Equal(t, 2, second["counter"])
	})
	t.Run("function per array element", func(t *testing.T) {
		calls := 0
		doc, err := GenerateDocument(paths, WithCustom("tags", CustomFunc(func() any {
			calls++
			return "tag"
		})))
		require.NoError(t, err)
		assert.Len(t, doc["tags"], calls)
	})
	t.Run("type", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithCustom("email", CustomType("internet.email")))
		require.NoError(t, err)
		email, ok := doc["email"].(string)
		require.True(t, ok)
		_, err = mail.ParseAddress(email)
		assert.NoError(t, err)
	})
	t.Run("value beats type", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithCustom("email", CustomField{
			Value: Literal{Value: "me@example.com"},
			Type:  "bogus.thing",
		}))
		require.NoError(t, err)
		assert.Equal(t, "me@example.com", doc["email"])
	})
	t.Run("filters apply to custom values", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithCustom("name", CustomLiteral("john")))
		require.NoError(t, err)
		assert.Equal(t, "JOHN", doc["name"])
	})
	t.Run("empty custom field falls through", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithCustom("nothing", CustomField{}))
		require.NoError(t, err)
		assert.IsType(t, true, doc["nothing"])
	})
	t.Run("unknown type", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithCustom("email", CustomType("bogus.thing")))
		require.Error(t, err)
		assert.Nil(t, doc)

		var configErr *ConfigurationError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "email", configErr.Path)
		assert.Equal(t, "invalid data type", configErr.Reason)
	})
	t.Run("unknown generator in known namespace", func(t *testing.T) {
		_, err := GenerateDocument(paths, WithCustom("email", CustomType("internet.bogus")))
		var configErr *ConfigurationError
		assert.True(t, errors.As(err, &configErr))
	})
	t.Run("custom type for a path outside of the schema", func(t *testing.T) {
		_, err := GenerateDocument(paths, WithCustom("missing", CustomType("bogus.thing")))
		var configErr *ConfigurationError
		assert.True(t, errors.As(err, &configErr))
	})
}

func TestGenerateDocument_Filters(t *testing.T) {
	s := schema.New().
		MustAdd("lower", schema.String().WithLowercase().WithTrim()).
		MustAdd("upper", schema.String().WithUppercase()).
		MustAdd("both", schema.String().WithLowercase().WithUppercase())
	paths := mustExtract(t, s)
	custom := []GenerateOption{
		WithCustom("lower", CustomLiteral("  MiXeD  ")),
		WithCustom("upper", CustomLiteral("MiXeD")),
		WithCustom("both", CustomLiteral("MiXeD")),
	}

	t.Run("applied by default", func(t *testing.T) {
		doc, err := GenerateDocument(paths, custom...)
		require.NoError(t, err)
		assert.Equal(t, "mixed", doc["lower"])
		assert.Equal(t, "MIXED", doc["upper"])
		assert.Equal(t, "MIXED", doc["both"])
	})
	t.Run("disabled", func(t *testing.T) {
		doc, err := GenerateDocument(paths, append(custom, WithApplyFilter(false))...)
		require.NoError(t, err)
		assert.Equal(t, "  MiXeD  ", doc["lower"])
		assert.Equal(t, "MiXeD", doc["upper"])
		assert.Equal(t, "MiXeD", doc["both"])
	})
}

func TestGenerateDocument_ReturnDate(t *testing.T) {
	s := schema.New().
		MustAdd("created_at", schema.Date()).
		MustAdd("history", schema.ArrayOf(schema.Date()))
	paths := mustExtract(t, s)

	t.Run("dates by default", func(t *testing.T) {
		doc, err := GenerateDocument(paths)
		require.NoError(t, err)
		date, ok := doc["created_at"].(time.Time)
		require.True(t, ok)
		assert.WithinDuration(t, time.Now(), date, 24*time.Hour)
	})
	t.Run("strings", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithReturnDate(false))
		require.NoError(t, err)
		text, ok := doc["created_at"].(string)
		require.True(t, ok)
		_, err = time.Parse(time.RFC3339, text)
		assert.NoError(t, err)
		for _, item := range doc["history"].([]any) {
			assert.IsType(t, "", item)
		}
	})
}

func TestGenerateDocument_DottedPaths(t *testing.T) {
	s := schema.New().
		MustAdd("detail.main_info", schema.String()).
		MustAdd("detail.some_info", schema.String()).
		MustAdd("detail.deep.value", schema.Number())
	paths := mustExtract(t, s)

	doc, err := GenerateDocument(paths)
	require.NoError(t, err)
	require.Len(t, doc, 1)
	detail, ok := doc["detail"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, detail, 3)
	assert.IsType(t, "", detail["main_info"])
	assert.IsType(t, "", detail["some_info"])
	deep, ok := detail["deep"].(map[string]any)
	require.True(t, ok)
	assert.IsType(t, 0, deep["value"])
}

func TestGenerateDocument_DefaultPrimitives(t *testing.T) {
	s := schema.New().
		MustAdd("string", schema.String()).
		MustAdd("number", schema.Number().WithMax(3)).
		MustAdd("boolean", schema.Boolean()).
		MustAdd("mixed", schema.Mixed()).
		MustAdd("objectid", schema.ObjectID().WithRef("Parent")).
		MustAdd("uuid", schema.UUID())
	doc, err := Mimic(s)
	require.NoError(t, err)

	assert.IsType(t, "", doc["string"])
	assert.LessOrEqual(t, doc["number"], 3)
	assert.IsType(t, true, doc["boolean"])
	assert.IsType(t, map[string]any{}, doc["mixed"])
	assert.Regexp(t, `^[0-9a-f]{24}$`, doc["objectid"])
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, doc["uuid"])
}

func TestGenerateDocument_Primitives(t *testing.T) {
	s := schema.New().
		MustAdd("balance", schema.Type("Decimal128")).
		MustAdd("name", schema.String())
	paths := mustExtract(t, s)

	t.Run("unregistered kind", func(t *testing.T) {
		doc, err := GenerateDocument(paths)
		require.Error(t, err)
		assert.Nil(t, doc)
		var configErr *ConfigurationError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "balance", configErr.Path)
	})
	t.Run("registered kind", func(t *testing.T) {
		doc, err := GenerateDocument(paths, WithPrimitive("Decimal128", func(*PathDefinition) any { return "1.5" }))
		require.NoError(t, err)
		assert.Equal(t, "1.5", doc["balance"])
	})
	t.Run("removed kind", func(t *testing.T) {
		_, err := GenerateDocument(paths,
			WithPrimitive("Decimal128", func(*PathDefinition) any { return "1.5" }),
			WithPrimitive(KindString, nil),
		)
		var configErr *ConfigurationError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "name", configErr.Path)
	})
}

func TestGenerateDocuments_Seed(t *testing.T) {
	s := schema.New().
		MustAdd("name", schema.String()).
		MustAdd("gender", schema.String().WithEnum("Male", "Female")).
		MustAdd("score", schema.Number()).
		MustAdd("tags", schema.ArrayOf(schema.String())).
		MustAdd("token", schema.UUID()).
		MustAdd("data", schema.Mixed()).
		MustAdd("email", schema.String()).
		MustAdd("at", schema.Date()).
		MustAdd("id", schema.ObjectID())
	paths := mustExtract(t, s)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	generate := func(clock time.Time) []Document {
		docs, err := GenerateDocuments(paths, 3,
			WithSeed(42),
			WithNow(func() time.Time { return clock }),
			WithCustom("email", CustomType("internet.email")),
		)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		return docs
	}

	first := generate(now)
	assert.Equal(t, first, generate(now))
	assert.NotEqual(t, first[0], first[1])

	t.Run("clock moves dates and object ids", func(t *testing.T) {
		later := generate(now.Add(time.Hour))
		assert.NotEqual(t, first[0]["at"], later[0]["at"])
		assert.NotEqual(t, first[0]["id"], later[0]["id"])
		assert.Equal(t, first[0]["name"], later[0]["name"])
	})
}

func TestGenerateDocument_NumberBounds(t *testing.T) {
	tests := map[string]struct {
		typ    *schema.SchemaType
		lo, hi float64
	}{
		"negative max":        {typ: schema.Number().WithMax(-5), lo: -5 - 80, hi: -5},
		"no integer in range": {typ: schema.Number().WithMin(0.2).WithMax(0.8), lo: 0.2, hi: 0.8},
		"wide range":          {typ: schema.Number().WithMin(-9e18).WithMax(9e18), lo: -9e18, hi: 9e18},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			paths := mustExtract(t, schema.New().MustAdd("n", tc.typ))
			for range 50 {
				doc, err := GenerateDocument(paths)
				require.NoError(t, err)
				var n float64
				switch v := doc["n"].(type) {
				case int:
					n = float64(v)
				case float64:
					n = v
				default:
					t.Fatalf("unexpected type %T", v)
				}
				assert.GreaterOrEqual(t, n, tc.lo)
				assert.LessOrEqual(t, n, tc.hi)
			}
		})
	}
}

func TestGenerateDocuments_Count(t *testing.T) {
	paths := mustExtract(t, studentSchema())

	docs, err := GenerateDocuments(paths, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = GenerateDocuments(paths, -1)
	var configErr *ConfigurationError
	assert.True(t, errors.As(err, &configErr))

	many, err := MimicMany(studentSchema(), 5)
	require.NoError(t, err)
	assert.Len(t, many, 5)
}

func TestMimic_ExtractionError(t *testing.T) {
	doc, err := Mimic(failingProvider{err: errors.New("boom")})
	require.Error(t, err)
	assert.Nil(t, doc)
	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}
