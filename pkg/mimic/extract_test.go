package mimic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nieomylnieja/mimic/pkg/schema"
)

func ptr[T any](v T) *T { return &v }

func TestExtractPaths(t *testing.T) {
	s := schema.New().
		MustAdd("name", schema.String().WithRequired().WithLowercase().WithTrim()).
		MustAdd("gender", schema.String().WithEnum("Male", "Female")).
		MustAdd("age", schema.Number().WithMin(1).WithMax(10).WithMax(99).WithDefault(18)).
		MustAdd("tags", schema.ArrayOf(schema.String().WithUppercase())).
		MustAdd("results", schema.ArrayOfDocuments(schema.New().
			MustAdd("score", schema.Number()))).
		MustAdd("parent", schema.ObjectID().WithRef("Parent")).
		MustAdd("address", schema.Embedded(schema.New().
			MustAdd("city", schema.String()))).
		MustAdd("detail.main_info", schema.String()).
		MustAdd("balance", schema.Type("Decimal128"))

	paths, err := ExtractPaths(schema.NewModel("Student", s))
	require.NoError(t, err)

	expected := PathDefinitions{
		"name": {
			Type:       KindString,
			Required:   true,
			Validators: []schema.Validator{{Type: schema.ValidatorRequired}},
			Lowercase:  true,
			Trim:       true,
		},
		"gender": {
			Type:       KindString,
			Validators: []schema.Validator{{Type: schema.ValidatorEnum, Value: []any{"Male", "Female"}}},
			IsEnum:     true,
			Enum:       []any{"Male", "Female"},
		},
		"age": {
			Type: KindNumber,
			Validators: []schema.Validator{
				{Type: schema.ValidatorMin, Value: 1.0},
				{Type: schema.ValidatorMax, Value: 10.0},
				{Type: schema.ValidatorMax, Value: 99.0},
			},
			Default: 18,
			Min:     ptr(1.0),
			Max:     ptr(99.0),
		},
		"tags": {
			Type:    KindArray,
			IsArray: true,
			Array: &ArrayDefinition{Element: &PathDefinition{
				Type:      KindString,
				Uppercase: true,
			}},
		},
		"results": {
			Type:    KindArray,
			IsArray: true,
			Array: &ArrayDefinition{Document: PathDefinitions{
				"score": {Type: KindNumber},
			}},
		},
		"parent": {
			Type: KindObjectID,
			Ref:  "Parent",
		},
		"address": {
			Type: KindEmbedded,
			Embedded: PathDefinitions{
				"city": {Type: KindString},
			},
		},
		"detail.main_info": {Type: KindString},
		"balance":          {Type: Kind("Decimal128")},
	}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("ExtractPaths() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"address", "age", "balance", "detail.main_info", "gender", "name", "parent", "results", "tags",
	}, paths.Paths())
}

func TestPathDefinition_Node(t *testing.T) {
	tests := map[Kind]NodeKind{
		KindString:      NodeScalar,
		KindDate:        NodeScalar,
		Kind("Decimal"): NodeScalar,
		KindArray:       NodeArray,
		KindEmbedded:    NodeEmbedded,
		KindObjectID:    NodeScalar,
		KindMixed:       NodeScalar,
		KindUUID:        NodeScalar,
		KindBoolean:     NodeScalar,
		KindNumber:      NodeScalar,
	}
	for kind, node := range tests {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, node, (&PathDefinition{Type: kind}).Node())
		})
	}
}

type failingProvider struct{ err error }

func (f failingProvider) Schema() (*schema.Schema, error) { return nil, f.err }

func TestExtractPaths_Errors(t *testing.T) {
	t.Run("provider error is propagated", func(t *testing.T) {
		cause := errors.New("boom")
		paths, err := ExtractPaths(failingProvider{err: cause})
		require.Error(t, err)
		assert.Nil(t, paths)

		var extractionErr *ExtractionError
		require.True(t, errors.As(err, &extractionErr))
		assert.Equal(t, cause, errors.Cause(err))
		assert.True(t, errors.Is(err, cause))
	})
	t.Run("nil provider", func(t *testing.T) {
		_, err := ExtractPaths(nil)
		var extractionErr *ExtractionError
		assert.True(t, errors.As(err, &extractionErr))
	})
	t.Run("model without schema", func(t *testing.T) {
		_, err := ExtractPaths(schema.NewModel("Empty", nil))
		assert.EqualError(t, err, "failed to extract schema paths: model has no schema")
	})
	t.Run("array without element", func(t *testing.T) {
		s := schema.New().MustAdd("list", &schema.SchemaType{Instance: schema.InstanceArray})
		_, err := ExtractPaths(s)
		var extractionErr *ExtractionError
		require.True(t, errors.As(err, &extractionErr))
		assert.Equal(t, "list", extractionErr.Path)
	})
	t.Run("nested embedded without schema", func(t *testing.T) {
		s := schema.New().MustAdd("outer", schema.Embedded(schema.New().
			MustAdd("inner", &schema.SchemaType{Instance: schema.InstanceEmbedded})))
		_, err := ExtractPaths(s)
		var extractionErr *ExtractionError
		require.True(t, errors.As(err, &extractionErr))
		assert.Equal(t, "outer.inner", extractionErr.Path)
	})
	t.Run("non numeric bound", func(t *testing.T) {
		s := schema.New().MustAdd("age", schema.Number().WithValidator(schema.Validator{Type: schema.ValidatorMin, Value: "one"}))
		_, err := ExtractPaths(s)
		assert.EqualError(t, err, "failed to extract schema path age: min validator value one is not a number")
	})
}
