package aep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/aepdoc/internal/schema"
)

func TestGenerateExampleValue(t *testing.T) {
	tests := []struct {
		name  string
		field *schema.Field
		want  any
		ok    bool
	}{
		{"string", &schema.Field{Name: "title", Type: schema.TypeString}, "Example Title", true},
		{"int32", &schema.Field{Name: "count", Type: schema.TypeInt32}, 100, true},
		{"int64", &schema.Field{Name: "size", Type: schema.TypeInt64}, 100, true},
		{"float32", &schema.Field{Name: "ratio", Type: schema.TypeFloat32}, 99.99, true},
		{"float64", &schema.Field{Name: "price", Type: schema.TypeFloat64}, 99.99, true},
		{"bool", &schema.Field{Name: "active", Type: schema.TypeBool}, true, true},
		{"timestamp", &schema.Field{Name: "create_time", Type: schema.TypeTimestamp}, "2024-01-15T10:30:00Z", true},
		{"other", &schema.Field{Name: "blob", Type: schema.TypeOther}, nil, false},
		{"authored example wins", &schema.Field{Name: "isbn", Type: schema.TypeString, Example: "978"}, "978", true},
		{"authored example on unmapped type", &schema.Field{Name: "tags", Type: schema.TypeOther, Example: []any{"a"}}, []any{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GenerateExampleValue(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExampleGenerator_Resource(t *testing.T) {
	lib := newLibrary()
	gen, err := NewExampleGenerator(lib.book, lib.store())
	require.NoError(t, err)

	example := gen.Resource()
	assert.Equal(t, "my-book", example["id"])
	assert.Equal(t, "publishers/my-publisher/books/my-book", example["path"])
	assert.Equal(t, "Example Title", example["title"])
	assert.Equal(t, "978-0-306-40615-7", example["isbn"])
	assert.Equal(t, 100, example["page_count"])
	assert.Equal(t, 99.99, example["price"])
	assert.Equal(t, true, example["published"])
	assert.Equal(t, ExampleTimestamp, example["create_time"])
	assert.NotContains(t, example, "metadata")
}

func TestExampleGenerator_KeyFieldBeatsAuthoredExample(t *testing.T) {
	m := resourceModel("Shelf", "shelf", "shelves", nil,
		&schema.Field{Name: "shelf_id", Type: schema.TypeString, Key: true, Example: "ignored"})
	store := NewStore()
	require.NoError(t, store.Set(m, ResourceMetadata{Singular: "shelf", Plural: "shelves"}))

	gen, err := NewExampleGenerator(m, store)
	require.NoError(t, err)
	assert.Equal(t, "my-shelf", gen.Resource()["shelf_id"])
}

func TestExampleGenerator_PathParameters(t *testing.T) {
	lib := newLibrary()
	gen, err := NewExampleGenerator(lib.book, lib.store())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"publisher": "my-publisher", "book": "my-book"}, gen.PathParameters())
	assert.Equal(t, map[string]any{"publisher": "my-publisher"}, gen.ParentPathParameters())
}

func TestExampleGenerator_Success(t *testing.T) {
	lib := newLibrary()
	gen, err := NewExampleGenerator(lib.book, lib.store())
	require.NoError(t, err)
	full := gen.Resource()

	t.Run("read", func(t *testing.T) {
		ex := gen.Success(KindRead)
		assert.Equal(t, 200, ex.Status)
		assert.Equal(t, gen.PathParameters(), ex.Parameters)
		assert.Equal(t, full, ex.ReturnType)
	})

	t.Run("list", func(t *testing.T) {
		ex := gen.Success(KindList)
		assert.Equal(t, map[string]any{"publisher": "my-publisher"}, ex.Parameters)

		body, ok := ex.ReturnType.(map[string]any)
		require.True(t, ok)
		results, ok := body["results"].([]any)
		require.True(t, ok)
		assert.Len(t, results, 1)
		assert.Equal(t, full, results[0])
		assert.Equal(t, "", body["next_page_token"])
	})

	t.Run("create", func(t *testing.T) {
		ex := gen.Success(KindCreate)
		assert.Equal(t, 201, ex.Status)
		assert.Equal(t, "my-publisher", ex.Parameters["publisher"])
		assert.NotContains(t, ex.Parameters, "book")
		assert.Equal(t, full, ex.Parameters["resource"])
		assert.Equal(t, "my-book", ex.Parameters["resource"].(map[string]any)["id"])
		assert.Equal(t, full, ex.ReturnType)
	})

	t.Run("update", func(t *testing.T) {
		ex := gen.Success(KindUpdate)
		assert.Equal(t, "my-book", ex.Parameters["book"])
		assert.Equal(t, MergePatchContentType, ex.Parameters["contentType"])

		body := ex.Parameters["resource"].(map[string]any)
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "path")
		assert.Equal(t, "Example Title", body["title"])

		response := ex.ReturnType.(map[string]any)
		assert.Contains(t, response, "id")
		assert.Contains(t, response, "path")
	})

	t.Run("delete", func(t *testing.T) {
		ex := gen.Success(KindDelete)
		assert.Equal(t, 204, ex.Status)
		assert.Equal(t, gen.PathParameters(), ex.Parameters)
		assert.Nil(t, ex.ReturnType)
	})

	t.Run("createOrReplace", func(t *testing.T) {
		ex := gen.Success(KindCreateOrReplace)
		assert.Equal(t, "my-book", ex.Parameters["book"])
		assert.Equal(t, full, ex.Parameters["resource"])
		assert.Equal(t, full, ex.ReturnType)
	})

	t.Run("custom action uses read shape", func(t *testing.T) {
		assert.Equal(t, gen.Success(KindRead), gen.Success(KindCustomAction))
	})
}

func TestErrorExamples(t *testing.T) {
	examples := ErrorExamples(map[string]any{"book": "my-book"})
	require.Len(t, examples, 6)

	statuses := make([]int, 0, len(examples))
	for _, ex := range examples {
		statuses = append(statuses, ex.Status)
		body := ex.ReturnType.(map[string]any)
		assert.NotEmpty(t, body["type"])
		assert.NotEmpty(t, body["title"])
		assert.NotEmpty(t, body["detail"])
		assert.Equal(t, ex.Status, body["status"])
		assert.Equal(t, "my-book", ex.Parameters["book"])
	}
	assert.Equal(t, []int{400, 401, 403, 404, 409, 500}, statuses)

	last := examples[5].ReturnType.(map[string]any)
	assert.Equal(t, "https://example.com/errors/internal-server-error", last["type"])
}

func TestErrorExamples_DeepCopiesParameters(t *testing.T) {
	params := map[string]any{
		"book":     "my-book",
		"resource": map[string]any{"title": "Example Title", "tags": []any{"a", map[string]any{"k": "v"}}},
	}
	examples := ErrorExamples(params)

	resource := examples[0].Parameters["resource"].(map[string]any)
	resource["title"] = "changed"
	tags := resource["tags"].([]any)
	tags[0] = "changed"
	tags[1].(map[string]any)["k"] = "changed"

	original := params["resource"].(map[string]any)
	assert.Equal(t, "Example Title", original["title"])
	assert.Equal(t, "a", original["tags"].([]any)[0])
	assert.Equal(t, "v", original["tags"].([]any)[1].(map[string]any)["k"])

	sibling := examples[1].Parameters["resource"].(map[string]any)
	assert.Equal(t, "Example Title", sibling["title"])
}

func TestRun_ErrorExampleParametersIndependentOfSuccess(t *testing.T) {
	lib := newLibrary()
	state, err := Run(lib.program)
	require.NoError(t, err)

	doc, ok := state.Operation(lib.ops["Books.update"])
	require.True(t, ok)
	require.Greater(t, len(doc.Examples), 1)

	doc.Examples[1].Parameters["resource"].(map[string]any)["title"] = "changed"

	success := doc.Examples[0].Parameters["resource"].(map[string]any)
	assert.Equal(t, "Example Title", success["title"])
	for _, ex := range doc.Examples[2:] {
		assert.Equal(t, "Example Title", ex.Parameters["resource"].(map[string]any)["title"], ex.Title)
	}
}

func TestErrorExamples_NilParameters(t *testing.T) {
	for _, ex := range ErrorExamples(nil) {
		assert.NotNil(t, ex.Parameters)
		assert.Empty(t, ex.Parameters)
	}
}

func TestExamplePath(t *testing.T) {
	assert.Equal(t, "publishers/my-publisher/books/my-book", ExamplePath("publishers/{publisher}/books/{book}"))
	assert.Equal(t, "shelves", ExamplePath("shelves"))
}
