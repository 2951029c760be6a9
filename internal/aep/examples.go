package aep

import (
	"github.com/conduit-lang/aepdoc/internal/schema"
	ustrings "github.com/conduit-lang/aepdoc/internal/util/strings"
)

const (
	// ExampleTimestamp is the literal used for every timestamp field
	ExampleTimestamp = "2024-01-15T10:30:00Z"

	// MergePatchContentType is the request content type of update operations
	MergePatchContentType = "application/merge-patch+json"

	// PathField is the name of the field holding a resource's full path
	PathField = "path"
)

// Example is one request/response pair attached to an operation.
// ReturnType is nil when the response has no body.
type Example struct {
	Title      string         `json:"title" yaml:"title"`
	Status     int            `json:"status" yaml:"status"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
	ReturnType any            `json:"returnType,omitempty" yaml:"returnType,omitempty"`
}

// GenerateExampleValue returns the example value for a field: the authored
// example if present, otherwise a value derived from the field type. Types
// with no mapping report false and are left out of examples.
func GenerateExampleValue(f *schema.Field) (any, bool) {
	if f.Example != nil {
		return f.Example, true
	}

	switch f.Type {
	case schema.TypeString:
		return "Example " + ustrings.Capitalize(f.Name), true
	case schema.TypeInt32, schema.TypeInt64:
		return 100, true
	case schema.TypeFloat32, schema.TypeFloat64:
		return 99.99, true
	case schema.TypeBool:
		return true, true
	case schema.TypeTimestamp:
		return ExampleTimestamp, true
	default:
		return nil, false
	}
}

// ExampleGenerator builds resource examples for one resource chain
type ExampleGenerator struct {
	model    *schema.Model
	metadata *ResourceMetadata
	chain    []link
	pattern  string
}

// NewExampleGenerator prepares example generation for a resource model
func NewExampleGenerator(m *schema.Model, store *Store) (*ExampleGenerator, error) {
	chain, err := ancestry(m, store)
	if err != nil {
		return nil, err
	}
	md, _ := store.Get(m)
	return &ExampleGenerator{
		model:    m,
		metadata: md,
		chain:    chain,
		pattern:  patternOf(chain),
	}, nil
}

// Resource returns an example object for the resource. Fields named in
// exclude are left out.
func (g *ExampleGenerator) Resource(exclude ...string) map[string]any {
	example := make(map[string]any, len(g.model.Fields))
	for _, f := range g.model.Fields {
		if contains(exclude, f.Name) {
			continue
		}
		if v, ok := g.fieldValue(f); ok {
			example[f.Name] = v
		}
	}
	return example
}

// ResourceWithoutIdentity returns the resource example without its key and
// path fields, as sent in update requests
func (g *ExampleGenerator) ResourceWithoutIdentity() map[string]any {
	exclude := []string{PathField}
	if key := g.model.KeyField(); key != nil {
		exclude = append(exclude, key.Name)
	}
	return g.Resource(exclude...)
}

func (g *ExampleGenerator) fieldValue(f *schema.Field) (any, bool) {
	if f.Key {
		return "my-" + g.metadata.Singular, true
	}
	if f.Name == PathField {
		return ExamplePath(g.pattern), true
	}
	return GenerateExampleValue(f)
}

// ExamplePath replaces every {param} placeholder of a pattern with my-<param>
func ExamplePath(pattern string) string {
	return ustrings.ReplacePlaceholders(pattern, func(name string) string {
		return "my-" + name
	})
}

// PathParameters returns the path parameters of the resource itself,
// including every ancestor
func (g *ExampleGenerator) PathParameters() map[string]any {
	return pathParameters(g.chain)
}

// ParentPathParameters returns the path parameters of the ancestors only
func (g *ExampleGenerator) ParentPathParameters() map[string]any {
	if len(g.chain) == 0 {
		return map[string]any{}
	}
	return pathParameters(g.chain[:len(g.chain)-1])
}

func pathParameters(chain []link) map[string]any {
	params := make(map[string]any, len(chain))
	for _, l := range chain {
		params[l.metadata.Singular] = "my-" + l.metadata.Singular
	}
	return params
}

// ListResponse returns the example body of a list response
func (g *ExampleGenerator) ListResponse() map[string]any {
	return map[string]any{
		schema.ResultsField:       []any{g.Resource()},
		schema.NextPageTokenField: "",
	}
}

// Success returns the success example for an operation of the given kind
func (g *ExampleGenerator) Success(kind Kind) Example {
	ex := Example{Title: "Success", Status: successStatus(kind)}

	switch kind {
	case KindList:
		ex.Parameters = g.ParentPathParameters()
		ex.ReturnType = g.ListResponse()
	case KindCreate:
		ex.Parameters = g.ParentPathParameters()
		ex.Parameters["resource"] = g.Resource()
		ex.ReturnType = g.Resource()
	case KindUpdate:
		ex.Parameters = g.PathParameters()
		ex.Parameters["contentType"] = MergePatchContentType
		ex.Parameters["resource"] = g.ResourceWithoutIdentity()
		ex.ReturnType = g.Resource()
	case KindDelete:
		ex.Parameters = g.PathParameters()
	case KindCreateOrReplace:
		ex.Parameters = g.PathParameters()
		ex.Parameters["resource"] = g.Resource()
		ex.ReturnType = g.Resource()
	default:
		// read, and actions as a best-effort placeholder
		ex.Parameters = g.PathParameters()
		ex.ReturnType = g.Resource()
	}

	return ex
}

// BuildExample returns the success example of a resolved classification
func BuildExample(c Classification, store *Store) (Example, error) {
	gen, err := NewExampleGenerator(c.Model, store)
	if err != nil {
		return Example{}, err
	}
	return gen.Success(c.Kind), nil
}

func successStatus(kind Kind) int {
	switch kind {
	case KindCreate:
		return 201
	case KindDelete:
		return 204
	default:
		return 200
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
