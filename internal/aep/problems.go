package aep

import (
	ustrings "github.com/conduit-lang/aepdoc/internal/util/strings"
)

// ProblemTypeBase prefixes the type URI of every error example
const ProblemTypeBase = "https://example.com/errors/"

// Problem is a standard failure response
type Problem struct {
	Status int
	Title  string
	Detail string
}

// StandardProblems is the fixed set of failures documented on every operation
var StandardProblems = []Problem{
	{Status: 400, Title: "Bad Request", Detail: "The request was malformed or contained invalid parameters."},
	{Status: 401, Title: "Unauthorized", Detail: "Authentication credentials were missing or invalid."},
	{Status: 403, Title: "Forbidden", Detail: "The caller does not have permission to perform this operation."},
	{Status: 404, Title: "Not Found", Detail: "The requested resource does not exist."},
	{Status: 409, Title: "Conflict", Detail: "The request conflicts with the current state of the resource."},
	{Status: 500, Title: "Internal Server Error", Detail: "An unexpected error occurred while processing the request."},
}

// Type returns the problem type URI
func (p Problem) Type() string {
	return ProblemTypeBase + ustrings.Slug(p.Title)
}

// Body returns the problem details payload
func (p Problem) Body() map[string]any {
	return map[string]any{
		"type":   p.Type(),
		"title":  p.Title,
		"status": p.Status,
		"detail": p.Detail,
	}
}

// ErrorExamples returns one example per standard problem. Each example gets
// its own copy of params; a nil params map yields empty parameters.
func ErrorExamples(params map[string]any) []Example {
	examples := make([]Example, 0, len(StandardProblems))
	for _, p := range StandardProblems {
		examples = append(examples, Example{
			Title:      p.Title,
			Status:     p.Status,
			Parameters: copyParams(params),
			ReturnType: p.Body(),
		})
	}
	return examples
}

// copyParams copies params together with every nested map and slice
func copyParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return copyParams(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
