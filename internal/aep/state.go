package aep

import (
	"sort"

	"github.com/conduit-lang/aepdoc/internal/schema"
)

// ResourceExtension is the structured resource identity emitted per model
type ResourceExtension struct {
	Type     string   `json:"type" yaml:"type"`
	Singular string   `json:"singular" yaml:"singular"`
	Plural   string   `json:"plural" yaml:"plural"`
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// Tag is a documentation grouping label
type Tag struct {
	Name        string
	Description string
}

// TagRegistry collects the tags of one service. Tags keep insertion order
// until Finalize sorts them by name.
type TagRegistry struct {
	tags  []Tag
	index map[string]int
}

// NewTagRegistry creates an empty registry
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{index: make(map[string]int)}
}

// Register adds a tag or merges it into an existing one. An existing
// non-empty description is kept.
func (r *TagRegistry) Register(name, description string) {
	if i, ok := r.index[name]; ok {
		if r.tags[i].Description == "" {
			r.tags[i].Description = description
		}
		return
	}
	r.index[name] = len(r.tags)
	r.tags = append(r.tags, Tag{Name: name, Description: description})
}

// Finalize sorts the tags lexicographically by name
func (r *TagRegistry) Finalize() {
	sort.SliceStable(r.tags, func(i, j int) bool {
		return r.tags[i].Name < r.tags[j].Name
	})
	for i, t := range r.tags {
		r.index[t.Name] = i
	}
}

// Lookup returns the description registered for a tag
func (r *TagRegistry) Lookup(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.tags[i].Description, true
}

// Tags returns a copy of the registered tags
func (r *TagRegistry) Tags() []Tag {
	out := make([]Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Len returns the number of tags
func (r *TagRegistry) Len() int {
	return len(r.tags)
}

// OperationDoc is the metadata derived for one operation. ID, Tag, Summary
// and Description stay empty when the owning resource could not be resolved;
// Summary also stays empty when the operation has an authored summary.
type OperationDoc struct {
	Kind        Kind
	// Resource is the owning resource model, nil when unresolved
	Resource    *schema.Model
	ID          string
	Tag         string
	Summary     string
	Description string
	Examples    []Example
}

// State holds everything a pass derives, keyed by entity identity
type State struct {
	resources     map[*schema.Model]*ResourceExtension
	descriptions  map[*schema.Model]string
	tags          map[*schema.Service]*TagRegistry
	operations    map[*schema.Operation]*OperationDoc
	fieldExamples map[*schema.Field]any
}

// NewState creates an empty state
func NewState() *State {
	return &State{
		resources:     make(map[*schema.Model]*ResourceExtension),
		descriptions:  make(map[*schema.Model]string),
		tags:          make(map[*schema.Service]*TagRegistry),
		operations:    make(map[*schema.Operation]*OperationDoc),
		fieldExamples: make(map[*schema.Field]any),
	}
}

// Resource returns the resource extension of a model
func (s *State) Resource(m *schema.Model) (*ResourceExtension, bool) {
	ext, ok := s.resources[m]
	return ext, ok
}

// Pattern returns the primary path pattern of a model, or ""
func (s *State) Pattern(m *schema.Model) string {
	if ext, ok := s.resources[m]; ok && len(ext.Patterns) > 0 {
		return ext.Patterns[0]
	}
	return ""
}

// Description returns the generated description of a model. Models with
// authored documentation have none.
func (s *State) Description(m *schema.Model) (string, bool) {
	d, ok := s.descriptions[m]
	return d, ok
}

// Tags returns the finalized tags of a service
func (s *State) Tags(svc *schema.Service) []Tag {
	if r, ok := s.tags[svc]; ok {
		return r.Tags()
	}
	return nil
}

// TagRegistry returns the registry of a service, creating it on first use
func (s *State) TagRegistry(svc *schema.Service) *TagRegistry {
	r, ok := s.tags[svc]
	if !ok {
		r = NewTagRegistry()
		s.tags[svc] = r
	}
	return r
}

// Operation returns the derived metadata of an operation
func (s *State) Operation(op *schema.Operation) (*OperationDoc, bool) {
	doc, ok := s.operations[op]
	return doc, ok
}

// Summary returns the authored summary of op, falling back to the
// synthesized one
func (s *State) Summary(op *schema.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	if doc, ok := s.operations[op]; ok {
		return doc.Summary
	}
	return ""
}

// FieldExample returns the example attached to a field by the pass
func (s *State) FieldExample(f *schema.Field) (any, bool) {
	v, ok := s.fieldExamples[f]
	return v, ok
}

// setFieldExample attaches an example unless the field already has one,
// authored or generated
func (s *State) setFieldExample(f *schema.Field, v any) bool {
	if f == nil || f.Example != nil {
		return false
	}
	if _, exists := s.fieldExamples[f]; exists {
		return false
	}
	s.fieldExamples[f] = v
	return true
}

// OperationCount returns the number of operations with derived metadata
func (s *State) OperationCount() int {
	return len(s.operations)
}
