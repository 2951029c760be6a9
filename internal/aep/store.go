// Package aep derives AEP-style REST metadata from resource-annotated schema
// models and the operations grouped around them.
//
// Given resource models (type, singular, plural, optional parent) and
// interfaces of operations, a Pass computes for every model its hierarchical
// path pattern and resource extension, and for every operation its kind,
// canonical ID, tag, summary, description and example payloads. Results are
// written to a State side-table keyed by entity identity; the schema graph
// itself is never modified.
package aep

import (
	"github.com/conduit-lang/aepdoc/internal/errors"
	"github.com/conduit-lang/aepdoc/internal/schema"
)

// ResourceMetadata is the declared identity of a resource model
type ResourceMetadata struct {
	Type     string
	Singular string
	Plural   string
}

// Store maps models to their resource metadata. Metadata is set at most once
// per model.
type Store struct {
	entries map[*schema.Model]*ResourceMetadata
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{entries: make(map[*schema.Model]*ResourceMetadata)}
}

// NewStoreFromProgram records the resource declaration of every model in the
// program: declared models, models referenced by resource operations, and
// their parents.
func NewStoreFromProgram(program *schema.Program) (*Store, error) {
	store := NewStore()
	visited := make(map[*schema.Model]bool)

	record := func(m *schema.Model) error {
		for ; m != nil && !visited[m]; m = m.Parent {
			visited[m] = true
			if m.Resource == nil {
				continue
			}
			md := ResourceMetadata{
				Type:     m.Resource.Type,
				Singular: m.Resource.Singular,
				Plural:   m.Resource.Plural,
			}
			if err := store.Set(m, md); err != nil {
				return err
			}
		}
		return nil
	}

	for _, svc := range program.Services {
		for _, m := range svc.Models {
			if err := record(m); err != nil {
				return nil, err
			}
		}
		for _, iface := range svc.Interfaces {
			for _, op := range iface.Operations {
				if op.ResourceOp == nil {
					continue
				}
				if err := record(op.ResourceOp.Model); err != nil {
					return nil, err
				}
			}
		}
	}
	return store, nil
}

// Set attaches metadata to a model. Setting it twice is an error.
func (s *Store) Set(m *schema.Model, md ResourceMetadata) error {
	if _, exists := s.entries[m]; exists {
		return errors.NewDuplicateMetadata(m.QualifiedName())
	}
	s.entries[m] = &md
	return nil
}

// Get returns the metadata attached to m
func (s *Store) Get(m *schema.Model) (*ResourceMetadata, bool) {
	if m == nil {
		return nil, false
	}
	md, ok := s.entries[m]
	return md, ok
}

// Parent returns the parent resource model of m, or nil
func (s *Store) Parent(m *schema.Model) *schema.Model {
	return m.Parent
}

// Len returns the number of models carrying metadata
func (s *Store) Len() int {
	return len(s.entries)
}
