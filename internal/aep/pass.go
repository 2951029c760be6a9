package aep

import (
	"sort"

	"go.uber.org/zap"

	"github.com/conduit-lang/aepdoc/internal/errors"
	"github.com/conduit-lang/aepdoc/internal/schema"
	ustrings "github.com/conduit-lang/aepdoc/internal/util/strings"
)

// Option configures a Pass
type Option func(*Pass)

// WithLogger sets the logger used for progress output
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pass) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pass runs the model sweep and the operation sweep over every service
type Pass struct {
	store  *Store
	logger *zap.Logger
}

// NewPass creates a pass reading resource metadata from store
func NewPass(store *Store, opts ...Option) *Pass {
	p := &Pass{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run builds a store from the program's resource declarations and runs a pass
func Run(program *schema.Program, opts ...Option) (*State, error) {
	store, err := NewStoreFromProgram(program)
	if err != nil {
		return nil, err
	}
	return NewPass(store, opts...).Run(program)
}

// Run derives metadata for every service of the program. Services are
// processed in name order. On a precondition failure the state built so far
// is returned together with the diagnostic; entities already processed are
// left intact.
func (p *Pass) Run(program *schema.Program) (*State, error) {
	state := NewState()

	services := make([]*schema.Service, len(program.Services))
	copy(services, program.Services)
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})

	for _, svc := range services {
		if err := p.runService(svc, state); err != nil {
			return state, err
		}
	}
	return state, nil
}

func (p *Pass) runService(svc *schema.Service, state *State) error {
	log := p.logger.With(zap.String("service", svc.Name))

	models := p.reachableModels(svc)
	tags := state.TagRegistry(svc)
	for _, m := range models {
		if err := p.processModel(m, tags, state); err != nil {
			return err
		}
		log.Debug("resource model processed",
			zap.String("model", m.QualifiedName()),
			zap.String("pattern", state.Pattern(m)))
	}
	tags.Finalize()

	classified := 0
	for _, iface := range svc.Interfaces {
		for _, op := range iface.Operations {
			ok, err := p.processOperation(op, state)
			if err != nil {
				return err
			}
			if !ok {
				log.Debug("operation skipped", zap.String("interface", iface.Name), zap.String("operation", op.Name))
				continue
			}
			classified++
			doc, _ := state.Operation(op)
			log.Debug("operation processed",
				zap.String("interface", iface.Name),
				zap.String("operation", op.Name),
				zap.String("kind", string(doc.Kind)),
				zap.String("id", doc.ID),
				zap.Bool("template_instance", iface.TemplateInstance))
		}
	}

	log.Info("service processed",
		zap.Int("resources", len(models)),
		zap.Int("tags", tags.Len()),
		zap.Int("operations", classified))
	return nil
}

// reachableModels returns the resource models of a service: declared models,
// models referenced by resource operations and their ancestors. Each model
// appears once, ordered by resource type.
func (p *Pass) reachableModels(svc *schema.Service) []*schema.Model {
	seen := make(map[*schema.Model]bool)
	var models []*schema.Model

	var add func(m *schema.Model, depth int)
	add = func(m *schema.Model, depth int) {
		if m == nil || seen[m] || depth > MaxParentDepth {
			return
		}
		if _, ok := p.store.Get(m); !ok {
			return
		}
		seen[m] = true
		models = append(models, m)
		add(p.store.Parent(m), depth+1)
	}

	for _, m := range svc.Models {
		add(m, 0)
	}
	for _, iface := range svc.Interfaces {
		for _, op := range iface.Operations {
			if op.ResourceOp != nil {
				add(op.ResourceOp.Model, 0)
			}
		}
	}

	sort.SliceStable(models, func(i, j int) bool {
		a, _ := p.store.Get(models[i])
		b, _ := p.store.Get(models[j])
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return models[i].QualifiedName() < models[j].QualifiedName()
	})
	return models
}

func (p *Pass) checkModel(m *schema.Model) error {
	if len(m.Fields) == 0 || m.KeyField() == nil {
		return errors.NewMissingIdentity(m.QualifiedName())
	}
	if parent := p.store.Parent(m); parent != nil {
		if _, ok := p.store.Get(parent); !ok {
			return errors.NewParentNotResource(m.QualifiedName(), parent.QualifiedName())
		}
	}
	return nil
}

func (p *Pass) processModel(m *schema.Model, tags *TagRegistry, state *State) error {
	if err := p.checkModel(m); err != nil {
		return err
	}
	pattern, err := BuildPattern(m, p.store)
	if err != nil {
		return err
	}

	md, _ := p.store.Get(m)
	ext := &ResourceExtension{
		Type:     md.Type,
		Singular: md.Singular,
		Plural:   md.Plural,
		Patterns: []string{pattern},
	}

	description := m.Doc
	if description == "" {
		description = FallbackDescription(md)
		state.descriptions[m] = description
	}
	state.resources[m] = ext
	tags.Register(ustrings.Capitalize(md.Plural), description)
	return nil
}

// processOperation classifies op and records its metadata. It reports false
// for operations outside the resource-operation vocabulary.
func (p *Pass) processOperation(op *schema.Operation, state *State) (bool, error) {
	c := Classify(op, p.store)
	if !c.Classified() {
		return false, nil
	}

	doc := &OperationDoc{Kind: c.Kind}
	var params map[string]any
	var gen *ExampleGenerator

	if text, ok := Synthesize(c); ok {
		doc.Resource = c.Model
		doc.ID = text.ID
		doc.Tag = text.Tag
		doc.Description = text.Description
		if op.Summary == "" {
			doc.Summary = text.Summary
		}

		var err error
		gen, err = NewExampleGenerator(c.Model, p.store)
		if err != nil {
			return false, err
		}
		success := gen.Success(c.Kind)
		params = success.Parameters
		doc.Examples = append(doc.Examples, success)
	}
	doc.Examples = append(doc.Examples, ErrorExamples(params)...)

	state.operations[op] = doc

	if c.Kind == KindList && gen != nil && op.Returns != nil {
		state.setFieldExample(op.Returns.Field(schema.ResultsField), gen.Resource())
		state.setFieldExample(op.Returns.Field(schema.NextPageTokenField), "")
	}
	return true, nil
}
