// Package openapi turns the metadata derived by a pass into OpenAPI 3
// documents, one per service.
package openapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/conduit-lang/aepdoc/internal/aep"
	"github.com/conduit-lang/aepdoc/internal/errors"
	"github.com/conduit-lang/aepdoc/internal/schema"
)

const (
	// Version is the OpenAPI version of emitted documents
	Version = "3.0.3"

	// ResourceExtension is the vendor extension carrying resource identity
	ResourceExtension = "x-aep-resource"

	// ProblemSchema is the component name of the error payload
	ProblemSchema = "Problem"

	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
)

// Option configures an Emitter
type Option func(*Emitter)

// WithServer adds a server entry to every document
func WithServer(url, description string) Option {
	return func(e *Emitter) {
		if url != "" {
			e.servers = append(e.servers, &openapi3.Server{URL: url, Description: description})
		}
	}
}

// WithVersion replaces the version of every document
func WithVersion(version string) Option {
	return func(e *Emitter) {
		e.version = version
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Emitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Emitter builds OpenAPI documents from a pass state
type Emitter struct {
	state   *aep.State
	servers openapi3.Servers
	version string
	logger  *zap.Logger
}

// NewEmitter creates an emitter reading from state
func NewEmitter(state *aep.State, opts ...Option) *Emitter {
	e := &Emitter{state: state, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// build carries the per-document bookkeeping
type build struct {
	doc    *openapi3.T
	names  map[*schema.Model]string
	routes map[string]*schema.Operation
}

// Emit builds the document of one service
func (e *Emitter) Emit(svc *schema.Service) *openapi3.T {
	b := &build{
		doc: &openapi3.T{
			OpenAPI: Version,
			Info: &openapi3.Info{
				Title:   svc.Title,
				Version: svc.Version,
			},
			Servers: e.servers,
			Paths:   openapi3.NewPaths(),
			Components: &openapi3.Components{
				Schemas: openapi3.Schemas{},
			},
		},
		names:  make(map[*schema.Model]string),
		routes: make(map[string]*schema.Operation),
	}
	if b.doc.Info.Title == "" {
		b.doc.Info.Title = svc.Name
	}
	if e.version != "" {
		b.doc.Info.Version = e.version
	}
	if b.doc.Info.Version == "" {
		b.doc.Info.Version = "1.0.0"
	}

	for _, tag := range e.state.Tags(svc) {
		b.doc.Tags = append(b.doc.Tags, &openapi3.Tag{Name: tag.Name, Description: tag.Description})
	}

	b.doc.Components.Schemas[ProblemSchema] = openapi3.NewSchemaRef("", problemSchema())
	for _, m := range svc.Models {
		e.modelSchema(b, m)
	}

	for _, iface := range svc.Interfaces {
		for _, op := range iface.Operations {
			e.operation(b, iface, op)
		}
	}

	return b.doc
}

// Validate checks a document with kin-openapi's validator
func Validate(ctx context.Context, service string, doc *openapi3.T) error {
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return errors.NewInvalidOpenAPI(service, err)
	}
	return nil
}

// componentName picks a unique component name for m: its name, then its
// qualified name, then the qualified name with a numeric suffix. Built-in
// components such as Problem are registered first and never replaced.
func (b *build) componentName(m *schema.Model) string {
	if name, ok := b.names[m]; ok {
		return name
	}
	taken := func(name string) bool {
		_, ok := b.doc.Components.Schemas[name]
		return ok
	}
	name := m.Name
	if taken(name) {
		name = m.QualifiedName()
	}
	for i := 2; taken(name); i++ {
		name = m.QualifiedName() + strconv.Itoa(i)
	}
	b.names[m] = name
	return name
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}

// modelSchema registers the component schema of m and returns a reference to it
func (e *Emitter) modelSchema(b *build, m *schema.Model) *openapi3.SchemaRef {
	if name, ok := b.names[m]; ok {
		return &openapi3.SchemaRef{Ref: componentRef(name), Value: b.doc.Components.Schemas[name].Value}
	}
	name := b.componentName(m)

	s := openapi3.NewObjectSchema()
	s.Description = m.Doc
	if s.Description == "" {
		s.Description, _ = e.state.Description(m)
	}
	for _, f := range m.Fields {
		s.WithPropertyRef(f.Name, openapi3.NewSchemaRef("", e.fieldSchema(f)))
	}
	if ext, ok := e.state.Resource(m); ok {
		s.Extensions = map[string]any{ResourceExtension: ext}
	}

	b.doc.Components.Schemas[name] = openapi3.NewSchemaRef("", s)
	return &openapi3.SchemaRef{Ref: componentRef(name), Value: s}
}

func (e *Emitter) fieldSchema(f *schema.Field) *openapi3.Schema {
	var s *openapi3.Schema
	switch f.Type {
	case schema.TypeString:
		s = openapi3.NewStringSchema()
	case schema.TypeInt32:
		s = openapi3.NewInt32Schema()
	case schema.TypeInt64:
		s = openapi3.NewInt64Schema()
	case schema.TypeFloat32:
		s = openapi3.NewFloat64Schema().WithFormat("float")
	case schema.TypeFloat64:
		s = openapi3.NewFloat64Schema()
	case schema.TypeBool:
		s = openapi3.NewBoolSchema()
	case schema.TypeTimestamp:
		s = openapi3.NewDateTimeSchema()
	default:
		s = &openapi3.Schema{}
	}
	s.Description = f.Doc
	if f.Key || f.Name == aep.PathField {
		s.ReadOnly = true
	}
	if f.Example != nil {
		s.Example = f.Example
	} else if v, ok := e.state.FieldExample(f); ok {
		s.Example = v
	}
	return s
}

// listResponseSchema registers a list response model whose results hold
// items of resource. Registering it again is harmless.
func (e *Emitter) listResponseSchema(b *build, resp, resource *schema.Model) *openapi3.SchemaRef {
	item := e.modelSchema(b, resource)
	ref := e.modelSchema(b, resp)

	if results := resp.Field(schema.ResultsField); results != nil {
		array := openapi3.NewArraySchema()
		array.Items = &openapi3.SchemaRef{Ref: item.Ref, Value: item.Value}
		array.Description = results.Doc
		if v, ok := e.state.FieldExample(results); ok {
			array.Example = []any{v}
		}
		ref.Value.Properties[schema.ResultsField] = openapi3.NewSchemaRef("", array)
	}
	return ref
}

func (e *Emitter) operation(b *build, iface *schema.Interface, op *schema.Operation) {
	log := e.logger.With(zap.String("interface", iface.Name), zap.String("operation", op.Name))

	doc, ok := e.state.Operation(op)
	if !ok || doc.Resource == nil {
		log.Debug("operation has no route")
		return
	}
	ext, _ := e.state.Resource(doc.Resource)

	route, err := RouteFor(doc.Kind, ActionName(op), e.state.Pattern(doc.Resource), ext.Singular)
	if err != nil {
		log.Warn("route synthesis failed", zap.Error(err))
		return
	}
	if prev, taken := b.routes[route.Key()]; taken {
		log.Warn("route already bound", zap.String("route", route.Key()), zap.String("bound_to", prev.Name))
		return
	}
	b.routes[route.Key()] = op

	o := openapi3.NewOperation()
	o.OperationID = doc.ID
	o.Summary = e.state.Summary(op)
	o.Description = doc.Description
	o.Tags = []string{doc.Tag}
	o.Responses = &openapi3.Responses{}

	var success *aep.Example
	for i := range doc.Examples {
		if doc.Examples[i].Status < 400 {
			success = &doc.Examples[i]
			break
		}
	}

	for _, name := range route.Params {
		p := openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())
		if success != nil {
			p.Example = success.Parameters[name]
		}
		o.AddParameter(p)
	}

	resource := e.modelSchema(b, doc.Resource)
	switch doc.Kind {
	case aep.KindCreate, aep.KindCreateOrReplace, aep.KindUpdate:
		contentType := jsonContentType
		if doc.Kind == aep.KindUpdate {
			contentType = aep.MergePatchContentType
		}
		body := openapi3.NewRequestBody().WithRequired(true).
			WithContent(openapi3.NewContentWithSchemaRef(resource, []string{contentType}))
		if success != nil {
			body.Content.Get(contentType).Examples = namedExample("success", success.Parameters["resource"])
		}
		o.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	var responseSchema *openapi3.SchemaRef
	switch {
	case doc.Kind == aep.KindList && op.Returns != nil:
		responseSchema = e.listResponseSchema(b, op.Returns, doc.Resource)
	case doc.Kind == aep.KindDelete:
	default:
		responseSchema = resource
	}

	for i := range doc.Examples {
		ex := &doc.Examples[i]
		o.AddResponse(ex.Status, e.response(ex, responseSchema))
	}

	b.doc.AddOperation(route.Path, route.Method, o)
	log.Debug("operation emitted", zap.String("route", route.Key()), zap.String("id", doc.ID))
}

func (e *Emitter) response(ex *aep.Example, success *openapi3.SchemaRef) *openapi3.Response {
	desc := http.StatusText(ex.Status)
	if desc == "" {
		desc = strconv.Itoa(ex.Status)
	}
	resp := openapi3.NewResponse().WithDescription(desc)

	if ex.Status >= 400 {
		problem := &openapi3.SchemaRef{Ref: componentRef(ProblemSchema), Value: problemSchema()}
		resp.Content = openapi3.NewContentWithSchemaRef(problem, []string{problemContentType})
		resp.Content.Get(problemContentType).Examples = namedExample(ex.Title, ex.ReturnType)
		return resp
	}

	if ex.ReturnType == nil || success == nil {
		return resp
	}
	resp.Content = openapi3.NewContentWithJSONSchemaRef(success)
	resp.Content.Get(jsonContentType).Examples = namedExample("success", ex.ReturnType)
	return resp
}

func namedExample(name string, value any) openapi3.Examples {
	return openapi3.Examples{
		name: &openapi3.ExampleRef{Value: openapi3.NewExample(value)},
	}
}

func problemSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.Description = "Problem details describing a failed request."
	s.WithProperty("type", openapi3.NewStringSchema().WithFormat("uri"))
	s.WithProperty("title", openapi3.NewStringSchema())
	s.WithProperty("status", openapi3.NewInt32Schema())
	s.WithProperty("detail", openapi3.NewStringSchema())
	return s
}

// ActionName returns the custom or collection action name of op, or ""
func ActionName(op *schema.Operation) string {
	switch {
	case op.Action != nil:
		return op.Action.Name
	case op.CollectionAction != nil:
		return op.CollectionAction.Name
	default:
		return ""
	}
}
