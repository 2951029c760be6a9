package schema

import (
	stderrors "errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/aepdoc/internal/errors"
	ustrings "github.com/conduit-lang/aepdoc/internal/util/strings"
)

// Names of the fields on generated list response models
const (
	ResultsField       = "results"
	NextPageTokenField = "next_page_token"
)

type document struct {
	Templates []templateDoc `yaml:"templates" validate:"dive"`
	Services  []serviceDoc  `yaml:"services" validate:"required,min=1,dive"`
}

type templateDoc struct {
	Name       string          `yaml:"name" validate:"required"`
	Operations []templateOpDoc `yaml:"operations" validate:"required,min=1,dive"`
}

type templateOpDoc struct {
	Name    string `yaml:"name" validate:"required"`
	Op      string `yaml:"op" validate:"required,oneof=read list create update delete createOrReplace"`
	Summary string `yaml:"summary"`
	Doc     string `yaml:"doc"`
}

type serviceDoc struct {
	Name       string         `yaml:"name" validate:"required"`
	Namespace  string         `yaml:"namespace"`
	Title      string         `yaml:"title"`
	Version    string         `yaml:"version"`
	Models     []modelDoc     `yaml:"models" validate:"dive"`
	Interfaces []interfaceDoc `yaml:"interfaces" validate:"dive"`
}

type modelDoc struct {
	Name      string       `yaml:"name" validate:"required"`
	Namespace string       `yaml:"namespace"`
	Doc       string       `yaml:"doc"`
	Parent    string       `yaml:"parent"`
	Resource  *resourceDoc `yaml:"resource"`
	Fields    []fieldDoc   `yaml:"fields" validate:"dive"`
}

type resourceDoc struct {
	Type     string `yaml:"type" validate:"omitempty,lowercase"`
	Singular string `yaml:"singular"`
	Plural   string `yaml:"plural"`
}

type fieldDoc struct {
	Name    string `yaml:"name" validate:"required"`
	Type    string `yaml:"type" validate:"required"`
	Key     bool   `yaml:"key"`
	Doc     string `yaml:"doc"`
	Example any    `yaml:"example"`
}

type interfaceDoc struct {
	Name       string         `yaml:"name" validate:"required"`
	Template   string         `yaml:"template"`
	Resource   string         `yaml:"resource" validate:"required_with=Template"`
	Operations []operationDoc `yaml:"operations" validate:"dive"`
}

type operationDoc struct {
	Name             string `yaml:"name" validate:"required"`
	Op               string `yaml:"op" validate:"omitempty,oneof=read list create update delete createOrReplace"`
	Resource         string `yaml:"resource" validate:"required_with=Op"`
	Action           string `yaml:"action"`
	CollectionAction string `yaml:"collection_action"`
	Summary          string `yaml:"summary"`
	Doc              string `yaml:"doc"`
	Returns          string `yaml:"returns"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads and resolves a YAML schema document from path
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML schema document and resolves it into a Program.
// Validation and reference problems are reported together as an errors.List.
func Parse(data []byte, file string) (*Program, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewInvalidDocument(file, fmt.Sprintf("malformed YAML: %v", err)).
			WithFile(file).WithCause(err)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, validationDiagnostics(err, file)
	}

	r := &resolver{file: file, templates: make(map[string]templateDoc)}
	return r.resolve(&doc)
}

func validationDiagnostics(err error, file string) error {
	var valErrs validator.ValidationErrors
	if !stderrors.As(err, &valErrs) {
		return errors.NewInvalidDocument(file, err.Error()).WithFile(file).WithCause(err)
	}

	list := make(errors.List, 0, len(valErrs))
	for _, ve := range valErrs {
		msg := fmt.Sprintf("field '%s' failed '%s' validation", ve.Field(), ve.Tag())
		if ve.Param() != "" {
			msg = fmt.Sprintf("%s (%s)", msg, ve.Param())
		}
		list = append(list, errors.NewInvalidDocument(trimNamespace(ve.Namespace()), msg).WithFile(file))
	}
	return list
}

// trimNamespace drops the root struct name from a validator namespace
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

type resolver struct {
	file      string
	templates map[string]templateDoc
	diags     errors.List

	// per service
	models        []*Model
	listResponses map[*Model]*Model
}

func (r *resolver) report(d *errors.Diagnostic) {
	r.diags = append(r.diags, d.WithFile(r.file))
}

func (r *resolver) resolve(doc *document) (*Program, error) {
	for _, t := range doc.Templates {
		if _, exists := r.templates[t.Name]; exists {
			r.report(errors.NewInvalidDocument(t.Name, fmt.Sprintf("template '%s' declared twice", t.Name)))
			continue
		}
		r.templates[t.Name] = t
	}

	program := &Program{Services: make([]*Service, 0, len(doc.Services))}
	for i := range doc.Services {
		program.Services = append(program.Services, r.resolveService(&doc.Services[i]))
	}

	if err := r.diags.Err(); err != nil {
		return nil, err
	}
	return program, nil
}

func (r *resolver) resolveService(sd *serviceDoc) *Service {
	svc := &Service{
		Name:      sd.Name,
		Namespace: sd.Namespace,
		Title:     sd.Title,
		Version:   sd.Version,
	}
	if svc.Title == "" {
		svc.Title = sd.Name
	}
	if svc.Version == "" {
		svc.Version = "1.0.0"
	}

	r.models = make([]*Model, 0, len(sd.Models))
	r.listResponses = make(map[*Model]*Model)

	for i := range sd.Models {
		r.models = append(r.models, r.buildModel(&sd.Models[i], svc))
	}
	// Parents resolve in a second pass so declaration order does not matter.
	for i := range sd.Models {
		md := &sd.Models[i]
		if md.Parent == "" {
			continue
		}
		parent := r.lookupModel(md.Parent)
		if parent == nil {
			r.reportUnknownModel(md.Name, "parent model", md.Parent)
			continue
		}
		if r.models[i].Resource != nil && parent.Resource == nil {
			r.report(errors.NewParentNotResource(r.models[i].QualifiedName(), parent.QualifiedName()))
			continue
		}
		r.models[i].Parent = parent
	}
	svc.Models = r.models

	for i := range sd.Interfaces {
		if iface := r.resolveInterface(&sd.Interfaces[i]); iface != nil {
			svc.Interfaces = append(svc.Interfaces, iface)
		}
	}

	return svc
}

func (r *resolver) buildModel(md *modelDoc, svc *Service) *Model {
	ns := md.Namespace
	if ns == "" {
		ns = svc.Namespace
	}
	m := &Model{
		Name:      md.Name,
		Namespace: ns,
		Doc:       strings.TrimSpace(md.Doc),
		Fields:    make([]*Field, 0, len(md.Fields)),
	}
	for _, fd := range md.Fields {
		m.Fields = append(m.Fields, &Field{
			Name:    fd.Name,
			Type:    ParseScalarType(fd.Type),
			Key:     fd.Key,
			Doc:     fd.Doc,
			Example: fd.Example,
		})
	}
	if md.Resource != nil {
		m.Resource = resourceDecl(md.Resource, m)
	}
	return m
}

// resourceDecl fills in defaults: singular from the model name, plural by
// appending "s", type as <namespace>.<singular>.
func resourceDecl(rd *resourceDoc, m *Model) *ResourceDecl {
	decl := &ResourceDecl{Type: rd.Type, Singular: rd.Singular, Plural: rd.Plural}
	if decl.Singular == "" {
		decl.Singular = ustrings.ToSnakeCase(m.Name)
	}
	if decl.Plural == "" {
		decl.Plural = decl.Singular + "s"
	}
	if decl.Type == "" {
		decl.Type = decl.Singular
		if m.Namespace != "" {
			decl.Type = strings.ToLower(m.Namespace) + "." + decl.Singular
		}
	}
	return decl
}

// lookupModel resolves a qualified name first, then an unambiguous short name
func (r *resolver) lookupModel(name string) *Model {
	var match *Model
	matches := 0
	for _, m := range r.models {
		if m.QualifiedName() == name {
			return m
		}
		if m.Name == name {
			match = m
			matches++
		}
	}
	if matches == 1 {
		return match
	}
	return nil
}

func (r *resolver) reportUnknownModel(subject, kind, name string) {
	names := make([]string, 0, len(r.models))
	for _, m := range r.models {
		names = append(names, m.Name)
	}
	r.report(withSuggestions(errors.NewUnknownReference(subject, kind, name), ustrings.Similar(name, names)))
}

func withSuggestions(d *errors.Diagnostic, names []string) *errors.Diagnostic {
	if len(names) == 0 {
		return d
	}
	return d.WithSuggestion("did you mean " + strings.Join(names, ", ") + "?")
}

func (r *resolver) resolveInterface(id *interfaceDoc) *Interface {
	iface := &Interface{Name: id.Name}

	if id.Template != "" {
		tmpl, ok := r.templates[id.Template]
		if !ok {
			names := make([]string, 0, len(r.templates))
			for name := range r.templates {
				names = append(names, name)
			}
			sort.Strings(names)
			r.report(withSuggestions(errors.NewUnknownReference(id.Name, "template", id.Template),
				ustrings.Similar(id.Template, names)))
			return nil
		}
		model := r.lookupModel(id.Resource)
		if model == nil {
			r.reportUnknownModel(id.Name, "resource model", id.Resource)
			return nil
		}
		iface.TemplateInstance = true
		iface.Template = tmpl.Name
		for _, to := range tmpl.Operations {
			kind, _ := ParseResourceOpKind(to.Op)
			op := &Operation{
				Name:       to.Name,
				Summary:    to.Summary,
				Doc:        to.Doc,
				ResourceOp: &ResourceOpRef{Kind: kind, Model: model},
			}
			if kind == OpList {
				op.Returns = r.listResponse(model)
			}
			iface.AddOperation(op)
		}
	}

	for i := range id.Operations {
		if op := r.resolveOperation(iface, &id.Operations[i]); op != nil {
			iface.AddOperation(op)
		}
	}

	return iface
}

func (r *resolver) resolveOperation(iface *Interface, od *operationDoc) *Operation {
	subject := iface.Name + "." + od.Name

	tags := 0
	for _, s := range []string{od.Op, od.Action, od.CollectionAction} {
		if s != "" {
			tags++
		}
	}
	if tags > 1 {
		r.report(errors.NewConflictingTags(subject))
		return nil
	}

	op := &Operation{Name: od.Name, Summary: od.Summary, Doc: od.Doc}

	switch {
	case od.Op != "":
		kind, err := ParseResourceOpKind(od.Op)
		if err != nil {
			r.report(errors.NewInvalidDocument(subject, err.Error()))
			return nil
		}
		model := r.lookupModel(od.Resource)
		if model == nil {
			r.reportUnknownModel(subject, "resource model", od.Resource)
			return nil
		}
		op.ResourceOp = &ResourceOpRef{Kind: kind, Model: model}
		if kind == OpList && od.Returns == "" {
			op.Returns = r.listResponse(model)
		}
	case od.Action != "":
		op.Action = &ActionRef{Name: od.Action}
	case od.CollectionAction != "":
		op.CollectionAction = &ActionRef{Name: od.CollectionAction}
	}

	if od.Returns != "" {
		op.Returns = r.lookupModel(od.Returns)
		if op.Returns == nil {
			r.reportUnknownModel(subject, "model", od.Returns)
			return nil
		}
	}

	return op
}

// listResponse returns the generated list response model for a resource.
// Every list operation on the same resource shares one response model.
func (r *resolver) listResponse(model *Model) *Model {
	if resp, ok := r.listResponses[model]; ok {
		return resp
	}
	name := "List" + model.Name + "Response"
	if model.Resource != nil {
		name = "List" + ustrings.Capitalize(model.Resource.Plural) + "Response"
	}
	resp := &Model{
		Name:      name,
		Namespace: model.Namespace,
		Fields: []*Field{
			{Name: ResultsField, Type: TypeOther},
			{Name: NextPageTokenField, Type: TypeString},
		},
	}
	r.listResponses[model] = resp
	return resp
}
