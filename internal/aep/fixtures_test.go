package aep

import (
	"github.com/conduit-lang/aepdoc/internal/schema"
)

type library struct {
	program   *schema.Program
	service   *schema.Service
	publisher *schema.Model
	book      *schema.Model
	listBooks *schema.Model

	ops map[string]*schema.Operation
}

func resourceModel(name, singular, plural string, parent *schema.Model, fields ...*schema.Field) *schema.Model {
	return &schema.Model{
		Name:      name,
		Namespace: "library",
		Fields:    fields,
		Parent:    parent,
		Resource: &schema.ResourceDecl{
			Type:     "library.example.com/" + singular,
			Singular: singular,
			Plural:   plural,
		},
	}
}

func keyField() *schema.Field {
	return &schema.Field{Name: "id", Type: schema.TypeString, Key: true}
}

func pathField() *schema.Field {
	return &schema.Field{Name: "path", Type: schema.TypeString}
}

func standardOp(name string, kind schema.ResourceOpKind, m *schema.Model) *schema.Operation {
	return &schema.Operation{Name: name, ResourceOp: &schema.ResourceOpRef{Kind: kind, Model: m}}
}

// newLibrary builds a publisher/book service with template-instantiated
// CRUD interfaces, a hand-authored interface with actions, an interface
// whose action cannot be resolved, and an untagged operation.
func newLibrary() *library {
	publisher := resourceModel("Publisher", "publisher", "publishers", nil,
		keyField(), pathField(),
		&schema.Field{Name: "display_name", Type: schema.TypeString},
	)
	publisher.Doc = "A publishing house."

	book := resourceModel("Book", "book", "books", publisher,
		keyField(), pathField(),
		&schema.Field{Name: "title", Type: schema.TypeString},
		&schema.Field{Name: "isbn", Type: schema.TypeString, Example: "978-0-306-40615-7"},
		&schema.Field{Name: "page_count", Type: schema.TypeInt32},
		&schema.Field{Name: "price", Type: schema.TypeFloat64},
		&schema.Field{Name: "published", Type: schema.TypeBool},
		&schema.Field{Name: "create_time", Type: schema.TypeTimestamp},
		&schema.Field{Name: "metadata", Type: schema.TypeOther},
	)

	listBooks := &schema.Model{
		Name: "ListBooksResponse",
		Fields: []*schema.Field{
			{Name: schema.ResultsField, Type: schema.TypeOther},
			{Name: schema.NextPageTokenField, Type: schema.TypeString},
		},
	}

	lib := &library{publisher: publisher, book: book, listBooks: listBooks, ops: make(map[string]*schema.Operation)}

	publishers := &schema.Interface{Name: "Publishers", TemplateInstance: true, Template: "ResourceOperations"}
	lib.add(publishers, "Publishers.get", standardOp("get", schema.OpRead, publisher))
	lib.add(publishers, "Publishers.list", standardOp("list", schema.OpList, publisher))

	books := &schema.Interface{Name: "Books", TemplateInstance: true, Template: "ResourceOperations"}
	lib.add(books, "Books.get", standardOp("get", schema.OpRead, book))
	list := standardOp("list", schema.OpList, book)
	list.Returns = listBooks
	lib.add(books, "Books.list", list)
	lib.add(books, "Books.create", standardOp("create", schema.OpCreate, book))
	lib.add(books, "Books.update", standardOp("update", schema.OpUpdate, book))
	lib.add(books, "Books.delete", standardOp("delete", schema.OpDelete, book))
	lib.add(books, "Books.apply", standardOp("apply", schema.OpCreateOrReplace, book))

	methods := &schema.Interface{Name: "BookMethods"}
	lib.add(methods, "BookMethods.archive", &schema.Operation{Name: "archive", Action: &schema.ActionRef{Name: "archive"}})
	lib.add(methods, "BookMethods.read", standardOp("read", schema.OpRead, book))
	lib.add(methods, "BookMethods.export", &schema.Operation{
		Name:             "export",
		Summary:          "Export every book",
		CollectionAction: &schema.ActionRef{Name: "export"},
	})

	orphans := &schema.Interface{Name: "Orphans"}
	lib.add(orphans, "Orphans.ping", &schema.Operation{Name: "ping", Action: &schema.ActionRef{Name: "ping"}})
	lib.add(orphans, "Orphans.health", &schema.Operation{Name: "health"})

	lib.service = &schema.Service{
		Name:       "Library",
		Namespace:  "library",
		Models:     []*schema.Model{publisher, book},
		Interfaces: []*schema.Interface{publishers, books, methods, orphans},
	}
	lib.program = &schema.Program{Services: []*schema.Service{lib.service}}
	return lib
}

func (l *library) add(iface *schema.Interface, key string, op *schema.Operation) {
	iface.AddOperation(op)
	l.ops[key] = op
}

func (l *library) store() *Store {
	store, err := NewStoreFromProgram(l.program)
	if err != nil {
		panic(err)
	}
	return store
}
