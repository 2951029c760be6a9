package aep

import (
	"github.com/conduit-lang/aepdoc/internal/schema"
)

// Kind is the semantic category of an operation
type Kind string

const (
	KindUnclassified     Kind = ""
	KindRead             Kind = "read"
	KindList             Kind = "list"
	KindCreate           Kind = "create"
	KindUpdate           Kind = "update"
	KindDelete           Kind = "delete"
	KindCreateOrReplace  Kind = "createOrReplace"
	KindCustomAction     Kind = "custom-action"
	KindCollectionAction Kind = "collection-action"
)

var standardKinds = map[schema.ResourceOpKind]Kind{
	schema.OpRead:            KindRead,
	schema.OpList:            KindList,
	schema.OpCreate:          KindCreate,
	schema.OpUpdate:          KindUpdate,
	schema.OpDelete:          KindDelete,
	schema.OpCreateOrReplace: KindCreateOrReplace,
}

// Classification is the outcome of classifying an operation
type Classification struct {
	Kind Kind
	// Model owns the operation; nil when it could not be resolved
	Model    *schema.Model
	Metadata *ResourceMetadata
	// ActionName is set for custom and collection actions
	ActionName string
}

// Classified reports whether the operation belongs to the resource-operation vocabulary
func (c Classification) Classified() bool {
	return c.Kind != KindUnclassified
}

// Resolved reports whether the owning resource is known
func (c Classification) Resolved() bool {
	return c.Metadata != nil
}

// Classify maps an operation to its kind. Standard resource operations are
// classified directly; actions borrow their owning resource from the first
// sibling standard operation in the same interface. Operations outside the
// vocabulary come back unclassified.
func Classify(op *schema.Operation, store *Store) Classification {
	if ref := op.ResourceOp; ref != nil {
		if md, ok := store.Get(ref.Model); ok {
			return Classification{Kind: standardKinds[ref.Kind], Model: ref.Model, Metadata: md}
		}
	}

	var kind Kind
	var name string
	switch {
	case op.Action != nil:
		kind, name = KindCustomAction, op.Action.Name
	case op.CollectionAction != nil:
		kind, name = KindCollectionAction, op.CollectionAction.Name
	default:
		return Classification{Kind: KindUnclassified}
	}

	model, md := inferFromSiblings(op, store)
	return Classification{Kind: kind, Model: model, Metadata: md, ActionName: name}
}

func inferFromSiblings(op *schema.Operation, store *Store) (*schema.Model, *ResourceMetadata) {
	if op.Interface == nil {
		return nil, nil
	}
	for _, sibling := range op.Interface.Operations {
		if sibling == op || sibling.ResourceOp == nil {
			continue
		}
		if md, ok := store.Get(sibling.ResourceOp.Model); ok {
			return sibling.ResourceOp.Model, md
		}
	}
	return nil, nil
}
