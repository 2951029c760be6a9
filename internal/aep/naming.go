package aep

import (
	"fmt"

	ustrings "github.com/conduit-lang/aepdoc/internal/util/strings"
)

// Text is the synthesized naming of a classified operation
type Text struct {
	ID          string
	Tag         string
	Summary     string
	Description string
}

// Synthesize derives the operation ID, tag, summary and description for a
// resolved classification. The result is a pure function of kind, action
// name and metadata. It reports false for unclassified or unresolved input.
func Synthesize(c Classification) (Text, bool) {
	if !c.Classified() || !c.Resolved() {
		return Text{}, false
	}

	singular := ustrings.Capitalize(c.Metadata.Singular)
	plural := ustrings.Capitalize(c.Metadata.Plural)
	text := Text{Tag: plural}

	var verb string
	switch c.Kind {
	case KindRead:
		verb = "Get"
	case KindList:
		verb = "List"
	case KindCreate:
		verb = "Create"
	case KindUpdate:
		verb = "Update"
	case KindDelete:
		verb = "Delete"
	case KindCreateOrReplace:
		verb = "Apply"
	case KindCustomAction:
		action := ustrings.Capitalize(c.ActionName)
		text.ID = ":" + action + singular
		text.Summary = action + " " + singular
	case KindCollectionAction:
		action := ustrings.Capitalize(c.ActionName)
		text.ID = ":" + action + plural
		text.Summary = action + " " + plural
	}

	if verb != "" {
		noun := singular
		if c.Kind == KindList {
			noun = plural
		}
		text.ID = verb + noun
		text.Summary = verb + " " + noun
	}

	text.Description = describe(c)
	return text, true
}

func describe(c Classification) string {
	md := c.Metadata
	switch c.Kind {
	case KindRead:
		return fmt.Sprintf("Retrieves a single %s by its resource path.", md.Singular)
	case KindList:
		return fmt.Sprintf("Lists %s with support for filtering, pagination, and sorting.", md.Plural)
	case KindCreate:
		return fmt.Sprintf("Creates a new %s.", md.Singular)
	case KindUpdate:
		return fmt.Sprintf("Updates an existing %s using merge-patch semantics.", md.Singular)
	case KindDelete:
		return fmt.Sprintf("Deletes a %s.", md.Singular)
	case KindCreateOrReplace:
		return fmt.Sprintf("Creates a %s, or replaces it if it already exists.", md.Singular)
	case KindCustomAction:
		return fmt.Sprintf("Performs the %s action on a %s.", c.ActionName, md.Singular)
	case KindCollectionAction:
		return fmt.Sprintf("Performs the %s action on the %s collection.", c.ActionName, md.Plural)
	default:
		return ""
	}
}

// FallbackDescription is the generated description of a resource model
// without authored documentation
func FallbackDescription(md *ResourceMetadata) string {
	return fmt.Sprintf("A %s resource.", md.Singular)
}
