package aep

import (
	"strings"

	"github.com/conduit-lang/aepdoc/internal/errors"
	"github.com/conduit-lang/aepdoc/internal/schema"
)

// MaxParentDepth bounds the parent walk. Resource trees are shallow in
// practice; a longer chain means the parent graph is cyclic.
const MaxParentDepth = 16

// link is one resource in a parent chain
type link struct {
	model    *schema.Model
	metadata *ResourceMetadata
}

// ancestry returns the chain of resource models from the root ancestor down
// to m. The walk stops at the first parent without metadata.
func ancestry(m *schema.Model, store *Store) ([]link, error) {
	md, ok := store.Get(m)
	if !ok {
		return nil, nil
	}

	chain := []link{{model: m, metadata: md}}
	seen := map[*schema.Model]bool{m: true}

	for cur := store.Parent(m); cur != nil; cur = store.Parent(cur) {
		parentMD, ok := store.Get(cur)
		if !ok {
			break
		}
		if seen[cur] || len(chain) >= MaxParentDepth {
			return nil, errors.NewParentCycle(m.QualifiedName(), MaxParentDepth)
		}
		seen[cur] = true
		chain = append(chain, link{model: cur, metadata: parentMD})
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// BuildPattern returns the full path pattern of a resource model, e.g.
// "publishers/{publisher}/books/{book}". Models without metadata yield "".
func BuildPattern(m *schema.Model, store *Store) (string, error) {
	chain, err := ancestry(m, store)
	if err != nil {
		return "", err
	}
	return patternOf(chain), nil
}

func patternOf(chain []link) string {
	segments := make([]string, 0, len(chain))
	for _, l := range chain {
		segments = append(segments, l.metadata.Plural+"/{"+l.metadata.Singular+"}")
	}
	return strings.Join(segments, "/")
}

// CollectionPattern returns the pattern of the collection containing m,
// e.g. "publishers/{publisher}/books".
func CollectionPattern(m *schema.Model, store *Store) (string, error) {
	chain, err := ancestry(m, store)
	if err != nil || len(chain) == 0 {
		return "", err
	}
	last := chain[len(chain)-1]
	parent := patternOf(chain[:len(chain)-1])
	if parent == "" {
		return last.metadata.Plural, nil
	}
	return parent + "/" + last.metadata.Plural, nil
}
