package hierarchy

import (
	"hash/fnv"
	"strconv"

	"go.uber.org/zap"

	"sourcelens/internal/element"
)

// Builder constructs the forest from the flat inspectable-element sequence
// and skips rebuilds when the set's content fingerprint is unchanged. The
// input must come from a depth-first traversal of the rendered tree, so
// ancestors always precede their descendants and sibling order is rendered
// document order.
type Builder struct {
	log  *zap.Logger
	reg  *element.Registry
	last string
	tree *Tree
}

// NewBuilder creates a builder over the given registry.
func NewBuilder(reg *element.Registry, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log, reg: reg, tree: emptyTree()}
}

// Tree returns the most recently built forest.
func (b *Builder) Tree() *Tree { return b.tree }

// Invalidate clears the remembered fingerprint so the next Build always
// reconstructs the forest.
func (b *Builder) Invalidate() { b.last = "" }

// Build constructs the forest for the given elements, which are filtered to
// the inspectable subset. rebuilt is false when the fingerprint matched the
// previous build and the existing tree was returned untouched. Expansion
// state carries over to nodes whose id survives the rebuild.
func (b *Builder) Build(elements []element.Handle) (tree *Tree, rebuilt bool) {
	inspectable := make([]element.Handle, 0, len(elements))
	for _, h := range elements {
		if b.reg.Inspectable(h) {
			inspectable = append(inspectable, h)
		}
	}

	fp := b.fingerprint(inspectable)
	if fp == b.last && b.tree != nil {
		return b.tree, false
	}

	expanded := make(map[string]bool)
	if b.tree != nil {
		for _, n := range b.tree.flat {
			expanded[n.ID] = n.Expanded
		}
	}

	t := emptyTree()
	for _, h := range inspectable {
		src, _ := b.reg.SourceOf(h)
		n := &Node{
			ID:       "node-" + b.reg.IdentityOf(h.ID()),
			Element:  h,
			Source:   src,
			Expanded: true,
		}
		if was, ok := expanded[n.ID]; ok {
			n.Expanded = was
		}

		if anc := b.reg.NearestInspectableAncestor(h); anc != nil {
			if parent, ok := t.byElement[anc.ID()]; ok {
				n.Parent = parent
				n.Depth = parent.Depth + 1
				parent.Children = append(parent.Children, n)
			} else {
				// Ancestor outside the provided sequence; degrade to root
				// rather than dropping the element.
				b.log.Debug("inspectable ancestor missing from input, promoting to root",
					zap.String("element", h.ID()),
					zap.String("ancestor", anc.ID()))
				t.Roots = append(t.Roots, n)
			}
		} else {
			t.Roots = append(t.Roots, n)
		}

		t.byID[n.ID] = n
		t.byElement[h.ID()] = n
		t.flat = append(t.flat, n)
	}

	b.tree = t
	b.last = fp
	b.log.Debug("hierarchy rebuilt",
		zap.Int("nodes", len(t.flat)),
		zap.Int("roots", len(t.Roots)))
	return t, true
}

// fingerprint concatenates each element's path/filename/line in traversal
// order and hashes the result. Only content changes invalidate the build;
// pure geometry mutations never do.
func (b *Builder) fingerprint(elements []element.Handle) string {
	h := fnv.New64a()
	for _, el := range elements {
		src, _ := b.reg.SourceOf(el)
		h.Write([]byte(src.Key()))
		h.Write([]byte{0})
	}
	return strconv.Itoa(len(elements)) + ":" + strconv.FormatUint(h.Sum64(), 16)
}

func emptyTree() *Tree {
	return &Tree{
		byID:      make(map[string]*Node),
		byElement: make(map[string]*Node),
	}
}
