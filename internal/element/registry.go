package element

import (
	"github.com/google/uuid"
)

// Registry is the side lookup from element identity to source metadata and
// to a stable inspector-assigned identity token. Keeping the metadata out of
// the elements themselves means the host layer stays untouched and a missing
// record simply reads as "not inspectable".
type Registry struct {
	sources    map[string]Source
	identities map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources:    make(map[string]Source),
		identities: make(map[string]string),
	}
}

// Tag attaches a source record to an element. Incomplete records are stored
// as-is; they just never qualify the element as inspectable.
func (r *Registry) Tag(h Handle, src Source) {
	if h == nil {
		return
	}
	r.sources[h.ID()] = src
}

// Untag removes an element's record and identity token.
func (r *Registry) Untag(id string) {
	delete(r.sources, id)
	delete(r.identities, id)
}

// SourceOf returns the element's source record, if any.
func (r *Registry) SourceOf(h Handle) (Source, bool) {
	if h == nil {
		return Source{}, false
	}
	src, ok := r.sources[h.ID()]
	return src, ok
}

// Inspectable reports whether the element qualifies for inspection: still
// attached and carrying a complete source record.
func (r *Registry) Inspectable(h Handle) bool {
	if h == nil || !h.Attached() {
		return false
	}
	src, ok := r.sources[h.ID()]
	return ok && src.Complete()
}

// NearestInspectableAncestor walks the parent chain and returns the first
// inspectable ancestor, or nil when the element is a root candidate.
func (r *Registry) NearestInspectableAncestor(h Handle) Handle {
	if h == nil {
		return nil
	}
	for p := h.Parent(); p != nil; p = p.Parent() {
		if r.Inspectable(p) {
			return p
		}
	}
	return nil
}

// IdentityOf returns a token that is stable for the element's lifetime,
// assigning one on first use. Hierarchy node ids derive from this token, so
// node identity survives reordering of the flat element set.
func (r *Registry) IdentityOf(id string) string {
	if tok, ok := r.identities[id]; ok {
		return tok
	}
	tok := uuid.NewString()
	r.identities[id] = tok
	return tok
}

// Clear drops every record, leaving the registry reusable.
func (r *Registry) Clear() {
	r.sources = make(map[string]Source)
	r.identities = make(map[string]string)
}
