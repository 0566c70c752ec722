package parser

import (
	"github.com/castrlabs/castr/castrerrors"
)

// MaxRefDepth is the maximum length of a reference-to-reference chain the
// resolver will follow. This bounds alias chains such as a parameter whose
// definition is only a $ref to another parameter.
const MaxRefDepth = 100

// Resolver looks up parsed references in a document's component tables,
// including the x-ext buckets that hold components bundled from external
// files. Lookups never mutate the document.
type Resolver struct {
	doc *Document

	// MaxDepth bounds alias chain following. Defaults to MaxRefDepth.
	MaxDepth int
}

// NewResolver creates a resolver over the given document.
func NewResolver(doc *Document) *Resolver {
	return &Resolver{doc: doc, MaxDepth: MaxRefDepth}
}

// components returns the component table the reference points into: the
// document's own table for plain refs, or the matching x-ext bucket for
// refs carrying a source hash.
func (r *Resolver) components(ref Ref) (*Components, error) {
	if r.doc == nil {
		return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
	}
	if ref.SourceHash == "" {
		if r.doc.Components == nil {
			return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
		}
		return r.doc.Components, nil
	}
	bucket, ok := r.doc.XExt[ref.SourceHash]
	if !ok || bucket == nil || bucket.Components == nil {
		return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
	}
	return bucket.Components, nil
}

// Schema returns the schema component the reference names. The lookup is a
// single table access: if the named schema is itself a $ref it is returned
// as-is, since schema references may legally form cycles and callers handle
// the reference form themselves.
func (r *Resolver) Schema(ref Ref) (*Schema, error) {
	comps, err := r.components(ref)
	if err != nil {
		return nil, err
	}
	s, ok := comps.Schemas[ref.Name]
	if !ok || s == nil {
		return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
	}
	return s, nil
}

// Parameter resolves the reference to a concrete parameter, following alias
// chains where a parameter's definition is only another $ref.
func (r *Resolver) Parameter(ref Ref) (*Parameter, error) {
	var chain []string
	for depth := 0; ; depth++ {
		if err := checkChain(ref, chain, depth, r.maxDepth()); err != nil {
			return nil, err
		}
		chain = append(chain, ref.String())

		comps, err := r.components(ref)
		if err != nil {
			return nil, err
		}
		p, ok := comps.Parameters[ref.Name]
		if !ok || p == nil {
			return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
		}
		if p.Ref == "" {
			return p, nil
		}
		next, err := ParseRef(p.Ref)
		if err != nil {
			return nil, err
		}
		ref = next
	}
}

// Response resolves the reference to a concrete response, following alias
// chains.
func (r *Resolver) Response(ref Ref) (*Response, error) {
	var chain []string
	for depth := 0; ; depth++ {
		if err := checkChain(ref, chain, depth, r.maxDepth()); err != nil {
			return nil, err
		}
		chain = append(chain, ref.String())

		comps, err := r.components(ref)
		if err != nil {
			return nil, err
		}
		resp, ok := comps.Responses[ref.Name]
		if !ok || resp == nil {
			return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
		}
		if resp.Ref == "" {
			return resp, nil
		}
		next, err := ParseRef(resp.Ref)
		if err != nil {
			return nil, err
		}
		ref = next
	}
}

// RequestBody resolves the reference to a concrete request body, following
// alias chains.
func (r *Resolver) RequestBody(ref Ref) (*RequestBody, error) {
	var chain []string
	for depth := 0; ; depth++ {
		if err := checkChain(ref, chain, depth, r.maxDepth()); err != nil {
			return nil, err
		}
		chain = append(chain, ref.String())

		comps, err := r.components(ref)
		if err != nil {
			return nil, err
		}
		rb, ok := comps.RequestBodies[ref.Name]
		if !ok || rb == nil {
			return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
		}
		if rb.Ref == "" {
			return rb, nil
		}
		next, err := ParseRef(rb.Ref)
		if err != nil {
			return nil, err
		}
		ref = next
	}
}

// Header resolves the reference to a concrete header, following alias chains.
func (r *Resolver) Header(ref Ref) (*Header, error) {
	var chain []string
	for depth := 0; ; depth++ {
		if err := checkChain(ref, chain, depth, r.maxDepth()); err != nil {
			return nil, err
		}
		chain = append(chain, ref.String())

		comps, err := r.components(ref)
		if err != nil {
			return nil, err
		}
		h, ok := comps.Headers[ref.Name]
		if !ok || h == nil {
			return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
		}
		if h.Ref == "" {
			return h, nil
		}
		next, err := ParseRef(h.Ref)
		if err != nil {
			return nil, err
		}
		ref = next
	}
}

// SecurityScheme resolves the reference to a security scheme. Scheme
// definitions do not alias, so this is a single table access.
func (r *Resolver) SecurityScheme(ref Ref) (*SecurityScheme, error) {
	comps, err := r.components(ref)
	if err != nil {
		return nil, err
	}
	s, ok := comps.SecuritySchemes[ref.Name]
	if !ok || s == nil {
		return nil, &castrerrors.UnresolvedReferenceError{Ref: ref.Raw}
	}
	return s, nil
}

func (r *Resolver) maxDepth() int {
	if r.MaxDepth > 0 {
		return r.MaxDepth
	}
	return MaxRefDepth
}

// checkChain guards one step of alias chain following: the depth cap catches
// runaway chains, and the revisit check catches alias cycles, which have no
// concrete component to land on.
func checkChain(ref Ref, chain []string, depth, maxDepth int) error {
	if depth > maxDepth {
		return &castrerrors.CircularReferenceError{Ref: ref.Raw, Chain: chain}
	}
	key := ref.String()
	for _, seen := range chain {
		if seen == key {
			return &castrerrors.CircularReferenceError{Ref: ref.Raw, Chain: append(chain, key)}
		}
	}
	return nil
}
