package builder

import (
	"github.com/castrlabs/castr/internal/pathutil"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// site describes how a schema node sits in its parent context: whether the
// parent considers it required, and what presence wrapping the validation
// chain gets. Object properties and parameters carry required/optional
// presence; composition members and array/tuple item schemas suppress
// presence wrapping entirely.
type site struct {
	required bool
	presence ir.Presence
}

// propertySite is the site for object properties, parameter schemas, and
// request body content schemas.
func propertySite(required bool) site {
	if required {
		return site{required: true, presence: ir.PresenceRequired}
	}
	return site{presence: ir.PresenceOptional}
}

// memberSite is the site for composition members, array items, tuple items,
// and every other position where required/optional has no meaning.
func memberSite() site {
	return site{presence: ir.PresenceNone}
}

// buildContext carries per-build state through the recursive schema builders.
// One context covers one top-level component or one operation; contexts are
// never shared across top-level builds, so metadata computed for one
// reference site never leaks into another.
type buildContext struct {
	b        *Builder
	doc      *parser.Document
	resolver *parser.Resolver
	oas31    bool

	// path is the diagnostics path to the node currently being built,
	// e.g. "components.schemas.Pet.properties.name".
	path *pathutil.PathBuilder

	// building is the set of canonical refs on the current build stack.
	// A reference to a member of this set closes a cycle and is emitted
	// as a reference node with circular metadata instead of recursing.
	building map[string]bool

	// owner is the canonical ref of the named component being built, or
	// empty for anonymous operation-level schemas. Composition members
	// record it as their inheritance parent.
	owner string

	// rootPath is the diagnostics path where the current top-level build
	// started, used to distinguish the component root from nested nodes.
	rootPath string
}

// newBuildContext creates the shared context for one parsed document.
// beginComponent or beginAnonymous scopes it to a top-level build.
func (b *Builder) newBuildContext(doc *parser.Document, oas31 bool) *buildContext {
	resolver := parser.NewResolver(doc)
	resolver.MaxDepth = b.maxRefDepth
	return &buildContext{
		b:        b,
		doc:      doc,
		resolver: resolver,
		oas31:    oas31,
		path:     pathutil.Get(),
	}
}

// release returns the context's path builder to the pool.
func (bc *buildContext) release() {
	pathutil.Put(bc.path)
	bc.path = nil
}

// beginComponent scopes the context to one named component build. The
// component's own ref seeds the in-progress set so self-referential schemas
// are caught without a separate first-visit case.
func (bc *buildContext) beginComponent(canonicalRef string) {
	bc.owner = canonicalRef
	bc.building = map[string]bool{canonicalRef: true}
	bc.rootPath = bc.path.String()
}

// beginAnonymous scopes the context to an operation-level schema with no
// owning component.
func (bc *buildContext) beginAnonymous() {
	bc.owner = ""
	bc.building = make(map[string]bool)
	bc.rootPath = bc.path.String()
}

// atRoot reports whether the path currently points at the top of the
// current build.
func (bc *buildContext) atRoot() bool {
	return bc.path.String() == bc.rootPath
}

// inheritanceParent is the parent recorded on composition members: the
// owning component's ref when the composite is the component root, the
// diagnostics path otherwise.
func (bc *buildContext) inheritanceParent() string {
	if bc.owner != "" && bc.atRoot() {
		return bc.owner
	}
	return bc.path.String()
}
