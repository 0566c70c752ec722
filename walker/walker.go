package walker

import (
	"fmt"

	"github.com/castrlabs/castr/ir"
)

// Action controls the walker's behavior after visiting a node.
type Action int

const (
	// Continue continues walking normally, visiting children and siblings.
	Continue Action = iota

	// SkipChildren skips all children of the current node but continues
	// with siblings.
	SkipChildren

	// Stop stops the walk immediately. No more nodes will be visited.
	Stop
)

// IsValid returns true if the action is one of the defined constants.
func (a Action) IsValid() bool {
	return a >= Continue && a <= Stop
}

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case Continue:
		return "Continue"
	case SkipChildren:
		return "SkipChildren"
	case Stop:
		return "Stop"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// SchemaHandler is called for each schema node, including nested schemas.
type SchemaHandler func(schema *ir.Schema, path string) Action

// RefHandler is called for each KindReference node with its ref string.
type RefHandler func(ref string, path string) Action

// ComponentHandler is called for each document component.
type ComponentHandler func(component *ir.Component, path string) Action

// OperationHandler is called for each document operation.
type OperationHandler func(op *ir.Operation, path string) Action

// ParameterHandler is called for each operation parameter.
type ParameterHandler func(param *ir.Parameter, path string) Action

// ResponseHandler is called for each operation response.
type ResponseHandler func(resp *ir.Response, path string) Action

// DefaultMaxDepth is the schema recursion limit when none is configured.
const DefaultMaxDepth = 100

// Walker traverses IR documents and schema trees, calling handlers for each
// node type. The zero value is not usable; construct with options through
// [Walk] or [WalkSchema].
type Walker struct {
	onSchema    SchemaHandler
	onRef       RefHandler
	onComponent ComponentHandler
	onOperation OperationHandler
	onParameter ParameterHandler
	onResponse  ResponseHandler

	maxDepth int

	visiting map[*ir.Schema]bool
	stopped  bool
}

// Option configures a Walker.
type Option func(*Walker)

// WithSchemaHandler sets the handler called for every schema node.
func WithSchemaHandler(fn SchemaHandler) Option {
	return func(w *Walker) { w.onSchema = fn }
}

// WithRefHandler sets the handler called for every reference node.
func WithRefHandler(fn RefHandler) Option {
	return func(w *Walker) { w.onRef = fn }
}

// WithComponentHandler sets the handler called for every component.
func WithComponentHandler(fn ComponentHandler) Option {
	return func(w *Walker) { w.onComponent = fn }
}

// WithOperationHandler sets the handler called for every operation.
func WithOperationHandler(fn OperationHandler) Option {
	return func(w *Walker) { w.onOperation = fn }
}

// WithParameterHandler sets the handler called for every parameter.
func WithParameterHandler(fn ParameterHandler) Option {
	return func(w *Walker) { w.onParameter = fn }
}

// WithResponseHandler sets the handler called for every response.
func WithResponseHandler(fn ResponseHandler) Option {
	return func(w *Walker) { w.onResponse = fn }
}

// WithMaxDepth sets the maximum schema recursion depth. Non-positive values
// keep the default.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

func newWalker(opts []Option) *Walker {
	w := &Walker{
		maxDepth: DefaultMaxDepth,
		visiting: make(map[*ir.Schema]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk traverses a whole document: components first in document order, then
// operations.
func Walk(doc *ir.Document, opts ...Option) error {
	if doc == nil {
		return fmt.Errorf("walker: document is nil")
	}
	w := newWalker(opts)
	for _, c := range doc.Components {
		if w.stopped {
			return nil
		}
		w.walkComponent(c)
	}
	for _, op := range doc.Operations {
		if w.stopped {
			return nil
		}
		w.walkOperation(op)
	}
	return nil
}

// WalkSchema traverses a single schema tree.
func WalkSchema(schema *ir.Schema, opts ...Option) error {
	if schema == nil {
		return fmt.Errorf("walker: schema is nil")
	}
	w := newWalker(opts)
	w.walkSchema(schema, "$", 0)
	return nil
}
