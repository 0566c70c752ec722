package builder

import (
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/castrlabs/castr/castrerrors"
	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

var timeType = reflect.TypeOf(time.Time{})

// kindHandler builds the IR node for one reflect.Kind.
type kindHandler func(r *Reflector, t reflect.Type, st site) (*ir.Schema, error)

// Reflector generates IR schema nodes from Go types. Produced nodes have
// the same shapes the OpenAPI direction produces, so downstream consumers
// do not care which side a schema came from. Not safe for concurrent use.
type Reflector struct {
	handlers   map[reflect.Kind]kindHandler
	inProgress map[reflect.Type]bool
}

// NewReflector returns a Reflector with the default kind registry.
func NewReflector() *Reflector {
	return &Reflector{
		handlers:   defaultKindHandlers(),
		inProgress: make(map[reflect.Type]bool),
	}
}

// defaultKindHandlers builds the kind dispatch registry. The registry is a
// plain map injected at construction; nothing registers itself at init time.
func defaultKindHandlers() map[reflect.Kind]kindHandler {
	integer32 := primitiveHandler(ir.TypeInteger, "int32")
	integer64 := primitiveHandler(ir.TypeInteger, "int64")
	return map[reflect.Kind]kindHandler{
		reflect.Bool:      primitiveHandler(ir.TypeBoolean, ""),
		reflect.String:    primitiveHandler(ir.TypeString, ""),
		reflect.Int:       integer32,
		reflect.Int8:      integer32,
		reflect.Int16:     integer32,
		reflect.Int32:     integer32,
		reflect.Int64:     integer64,
		reflect.Uint:      integer64,
		reflect.Uint8:     integer32,
		reflect.Uint16:    integer32,
		reflect.Uint32:    integer32,
		reflect.Uint64:    integer64,
		reflect.Float32:   primitiveHandler(ir.TypeNumber, "float"),
		reflect.Float64:   primitiveHandler(ir.TypeNumber, "double"),
		reflect.Struct:    (*Reflector).reflectStruct,
		reflect.Slice:     (*Reflector).reflectArray,
		reflect.Array:     (*Reflector).reflectArray,
		reflect.Map:       (*Reflector).reflectMap,
		reflect.Interface: (*Reflector).reflectAny,
	}
}

// primitiveHandler returns a handler emitting a fixed primitive node.
func primitiveHandler(typ, format string) kindHandler {
	return func(r *Reflector, t reflect.Type, st site) (*ir.Schema, error) {
		return &ir.Schema{
			Kind:     ir.KindPrimitive,
			Type:     typ,
			Format:   format,
			Metadata: reflectMetadata(st),
		}, nil
	}
}

// Schema builds the IR node for v's dynamic type.
func (r *Reflector) Schema(v any) (*ir.Schema, error) {
	if v == nil {
		return nil, &castrerrors.UnsupportedSchemaTypeError{Type: "nil"}
	}
	return r.SchemaFromType(reflect.TypeOf(v))
}

// SchemaFromType builds the IR node for t.
func (r *Reflector) SchemaFromType(t reflect.Type) (*ir.Schema, error) {
	if t == nil {
		return nil, &castrerrors.UnsupportedSchemaTypeError{Type: "nil"}
	}
	return r.reflectType(t, memberSite())
}

// reflectType builds the node for one type. Pointers unwrap to their
// element type and mark the node nullable and optional.
func (r *Reflector) reflectType(t reflect.Type, st site) (*ir.Schema, error) {
	nullable := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}
	if nullable {
		st = site{presence: ir.PresenceOptional}
	}

	node, err := r.dispatchType(t, st)
	if err != nil {
		return nil, err
	}
	if nullable {
		node.Metadata.Nullable = true
	}
	return node, nil
}

// dispatchType picks the node builder for t: special types first, then the
// cycle check, then the kind registry.
func (r *Reflector) dispatchType(t reflect.Type, st site) (*ir.Schema, error) {
	if node := specialTypeNode(t, st); node != nil {
		return node, nil
	}
	if t.Kind() == reflect.Struct && r.inProgress[t] {
		return r.cycleReference(t, st), nil
	}
	handler, ok := r.handlers[t.Kind()]
	if !ok {
		return nil, &castrerrors.UnsupportedSchemaTypeError{Type: t.String()}
	}
	return handler(r, t, st)
}

// specialTypeNode handles types whose schema is established convention
// rather than structure. time.Time and uuid.UUID (matched by name so the
// uuid package stays out of the import graph) are formatted strings.
func specialTypeNode(t reflect.Type, st site) *ir.Schema {
	var format string
	switch {
	case t == timeType:
		format = "date-time"
	case t.String() == "uuid.UUID":
		format = "uuid"
	default:
		return nil
	}
	node := &ir.Schema{
		Kind:     ir.KindPrimitive,
		Type:     ir.TypeString,
		Format:   format,
		Metadata: reflectMetadata(st),
	}
	node.Metadata.Chain.Validations = []string{"format(" + format + ")"}
	return node
}

// cycleReference emits the reference node for a struct type already being
// built higher in the stack, the same shape a $ref cycle builds to.
func (r *Reflector) cycleReference(t reflect.Type, st site) *ir.Schema {
	ref := parser.SchemaRef(typeName(t))
	node := &ir.Schema{
		Kind:     ir.KindReference,
		Ref:      ref,
		Metadata: reflectMetadata(st),
	}
	node.Metadata.CircularReferences = []string{ref}
	return node
}

// typeName is the component name a named type reflects under, the full
// type string for anonymous ones.
func typeName(t reflect.Type) string {
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// reflectMetadata mirrors the OpenAPI direction's metadataFor for nodes
// that have no source schema.
func reflectMetadata(st site) *ir.Metadata {
	return &ir.Metadata{
		Required: st.required,
		Chain:    ir.ValidationChain{Presence: st.presence},
	}
}

func (r *Reflector) reflectStruct(t reflect.Type, st site) (*ir.Schema, error) {
	r.inProgress[t] = true
	defer delete(r.inProgress, t)

	node := &ir.Schema{
		Kind:       ir.KindObject,
		Type:       ir.TypeObject,
		Properties: ir.NewProperties(t.NumField()),
		Metadata:   reflectMetadata(st),
	}
	var required []string
	seen := map[reflect.Type]bool{t: true}
	if err := r.reflectFields(t, node.Properties, &required, seen); err != nil {
		return nil, err
	}
	if len(required) > 0 {
		slices.Sort(required)
		node.Required = slices.Compact(required)
	}
	return node, nil
}

// reflectFields adds t's exported fields to props. Own fields run first and
// promoted embedded fields never override them, matching encoding/json
// precedence. seen guards against pointer-embedding cycles.
func (r *Reflector) reflectFields(t reflect.Type, props *ir.Properties, required *[]string, seen map[reflect.Type]bool) error {
	var embedded []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts := parseJSONTag(tag)

		if field.Anonymous && name == "" {
			ft := field.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != timeType {
				if !seen[ft] {
					seen[ft] = true
					embedded = append(embedded, ft)
				}
				continue
			}
		}
		if name == "" {
			name = field.Name
		}
		if _, exists := props.Get(name); exists {
			continue
		}

		fieldRequired := isFieldRequired(field, opts)
		child, err := r.reflectType(field.Type, propertySite(fieldRequired))
		if err != nil {
			return err
		}
		if ftag := field.Tag.Get("castr"); ftag != "" {
			applyFieldTag(child, ftag)
		}
		props.Set(name, child)
		if fieldRequired {
			*required = append(*required, name)
		}
	}
	for _, ft := range embedded {
		if err := r.reflectFields(ft, props, required, seen); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reflector) reflectArray(t reflect.Type, st site) (*ir.Schema, error) {
	// []byte marshals as a base64 string, not an array of numbers.
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return &ir.Schema{
			Kind:     ir.KindPrimitive,
			Type:     ir.TypeString,
			Format:   "byte",
			Metadata: reflectMetadata(st),
		}, nil
	}
	items, err := r.reflectType(t.Elem(), memberSite())
	if err != nil {
		return nil, err
	}
	return &ir.Schema{
		Kind:     ir.KindArray,
		Type:     ir.TypeArray,
		Items:    items,
		Metadata: reflectMetadata(st),
	}, nil
}

func (r *Reflector) reflectMap(t reflect.Type, st site) (*ir.Schema, error) {
	if t.Key().Kind() != reflect.String {
		return nil, &castrerrors.UnsupportedSchemaTypeError{Type: t.String()}
	}
	value, err := r.reflectType(t.Elem(), memberSite())
	if err != nil {
		return nil, err
	}
	return &ir.Schema{
		Kind:                 ir.KindObject,
		Type:                 ir.TypeObject,
		AdditionalProperties: ir.AllowsSchema(value),
		Metadata:             reflectMetadata(st),
	}, nil
}

// reflectAny maps interface fields to untyped unknown nodes, the same
// shape an untyped OpenAPI schema builds to.
func (r *Reflector) reflectAny(t reflect.Type, st site) (*ir.Schema, error) {
	return &ir.Schema{Kind: ir.KindUnknown, Metadata: reflectMetadata(st)}, nil
}

// parseJSONTag splits a json struct tag into name and trailing options.
func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	if len(parts) > 1 {
		opts = parts[1:]
	}
	return parts[0], opts
}

func hasOmitempty(opts []string) bool {
	return slices.Contains(opts, "omitempty")
}

// isFieldRequired decides a field's requiredness: an explicit required
// entry in the castr tag wins, pointer fields are optional, and otherwise
// omitempty decides.
func isFieldRequired(field reflect.StructField, jsonOpts []string) bool {
	if opts := parseFieldTag(field.Tag.Get("castr")); opts != nil {
		if v, ok := opts["required"]; ok {
			return v == "true"
		}
	}
	if field.Type.Kind() == reflect.Pointer {
		return false
	}
	return !hasOmitempty(jsonOpts)
}

// parseFieldTag parses a castr struct tag into key-value pairs. Entries
// are comma separated; a bare key is shorthand for key=true.
func parseFieldTag(tag string) map[string]string {
	if tag == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx > 0 {
			out[strings.TrimSpace(part[:idx])] = strings.TrimSpace(part[idx+1:])
		} else {
			out[part] = "true"
		}
	}
	return out
}

// applyFieldTag folds a castr struct tag into a built node. Annotations
// land on the node; constraint facets render through the same chain
// encoding the OpenAPI direction uses.
func applyFieldTag(node *ir.Schema, tag string) {
	opts := parseFieldTag(tag)
	if len(opts) == 0 {
		return
	}
	facets := &parser.Schema{}
	for key, value := range opts {
		switch key {
		case "title":
			node.Title = value
		case "description":
			node.Description = value
		case "format":
			node.Format = value
			facets.Format = value
		case "deprecated":
			node.Deprecated = value == "true"
		case "nullable":
			if value == "true" {
				node.Metadata.Nullable = true
			}
		case "enum":
			values := strings.Split(value, "|")
			node.Enum = make([]any, len(values))
			for i, v := range values {
				node.Enum[i] = strings.TrimSpace(v)
			}
		case "default":
			node.Default = parseTagValue(value, node.Type)
		case "pattern":
			facets.Pattern = value
		case "minLength":
			facets.MinLength = atoiPtr(value)
		case "maxLength":
			facets.MaxLength = atoiPtr(value)
		case "minItems":
			facets.MinItems = atoiPtr(value)
			node.MinItems = atoiPtr(value)
		case "maxItems":
			facets.MaxItems = atoiPtr(value)
			node.MaxItems = atoiPtr(value)
		case "minimum":
			facets.Minimum = atofPtr(value)
		case "maximum":
			facets.Maximum = atofPtr(value)
		case "multipleOf":
			facets.MultipleOf = atofPtr(value)
		}
	}
	node.Metadata.Chain.Validations = append(node.Metadata.Chain.Validations, validationsFor(facets)...)
	if node.Default != nil {
		if enc, err := json.Marshal(node.Default); err == nil {
			node.Metadata.Chain.Defaults = []string{"default(" + string(enc) + ")"}
		}
	}
}

// parseTagValue converts a tag literal to the node's primitive type so
// integer defaults do not serialize as strings.
func parseTagValue(value, nodeType string) any {
	switch nodeType {
	case ir.TypeInteger:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case ir.TypeNumber:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case ir.TypeBoolean:
		return value == "true"
	}
	return value
}

func atoiPtr(value string) *int {
	if n, err := strconv.Atoi(value); err == nil {
		return &n
	}
	return nil
}

func atofPtr(value string) *float64 {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return &f
	}
	return nil
}
