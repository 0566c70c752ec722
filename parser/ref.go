package parser

import (
	"strings"

	"github.com/castrlabs/castr/castrerrors"
)

// ComponentType identifies which section of the components table a
// reference points into.
type ComponentType string

// Component sections that castr resolves references into.
const (
	ComponentSchemas         ComponentType = "schemas"
	ComponentResponses       ComponentType = "responses"
	ComponentParameters      ComponentType = "parameters"
	ComponentRequestBodies   ComponentType = "requestBodies"
	ComponentHeaders         ComponentType = "headers"
	ComponentSecuritySchemes ComponentType = "securitySchemes"
)

// Ref is a parsed $ref string.
type Ref struct {
	// Raw is the reference string exactly as written in the source
	Raw string
	// Type is the components section the reference points into
	Type ComponentType
	// Name is the component name, with JSON Pointer escapes decoded
	Name string
	// SourceHash is the originating file hash for x-ext references,
	// empty for plain internal references
	SourceHash string
}

// IsExternal reports whether the reference came from a bundled external file.
func (r Ref) IsExternal() bool {
	return r.SourceHash != ""
}

// String returns the canonical form of the reference.
func (r Ref) String() string {
	name := escapeJSONPointer(r.Name)
	if r.SourceHash != "" {
		return "#/x-ext/" + r.SourceHash + "/components/" + string(r.Type) + "/" + name
	}
	return "#/components/" + string(r.Type) + "/" + name
}

// SchemaRef builds the canonical reference for a named schema component.
func SchemaRef(name string) string {
	return Ref{Type: ComponentSchemas, Name: name}.String()
}

// ComponentRef builds the canonical reference for a named component of the
// given type.
func ComponentRef(t ComponentType, name string) string {
	return Ref{Type: t, Name: name}.String()
}

// ParseRef parses a $ref string into its components. Four forms are accepted:
//
//	#/components/{type}/{name}
//	#/x-ext/{hash}/components/{type}/{name}
//	#components/{type}/{name}    (legacy, no leading slash)
//	{name}                       (bare name, implies components/schemas)
//
// Anything else fails with a [castrerrors.MalformedRefError]. The component
// type segment is not validated against a fixed list here; resolution decides
// whether the section is one it can serve.
func ParseRef(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "reference is empty"}
	}

	// Bare name shorthand for a schema component. Names never contain '#'
	// or '/'; anything with a '/' but no '#' is a malformed pointer.
	if !strings.HasPrefix(raw, "#") {
		if strings.Contains(raw, "/") {
			return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "missing '#' prefix"}
		}
		return Ref{Raw: raw, Type: ComponentSchemas, Name: unescapeJSONPointer(raw)}, nil
	}

	// Normalize the legacy "#components/..." form.
	body := strings.TrimPrefix(raw, "#")
	body = strings.TrimPrefix(body, "/")

	segments := strings.Split(body, "/")

	var hash string
	if segments[0] == "x-ext" {
		// #/x-ext/{hash}/components/{type}/{name}
		if len(segments) < 2 || segments[1] == "" {
			return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "missing source hash segment"}
		}
		hash = segments[1]
		segments = segments[2:]
		if len(segments) == 0 || segments[0] != "components" {
			return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "expected 'components' after x-ext hash"}
		}
	}

	if len(segments) == 0 || segments[0] != "components" {
		return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "expected 'components' segment"}
	}
	if len(segments) < 2 || segments[1] == "" {
		return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "missing component type segment"}
	}
	if len(segments) < 3 || segments[2] == "" {
		return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "missing component name segment"}
	}
	if len(segments) > 3 {
		return Ref{}, &castrerrors.MalformedRefError{Ref: raw, Message: "too many segments"}
	}

	return Ref{
		Raw:        raw,
		Type:       ComponentType(segments[1]),
		Name:       unescapeJSONPointer(segments[2]),
		SourceHash: hash,
	}, nil
}

// unescapeJSONPointer decodes the RFC 6901 escape sequences ~1 (/) and ~0 (~).
func unescapeJSONPointer(s string) string {
	if !strings.Contains(s, "~") {
		return s
	}
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// escapeJSONPointer encodes '/' and '~' per RFC 6901. Order matters: '~'
// must be escaped first or escaped slashes would be double-encoded.
func escapeJSONPointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
