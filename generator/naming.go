// This file converts OpenAPI identifiers to valid Go identifiers, including
// reserved word escaping and description formatting for generated comments.

package generator

import (
	"fmt"
	"strings"
	"unicode"
)

// maxDescriptionLength is the maximum length for descriptions in generated
// comments before truncation.
const maxDescriptionLength = 200

// goReservedWords contains Go keywords that cannot be used as identifiers.
// Predeclared identifiers like "error" are not included; they can be
// shadowed and are commonly wanted as type names.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// escapeReservedWord appends an underscore to Go keywords. The check is
// case-insensitive so PascalCase forms like "Type" or "Range" are escaped
// too.
func escapeReservedWord(name string) string {
	if goReservedWords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}

// toTypeName converts an OpenAPI name to a valid exported Go type name.
// Non-alphanumeric runs separate words, the result starts with a letter,
// and Go keywords are escaped.
func toTypeName(s string) string {
	if s == "" {
		return "Type"
	}

	var result strings.Builder
	capitalizeNext := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if capitalizeNext {
				result.WriteRune(unicode.ToUpper(r))
				capitalizeNext = false
			} else {
				result.WriteRune(r)
			}
		} else {
			capitalizeNext = true
		}
	}

	name := result.String()
	if name == "" {
		return "Type"
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "T" + name
	}
	return escapeReservedWord(name)
}

// toFieldName converts an OpenAPI property name to a valid exported Go
// field name.
func toFieldName(s string) string {
	return toTypeName(s)
}

// constSuffix derives the constant name suffix for an enum value.
func constSuffix(v any) string {
	return toTypeName(fmt.Sprintf("%v", v))
}

// cleanDescription prepares a description for use in a generated comment:
// newlines collapse to spaces and long text is truncated at a rune
// boundary.
func cleanDescription(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if len(s) > maxDescriptionLength {
		runes := []rune(s)
		if len(runes) > maxDescriptionLength-3 {
			s = string(runes[:maxDescriptionLength-3]) + "..."
		}
	}
	return s
}
