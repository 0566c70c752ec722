// This file renders validation chains as go-playground/validator struct tags.

package generator

import (
	"fmt"
	"strings"

	"github.com/castrlabs/castr/ir"
)

// validateTag renders a node's validation chain as a validate struct tag.
// Constraints with no validator equivalent (pattern, multipleOf) are
// dropped; date formats are enforced by the field type instead.
func validateTag(prop *ir.Schema, required bool) string {
	var parts []string
	if prop.Metadata != nil {
		for _, v := range prop.Metadata.Chain.Validations {
			if part, ok := validatorConstraint(v); ok {
				parts = append(parts, part)
			}
		}
	}
	if part, ok := enumConstraint(prop.Enum); ok {
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		if required {
			return "required"
		}
		return ""
	}
	if required {
		parts = append([]string{"required"}, parts...)
	} else {
		parts = append([]string{"omitempty"}, parts...)
	}
	return strings.Join(parts, ",")
}

// validatorConstraint translates one canonical constraint descriptor, e.g.
// "min(2)" to "min=2".
func validatorConstraint(v string) (string, bool) {
	name, arg, ok := splitConstraint(v)
	if !ok {
		return "", false
	}
	switch name {
	case "min":
		return "min=" + arg, true
	case "max":
		return "max=" + arg, true
	case "gt":
		return "gt=" + arg, true
	case "lt":
		return "lt=" + arg, true
	case "format":
		return formatConstraint(arg)
	default:
		return "", false
	}
}

// formatConstraint maps the formats the validator has checkers for.
func formatConstraint(format string) (string, bool) {
	switch format {
	case "email":
		return "email", true
	case "uuid":
		return "uuid", true
	case "uri":
		return "url", true
	case "hostname":
		return "hostname", true
	case "ipv4":
		return "ip4_addr", true
	case "ipv6":
		return "ip6_addr", true
	default:
		return "", false
	}
}

// splitConstraint splits a canonical "name(arg)" descriptor.
func splitConstraint(v string) (name, arg string, ok bool) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return "", "", false
	}
	return v[:open], v[open+1 : len(v)-1], true
}

// enumConstraint renders scalar enum values as a oneof constraint. Values
// that would break the space-separated tag syntax disable the constraint.
func enumConstraint(values []any) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	rendered := make([]string, 0, len(values))
	for _, v := range values {
		switch v.(type) {
		case string, bool, int, int64, uint64, float64:
		default:
			return "", false
		}
		s := fmt.Sprintf("%v", v)
		if s == "" || strings.ContainsAny(s, " ,'") {
			return "", false
		}
		rendered = append(rendered, s)
	}
	return "oneof=" + strings.Join(rendered, " "), true
}
