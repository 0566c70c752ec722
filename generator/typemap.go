// This file maps IR schema nodes to Go type expressions.

package generator

import (
	"strconv"

	"github.com/castrlabs/castr/ir"
)

// typeExpr renders the bare Go type for a schema node, without the pointer
// wrapping fieldType applies. Inline objects have no named Go type and
// render as maps; inline compositions degrade to any.
func (gen *genContext) typeExpr(s *ir.Schema) string {
	if s == nil {
		return "any"
	}
	switch s.Kind {
	case ir.KindReference:
		return gen.resolveRef(s.Ref)
	case ir.KindPrimitive:
		return primitiveGoType(s.Type, s.Format)
	case ir.KindArray:
		return "[]" + gen.elemType(s)
	case ir.KindObject:
		if propertyless(s) && s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
			return "map[string]" + gen.typeExpr(s.AdditionalProperties.Schema)
		}
		return "map[string]any"
	default:
		// KindComposition inline, KindUnknown
		return "any"
	}
}

func propertyless(s *ir.Schema) bool {
	return s.Properties == nil || s.Properties.Len() == 0
}

// primitiveGoType maps a primitive type and format pair to a Go type.
func primitiveGoType(typ, format string) string {
	switch typ {
	case ir.TypeString:
		return stringFormatGoType(format)
	case ir.TypeInteger:
		return integerFormatGoType(format)
	case ir.TypeNumber:
		return numberFormatGoType(format)
	case ir.TypeBoolean:
		return "bool"
	default:
		// TypeNull stands alone only for always-null schemas.
		return "any"
	}
}

// stringFormatGoType maps string formats to Go types.
func stringFormatGoType(format string) string {
	switch format {
	case "date-time":
		return "time.Time"
	case "byte", "binary":
		return "[]byte"
	default:
		// date and time keep their wire form; uuid and friends stay strings
		return "string"
	}
}

// integerFormatGoType maps integer formats to Go types.
func integerFormatGoType(format string) string {
	switch format {
	case "int32":
		return "int32"
	default:
		return "int64"
	}
}

// numberFormatGoType maps number formats to Go types.
func numberFormatGoType(format string) string {
	switch format {
	case "float":
		return "float32"
	default:
		return "float64"
	}
}

// goLiteral renders an enum or const value as a Go literal. Reports false
// for values with no scalar literal form.
func goLiteral(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}
