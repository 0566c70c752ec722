package builder

import (
	"encoding/json"
	"strconv"

	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// knownFormats is the fixed set of format names carried into the validation
// chain. Formats outside the table stay on the node's Format field but get
// no format() entry; no additional formats are inferred.
var knownFormats = map[string]bool{
	"email":     true,
	"uuid":      true,
	"uri":       true,
	"hostname":  true,
	"ipv4":      true,
	"ipv6":      true,
	"date":      true,
	"date-time": true,
}

// chainFor computes the abstract validation chain for one raw schema at one
// site. Constraint descriptors use the canonical textual forms writers
// consume: min(n), max(n), gt(n), lt(n), multipleOf(n), pattern(re),
// format(name), default(json).
func (bc *buildContext) chainFor(s *parser.Schema, st site) ir.ValidationChain {
	return ir.ValidationChain{
		Presence:    st.presence,
		Validations: validationsFor(s),
		Defaults:    bc.defaultsFor(s),
	}
}

// defaultsFor encodes the schema's default value as a default(json) entry.
// A default that cannot round-trip through JSON is dropped with a warning
// rather than failing the build.
func (bc *buildContext) defaultsFor(s *parser.Schema) []string {
	if s.Default == nil {
		return nil
	}
	enc, err := json.Marshal(s.Default)
	if err != nil {
		bc.b.logger.Warn("dropping unencodable default value",
			"path", bc.path.String(), "error", err.Error())
		return nil
	}
	return []string{"default(" + string(enc) + ")"}
}

// validationsFor encodes the schema's constraint facets in a fixed order so
// identical input always yields an identical chain. A node has at most one
// cardinality facet family (string, numeric, array, or object), so the fixed
// sequence never produces conflicting entries.
func validationsFor(s *parser.Schema) []string {
	var out []string

	if s.MinLength != nil {
		out = append(out, "min("+strconv.Itoa(*s.MinLength)+")")
	}
	if s.MaxLength != nil {
		out = append(out, "max("+strconv.Itoa(*s.MaxLength)+")")
	}

	// Numeric bounds. OAS 3.0 boolean exclusives turn the bound itself
	// exclusive; OAS 3.1 numeric exclusives are standalone bounds.
	if s.Minimum != nil {
		if excl, ok := s.ExclusiveMinimum.(bool); ok && excl {
			out = append(out, "gt("+formatNumber(*s.Minimum)+")")
		} else {
			out = append(out, "min("+formatNumber(*s.Minimum)+")")
		}
	}
	if v, ok := numericValue(s.ExclusiveMinimum); ok {
		out = append(out, "gt("+formatNumber(v)+")")
	}
	if s.Maximum != nil {
		if excl, ok := s.ExclusiveMaximum.(bool); ok && excl {
			out = append(out, "lt("+formatNumber(*s.Maximum)+")")
		} else {
			out = append(out, "max("+formatNumber(*s.Maximum)+")")
		}
	}
	if v, ok := numericValue(s.ExclusiveMaximum); ok {
		out = append(out, "lt("+formatNumber(v)+")")
	}

	if s.MinItems != nil {
		out = append(out, "min("+strconv.Itoa(*s.MinItems)+")")
	}
	if s.MaxItems != nil {
		out = append(out, "max("+strconv.Itoa(*s.MaxItems)+")")
	}
	if s.MinProperties != nil {
		out = append(out, "min("+strconv.Itoa(*s.MinProperties)+")")
	}
	if s.MaxProperties != nil {
		out = append(out, "max("+strconv.Itoa(*s.MaxProperties)+")")
	}

	if s.MultipleOf != nil {
		out = append(out, "multipleOf("+formatNumber(*s.MultipleOf)+")")
	}
	if s.Pattern != "" {
		out = append(out, "pattern("+s.Pattern+")")
	}
	if s.Format != "" && knownFormats[s.Format] {
		out = append(out, "format("+s.Format+")")
	}
	return out
}

// numericValue extracts a number from an any-typed facet, covering the
// integer and float shapes YAML and JSON decoding produce. Booleans and
// anything else report false.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// formatNumber renders a bound without exponent notation and without
// trailing zeros, so 1 stays "1" and 0.5 stays "0.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
