// This file handles the pattern and format constraint descriptors, the two
// chain entries that need machinery beyond a numeric comparison.

package datavalidator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// formatChecker runs the go-playground rules behind the format table.
// Var calls on a shared instance are safe for concurrent use.
var formatChecker = validator.New()

// formatTags maps canonical format names to go-playground validation tags.
// The table matches the formats the builder admits into validation chains;
// unknown names pass silently per JSON Schema convention.
var formatTags = map[string]string{
	"email":     "email",
	"uuid":      "uuid",
	"uri":       "uri",
	"hostname":  "hostname",
	"ipv4":      "ipv4",
	"ipv6":      "ipv6",
	"date":      "datetime=2006-01-02",
	"date-time": "datetime=" + time.RFC3339,
}

// checkFormat validates a string against one named format. Format findings
// are warnings: OpenAPI treats format as an annotation first.
func (v *Validator) checkFormat(s, format, path string) []Finding {
	tag, ok := formatTags[format]
	if !ok {
		return nil
	}
	if err := formatChecker.Var(s, tag); err != nil {
		msg := fmt.Sprintf("value is not a valid %s", format)
		if !v.redactValues {
			msg = fmt.Sprintf("%q is not a valid %s", s, format)
		}
		return []Finding{{
			Path:     path,
			Message:  msg,
			Severity: SeverityWarning,
		}}
	}
	return nil
}

// maxPatternCacheSize is the upper bound on cached compiled regex patterns.
// When exceeded, the cache is cleared to prevent unbounded memory growth
// from documents with many unique patterns.
const maxPatternCacheSize = 1000

// checkPattern matches s against a regex from the chain. Patterns Go
// cannot compile produce a finding instead of an error return.
func (v *Validator) checkPattern(pattern, s, path string) []Finding {
	matched, err := v.matchPattern(pattern, s)
	if err != nil {
		return []Finding{{
			Path:     path,
			Message:  fmt.Sprintf("invalid pattern %q: %v", pattern, err),
			Severity: SeverityError,
		}}
	}
	if !matched {
		return []Finding{{
			Path:     path,
			Message:  fmt.Sprintf("string does not match pattern %q", pattern),
			Severity: SeverityError,
		}}
	}
	return nil
}

// matchPattern compiles and matches a regex pattern through the cache.
func (v *Validator) matchPattern(pattern, s string) (bool, error) {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}

	// The count check and clear are not atomic. Concurrent clears cost
	// extra recompilation, nothing more.
	if v.patternCount.Add(1) > maxPatternCacheSize {
		v.patternCache.Range(func(key, _ any) bool {
			v.patternCache.Delete(key)
			return true
		})
		v.patternCount.Store(1)
	}
	v.patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}

// splitConstraint splits a canonical "name(arg)" descriptor.
func splitConstraint(v string) (name, arg string, ok bool) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return "", "", false
	}
	return v[:open], v[open+1 : len(v)-1], true
}
