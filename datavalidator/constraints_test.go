package datavalidator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrlabs/castr/ir"
)

func TestValidator_Formats(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		format string
		valid  string
		bad    string
	}{
		{"email", "dev@example.com", "not-an-email"},
		{"uuid", "123e4567-e89b-12d3-a456-426614174000", "not-a-uuid"},
		{"uri", "https://example.com/pets", "not a uri"},
		{"hostname", "api.example.com", "-bad-.example"},
		{"ipv4", "192.168.1.1", "999.1.1.1"},
		{"ipv6", "2001:db8::1", "not-an-ip"},
		{"date", "2026-08-25", "25/08/2026"},
		{"date-time", "2026-08-25T12:00:00Z", "2026-08-25 12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			schema := node(ir.TypeString, "format("+tt.format+")")

			assert.Empty(t, v.Validate(tt.valid, schema), "%q should satisfy %s", tt.valid, tt.format)

			findings := v.Validate(tt.bad, schema)
			require.Len(t, findings, 1, "%q should fail %s", tt.bad, tt.format)
			assert.Equal(t, SeverityWarning, findings[0].Severity, "format findings are warnings")
			assert.Contains(t, findings[0].Message, tt.format)
		})
	}
}

func TestValidator_Formats_UnknownPassSilently(t *testing.T) {
	v := newValidator(t)
	schema := node(ir.TypeString, "format(int-or-string)")
	assert.Empty(t, v.Validate("anything", schema))
}

func TestValidator_Formats_Redacted(t *testing.T) {
	v := newValidator(t, WithRedactValues(true))
	schema := node(ir.TypeString, "format(email)")

	findings := v.Validate("secret@internal", schema)
	require.Len(t, findings, 1)
	assert.Equal(t, "value is not a valid email", findings[0].Message)
	assert.NotContains(t, findings[0].Message, "secret")
}

func TestSplitConstraint(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		arg      string
		expectOK bool
	}{
		{"min(2)", "min", "2", true},
		{"max(10)", "max", "10", true},
		{"multipleOf(0.5)", "multipleOf", "0.5", true},
		{"pattern(^a(b)c$)", "pattern", "^a(b)c$", true},
		{"format(date-time)", "format", "date-time", true},
		{"required", "", "", false},
		{"", "", "", false},
		{"min(2", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, arg, ok := splitConstraint(tt.in)
			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func TestMatchPattern_CacheReuse(t *testing.T) {
	v := newValidator(t)

	matched, err := v.matchPattern(`^\d+$`, "123")
	require.NoError(t, err)
	assert.True(t, matched)

	// Second call hits the cache.
	matched, err = v.matchPattern(`^\d+$`, "abc")
	require.NoError(t, err)
	assert.False(t, matched)

	_, ok := v.patternCache.Load(`^\d+$`)
	assert.True(t, ok, "pattern should be cached")
}

func TestMatchPattern_CacheEviction(t *testing.T) {
	v := newValidator(t)

	for i := 0; i <= maxPatternCacheSize; i++ {
		_, err := v.matchPattern(fmt.Sprintf(`^prefix%d`, i), "prefix0suffix")
		require.NoError(t, err)
	}

	// The final insert crossed the cap and cleared earlier entries.
	_, ok := v.patternCache.Load(`^prefix0`)
	assert.False(t, ok, "cache should have been cleared at the size cap")
}

func BenchmarkValidate(b *testing.B) {
	props := ir.NewProperties()
	props.Set("name", node(ir.TypeString, "min(1)", "max(64)"))
	props.Set("email", node(ir.TypeString, "format(email)"))
	props.Set("age", node(ir.TypeInteger, "min(0)", "max(200)"))
	schema := &ir.Schema{
		Kind:       ir.KindObject,
		Properties: props,
		Required:   []string{"email", "name"},
	}
	value := map[string]any{
		"name":  "Rex",
		"email": "rex@example.com",
		"age":   float64(3),
	}
	v, err := New()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if findings := v.Validate(value, schema); len(findings) > 0 {
			b.Fatalf("unexpected findings: %v", findings)
		}
	}
}

func BenchmarkMatchPattern(b *testing.B) {
	v, err := New()
	if err != nil {
		b.Fatal(err)
	}
	patterns := []string{
		`^[a-zA-Z]+$`, `^\d{3}-\d{2}-\d{4}$`, `^[a-f0-9]+$`,
		`^\w+@\w+\.\w+$`, `^https?://`, `^\d+\.\d+\.\d+$`,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pattern := patterns[i%len(patterns)]
		_, _ = v.matchPattern(pattern, "test-value-123")
	}
}
