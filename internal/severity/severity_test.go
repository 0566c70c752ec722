package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected string
	}{
		{"error level", SeverityError, "error"},
		{"warning level", SeverityWarning, "warning"},
		{"info level", SeverityInfo, "info"},
		{"critical level", SeverityCritical, "critical"},
		{"unknown negative", Severity(-1), "unknown"},
		{"unknown large value", Severity(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.String())
		})
	}
}

// The numeric values are part of the package contract: consumers compare
// against the constants directly, and the declaration order is not the
// semantic order (Critical sorts above Error despite the larger value).
func TestSeverityValues(t *testing.T) {
	assert.Equal(t, Severity(0), SeverityError)
	assert.Equal(t, Severity(1), SeverityWarning)
	assert.Equal(t, Severity(2), SeverityInfo)
	assert.Equal(t, Severity(3), SeverityCritical)
}
