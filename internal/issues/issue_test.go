package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/castrlabs/castr/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name     string
		issue    Issue
		contains []string // Strings that must be present in output
	}{
		{
			name: "error severity",
			issue: Issue{
				Path:     "$.name",
				Message:  "required property missing",
				Severity: severity.SeverityError,
			},
			contains: []string{"✗", "$.name", "required property missing"},
		},
		{
			name: "critical severity",
			issue: Issue{
				Path:     "#/components/schemas/Pet",
				Message:  "cannot resolve reference",
				Severity: severity.SeverityCritical,
			},
			contains: []string{"✗", "#/components/schemas/Pet", "cannot resolve reference"},
		},
		{
			name: "warning severity",
			issue: Issue{
				Path:     "$.email",
				Message:  "value does not match format email",
				Severity: severity.SeverityWarning,
			},
			contains: []string{"⚠", "$.email", "value does not match format email"},
		},
		{
			name: "info severity",
			issue: Issue{
				Path:     "$.status",
				Message:  "unknown format ignored",
				Severity: severity.SeverityInfo,
			},
			contains: []string{"ℹ", "$.status", "unknown format ignored"},
		},
		{
			name: "unknown severity",
			issue: Issue{
				Path:     "$",
				Message:  "odd",
				Severity: severity.Severity(42),
			},
			contains: []string{"?", "odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.issue.String()
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestIssueString_Format(t *testing.T) {
	i := Issue{
		Path:     "$.items[2]",
		Message:  "expected integer, got string",
		Severity: severity.SeverityError,
		Field:    "items",
		Value:    "three",
	}
	// Field and Value are programmatic carriers; String prints only the
	// symbol, path, and message.
	assert.Equal(t, "✗ $.items[2]: expected integer, got string", i.String())
}
