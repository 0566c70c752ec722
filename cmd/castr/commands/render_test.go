package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"REF", "DEPTH", "DEPS"}
	rows := [][]string{
		{"#/components/schemas/Pet", "1", "2"},
		{"#/components/schemas/Status", "0", "0"},
	}

	RenderSummaryTable(&buf, headers, rows, false)
	output := buf.String()

	if !strings.Contains(output, "REF") {
		t.Error("expected headers in output")
	}
	if !strings.Contains(output, "#/components/schemas/Pet") {
		t.Error("expected Pet ref in output")
	}
	if !strings.Contains(output, "DEPTH") {
		t.Error("expected DEPTH header in output")
	}
}

func TestRenderSummaryTable_Quiet(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"REF", "DEPTH"}
	rows := [][]string{
		{"#/components/schemas/Pet", "1"},
	}

	RenderSummaryTable(&buf, headers, rows, true)
	output := buf.String()

	// Quiet mode: no header row, tab-separated data
	if strings.Contains(output, "REF") {
		t.Error("quiet mode should not include headers")
	}
	if !strings.Contains(output, "#/components/schemas/Pet\t1") {
		t.Errorf("expected tab-separated row, got %q", output)
	}
}

func TestRenderSummaryTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderSummaryTable(&buf, []string{"A"}, nil, false)
	if buf.Len() != 0 {
		t.Errorf("expected empty output for no rows, got %q", buf.String())
	}
}

func TestRenderDetail_YAML(t *testing.T) {
	var buf bytes.Buffer
	node := map[string]any{
		"ref":   "#/components/schemas/Pet",
		"depth": 1,
	}

	err := RenderDetail(&buf, node, FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "ref") {
		t.Error("expected ref in YAML output")
	}
}

func TestRenderDetail_JSON(t *testing.T) {
	var buf bytes.Buffer
	node := map[string]any{
		"ref": "#/components/schemas/Pet",
	}

	err := RenderDetail(&buf, node, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, `"ref"`) {
		t.Error("expected ref key in JSON output")
	}
}
