package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToTypeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"pet", "Pet"},
		{"user_profile", "UserProfile"},
		{"api-client", "ApiClient"},
		{"@id", "Id"},
		{"pet.tag name", "PetTagName"},
		{"123abc", "T123abc"},
		{"APIKey", "APIKey"},
		{"type", "Type_"},
		{"", "Type"},
		{"!!!", "Type"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toTypeName(tt.input), "toTypeName(%q)", tt.input)
	}
}

func TestEscapeReservedWord(t *testing.T) {
	assert.Equal(t, "Range_", escapeReservedWord("Range"))
	assert.Equal(t, "map_", escapeReservedWord("map"))
	assert.Equal(t, "Pet", escapeReservedWord("Pet"))
	// Predeclared identifiers are not keywords and stay usable.
	assert.Equal(t, "Error", escapeReservedWord("Error"))
}

func TestConstSuffix(t *testing.T) {
	assert.Equal(t, "Available", constSuffix("available"))
	assert.Equal(t, "NotFound", constSuffix("not_found"))
	assert.Equal(t, "T1", constSuffix(float64(1)))
	assert.Equal(t, "True", constSuffix(true))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "one line", cleanDescription("one line"))
	assert.Equal(t, "two lines joined", cleanDescription("two\nlines joined"))
	assert.Equal(t, "padded", cleanDescription("  padded\n"))

	long := strings.Repeat("x", 300)
	got := cleanDescription(long)
	assert.Len(t, got, maxDescriptionLength)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestIsGoIdentifier(t *testing.T) {
	assert.True(t, isGoIdentifier("api"))
	assert.True(t, isGoIdentifier("petstore_v2"))
	assert.True(t, isGoIdentifier("_private"))
	assert.False(t, isGoIdentifier(""))
	assert.False(t, isGoIdentifier("2bad"))
	assert.False(t, isGoIdentifier("has-dash"))
	assert.False(t, isGoIdentifier("has space"))
	assert.False(t, isGoIdentifier("func"))
}
