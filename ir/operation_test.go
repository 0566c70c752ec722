package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupParameters(t *testing.T) {
	op := &Operation{
		Method: "GET",
		Path:   "/pets/{petId}/photos/{photoId}",
		Parameters: []*Parameter{
			{Name: "petId", In: LocationPath, Required: true},
			{Name: "limit", In: LocationQuery},
			{Name: "photoId", In: LocationPath, Required: true},
			{Name: "X-Request-ID", In: LocationHeader},
		},
	}
	op.GroupParameters()

	require.Len(t, op.ParametersByLocation, 3)
	paths := op.PathParameters()
	require.Len(t, paths, 2)
	// Declaration order within a location is preserved.
	assert.Equal(t, "petId", paths[0].Name)
	assert.Equal(t, "photoId", paths[1].Name)
	assert.Same(t, op.Parameters[0], paths[0])

	assert.Len(t, op.ParametersByLocation[LocationQuery], 1)
	assert.Len(t, op.ParametersByLocation[LocationHeader], 1)
	assert.Nil(t, op.ParametersByLocation[LocationCookie])
}

func TestGroupParametersEmpty(t *testing.T) {
	op := &Operation{Method: "GET", Path: "/health"}
	op.GroupParameters()
	assert.Nil(t, op.ParametersByLocation)
	assert.Nil(t, op.PathParameters())
}

func TestOperationResponseLookup(t *testing.T) {
	op := &Operation{
		Responses: []*Response{
			{Status: "200", Description: "OK"},
			{Status: "404", Description: "not found"},
			{Status: "default", Description: "error"},
		},
	}

	require.NotNil(t, op.Response("404"))
	assert.Equal(t, "not found", op.Response("404").Description)
	require.NotNil(t, op.Response("default"))
	assert.Nil(t, op.Response("500"))
}

func TestJSONSchemaSelection(t *testing.T) {
	petRef := &Schema{Kind: KindReference, Ref: "#/components/schemas/Pet"}

	content := NewProperties()
	content.Set("application/xml", &Schema{Kind: KindUnknown})
	content.Set("application/problem+json", petRef)
	content.Set("application/json", &Schema{Kind: KindUnknown})

	// First JSON media type in declaration order wins, including +json
	// suffixed types.
	resp := &Response{Status: "200", Content: content}
	assert.Same(t, petRef, resp.JSONSchema())

	rb := &RequestBody{Content: content}
	assert.Same(t, petRef, rb.JSONSchema())

	assert.Nil(t, (&Response{Status: "204"}).JSONSchema())
	assert.Nil(t, (*Response)(nil).JSONSchema())
	assert.Nil(t, (*RequestBody)(nil).JSONSchema())
}
