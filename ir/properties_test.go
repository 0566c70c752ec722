package ir

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestPropertiesInsertionOrder(t *testing.T) {
	p := NewProperties()
	p.Set("zebra", &Schema{Kind: KindPrimitive, Type: TypeString})
	p.Set("alpha", &Schema{Kind: KindPrimitive, Type: TypeInteger})
	p.Set("middle", &Schema{Kind: KindPrimitive, Type: TypeBoolean})

	assert.Equal(t, []string{"zebra", "alpha", "middle"}, p.Keys())
	assert.Equal(t, 3, p.Len())

	// Replacing keeps the original position.
	p.Set("alpha", &Schema{Kind: KindPrimitive, Type: TypeNumber})
	assert.Equal(t, []string{"zebra", "alpha", "middle"}, p.Keys())
	assert.Equal(t, 3, p.Len())

	replaced, ok := p.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, replaced.Type)
}

func TestPropertiesZeroValueAndNil(t *testing.T) {
	var zero Properties
	zero.Set("a", &Schema{Kind: KindPrimitive, Type: TypeString})
	assert.Equal(t, []string{"a"}, zero.Keys())

	var nilProps *Properties
	assert.Equal(t, 0, nilProps.Len())
	assert.Nil(t, nilProps.Keys())
	s, ok := nilProps.Get("a")
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestPropertiesMustGet(t *testing.T) {
	p := NewProperties()
	p.Set("id", &Schema{Kind: KindPrimitive, Type: TypeString})

	got, err := p.MustGet("id")
	require.NoError(t, err)
	assert.Equal(t, TypeString, got.Type)

	_, err = p.MustGet("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
	assert.Contains(t, err.Error(), "1 properties")
}

func TestPropertiesJSONRoundTrip(t *testing.T) {
	p := NewProperties()
	p.Set("zulu", &Schema{Kind: KindPrimitive, Type: TypeString, Format: "date-time"})
	p.Set("alpha", &Schema{Kind: KindReference, Ref: "#/components/schemas/Alpha"})
	p.Set("mike", &Schema{Kind: KindArray, Items: &Schema{Kind: KindPrimitive, Type: TypeInteger}})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	// Keys appear in insertion order, not sorted.
	out := string(data)
	zulu := strings.Index(out, `"zulu"`)
	alpha := strings.Index(out, `"alpha"`)
	mike := strings.Index(out, `"mike"`)
	require.NotEqual(t, -1, zulu)
	assert.True(t, zulu < alpha && alpha < mike, "expected insertion order in %s", out)

	var back Properties
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, back.Keys())

	items, ok := back.Get("mike")
	require.True(t, ok)
	require.NotNil(t, items.Items)
	assert.Equal(t, TypeInteger, items.Items.Type)
}

func TestPropertiesJSONEmpty(t *testing.T) {
	data, err := json.Marshal(NewProperties())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	var nilProps *Properties
	data, err = nilProps.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestPropertiesJSONRejectsNonObject(t *testing.T) {
	var p Properties
	err := json.Unmarshal([]byte(`["not", "an", "object"]`), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a JSON object")
}

func TestPropertiesYAMLRoundTrip(t *testing.T) {
	p := NewProperties()
	p.Set("zulu", &Schema{Kind: KindPrimitive, Type: TypeString})
	p.Set("alpha", &Schema{Kind: KindPrimitive, Type: TypeBoolean})

	data, err := yaml.Marshal(p)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.Index(out, "zulu") < strings.Index(out, "alpha"),
		"expected insertion order in %s", out)

	var back Properties
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, []string{"zulu", "alpha"}, back.Keys())

	b, ok := back.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, TypeBoolean, b.Type)
}

func TestContentMapAlias(t *testing.T) {
	// ContentMap is the same container; operation content uses it with media
	// type keys.
	content := NewProperties()
	content.Set("application/json", &Schema{Kind: KindReference, Ref: "#/components/schemas/Pet"})
	content.Set("application/xml", &Schema{Kind: KindReference, Ref: "#/components/schemas/Pet"})

	var cm *ContentMap = content
	assert.Equal(t, []string{"application/json", "application/xml"}, cm.Keys())
}
