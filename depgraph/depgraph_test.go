package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrlabs/castr/ir"
)

func schemaComponent(name string, schema *ir.Schema) *ir.Component {
	return &ir.Component{
		Kind:   ir.ComponentSchema,
		Name:   name,
		Ref:    "#/components/schemas/" + name,
		Schema: schema,
	}
}

func refTo(name string) *ir.Schema {
	return &ir.Schema{Kind: ir.KindReference, Ref: "#/components/schemas/" + name}
}

func objectWith(props map[string]*ir.Schema, order ...string) *ir.Schema {
	p := ir.NewProperties()
	for _, name := range order {
		p.Set(name, props[name])
	}
	return &ir.Schema{Kind: ir.KindObject, Type: ir.TypeObject, Properties: p}
}

func TestBuildLeavesFirst(t *testing.T) {
	// User references Address; Address must sort strictly before User.
	components := []*ir.Component{
		schemaComponent("User", objectWith(map[string]*ir.Schema{
			"name":    {Kind: ir.KindPrimitive, Type: ir.TypeString},
			"address": refTo("Address"),
		}, "name", "address")),
		schemaComponent("Address", objectWith(map[string]*ir.Schema{
			"street": {Kind: ir.KindPrimitive, Type: ir.TypeString},
		}, "street")),
	}

	graph := Build(components)

	userIdx := indexOf(t, graph.TopologicalOrder, "#/components/schemas/User")
	addrIdx := indexOf(t, graph.TopologicalOrder, "#/components/schemas/Address")
	assert.Less(t, addrIdx, userIdx)

	user := graph.Nodes["#/components/schemas/User"]
	require.NotNil(t, user)
	assert.Equal(t, []string{"#/components/schemas/Address"}, user.Dependencies)
	assert.Equal(t, 1, user.Depth)
	assert.False(t, user.IsCircular)

	addr := graph.Nodes["#/components/schemas/Address"]
	require.NotNil(t, addr)
	assert.Equal(t, []string{"#/components/schemas/User"}, addr.Dependents)
	assert.Zero(t, addr.Depth)
	assert.Empty(t, graph.CircularReferences)
}

func TestBuildIndependentComponentsKeepDocumentOrder(t *testing.T) {
	components := []*ir.Component{
		schemaComponent("Zebra", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeString}),
		schemaComponent("Alpha", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeString}),
		schemaComponent("Middle", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeString}),
	}

	graph := Build(components)

	assert.Equal(t, []string{
		"#/components/schemas/Zebra",
		"#/components/schemas/Alpha",
		"#/components/schemas/Middle",
	}, graph.TopologicalOrder)
}

func TestBuildSelfReference(t *testing.T) {
	// Node.children is an array of Node.
	node := objectWith(map[string]*ir.Schema{
		"value":    {Kind: ir.KindPrimitive, Type: ir.TypeString},
		"children": {Kind: ir.KindArray, Items: refTo("Node")},
	}, "value", "children")

	graph := Build([]*ir.Component{schemaComponent("Node", node)})

	require.Len(t, graph.CircularReferences, 1)
	assert.Equal(t, []string{"#/components/schemas/Node"}, graph.CircularReferences[0])

	entry := graph.Nodes["#/components/schemas/Node"]
	require.NotNil(t, entry)
	assert.True(t, entry.IsCircular)
	assert.Equal(t, []string{"#/components/schemas/Node"}, entry.Dependencies)
	assert.Equal(t, []string{"#/components/schemas/Node"}, graph.TopologicalOrder)
}

func TestBuildMutualCycle(t *testing.T) {
	components := []*ir.Component{
		schemaComponent("A", objectWith(map[string]*ir.Schema{"b": refTo("B")}, "b")),
		schemaComponent("B", objectWith(map[string]*ir.Schema{"a": refTo("A")}, "a")),
		schemaComponent("Leaf", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeString}),
	}

	graph := Build(components)

	require.Len(t, graph.CircularReferences, 1)
	// Cycle members ordered from the first-appearing ref.
	assert.Equal(t, []string{
		"#/components/schemas/A",
		"#/components/schemas/B",
	}, graph.CircularReferences[0])

	assert.True(t, graph.Nodes["#/components/schemas/A"].IsCircular)
	assert.True(t, graph.Nodes["#/components/schemas/B"].IsCircular)
	assert.False(t, graph.Nodes["#/components/schemas/Leaf"].IsCircular)

	// Cycle members still hold positions in the topological order.
	assert.Len(t, graph.TopologicalOrder, 3)
	assert.Contains(t, graph.TopologicalOrder, "#/components/schemas/A")
	assert.Contains(t, graph.TopologicalOrder, "#/components/schemas/B")
}

func TestBuildDepthIsLongestPath(t *testing.T) {
	// D -> C -> B -> A plus D -> A directly: depth(D) follows the long arm.
	components := []*ir.Component{
		schemaComponent("D", objectWith(map[string]*ir.Schema{
			"c": refTo("C"),
			"a": refTo("A"),
		}, "c", "a")),
		schemaComponent("C", objectWith(map[string]*ir.Schema{"b": refTo("B")}, "b")),
		schemaComponent("B", objectWith(map[string]*ir.Schema{"a": refTo("A")}, "a")),
		schemaComponent("A", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeString}),
	}

	graph := Build(components)

	assert.Equal(t, 0, graph.Nodes["#/components/schemas/A"].Depth)
	assert.Equal(t, 1, graph.Nodes["#/components/schemas/B"].Depth)
	assert.Equal(t, 2, graph.Nodes["#/components/schemas/C"].Depth)
	assert.Equal(t, 3, graph.Nodes["#/components/schemas/D"].Depth)
}

func TestBuildCompositionMembersCountAsEdges(t *testing.T) {
	pet := &ir.Schema{
		Kind:            ir.KindComposition,
		CompositionKind: ir.CompositionOneOf,
		OneOf:           []*ir.Schema{refTo("Cat"), refTo("Dog")},
	}
	components := []*ir.Component{
		schemaComponent("Pet", pet),
		schemaComponent("Cat", &ir.Schema{Kind: ir.KindObject, Type: ir.TypeObject}),
		schemaComponent("Dog", &ir.Schema{Kind: ir.KindObject, Type: ir.TypeObject}),
	}

	graph := Build(components)

	assert.Equal(t, []string{
		"#/components/schemas/Cat",
		"#/components/schemas/Dog",
	}, graph.Nodes["#/components/schemas/Pet"].Dependencies)

	petIdx := indexOf(t, graph.TopologicalOrder, "#/components/schemas/Pet")
	assert.Equal(t, 2, petIdx)
}

func TestBuildIgnoresOutOfSetRefs(t *testing.T) {
	s := objectWith(map[string]*ir.Schema{
		"known":   refTo("Known"),
		"unknown": {Kind: ir.KindReference, Ref: "#/components/requestBodies/CreatePet"},
	}, "known", "unknown")
	components := []*ir.Component{
		schemaComponent("Root", s),
		schemaComponent("Known", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeString}),
	}

	graph := Build(components)
	assert.Equal(t, []string{"#/components/schemas/Known"}, graph.Nodes["#/components/schemas/Root"].Dependencies)
}

func TestBuildDeterministic(t *testing.T) {
	components := []*ir.Component{
		schemaComponent("A", objectWith(map[string]*ir.Schema{"b": refTo("B")}, "b")),
		schemaComponent("B", objectWith(map[string]*ir.Schema{"a": refTo("A")}, "a")),
		schemaComponent("User", objectWith(map[string]*ir.Schema{"addr": refTo("Address")}, "addr")),
		schemaComponent("Address", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeString}),
		schemaComponent("Lone", &ir.Schema{Kind: ir.KindPrimitive, Type: ir.TypeBoolean}),
	}

	first := Build(components)
	for i := 0; i < 20; i++ {
		next := Build(components)
		require.Equal(t, first.TopologicalOrder, next.TopologicalOrder)
		require.Equal(t, first.CircularReferences, next.CircularReferences)
		require.Equal(t, first.Nodes, next.Nodes)
	}
}

func TestBuildEmpty(t *testing.T) {
	graph := Build(nil)
	require.NotNil(t, graph)
	assert.Nil(t, graph.Nodes)
	assert.Nil(t, graph.TopologicalOrder)
	assert.Nil(t, graph.CircularReferences)

	graph = Build([]*ir.Component{
		{Kind: ir.ComponentSecurityScheme, Name: "api_key", Ref: "#/components/securitySchemes/api_key", SecurityScheme: &ir.SecurityScheme{Type: "apiKey"}},
	})
	assert.Nil(t, graph.Nodes)
}

func indexOf(t *testing.T, list []string, want string) int {
	t.Helper()
	for i, v := range list {
		if v == want {
			return i
		}
	}
	t.Fatalf("%q not found in %v", want, list)
	return -1
}
