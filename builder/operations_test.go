package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrlabs/castr/ir"
	"github.com/castrlabs/castr/parser"
)

// captureLogger records warn messages for assertions.
type captureLogger struct {
	parser.NopLogger
	warns []string
}

func (l *captureLogger) Warn(msg string, attrs ...any) {
	l.warns = append(l.warns, msg)
}

func TestBuildOperationParameterMerge(t *testing.T) {
	doc := buildDoc(t, `
openapi: 3.0.3
info:
  title: Params
  version: 1.0.0
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
      - name: verbose
        in: query
        schema:
          type: boolean
    get:
      operationId: getPet
      parameters:
        - name: verbose
          in: query
          description: overridden
          schema:
            type: string
      responses:
        '200':
          description: ok
`)

	op := doc.OperationByID("getPet")
	require.NotNil(t, op)
	assert.Equal(t, "get", op.Method)
	assert.Equal(t, "/pets/{petId}", op.Path)

	require.Len(t, op.Parameters, 2)

	petID := op.Parameters[0]
	assert.Equal(t, "petId", petID.Name)
	assert.Equal(t, ir.LocationPath, petID.In)
	assert.True(t, petID.Required)

	// The operation-level definition wins but keeps the path-item position.
	verbose := op.Parameters[1]
	assert.Equal(t, "verbose", verbose.Name)
	assert.Equal(t, ir.LocationQuery, verbose.In)
	assert.Equal(t, "overridden", verbose.Description)
	require.NotNil(t, verbose.Schema)
	assert.Equal(t, ir.TypeString, verbose.Schema.Type)

	// Grouped views share pointers with the flat list.
	require.Len(t, op.PathParameters(), 1)
	assert.Same(t, petID, op.PathParameters()[0])
	require.Len(t, op.ParametersByLocation[ir.LocationQuery], 1)
	assert.Same(t, verbose, op.ParametersByLocation[ir.LocationQuery][0])
}

func TestBuildOperationPathParameterForcedRequired(t *testing.T) {
	// Validation would reject the missing required flag, so parse without
	// it to reach the builder rule directly.
	parsed, err := parser.ParseWithOptions(
		parser.WithBytes([]byte(`
openapi: 3.0.3
info:
  title: Params
  version: 1.0.0
paths:
  /items/{id}:
    get:
      operationId: getItem
      parameters:
        - name: id
          in: path
          schema:
            type: string
      responses:
        '200':
          description: ok
`)),
		parser.WithValidateStructure(false),
	)
	require.NoError(t, err)

	doc, err := BuildIR(parsed)
	require.NoError(t, err)

	op := doc.OperationByID("getItem")
	require.NotNil(t, op)
	require.Len(t, op.Parameters, 1)
	assert.True(t, op.Parameters[0].Required, "path parameters are required no matter what the source says")
	require.NotNil(t, op.Parameters[0].Schema)
	assert.True(t, op.Parameters[0].Schema.IsRequired())
}

func TestBuildOperationParameterRef(t *testing.T) {
	doc := buildDoc(t, `
openapi: 3.0.3
info:
  title: Params
  version: 1.0.0
paths:
  /things:
    get:
      operationId: listThings
      parameters:
        - $ref: '#/components/parameters/Limit'
      responses:
        '200':
          description: ok
components:
  parameters:
    Limit:
      name: limit
      in: query
      description: page size
      schema:
        type: integer
`)

	op := doc.OperationByID("listThings")
	require.NotNil(t, op)
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "limit", op.Parameters[0].Name)
	assert.Equal(t, ir.LocationQuery, op.Parameters[0].In)
	assert.Equal(t, "page size", op.Parameters[0].Description)
}

func TestBuildOperationRequestBody(t *testing.T) {
	doc := buildDoc(t, `
openapi: 3.0.3
info:
  title: Bodies
  version: 1.0.0
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        description: the new pet
        required: true
        content:
          text/plain:
            schema:
              type: string
          application/json:
            schema:
              type: object
              properties:
                name:
                  type: string
      responses:
        '201':
          description: created
    put:
      operationId: replacePet
      requestBody:
        content:
          application/json:
            schema:
              type: object
      responses:
        '200':
          description: ok
`)

	create := doc.OperationByID("createPet")
	require.NotNil(t, create)
	body := create.RequestBody
	require.NotNil(t, body)
	assert.Equal(t, "the new pet", body.Description)
	assert.True(t, body.Required)

	// Media types come out in sorted order.
	assert.Equal(t, []string{"application/json", "text/plain"}, body.Content.Keys())

	jsonSchema := body.JSONSchema()
	require.NotNil(t, jsonSchema)
	assert.Equal(t, ir.KindObject, jsonSchema.Kind)
	assert.True(t, jsonSchema.IsRequired())
	assert.Equal(t, ir.PresenceRequired, jsonSchema.Metadata.Chain.Presence)

	// Absent required defaults to an optional body.
	replace := doc.OperationByID("replacePet")
	require.NotNil(t, replace)
	require.NotNil(t, replace.RequestBody)
	assert.False(t, replace.RequestBody.Required)
	assert.Equal(t, ir.PresenceOptional, replace.RequestBody.JSONSchema().Metadata.Chain.Presence)
}

func TestBuildOperationResponses(t *testing.T) {
	doc := buildDoc(t, `
openapi: 3.0.3
info:
  title: Responses
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        default:
          description: unexpected
        '404':
          description: missing
        '200':
          description: ok
          headers:
            X-Rate-Limit:
              required: true
              schema:
                type: integer
            X-Opaque: {}
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`)

	op := doc.OperationByID("listPets")
	require.NotNil(t, op)

	// Declaration order survives.
	var statuses []string
	for _, r := range op.Responses {
		statuses = append(statuses, r.Status)
	}
	assert.Equal(t, []string{"default", "404", "200"}, statuses)

	ok := op.Response("200")
	require.NotNil(t, ok)
	assert.Equal(t, "ok", ok.Description)

	list := ok.JSONSchema()
	require.NotNil(t, list)
	require.Equal(t, ir.KindArray, list.Kind)
	assert.Equal(t, "#/components/schemas/Pet", list.Items.Ref)

	// Schemaless headers are skipped; the rest build like parameters.
	require.NotNil(t, ok.Headers)
	assert.Equal(t, []string{"X-Rate-Limit"}, ok.Headers.Keys())
	rateLimit, found := ok.Headers.Get("X-Rate-Limit")
	require.True(t, found)
	assert.Equal(t, ir.TypeInteger, rateLimit.Type)
	assert.True(t, rateLimit.IsRequired())

	missing := op.Response("404")
	require.NotNil(t, missing)
	assert.Nil(t, missing.Content)
	assert.Nil(t, op.Response("418"))
}

func TestBuildOperationResponseRef(t *testing.T) {
	doc := buildDoc(t, `
openapi: 3.0.3
info:
  title: Responses
  version: 1.0.0
paths:
  /pets:
    delete:
      operationId: deletePet
      responses:
        '404':
          $ref: '#/components/responses/NotFound'
components:
  responses:
    NotFound:
      description: no such pet
      content:
        application/json:
          schema:
            type: object
            properties:
              message:
                type: string
`)

	op := doc.OperationByID("deletePet")
	require.NotNil(t, op)
	require.Len(t, op.Responses, 1)

	resp := op.Responses[0]
	assert.Equal(t, "404", resp.Status, "the status comes from the operation, not the component")
	assert.Equal(t, "no such pet", resp.Description)
	require.NotNil(t, resp.JSONSchema())
}

func TestBuildOperationMetadata(t *testing.T) {
	doc := buildDoc(t, `
openapi: 3.0.3
info:
  title: Meta
  version: 1.0.0
paths:
  /legacy:
    post:
      operationId: legacyOp
      summary: Old endpoint
      description: Use something newer.
      tags: [legacy, admin]
      deprecated: true
      responses:
        '200':
          description: ok
`)

	op := doc.OperationByID("legacyOp")
	require.NotNil(t, op)
	assert.Equal(t, "Old endpoint", op.Summary)
	assert.Equal(t, "Use something newer.", op.Description)
	assert.Equal(t, []string{"legacy", "admin"}, op.Tags)
	assert.True(t, op.Deprecated)
}

func TestBuildOperationsMethodAndPathOrder(t *testing.T) {
	doc := buildDoc(t, `
openapi: 3.0.3
info:
  title: Order
  version: 1.0.0
paths:
  /b:
    post:
      operationId: postB
      responses:
        '200':
          description: ok
    get:
      operationId: getB
      responses:
        '200':
          description: ok
  /a:
    get:
      operationId: getA
      responses:
        '200':
          description: ok
`)

	var ids []string
	for _, op := range doc.Operations {
		ids = append(ids, op.OperationID)
	}
	// Paths keep declaration order; methods follow the canonical method
	// order within a path.
	assert.Equal(t, []string{"getB", "postB", "getA"}, ids)
}

func TestBuildOperationsPathItemRefWarns(t *testing.T) {
	logger := &captureLogger{}
	parsed := mustParse(t, `
openapi: 3.0.3
info:
  title: Refs
  version: 1.0.0
paths:
  /remote:
    $ref: './elsewhere.yaml#/paths/~1remote'
    get:
      operationId: getRemote
      responses:
        '200':
          description: ok
`)

	doc, err := BuildIR(parsed, WithLogger(logger))
	require.NoError(t, err)

	// Inline fields still build; the unsupported $ref only warns.
	require.NotNil(t, doc.OperationByID("getRemote"))
	require.NotEmpty(t, logger.warns)
	assert.Contains(t, logger.warns[0], "path item $ref")
}
