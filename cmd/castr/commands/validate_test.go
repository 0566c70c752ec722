package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataFile writes a payload file to a temp dir and returns its path.
func writeDataFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetupValidateDataFlags(t *testing.T) {
	fs, flags := SetupValidateDataFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Empty(t, flags.Schema, "expected Schema to be empty by default")
		assert.Empty(t, flags.Data, "expected Data to be empty by default")
		assert.Equal(t, FormatText, flags.Format)
		assert.False(t, flags.Quiet, "expected Quiet to be false by default")
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"-s", "Pet", "-d", "pet.json", "--format", "json", "-q", "test.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "Pet", flags.Schema)
		assert.Equal(t, "pet.json", flags.Data)
		assert.Equal(t, "json", flags.Format)
		assert.True(t, flags.Quiet, "expected Quiet to be true")
		assert.Equal(t, "test.yaml", fs.Arg(0))
	})
}

func TestHandleValidateData_NoArgs(t *testing.T) {
	err := HandleValidateData([]string{})
	assert.Error(t, err)
}

func TestHandleValidateData_Help(t *testing.T) {
	err := HandleValidateData([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandleValidateData_MissingSchema(t *testing.T) {
	err := HandleValidateData([]string{"-d", "pet.json", "test.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema component name is required")
}

func TestHandleValidateData_MissingData(t *testing.T) {
	err := HandleValidateData([]string{"-s", "Pet", "test.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data file is required")
}

func TestHandleValidateData_InvalidFormat(t *testing.T) {
	err := HandleValidateData([]string{"-s", "Pet", "-d", "pet.json", "--format", "xml", "test.yaml"})
	assert.Error(t, err)
}

func TestHandleValidateData_SchemaNotFound(t *testing.T) {
	specPath := writePetSpec(t)
	dataPath := writeDataFile(t, "pet.json", `{"name": "Rex"}`)

	err := HandleValidateData([]string{"-s", "Missing", "-d", dataPath, specPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `schema component "Missing" not found`)
}

func TestHandleValidateData_ValidData(t *testing.T) {
	specPath := writePetSpec(t)
	dataPath := writeDataFile(t, "pet.json", `{"name": "Rex", "status": "available"}`)

	err := HandleValidateData([]string{"-s", "Pet", "-d", dataPath, specPath})
	assert.NoError(t, err)
}

func TestHandleValidateData_ValidYAMLData(t *testing.T) {
	specPath := writePetSpec(t)
	dataPath := writeDataFile(t, "pet.yaml", "name: Rex\nstatus: sold\n")

	err := HandleValidateData([]string{"-s", "Pet", "-d", dataPath, specPath})
	assert.NoError(t, err)
}

func TestHandleValidateData_InvalidData(t *testing.T) {
	specPath := writePetSpec(t)
	// Missing required name, and status is outside the enum.
	dataPath := writeDataFile(t, "pet.json", `{"status": "bogus"}`)

	err := HandleValidateData([]string{"-s", "Pet", "-d", dataPath, specPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not validate against Pet")
}

func TestHandleValidateData_InvalidDataJSON(t *testing.T) {
	specPath := writePetSpec(t)
	dataPath := writeDataFile(t, "pet.json", `{"status": "bogus"}`)

	// Structured output still reports failure through the exit error.
	err := HandleValidateData([]string{"-s", "Pet", "-d", dataPath, "-f", "json", specPath})
	assert.Error(t, err)
}

func TestHandleValidateData_UnreadableData(t *testing.T) {
	specPath := writePetSpec(t)

	err := HandleValidateData([]string{"-s", "Pet", "-d", "/nonexistent/pet.json", specPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading data")
}
