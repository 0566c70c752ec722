package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.yaml.in/yaml/v4"

	"github.com/castrlabs/castr/ir"
)

func TestSetupBuildFlags(t *testing.T) {
	fs, flags := SetupBuildFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Empty(t, flags.Output, "expected Output to be empty by default")
		assert.Empty(t, flags.Format, "expected Format to be empty (auto) by default")
		assert.False(t, flags.Quiet, "expected Quiet to be false by default")
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"-o", "ir.json", "--format", "json", "-q", "test.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "ir.json", flags.Output)
		assert.Equal(t, "json", flags.Format)
		assert.True(t, flags.Quiet, "expected Quiet to be true")
		assert.Equal(t, "test.yaml", fs.Arg(0))
	})
}

func TestHandleBuild_NoArgs(t *testing.T) {
	err := HandleBuild([]string{})
	assert.Error(t, err)
}

func TestHandleBuild_Help(t *testing.T) {
	err := HandleBuild([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandleBuild_InvalidFormat(t *testing.T) {
	err := HandleBuild([]string{"--format", "xml", "test.yaml"})
	assert.Error(t, err)
}

func TestHandleBuild_TextToFile(t *testing.T) {
	err := HandleBuild([]string{"-f", "text", "-o", "ir.txt", "test.yaml"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "text format")
}

func TestHandleBuild_JSONOutput(t *testing.T) {
	specPath := writePetSpec(t)
	outPath := filepath.Join(t.TempDir(), "ir.json")

	require.NoError(t, HandleBuild([]string{"-o", outPath, specPath}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	doc, err := ir.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, "Pet Store", doc.Info.Title)
	assert.Len(t, doc.Components, 2)
	assert.NotNil(t, doc.DependencyGraph)
}

func TestHandleBuild_YAMLOutputInferred(t *testing.T) {
	specPath := writePetSpec(t)
	outPath := filepath.Join(t.TempDir(), "ir.yaml")

	// No -f flag: format inferred from the .yaml extension.
	require.NoError(t, HandleBuild([]string{"-o", outPath, specPath}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "components")
	assert.Contains(t, raw, "operations")
}

func TestHandleBuild_NonExistentFile(t *testing.T) {
	err := HandleBuild([]string{"/nonexistent/path/openapi.yaml"})
	assert.Error(t, err)
}
