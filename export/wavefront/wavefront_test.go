package wavefront_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/export/wavefront"
	"github.com/anatomap/sceneport/options"
)

func TestExporter_Export(t *testing.T) {
	doc, err := sceneport.LoadDocument("../../__fixtures__/document.json")
	require.NoError(t, err)

	target := t.TempDir()
	e := wavefront.New(options.Export().Target(target))
	require.NoError(t, e.Export(doc))

	t.Run("master file calls one obj per group", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(target, "scene_base.obj"))
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "call vagus_nerve.1.obj", lines[0])
		assert.Equal(t, "call body_proper.1.obj", lines[1])
	})

	t.Run("line group becomes a polyline", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(target, "vagus_nerve.1.obj"))
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		assert.Equal(t, "g vagus_nerve", lines[0])
		assert.Equal(t, "v 0 0 0", lines[1])
		assert.Equal(t, "v 3 0 0", lines[2])
		assert.Equal(t, "v 6 0 0", lines[3])
		assert.Equal(t, "l 1 2 3", lines[4])
	})

	t.Run("surface group becomes a face", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(target, "body_proper.1.obj"))
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		assert.Equal(t, "g body_proper", lines[0])

		vertices := 0
		for _, line := range lines {
			if strings.HasPrefix(line, "v ") {
				vertices++
			}
		}
		assert.Equal(t, 4, vertices)
		assert.Contains(t, lines, "f 1 2 3 4")
	})
}

func TestExporter_NothingToExport(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(model, []byte(`{"nodes": [], "elements": []}`), 0o644))

	docPath := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(docPath, []byte(
		`{"RootRegion": {"Model": {"Sources": [{"Type": "FILE", "FileName": "model.json"}]}}}`,
	), 0o644))

	doc, err := sceneport.LoadDocument(docPath)
	require.NoError(t, err)

	e := wavefront.New(options.Export().Target(t.TempDir()))
	err = e.Export(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrNothingToExport))
}
