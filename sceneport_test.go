package sceneport_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatomap/sceneport"
)

func TestLoader_ReloadPicksUpModelChanges(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	docPath := filepath.Join(dir, "doc.json")

	writeModel := func(coords string) {
		content := `{"nodes": [{"id": 1, "coordinates": ` + coords + `}]}`
		require.NoError(t, os.WriteFile(model, []byte(content), 0o644))
	}

	writeModel(`[1, 2, 3]`)
	require.NoError(t, os.WriteFile(docPath, []byte(
		`{"RootRegion": {"Model": {"Sources": [{"Type": "FILE", "FileName": "model.json"}]}}}`,
	), 0o644))

	loader, err := sceneport.NewLoader(nil)
	require.NoError(t, err)

	doc, err := loader.LoadDocument(docPath)
	require.NoError(t, err)

	n, err := doc.RootRegion().Mesh().FindNode(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, n.Coordinates())

	// a second load of the unchanged file is served from the cache
	again, err := loader.LoadDocument(docPath)
	require.NoError(t, err)
	assert.Equal(t, 1, again.RootRegion().Mesh().NodeCount())

	// rewrite with different content and a different size
	writeModel(`[9, 9, 9, 9]`)
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(model, future, future))

	doc, err = loader.LoadDocument(docPath)
	require.NoError(t, err)

	n, err = doc.RootRegion().Mesh().FindNode(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 9, 9, 9}, n.Coordinates())
}

func TestNewLoader_Config(t *testing.T) {
	t.Run("cache can be disabled", func(t *testing.T) {
		loader, err := sceneport.NewLoader(&sceneport.Config{DisableModelCache: true})
		require.NoError(t, err)

		doc, err := loader.LoadDocument("./__fixtures__/document.json")
		require.NoError(t, err)
		assert.Equal(t, 7, doc.RootRegion().Mesh().NodeCount())
	})

	t.Run("explicit budget", func(t *testing.T) {
		loader, err := sceneport.NewLoader(&sceneport.Config{ModelCacheBytes: 1 << 16})
		require.NoError(t, err)

		_, err = loader.LoadDocument("./__fixtures__/document.json")
		require.NoError(t, err)
	})
}
