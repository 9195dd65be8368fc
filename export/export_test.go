package export_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/options"
)

func TestNewBase(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		b := export.NewBase("scene", nil)
		assert.Equal(t, ".", b.OutputTarget())
		assert.Equal(t, "scene", b.Prefix())
		assert.Nil(t, b.Filter())
		assert.True(t, b.Filter().Match("anything"))
	})

	t.Run("options override defaults", func(t *testing.T) {
		opts := options.Export().Target("/tmp/out").Prefix("heart").Filter("vagus:*")
		b := export.NewBase("scene", opts)

		assert.Equal(t, "/tmp/out", b.OutputTarget())
		assert.Equal(t, "heart", b.Prefix())
		assert.True(t, b.Filter().Match("vagus:left"))
		assert.False(t, b.Filter().Match("phrenic"))
	})
}

func TestBase_ResolveTimeRange(t *testing.T) {
	doc, err := sceneport.LoadDocument("../__fixtures__/document.json")
	require.NoError(t, err)

	t.Run("document timekeeper", func(t *testing.T) {
		b := export.NewBase("scene", nil)

		tr := b.ResolveTimeRange(doc)
		require.NotNil(t, tr)
		assert.Equal(t, 0.0, tr.Initial)
		assert.Equal(t, 3.0, tr.Finish)
		assert.Equal(t, 4, tr.Steps)
	})

	t.Run("explicit range wins", func(t *testing.T) {
		b := export.NewBase("scene", options.Export().TimeRange(1, 11, 20))

		tr := b.ResolveTimeRange(doc)
		require.NotNil(t, tr)
		assert.Equal(t, 1.0, tr.Initial)
		assert.Equal(t, 11.0, tr.Finish)
		assert.Equal(t, 20, tr.Steps)
	})
}

func TestBase_WriteFile(t *testing.T) {
	t.Run("creates the target directory", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "nested", "out")
		b := export.NewBase("scene", options.Export().Target(target))

		require.NoError(t, b.WriteFile("file.txt", []byte("payload")))

		raw, err := os.ReadFile(filepath.Join(target, "file.txt"))
		require.NoError(t, err)
		assert.Equal(t, "payload", string(raw))
	})

	t.Run("replaces existing content and leaves no temp file", func(t *testing.T) {
		target := t.TempDir()
		b := export.NewBase("scene", options.Export().Target(target))

		require.NoError(t, b.WriteFile("file.txt", []byte("first")))
		require.NoError(t, b.WriteFile("file.txt", []byte("second")))

		raw, err := os.ReadFile(filepath.Join(target, "file.txt"))
		require.NoError(t, err)
		assert.Equal(t, "second", string(raw))

		entries, err := os.ReadDir(target)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "file.txt", entries[0].Name())
	})
}
