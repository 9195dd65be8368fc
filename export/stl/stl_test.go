package stl_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/export/stl"
	"github.com/anatomap/sceneport/options"
)

func loadFixtureDocument(t *testing.T) *sceneport.Document {
	t.Helper()
	doc, err := sceneport.LoadDocument("../../__fixtures__/document.json")
	require.NoError(t, err)
	return doc
}

func TestExporter_Binary(t *testing.T) {
	doc := loadFixtureDocument(t)
	target := t.TempDir()

	e := stl.New(options.Export().Target(target))
	require.NoError(t, e.Export(doc))

	raw, err := os.ReadFile(filepath.Join(target, "scene_graphics.stl"))
	require.NoError(t, err)

	// header, count, then 50 bytes per triangle; the fixture quad
	// splits into two
	require.Len(t, raw, 80+4+2*50)

	count := binary.LittleEndian.Uint32(raw[80:84])
	assert.Equal(t, uint32(2), count)

	readVec := func(off int) [3]float64 {
		var v [3]float64
		for i := 0; i < 3; i++ {
			bits := binary.LittleEndian.Uint32(raw[off+4*i:])
			v[i] = float64(math.Float32frombits(bits))
		}
		return v
	}

	// first triangle of the xy plane quad faces +z
	normal := readVec(84)
	assert.InDelta(t, 0.0, normal[0], 1e-6)
	assert.InDelta(t, 0.0, normal[1], 1e-6)
	assert.InDelta(t, 1.0, normal[2], 1e-6)

	v0 := readVec(84 + 12)
	assert.Equal(t, [3]float64{0, 4, 0}, v0)

	attr := binary.LittleEndian.Uint16(raw[84+48 : 84+50])
	assert.Equal(t, uint16(0), attr)
}

func TestExporter_ASCII(t *testing.T) {
	doc := loadFixtureDocument(t)
	target := t.TempDir()

	e := stl.New(options.Export().Target(target).Prefix("model"))
	e.SetASCII(true)
	require.NoError(t, e.Export(doc))

	raw, err := os.ReadFile(filepath.Join(target, "model_graphics.stl"))
	require.NoError(t, err)
	text := string(raw)

	assert.True(t, strings.HasPrefix(text, "solid sceneport_graphics\n"))
	assert.True(t, strings.HasSuffix(text, "endsolid sceneport_graphics\n"))
	assert.Equal(t, 2, strings.Count(text, "facet normal"))
	assert.Equal(t, 6, strings.Count(text, "vertex"))
}

func TestExporter_NothingToExport(t *testing.T) {
	doc := loadFixtureDocument(t)

	e := stl.New(options.Export().Target(t.TempDir()).Filter("vagus nerve"))
	err := e.Export(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrNothingToExport))
}
