package flatmapsvg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/options"
)

func straightCurve(x0, x1 float64) bezierCurve {
	third := (x1 - x0) / 3
	return bezierCurve{
		{x0, 0},
		{x0 + third, 0},
		{x1 - third, 0},
		{x1, 0},
	}
}

func TestToBezier(t *testing.T) {
	cs := curveSample{
		{value: []float64{0, 0, 0}, derivative: []float64{3, 0, 0}},
		{value: []float64{3, 0, 0}, derivative: []float64{3, 0, 0}},
	}

	b := toBezier(cs)
	assert.Equal(t, bezierCurve{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, b)
}

func TestConnectedSegments(t *testing.T) {
	t.Run("chains start at the head regardless of input order", func(t *testing.T) {
		a := straightCurve(0, 1)
		b := straightCurve(1, 2)
		c := straightCurve(2, 3)

		for _, curves := range [][]bezierCurve{
			{a, b, c},
			{c, a, b},
			{b, c, a},
		} {
			segments := connectedSegments(curves)
			require.Len(t, segments, 1)
			require.Len(t, segments[0], 3)
			assert.Equal(t, a, segments[0][0])
			assert.Equal(t, b, segments[0][1])
			assert.Equal(t, c, segments[0][2])
		}
	})

	t.Run("disjoint curves stay separate", func(t *testing.T) {
		segments := connectedSegments([]bezierCurve{
			straightCurve(0, 1),
			straightCurve(10, 11),
		})

		require.Len(t, segments, 2)
		assert.Len(t, segments[0], 1)
		assert.Len(t, segments[1], 1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, connectedSegments(nil))
	})
}

func TestPathData(t *testing.T) {
	d := pathData([][]bezierCurve{{straightCurve(0, 3), straightCurve(3, 6)}})
	assert.Equal(t, "M 0 0 C 1 0, 2 0, 3 0 C 4 0, 5 0, 6 0", d)
}

func TestFitViewBox(t *testing.T) {
	t.Run("no paths keeps the nominal frame", func(t *testing.T) {
		vb, err := fitViewBox(nil)
		require.NoError(t, err)
		assert.Equal(t, `viewBox="0 0 1000 1000"`, vb)
	})

	t.Run("margin around the measured box", func(t *testing.T) {
		vb, err := fitViewBox([]string{"M 0 0 C 1 0, 2 0, 3 0 C 4 0, 5 0, 6 0"})
		require.NoError(t, err)
		assert.Equal(t, `viewBox="-10 -10 26 20"`, vb)
	})
}

func TestReverseAnnotationMap(t *testing.T) {
	t.Run("expected layout", func(t *testing.T) {
		m, err := reverseAnnotationMap("../../__fixtures__/annotations.csv")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"vagus nerve": "UBERON:0001759",
			"body proper": "UBERON:0013702",
		}, m)
	})

	t.Run("table with a different layout is ignored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "other.csv")
		require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644))

		m, err := reverseAnnotationMap(path)
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("unreadable file is an error", func(t *testing.T) {
		_, err := reverseAnnotationMap(filepath.Join(t.TempDir(), "missing.csv"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAnnotationFileUnreadable))
	})
}

func TestExporter_Export(t *testing.T) {
	doc, err := sceneport.LoadDocument("../../__fixtures__/document.json")
	require.NoError(t, err)

	target := t.TempDir()
	e := New(options.Export().Target(target))
	e.SetAnnotationsCSVFile("../../__fixtures__/annotations.csv")
	require.NoError(t, e.Export(doc))

	t.Run("svg document", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(target, "flatmap.svg"))
		require.NoError(t, err)
		svg := string(raw)

		assert.True(t, strings.HasPrefix(svg, `<svg width="1000" height="1000" viewBox="-10 -10 26 20"`))
		assert.Contains(t, svg, `stroke="#01136e"`)
		assert.Contains(t, svg, "<title>.centreline id(nerve_feature_1)</title>")
		assert.Contains(t, svg, "M 0 0 C 1 0, 2 0, 3 0 C 4 0, 5 0, 6 0")
		assert.Contains(t, svg, `<circle cx="5" cy="5" r="3" fill-opacity="0.0"><title>.id(marker_1)</title></circle>`)
		assert.NotContains(t, svg, svgViewBoxPlaceholder)
	})

	t.Run("properties sidecar", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(target, "properties.json"))
		require.NoError(t, err)

		var props struct {
			Features map[string]feature `json:"features"`
			Networks []json.RawMessage  `json:"networks"`
		}
		require.NoError(t, json.Unmarshal(raw, &props))

		nerve, ok := props.Features["nerve_feature_1"]
		require.True(t, ok)
		assert.Equal(t, "vagus nerve", nerve.Label)
		assert.Equal(t, "centreline", nerve.Type)
		assert.Equal(t, "UBERON:0001759", nerve.Models)

		mk, ok := props.Features["marker_1"]
		require.True(t, ok)
		assert.Equal(t, "nerve marker", mk.Name)
		assert.Equal(t, "UBERON:0001759", mk.Models)
		assert.Equal(t, "orange", mk.Colour)

		mk2, ok := props.Features["marker_2"]
		require.True(t, ok)
		assert.Equal(t, "Unnamed marker 2", mk2.Name)
		assert.True(t, strings.HasPrefix(mk2.Models, "UBERON:99"))

		assert.NotNil(t, props.Networks)
		assert.Empty(t, props.Networks)
	})
}
