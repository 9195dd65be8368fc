// Package stl exports the surface elements of a scene as an STL
// triangle mesh, binary by default.
package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/internal/geom"
	"github.com/anatomap/sceneport/options"
)

const DefaultPrefix = "scene"

const solidName = "sceneport_graphics"

// Exporter writes <prefix>_graphics.stl into the output target.
type Exporter struct {
	export.Base
	ascii bool
}

func New(opts *options.ExportOptions) *Exporter {
	return &Exporter{Base: export.NewBase(DefaultPrefix, opts)}
}

// SetASCII switches output to the text STL dialect.
func (e *Exporter) SetASCII(on bool) {
	e.ascii = on
}

type triangle struct {
	normal   []float64
	vertices [3][]float64
}

// Export writes the surfaces of the whole region tree.
func (e *Exporter) Export(doc *sceneport.Document) error {
	return e.ExportFromRegion(doc.RootRegion())
}

// ExportFromRegion writes the surfaces of the region subtree.
func (e *Exporter) ExportFromRegion(region *sceneport.Region) error {
	triangles := collectTriangles(region, e.Filter())
	if len(triangles) == 0 {
		return errors.Wrap(export.ErrNothingToExport, "no surface elements in scene")
	}

	var data []byte
	var err error
	if e.ascii {
		data = encodeASCII(triangles)
	} else {
		data, err = encodeBinary(triangles)
		if err != nil {
			return err
		}
	}

	if err := e.WriteFile(e.Prefix()+"_graphics.stl", data); err != nil {
		return err
	}

	e.Logger().Info(
		"stl exported",
		zap.String("target", e.OutputTarget()),
		zap.Int("triangles", len(triangles)),
		zap.Bool("ascii", e.ascii),
	)

	return nil
}

// collectTriangles walks the tree, splitting quads along the 0-2
// diagonal. The filter applies to group names; ungrouped surfaces are
// always kept.
func collectTriangles(root *sceneport.Region, filter *sceneport.Filter) []triangle {
	var triangles []triangle

	root.Walk(func(r *sceneport.Region) bool {
		skip := make(map[int]bool)
		for _, g := range r.Groups() {
			if filter.Match(g.Name()) {
				continue
			}

			// filtered out groups suppress their elements entirely
			for _, el := range g.Elements() {
				skip[el.Identifier()] = true
			}
		}

		for _, el := range r.Mesh().SurfaceElements() {
			if skip[el.Identifier()] {
				continue
			}

			nodes := el.Nodes()
			triangles = append(triangles, newTriangle(nodes[0], nodes[1], nodes[2]))
			if el.Shape() == sceneport.ShapeQuad {
				triangles = append(triangles, newTriangle(nodes[0], nodes[2], nodes[3]))
			}
		}

		return true
	})

	return triangles
}

func newTriangle(a, b, c *sceneport.Node) triangle {
	va := coords3(a.Coordinates())
	vb := coords3(b.Coordinates())
	vc := coords3(c.Coordinates())

	normal := geom.Normalize(geom.Cross(geom.Sub(vb, va), geom.Sub(vc, va)))

	return triangle{
		normal:   normal,
		vertices: [3][]float64{va, vb, vc},
	}
}

// coords3 pads planar coordinates with a zero z component.
func coords3(coords []float64) []float64 {
	out := []float64{0, 0, 0}
	copy(out, coords)
	return out
}

const binaryHeaderSize = 80

func encodeBinary(triangles []triangle) ([]byte, error) {
	buf := &bytes.Buffer{}

	header := make([]byte, binaryHeaderSize)
	copy(header, []byte("sceneport stl export"))
	buf.Write(header)

	if err := binary.Write(buf, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return nil, errors.Wrap(err, "could not encode stl triangle count")
	}

	for _, t := range triangles {
		if err := writeVector32(buf, t.normal); err != nil {
			return nil, err
		}

		for _, v := range t.vertices {
			if err := writeVector32(buf, v); err != nil {
				return nil, err
			}
		}

		// attribute byte count, unused
		if err := binary.Write(buf, binary.LittleEndian, uint16(0)); err != nil {
			return nil, errors.Wrap(err, "could not encode stl attribute bytes")
		}
	}

	return buf.Bytes(), nil
}

func writeVector32(buf *bytes.Buffer, v []float64) error {
	for _, c := range v {
		if err := binary.Write(buf, binary.LittleEndian, float32(c)); err != nil {
			return errors.Wrap(err, "could not encode stl vector")
		}
	}

	return nil
}

func encodeASCII(triangles []triangle) []byte {
	buf := &bytes.Buffer{}

	fmt.Fprintf(buf, "solid %s\n", solidName)
	for _, t := range triangles {
		fmt.Fprintf(buf, "facet normal %e %e %e\n", t.normal[0], t.normal[1], t.normal[2])
		fmt.Fprintf(buf, "  outer loop\n")
		for _, v := range t.vertices {
			fmt.Fprintf(buf, "    vertex %e %e %e\n", v[0], v[1], v[2])
		}
		fmt.Fprintf(buf, "  endloop\n")
		fmt.Fprintf(buf, "endfacet\n")
	}
	fmt.Fprintf(buf, "endsolid %s\n", solidName)

	return buf.Bytes()
}
