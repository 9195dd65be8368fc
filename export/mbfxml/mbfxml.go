// Package mbfxml exports line geometry as an MBF Bioscience XML
// document: one tree per connected chain of line elements, plus
// marker datapoints.
package mbfxml

import (
	"encoding/xml"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/options"
)

const (
	DefaultPrefix = "scene"

	mbfVersion   = "4.0"
	mbfNamespace = "http://www.mbfbioscience.com/2007/neurolucida"

	// Point thickness when a node carries no diameter field.
	defaultDiameter = 1.0
)

type point struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
	Z string `xml:"z,attr"`
	D string `xml:"d,attr"`
}

type tree struct {
	XMLName xml.Name `xml:"tree"`
	Type    string   `xml:"type,attr,omitempty"`
	Points  []point  `xml:"point"`
}

type marker struct {
	XMLName xml.Name `xml:"marker"`
	Name    string   `xml:"name,attr"`
	Points  []point  `xml:"point"`
}

type mbfDocument struct {
	XMLName xml.Name `xml:"mbf"`
	Version string   `xml:"version,attr"`
	XMLNS   string   `xml:"xmlns,attr"`
	Trees   []tree   `xml:"tree"`
	Markers []marker `xml:"marker"`
}

// Exporter writes <prefix>.xml into the output target.
type Exporter struct {
	export.Base
}

func New(opts *options.ExportOptions) *Exporter {
	return &Exporter{Base: export.NewBase(DefaultPrefix, opts)}
}

// IsValid reports whether the document holds geometry this format can
// represent. Surfaces-only scenes produce no trees and are rejected
// up front.
func (e *Exporter) IsValid(doc *sceneport.Document) bool {
	valid := false
	doc.RootRegion().Walk(func(r *sceneport.Region) bool {
		if len(r.Mesh().LineElements()) > 0 {
			valid = true
			return false
		}

		return true
	})

	return valid
}

// Export writes the whole region tree.
func (e *Exporter) Export(doc *sceneport.Document) error {
	return e.ExportFromRegion(doc.RootRegion())
}

// ExportFromRegion writes the region subtree.
func (e *Exporter) ExportFromRegion(region *sceneport.Region) error {
	mbf := mbfDocument{Version: mbfVersion, XMLNS: mbfNamespace}

	region.Walk(func(r *sceneport.Region) bool {
		mbf.Trees = append(mbf.Trees, regionTrees(r, e.Filter())...)

		for _, m := range r.Markers() {
			coords := m.Coordinates()
			if len(coords) < 2 {
				continue
			}

			mbf.Markers = append(mbf.Markers, marker{
				Name:   m.Name(),
				Points: []point{newPoint(coords, defaultDiameter)},
			})
		}

		return true
	})

	if len(mbf.Trees) == 0 {
		return errors.Wrap(export.ErrNothingToExport, "no line elements to form trees from")
	}

	body, err := xml.MarshalIndent(mbf, "", "  ")
	if err != nil {
		return errors.Wrapf(export.ErrOutputWriteFailed, "could not marshal mbf document: %s", err.Error())
	}

	content := append([]byte(xml.Header), body...)
	content = append(content, '\n')

	if err := e.WriteFile(e.Prefix()+".xml", content); err != nil {
		return err
	}

	e.Logger().Info(
		"mbfxml exported",
		zap.String("target", e.OutputTarget()),
		zap.Int("trees", len(mbf.Trees)),
		zap.Int("markers", len(mbf.Markers)),
	)

	return nil
}

// regionTrees builds one tree per connected line chain, grouped
// geometry first, then any lines outside every group.
func regionTrees(r *sceneport.Region, filter *sceneport.Filter) []tree {
	var trees []tree
	grouped := make(map[int]bool)

	for _, g := range r.Groups() {
		for _, el := range g.LineElements() {
			grouped[el.Identifier()] = true
		}

		if !filter.Match(g.Name()) {
			continue
		}

		for _, chain := range sceneport.LineChains(g.LineElements()) {
			trees = append(trees, tree{Type: g.Name(), Points: chainPoints(chain)})
		}
	}

	var free []*sceneport.Element
	for _, el := range r.Mesh().LineElements() {
		if !grouped[el.Identifier()] {
			free = append(free, el)
		}
	}

	for _, chain := range sceneport.LineChains(free) {
		trees = append(trees, tree{Points: chainPoints(chain)})
	}

	return trees
}

func chainPoints(chain []*sceneport.Element) []point {
	points := []point{nodePoint(chain[0].Nodes()[0])}
	for _, el := range chain {
		points = append(points, nodePoint(el.Nodes()[1]))
	}

	return points
}

func nodePoint(n *sceneport.Node) point {
	d := n.Diameter()
	if d <= 0 {
		d = defaultDiameter
	}

	return newPoint(n.Coordinates(), d)
}

func newPoint(coords []float64, d float64) point {
	at := func(i int) string {
		if i < len(coords) {
			return fnum(coords[i])
		}

		return "0"
	}

	return point{X: at(0), Y: at(1), Z: at(2), D: fnum(d)}
}

func fnum(v float64) string {
	return fmt.Sprintf("%g", v)
}
