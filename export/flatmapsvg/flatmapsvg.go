// Package flatmapsvg exports the line geometry of a scene as an SVG
// source document for flatmap generation, together with a
// properties.json describing its centreline and marker features.
package flatmapsvg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/internal/svgpath"
	"github.com/anatomap/sceneport/options"
)

const DefaultPrefix = "flatmap"

const viewMargin = 10

const propertiesFilename = "properties.json"

// Exporter writes <prefix>.svg and properties.json into the output
// target.
type Exporter struct {
	export.Base
	annotationsCSV string
}

func New(opts *options.ExportOptions) *Exporter {
	return &Exporter{Base: export.NewBase(DefaultPrefix, opts)}
}

// SetAnnotationsCSVFile points the exporter at a Term ID / Group name
// table used to attach ontology terms to centreline features.
func (e *Exporter) SetAnnotationsCSVFile(path string) {
	e.annotationsCSV = path
}

// Export writes the flatmap source for the document's root region.
func (e *Exporter) Export(doc *sceneport.Document) error {
	return e.ExportFromRegion(doc.RootRegion())
}

// ExportFromRegion writes the flatmap source for one region.
func (e *Exporter) ExportFromRegion(region *sceneport.Region) error {
	buckets := analyzeRegion(region, e.Filter())
	fillBeziers(buckets)

	markers := region.Markers()
	svgText, pathStrings := writeSVG(buckets, markers)

	viewBox, err := fitViewBox(pathStrings)
	if err != nil {
		return err
	}
	svgText = strings.Replace(svgText, svgViewBoxPlaceholder, viewBox, 1)

	if err := e.WriteFile(e.Prefix()+".svg", []byte(svgText)); err != nil {
		return err
	}

	var reverseMap map[string]string
	if e.annotationsCSV != "" {
		reverseMap, err = reverseAnnotationMap(e.annotationsCSV)
		if err != nil {
			return err
		}
	}

	props := buildProperties(buckets, markers, reverseMap)
	data, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not marshal flatmap properties")
	}

	if err := e.WriteFile(propertiesFilename, data); err != nil {
		return err
	}

	e.Logger().Info(
		"flatmap svg exported",
		zap.String("target", e.OutputTarget()),
		zap.Int("paths", len(pathStrings)),
		zap.Int("markers", len(markers)),
	)

	return nil
}

// fitViewBox measures every emitted path and frames the union with a
// fixed margin. A scene with no paths keeps the nominal frame.
func fitViewBox(pathStrings []string) (string, error) {
	if len(pathStrings) == 0 {
		return `viewBox="0 0 1000 1000"`, nil
	}

	var box svgpath.BBox
	for i, d := range pathStrings {
		cubics, err := svgpath.Parse(d)
		if err != nil {
			return "", err
		}

		pathBox, err := svgpath.PathBBox(cubics)
		if err != nil {
			return "", err
		}

		if i == 0 {
			box = pathBox
		} else {
			box.Extend(pathBox)
		}
	}

	return fmt.Sprintf(
		`viewBox="%d %d %d %d"`,
		int(box.MinX+0.5)-viewMargin,
		int(box.MinY+0.5)-viewMargin,
		int(box.Width()+0.5)+2*viewMargin,
		int(box.Height()+0.5)+2*viewMargin,
	), nil
}
