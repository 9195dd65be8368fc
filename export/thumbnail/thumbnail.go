// Package thumbnail renders scene views to small JPEG previews with a
// pure software projector and rasteriser.
package thumbnail

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/internal/geom"
	"github.com/anatomap/sceneport/options"
)

const (
	DefaultPrefix = "scene"

	imageSize   = 512
	jpegQuality = 90
)

// groupPalette cycles over distinct line colours, one per group in
// discovery order. Ungrouped lines use the last entry.
var groupPalette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x40, G: 0x40, B: 0x40, A: 0xff},
}

// Exporter writes <prefix>_<view>_thumbnail.jpeg for the active view,
// or for every view when none is marked active.
type Exporter struct {
	export.Base
}

func New(opts *options.ExportOptions) *Exporter {
	return &Exporter{Base: export.NewBase(DefaultPrefix, opts)}
}

func (e *Exporter) Export(doc *sceneport.Document) error {
	views := doc.Views()
	if active := doc.FindView(doc.ActiveView()); active != nil {
		views = []*sceneport.View{active}
	}

	rendered := 0
	for _, v := range views {
		sv := v.Sceneviewer()
		if sv == nil {
			continue
		}

		if err := e.exportView(doc, v.Name(), sv); err != nil {
			return err
		}
		rendered++
	}

	if rendered == 0 {
		return errors.Wrap(export.ErrNothingToExport, "no views with a sceneviewer")
	}

	e.Logger().Info(
		"thumbnails exported",
		zap.String("target", e.OutputTarget()),
		zap.Int("views", rendered),
	)

	return nil
}

func (e *Exporter) exportView(doc *sceneport.Document, viewName string, sv *sceneport.Sceneviewer) error {
	cam := newCamera(sv.Clone())
	img := newCanvas(imageSize, imageSize)

	divisions := doc.Tessellation().Divisions() * 4
	paletteAt := 0

	doc.RootRegion().Walk(func(r *sceneport.Region) bool {
		grouped := make(map[int]bool)
		for _, g := range r.Groups() {
			for _, el := range g.LineElements() {
				grouped[el.Identifier()] = true
			}

			if !e.Filter().Match(g.Name()) {
				continue
			}

			col := groupPalette[paletteAt%len(groupPalette)]
			paletteAt++
			drawLines(img, cam, g.LineElements(), divisions, col)
		}

		var free []*sceneport.Element
		for _, el := range r.Mesh().LineElements() {
			if !grouped[el.Identifier()] {
				free = append(free, el)
			}
		}
		drawLines(img, cam, free, divisions, groupPalette[len(groupPalette)-1])

		return true
	})

	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img.img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return errors.Wrapf(export.ErrOutputWriteFailed, "could not encode %s thumbnail: %s", viewName, err.Error())
	}

	return e.WriteFile(fmt.Sprintf("%s_%s_thumbnail.jpeg", e.Prefix(), viewName), buf.Bytes())
}

func drawLines(img *canvas, cam *camera, lines []*sceneport.Element, divisions int, col color.RGBA) {
	for _, el := range lines {
		var prev []int
		for i := 0; i <= divisions; i++ {
			coords, err := sceneport.EvaluateCoordinates(el, float64(i)/float64(divisions))
			if err != nil {
				return
			}

			px, ok := cam.project(coords)
			if !ok {
				prev = nil
				continue
			}

			if prev != nil {
				img.drawLine(prev[0], prev[1], px[0], px[1], col)
			}
			prev = px
		}
	}
}

// camera implements a look-at transform plus a symmetric perspective
// projection onto the unit square.
type camera struct {
	eye, right, up, forward []float64
	near, far               float64
	focal                   float64
}

func newCamera(sv *sceneport.Sceneviewer) *camera {
	eye := vec3(sv.EyePosition)
	forward := geom.Normalize(geom.Sub(vec3(sv.LookatPosition), eye))
	right := geom.Normalize(geom.Cross(forward, vec3(sv.UpVector)))
	up := geom.Cross(right, forward)

	angle := sv.ViewAngle
	if angle <= 0 {
		angle = 40
	}

	return &camera{
		eye:     eye,
		right:   right,
		up:      up,
		forward: forward,
		near:    sv.NearClippingPlane,
		far:     sv.FarClippingPlane,
		focal:   1 / math.Tan(angle*math.Pi/360),
	}
}

// project maps world coordinates to pixel coordinates; ok is false
// when the point lies outside the clipping range.
func (c *camera) project(coords []float64) ([]int, bool) {
	rel := geom.Sub(vec3(coords), c.eye)
	z := geom.Dot(rel, c.forward)
	if z <= c.near || (c.far > 0 && z > c.far) {
		return nil, false
	}

	sx := c.focal * geom.Dot(rel, c.right) / z
	sy := c.focal * geom.Dot(rel, c.up) / z

	x := int((0.5 + 0.5*sx) * imageSize)
	y := int((0.5 - 0.5*sy) * imageSize)

	return []int{x, y}, true
}

func vec3(v []float64) []float64 {
	p := make([]float64, 3)
	copy(p, v)
	return p
}
