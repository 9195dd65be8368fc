package webgl

import (
	"fmt"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
)

const generatedBy = "sceneport"
const geometryFormatVersion = 3

type geometryMetadata struct {
	Version     int    `json:"version"`
	Type        string `json:"type"`
	GeneratedBy string `json:"generatedBy"`
}

type morphTarget struct {
	Name     string    `json:"name"`
	Vertices []float64 `json:"vertices"`
}

type geometry struct {
	Metadata     geometryMetadata `json:"metadata"`
	Vertices     []float64        `json:"vertices"`
	Faces        []int            `json:"faces,omitempty"`
	MorphTargets []morphTarget    `json:"morphTargets,omitempty"`
}

func newGeometry() geometry {
	return geometry{
		Metadata: geometryMetadata{
			Version:     geometryFormatVersion,
			Type:        "Geometry",
			GeneratedBy: generatedBy,
		},
	}
}

// resource is one graphics worth of geometry plus the index entry
// fields it is listed under.
type resource struct {
	entryType  string
	groupName  string
	regionPath string
	geometry   geometry
}

// lineVertices samples the elements at the given tessellation at
// normalized time t and flattens the points.
func lineVertices(lines []*sceneport.Element, divisions int, t float64) []float64 {
	var vertices []float64
	for _, el := range lines {
		for i := 0; i <= divisions; i++ {
			xi := float64(i) / float64(divisions)
			coords, err := sceneport.EvaluateCoordinatesAtTime(el, xi, t)
			if err != nil {
				continue
			}

			vertices = append(vertices, coords...)
		}
	}

	return vertices
}

// surfaceGeometry indexes the distinct corner nodes and emits triangle
// faces; quads split along the 0-2 diagonal.
func surfaceGeometry(surfaces []*sceneport.Element) ([]float64, []int) {
	var vertices []float64
	var faces []int
	vertexIndex := make(map[int]int)

	indexOf := func(n *sceneport.Node) int {
		if idx, ok := vertexIndex[n.Identifier()]; ok {
			return idx
		}

		idx := len(vertexIndex)
		vertexIndex[n.Identifier()] = idx
		vertices = append(vertices, n.Coordinates()...)

		return idx
	}

	for _, el := range surfaces {
		nodes := el.Nodes()
		switch el.Shape() {
		case sceneport.ShapeTriangle:
			faces = append(faces, 0, indexOf(nodes[0]), indexOf(nodes[1]), indexOf(nodes[2]))
		case sceneport.ShapeQuad:
			faces = append(faces, 0, indexOf(nodes[0]), indexOf(nodes[1]), indexOf(nodes[2]))
			faces = append(faces, 0, indexOf(nodes[0]), indexOf(nodes[2]), indexOf(nodes[3]))
		}
	}

	return vertices, faces
}

// collectResources walks the region tree and builds one resource per
// graphics: grouped and ungrouped lines, grouped and ungrouped
// surfaces, and marker points.
func collectResources(
	root *sceneport.Region,
	filter *sceneport.Filter,
	divisions int,
	tr *export.TimeRange,
) []resource {
	var resources []resource

	root.Walk(func(r *sceneport.Region) bool {
		grouped := make(map[int]bool)
		for _, g := range r.Groups() {
			if !filter.Match(g.Name()) {
				continue
			}

			if res, ok := buildLineResource(g.LineElements(), g.Name(), r.Path(), divisions, tr); ok {
				resources = append(resources, res)
			}

			if res, ok := buildSurfaceResource(g.SurfaceElements(), g.Name(), r.Path(), tr); ok {
				resources = append(resources, res)
			}

			for _, el := range g.Elements() {
				grouped[el.Identifier()] = true
			}
		}

		var freeLines, freeSurfaces []*sceneport.Element
		r.Mesh().ForEachElement(func(el *sceneport.Element) bool {
			if grouped[el.Identifier()] {
				return true
			}

			if el.IsLine() {
				freeLines = append(freeLines, el)
			} else if el.IsSurface() {
				freeSurfaces = append(freeSurfaces, el)
			}

			return true
		})

		if res, ok := buildLineResource(freeLines, "", r.Path(), divisions, tr); ok {
			resources = append(resources, res)
		}

		if res, ok := buildSurfaceResource(freeSurfaces, "", r.Path(), tr); ok {
			resources = append(resources, res)
		}

		if res, ok := buildPointsResource(r.Markers(), r.Path()); ok {
			resources = append(resources, res)
		}

		return true
	})

	return resources
}

func buildLineResource(
	lines []*sceneport.Element,
	groupName, regionPath string,
	divisions int,
	tr *export.TimeRange,
) (resource, bool) {
	if len(lines) == 0 {
		return resource{}, false
	}

	g := newGeometry()
	g.Vertices = lineVertices(lines, divisions, 0)

	if tr != nil && anyTimeVarying(lines) {
		g.MorphTargets = lineMorphTargets(lines, divisions, tr.Steps)
	}

	return resource{
		entryType:  "Lines",
		groupName:  groupName,
		regionPath: regionPath,
		geometry:   g,
	}, true
}

func lineMorphTargets(lines []*sceneport.Element, divisions, steps int) []morphTarget {
	if steps < 2 {
		steps = 2
	}

	targets := make([]morphTarget, 0, steps)
	for k := 0; k < steps; k++ {
		t := float64(k) / float64(steps-1)
		targets = append(targets, morphTarget{
			Name:     morphName(k),
			Vertices: lineVertices(lines, divisions, t),
		})
	}

	return targets
}

func buildSurfaceResource(
	surfaces []*sceneport.Element,
	groupName, regionPath string,
	tr *export.TimeRange,
) (resource, bool) {
	if len(surfaces) == 0 {
		return resource{}, false
	}

	g := newGeometry()
	g.Vertices, g.Faces = surfaceGeometry(surfaces)

	return resource{
		entryType:  "Surfaces",
		groupName:  groupName,
		regionPath: regionPath,
		geometry:   g,
	}, true
}

func buildPointsResource(markers []*sceneport.Marker, regionPath string) (resource, bool) {
	if len(markers) == 0 {
		return resource{}, false
	}

	g := newGeometry()
	for _, mk := range markers {
		g.Vertices = append(g.Vertices, mk.Coordinates()...)
	}

	return resource{
		entryType:  "Points",
		regionPath: regionPath,
		geometry:   g,
	}, true
}

func morphName(k int) string {
	return fmt.Sprintf("morph_%d", k)
}

func anyTimeVarying(elements []*sceneport.Element) bool {
	for _, el := range elements {
		for i := 0; i <= 1; i++ {
			at0, err0 := sceneport.EvaluateCoordinatesAtTime(el, float64(i), 0)
			at1, err1 := sceneport.EvaluateCoordinatesAtTime(el, float64(i), 1)
			if err0 != nil || err1 != nil {
				continue
			}

			for c := range at0 {
				if at0[c] != at1[c] {
					return true
				}
			}
		}
	}

	return false
}
