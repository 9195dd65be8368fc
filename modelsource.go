package sceneport

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var ErrSourceFileReadFailed = errors.New("source file read failed")
var ErrModelSourceInvalid = errors.New("model source is invalid")

// modelSource is the parsed, immutable form of a model source file.
// Instances are shared through the model cache, so they hold plain
// value specs; the mutable mesh objects are built per region in
// applyTo.
type modelSource struct {
	path     string
	size     int64
	modTime  time.Time
	nodes    []nodeSpec
	elements []elementSpec
	groups   []groupSpec
	markers  []markerSpec
}

type nodeSpec struct {
	id              int
	coordinates     []float64
	d1              []float64
	diameter        float64
	timeCoordinates [][]float64
}

type elementSpec struct {
	id    int
	shape ElementShape
	nodes []int
}

type groupSpec struct {
	name     string
	elements []int
}

type markerSpec struct {
	term        string
	name        string
	coordinates []float64
}

func parseModelSource(path string, raw []byte) (*modelSource, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.Wrapf(ErrModelSourceInvalid, "file %s is not valid json", path)
	}

	src := &modelSource{path: path, size: int64(len(raw))}

	for _, res := range gjson.GetBytes(raw, "nodes").Array() {
		idRes := res.Get("id")
		coords := floatSlice(res.Get("coordinates"))
		if !idRes.Exists() || len(coords) == 0 {
			return nil, errors.Wrapf(ErrModelSourceInvalid, "file %s: node requires id and coordinates", path)
		}

		spec := nodeSpec{
			id:          int(idRes.Int()),
			coordinates: coords,
			d1:          floatSlice(res.Get("d1")),
			diameter:    res.Get("diameter").Float(),
		}

		for _, frame := range res.Get("coordinates_t").Array() {
			spec.timeCoordinates = append(spec.timeCoordinates, floatSlice(frame))
		}

		src.nodes = append(src.nodes, spec)
	}

	for _, res := range gjson.GetBytes(raw, "elements").Array() {
		idRes := res.Get("id")
		shape := ElementShape(res.Get("shape").String())
		if !idRes.Exists() {
			return nil, errors.Wrapf(ErrModelSourceInvalid, "file %s: element requires an id", path)
		}

		var nodeIDs []int
		for _, n := range res.Get("nodes").Array() {
			nodeIDs = append(nodeIDs, int(n.Int()))
		}

		if shape.nodeCount() == 0 {
			return nil, errors.Wrapf(ErrInvalidElementShape, "file %s: element %d shape %q", path, idRes.Int(), shape)
		}

		if len(nodeIDs) != shape.nodeCount() {
			return nil, errors.Wrapf(
				ErrModelSourceInvalid,
				"file %s: element %d needs %d nodes for shape %q, got %d",
				path, idRes.Int(), shape.nodeCount(), shape, len(nodeIDs),
			)
		}

		src.elements = append(src.elements, elementSpec{
			id:    int(idRes.Int()),
			shape: shape,
			nodes: nodeIDs,
		})
	}

	for _, res := range gjson.GetBytes(raw, "groups").Array() {
		name := res.Get("name").String()
		if name == "" {
			return nil, errors.Wrapf(ErrModelSourceInvalid, "file %s: group requires a name", path)
		}

		var elementIDs []int
		for _, e := range res.Get("elements").Array() {
			elementIDs = append(elementIDs, int(e.Int()))
		}

		src.groups = append(src.groups, groupSpec{name: name, elements: elementIDs})
	}

	for _, res := range gjson.GetBytes(raw, "markers").Array() {
		src.markers = append(src.markers, markerSpec{
			term:        res.Get("id").String(),
			name:        res.Get("name").String(),
			coordinates: floatSlice(res.Get("coordinates")),
		})
	}

	return src, nil
}

// applyTo materializes the source into a region: fresh nodes and
// elements so callers may not corrupt cached state.
func (src *modelSource) applyTo(r *Region) error {
	for _, spec := range src.nodes {
		n := &Node{
			id:              spec.id,
			coordinates:     spec.coordinates,
			d1:              spec.d1,
			diameter:        spec.diameter,
			timeCoordinates: spec.timeCoordinates,
		}

		if err := r.mesh.addNode(n); err != nil {
			return errors.Wrapf(err, "source %s", src.path)
		}
	}

	for _, spec := range src.elements {
		el := &Element{id: spec.id, shape: spec.shape}
		for _, nodeID := range spec.nodes {
			n, err := r.mesh.FindNode(nodeID)
			if err != nil {
				return errors.Wrapf(err, "source %s: element %d", src.path, spec.id)
			}

			el.nodes = append(el.nodes, n)
		}

		if err := r.mesh.addElement(el); err != nil {
			return errors.Wrapf(err, "source %s", src.path)
		}
	}

	for _, spec := range src.groups {
		g := r.FindGroup(spec.name)
		if g == nil {
			g = newGroup(spec.name)
			r.groups = append(r.groups, g)
		}

		for _, elementID := range spec.elements {
			el, err := r.mesh.FindElement(elementID)
			if err != nil {
				return errors.Wrapf(err, "source %s: group %s", src.path, spec.name)
			}

			g.add(el)
		}
	}

	for _, spec := range src.markers {
		r.markers = append(r.markers, &Marker{
			term:        spec.term,
			name:        spec.name,
			coordinates: spec.coordinates,
		})
	}

	return nil
}
