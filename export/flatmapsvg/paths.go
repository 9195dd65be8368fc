package flatmapsvg

import (
	"fmt"
	"strings"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/internal/geom"
)

const groupLabelPrefix = "group_"
const featureIDPrefix = "nerve_feature_"

// keyScale truncates curve endpoint coordinates into integer keys so
// that segments sharing an endpoint can be recognised.
const keyScale = 1e12

// sample is the coordinates and d/dxi of one element end.
type sample struct {
	value      []float64
	derivative []float64
}

// curveSample pairs the two end samples of a line element.
type curveSample [2]sample

// pathBucket gathers the sampled curves of one display bucket: a named
// group or the shared ungrouped bucket (empty name).
type pathBucket struct {
	label   string
	svgID   string
	name    string
	curves  []curveSample
	beziers []bezierCurve
}

func (pb *pathBucket) grouped() bool {
	return pb.name != ""
}

func featureID(label string) string {
	return strings.Replace(label, groupLabelPrefix, featureIDPrefix, 1)
}

func groupLabel(index, digits int) string {
	return fmt.Sprintf("%s%0*d", groupLabelPrefix, digits, index+1)
}

// analyzeRegion samples every line element of the region at its ends
// and buckets the samples by group membership. The ungrouped bucket is
// always first, matching the emitted path order.
func analyzeRegion(region *sceneport.Region, filter *sceneport.Filter) []*pathBucket {
	ungrouped := &pathBucket{}
	buckets := []*pathBucket{ungrouped}

	groups := region.Groups()
	digits := len(fmt.Sprintf("%d", len(groups)))

	var kept []*sceneport.Group
	for i, g := range groups {
		if !filter.Match(g.Name()) {
			continue
		}

		label := groupLabel(i, digits)
		buckets = append(buckets, &pathBucket{
			label: label,
			svgID: featureID(label),
			name:  g.Name(),
		})
		kept = append(kept, g)
	}

	for _, el := range region.Mesh().LineElements() {
		cs, ok := sampleElement(el)
		if !ok {
			continue
		}

		inGroup := false
		for i, g := range kept {
			if g.ContainsElement(el) {
				buckets[i+1].curves = append(buckets[i+1].curves, cs)
				inGroup = true
			}
		}

		if !inGroup {
			ungrouped.curves = append(ungrouped.curves, cs)
		}
	}

	return buckets
}

func sampleElement(el *sceneport.Element) (curveSample, bool) {
	v1, err1 := sceneport.EvaluateCoordinates(el, 0)
	v2, err2 := sceneport.EvaluateCoordinates(el, 1)
	d1, err3 := sceneport.EvaluateDerivative(el, 0)
	d2, err4 := sceneport.EvaluateDerivative(el, 1)

	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return curveSample{}, false
	}

	if len(v1) < 2 || len(v2) < 2 {
		return curveSample{}, false
	}

	return curveSample{
		{value: v1, derivative: d1},
		{value: v2, derivative: d2},
	}, true
}

// bezierCurve is a planar cubic: four xy control points.
type bezierCurve [4][2]float64

// toBezier converts the Hermite end samples into Bezier control points
// in the xy plane.
func toBezier(cs curveSample) bezierCurve {
	h0 := cs[0].value[:2]
	v0 := cs[0].derivative[:2]
	h1 := cs[1].value[:2]
	v1 := cs[1].derivative[:2]

	b0 := h0
	b1 := geom.Add(h0, geom.Div(v0, 3))
	b2 := geom.Sub(h1, geom.Div(v1, 3))
	b3 := h1

	return bezierCurve{
		{b0[0], b0[1]},
		{b1[0], b1[1]},
		{b2[0], b2[1]},
		{b3[0], b3[1]},
	}
}

func fillBeziers(buckets []*pathBucket) {
	for _, pb := range buckets {
		for _, cs := range pb.curves {
			pb.beziers = append(pb.beziers, toBezier(cs))
		}
	}
}

type pointKey struct {
	x, y int64
}

func coordKey(pt [2]float64) pointKey {
	return pointKey{x: int64(pt[0] * keyScale), y: int64(pt[1] * keyScale)}
}

// connectedSegments chains curves whose end point coincides with
// another curve's start point. Chains begin at the union-find root of
// each connected set and follow forward; a chain that arrives back at
// its own key stops rather than looping.
func connectedSegments(curves []bezierCurve) [][]bezierCurve {
	if len(curves) == 0 {
		return nil
	}

	begin := make(map[pointKey]int, len(curves))
	for i, c := range curves {
		begin[coordKey(c[0])] = i
	}

	uf := newUnionFind(len(curves))
	for i, c := range curves {
		if j, ok := begin[coordKey(c[3])]; ok {
			uf.union(j, i)
		}
	}

	var roots []int
	seen := make(map[int]bool, len(curves))
	for i := range curves {
		root := uf.find(i)
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}

	segments := make([][]bezierCurve, 0, len(roots))
	for _, s := range roots {
		seg := []bezierCurve{curves[s]}
		key := coordKey(curves[s][3])
		for steps := 0; steps < len(curves); steps++ {
			next, ok := begin[key]
			if !ok {
				break
			}

			seg = append(seg, curves[next])
			oldKey := key
			key = coordKey(curves[next][3])
			if oldKey == key {
				// degenerate span looping onto itself
				break
			}
		}

		segments = append(segments, seg)
	}

	return segments
}
