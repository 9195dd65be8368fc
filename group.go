package sceneport

// probable marker group names, matched case-insensitively nowhere -
// the model format is already lower case.
var markerGroupNames = map[string]bool{
	"marker":  true,
	"markers": true,
}

// Group is a named, ordered element set within a region. Order follows
// the model source declaration.
type Group struct {
	name     string
	elements []*Element
	members  map[int]bool
}

func newGroup(name string) *Group {
	return &Group{
		name:    name,
		members: make(map[int]bool),
	}
}

func (g *Group) Name() string {
	return g.name
}

func (g *Group) add(el *Element) {
	if g.members[el.id] {
		return
	}

	g.members[el.id] = true
	g.elements = append(g.elements, el)
}

func (g *Group) ContainsElement(el *Element) bool {
	return el != nil && g.members[el.id]
}

func (g *Group) Elements() []*Element {
	return g.elements
}

func (g *Group) LineElements() []*Element {
	var lines []*Element
	for _, el := range g.elements {
		if el.IsLine() {
			lines = append(lines, el)
		}
	}

	return lines
}

func (g *Group) SurfaceElements() []*Element {
	var surfaces []*Element
	for _, el := range g.elements {
		if el.IsSurface() {
			surfaces = append(surfaces, el)
		}
	}

	return surfaces
}

// IsMarkerGroup reports whether the group holds marker datapoints
// rather than path geometry.
func (g *Group) IsMarkerGroup() bool {
	return markerGroupNames[g.name]
}
