package sceneport

// Region is one node of the document region tree. Each region owns a
// mesh built from its model sources, the groups declared over that
// mesh, and any marker datapoints.
type Region struct {
	name        string
	parent      *Region
	children    []*Region
	mesh        *Mesh
	groups      []*Group
	markers     []*Marker
	sourcePaths []string
}

func newRegion(name string, parent *Region) *Region {
	r := &Region{
		name:   name,
		parent: parent,
		mesh:   newMesh(),
	}

	if parent != nil {
		parent.children = append(parent.children, r)
	}

	return r
}

func (r *Region) Name() string {
	return r.name
}

func (r *Region) Parent() *Region {
	return r.parent
}

// Path is the slash separated path from the root region, "/" for the
// root itself.
func (r *Region) Path() string {
	if r.parent == nil {
		return "/"
	}

	parentPath := r.parent.Path()
	if parentPath == "/" {
		return "/" + r.name
	}

	return parentPath + "/" + r.name
}

func (r *Region) Children() []*Region {
	return r.children
}

func (r *Region) FindChild(name string) *Region {
	for _, c := range r.children {
		if c.name == name {
			return c
		}
	}

	return nil
}

func (r *Region) Mesh() *Mesh {
	return r.mesh
}

// Groups returns the non marker groups in declaration order.
func (r *Region) Groups() []*Group {
	var groups []*Group
	for _, g := range r.groups {
		if !g.IsMarkerGroup() {
			groups = append(groups, g)
		}
	}

	return groups
}

func (r *Region) FindGroup(name string) *Group {
	for _, g := range r.groups {
		if g.name == name {
			return g
		}
	}

	return nil
}

func (r *Region) Markers() []*Marker {
	return r.markers
}

// Walk visits the region and its descendants depth first until the
// visitor returns false.
func (r *Region) Walk(visit func(*Region) bool) bool {
	if !visit(r) {
		return false
	}

	for _, c := range r.children {
		if !c.Walk(visit) {
			return false
		}
	}

	return true
}

// SourcePaths collects the model source files of the region subtree,
// used to drive file watching.
func (r *Region) SourcePaths() []string {
	var paths []string
	r.Walk(func(sub *Region) bool {
		paths = append(paths, sub.sourcePaths...)
		return true
	})

	return paths
}
